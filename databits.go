package serial

import "golang.org/x/sys/unix"

type DataBits int

func (d DataBits) Int() int {
	return int(d)
}

const (
	DataBits5 DataBits = 5
	DataBits6 DataBits = 6
	DataBits7 DataBits = 7
	DataBits8 DataBits = 8
)

func (d DataBits) bits() uint32 {
	switch d {
	case DataBits5:
		return unix.CS5
	case DataBits6:
		return unix.CS6
	case DataBits7:
		return unix.CS7
	default:
		return unix.CS8
	}
}
