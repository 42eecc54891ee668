package serial

import "golang.org/x/sys/unix"

type StopBits int

const (
	// StopBits1 represents 1 stop bit
	StopBits1 StopBits = 1
	// StopBits2 represents 2 stop bits
	StopBits2 StopBits = 2
)

func (sb StopBits) bits() uint32 {
	if sb == StopBits2 {
		return unix.CSTOPB
	}
	return 0
}
