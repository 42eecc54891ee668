package serial

import "golang.org/x/sys/unix"

type Parity int

const (
	// ParityNone represents no parity bit
	ParityNone Parity = iota
	// ParityOdd represents odd parity bit
	ParityOdd
	// ParityEven represents even parity bit
	ParityEven
)

func (pa Parity) bits() uint32 {
	switch pa {
	case ParityOdd:
		return unix.PARENB | unix.PARODD
	case ParityEven:
		return unix.PARENB
	default:
		return 0
	}
}

func (pa Parity) String() string {
	switch pa {
	case ParityOdd:
		return "O"
	case ParityEven:
		return "E"
	default:
		return "N"
	}
}
