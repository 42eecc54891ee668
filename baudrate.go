package serial

import (
	"fmt"

	"golang.org/x/sys/unix"
)

type BaudRate int

func (b BaudRate) Int() int {
	return int(b)
}

const (
	Baud1200   BaudRate = 1200
	Baud2400   BaudRate = 2400
	Baud4800   BaudRate = 4800
	Baud9600   BaudRate = 9600
	Baud19200  BaudRate = 19200
	Baud38400  BaudRate = 38400
	Baud57600  BaudRate = 57600
	Baud115200 BaudRate = 115200
	Baud230400 BaudRate = 230400
	Baud460800 BaudRate = 460800
	Baud921600 BaudRate = 921600
)

// baudBits maps each supported rate to its termios speed constant.
// The mapping is exact: a rate without an entry is rejected rather
// than rounded.
var baudBits = map[BaudRate]uint32{
	Baud1200:   unix.B1200,
	Baud2400:   unix.B2400,
	Baud4800:   unix.B4800,
	Baud9600:   unix.B9600,
	Baud19200:  unix.B19200,
	Baud38400:  unix.B38400,
	Baud57600:  unix.B57600,
	Baud115200: unix.B115200,
	Baud230400: unix.B230400,
	Baud460800: unix.B460800,
	Baud921600: unix.B921600,
}

func (b BaudRate) bits() (uint32, error) {
	v, ok := baudBits[b]
	if !ok {
		return 0, fmt.Errorf("%w: %d, must be one of %v", ErrUnsupportedBaudRate, b, SupportedBaudRates())
	}
	return v, nil
}

// SupportedBaudRates returns the enumerated set of accepted rates in
// ascending order.
func SupportedBaudRates() []int {
	return []int{1200, 2400, 4800, 9600, 19200, 38400, 57600, 115200, 230400, 460800, 921600}
}
