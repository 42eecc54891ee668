package serial

import (
	"time"

	"github.com/rs/zerolog"
)

const (
	// DefaultReadTimeout bounds read operations when the caller does
	// not pass an explicit budget.
	DefaultReadTimeout = 5 * time.Second

	// DefaultEOL is the line sentinel used when Config.EOL is zero.
	DefaultEOL byte = '\n'
)

// Config holds configuration for opening a serial port.
type Config struct {
	// Device is the path to the serial device node, e.g. /dev/ttyUSB0.
	Device string

	// BaudRate must match one of SupportedBaudRates exactly.
	BaudRate int

	// Framing. Zero values mean 8N1.
	DataBits DataBits
	Parity   Parity
	StopBits StopBits

	// EOL is the line sentinel used by ReadLineDefault. Nil selects
	// DefaultEOL; a pointer to zero frames lines on NUL.
	EOL *byte

	// ReadTimeout is the budget used by ReadByteDefault and
	// ReadLineDefault, and the Capture fallback when no per-byte
	// timeout is given. Negative values are clamped to zero; zero
	// means DefaultReadTimeout.
	ReadTimeout time.Duration

	// Logger receives per-operation debug events. Nil disables logging.
	Logger *zerolog.Logger
}

// withDefaults returns a copy with zero values filled in and the
// timeout clamped to non-negative.
func (c Config) withDefaults() Config {
	if c.DataBits == 0 {
		c.DataBits = DataBits8
	}
	if c.StopBits == 0 {
		c.StopBits = StopBits1
	}
	if c.EOL == nil {
		c.EOL = EOLByte(DefaultEOL)
	}
	if c.ReadTimeout == 0 {
		c.ReadTimeout = DefaultReadTimeout
	}
	if c.ReadTimeout < 0 {
		c.ReadTimeout = 0
	}
	return c
}

// EOLByte returns b in the form Config.EOL takes, so any sentinel
// value, NUL included, can be configured.
func EOLByte(b byte) *byte {
	return &b
}

func (c Config) logger() zerolog.Logger {
	if c.Logger == nil {
		return zerolog.Nop()
	}
	return *c.Logger
}
