package serial

import "errors"

var (
	// ErrPortNotOpen is returned by every operation on a closed or
	// never-opened handle.
	ErrPortNotOpen = errors.New("serial: port not open")

	// ErrUnsupportedBaudRate is returned when the requested rate is
	// not in the enumerated set of standard rates. Rates are never
	// rounded to a nearby divisor.
	ErrUnsupportedBaudRate = errors.New("serial: unsupported baud rate")

	// ErrOpenFailed wraps failures to open the device node itself.
	ErrOpenFailed = errors.New("serial: open failed")

	// ErrConfigFailed wraps failures to read or apply terminal
	// attributes on an otherwise openable device.
	ErrConfigFailed = errors.New("serial: configuration failed")

	// ErrPartialWrite is returned when the descriptor accepts zero
	// bytes without reporting an error, which would otherwise spin
	// the write loop forever.
	ErrPartialWrite = errors.New("serial: partial write: no progress")

	// ErrSourceStalled is returned by Stream when the byte source
	// exceeds its per-byte safety-net timeout.
	ErrSourceStalled = errors.New("serial: stream source stalled")
)
