package serial

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"go.uber.org/atomic"
	"golang.org/x/sys/unix"
)

const (
	// pollSlice is the granularity of a single bounded read. The
	// device is configured with VTIME=1 (one decisecond), so a read
	// on an idle line returns after at most this long.
	pollSlice = 100 * time.Millisecond

	pollSliceDeciseconds = 1
)

// Port is an exclusive handle to one open, configured serial device.
// It is driven by a single synchronous caller; operations on a port
// are strictly sequential.
type Port struct {
	tr  transport
	cfg Config
	log zerolog.Logger

	isOpen  atomic.Bool
	metrics *Metrics
	pool    *BufferPool
}

// Open opens and raw-configures the device described by cfg and
// returns the handle. The port is never observable in a partially
// configured state: any attribute failure closes the descriptor and
// yields no handle. Data already queued by the OS is left in place;
// callers that want a known-empty line must Flush explicitly.
func Open(cfg Config) (*Port, error) {
	cfg = cfg.withDefaults()
	if err := ValidateConfig(&cfg); err != nil {
		return nil, err
	}

	speed, err := BaudRate(cfg.BaudRate).bits()
	if err != nil {
		return nil, err
	}

	fd, err := unix.Open(cfg.Device, unix.O_RDWR|unix.O_NOCTTY|unix.O_NONBLOCK, 0)
	if err != nil {
		return nil, fmt.Errorf("%w: opening %s: %w", ErrOpenFailed, cfg.Device, err)
	}

	if err := configureRaw(fd, speed, cfg); err != nil {
		_ = unix.Close(fd)
		return nil, err
	}

	// Config is done; reads from here on are bounded by VMIN/VTIME,
	// not by O_NONBLOCK.
	if err := unix.SetNonblock(fd, false); err != nil {
		_ = unix.Close(fd)
		return nil, fmt.Errorf("%w: clearing O_NONBLOCK on %s: %w", ErrConfigFailed, cfg.Device, err)
	}

	p := newPort(&fdTransport{fd: fd}, cfg)
	p.metrics.Opens.Inc()
	p.log.Debug().
		Str("device", cfg.Device).
		Int("baud", cfg.BaudRate).
		Msg("port opened")
	return p, nil
}

// newPort constructs a Port around an existing transport.
func newPort(tr transport, cfg Config) *Port {
	cfg = cfg.withDefaults()
	p := &Port{
		tr:      tr,
		cfg:     cfg,
		log:     cfg.logger(),
		metrics: &Metrics{},
		pool:    NewBufferPool(lineScratchSize),
	}
	p.isOpen.Store(true)
	return p
}

// configureRaw puts the line discipline into raw mode: no canonical
// line editing, echo, signal generation or CR/NL translation, with
// the requested framing and an exact baud rate. VMIN=0/VTIME=1 makes
// every read return as soon as one byte is available, or after one
// poll slice on an idle line.
func configureRaw(fd int, speed uint32, cfg Config) error {
	tio, err := unix.IoctlGetTermios(fd, unix.TCGETS)
	if err != nil {
		return fmt.Errorf("%w: reading attributes of %s: %w", ErrConfigFailed, cfg.Device, err)
	}

	tio.Iflag &^= unix.IGNBRK | unix.BRKINT | unix.PARMRK | unix.ISTRIP |
		unix.INLCR | unix.IGNCR | unix.ICRNL | unix.IXON | unix.IXOFF
	tio.Oflag &^= unix.OPOST
	tio.Lflag &^= unix.ECHO | unix.ECHONL | unix.ICANON | unix.ISIG | unix.IEXTEN

	tio.Cflag &^= unix.CSIZE | unix.PARENB | unix.PARODD | unix.CSTOPB | unix.CRTSCTS
	tio.Cflag |= unix.CLOCAL | unix.CREAD
	tio.Cflag |= cfg.DataBits.bits() | cfg.Parity.bits() | cfg.StopBits.bits()

	tio.Cflag &^= unix.CBAUD
	tio.Cflag |= speed
	tio.Ispeed = speed
	tio.Ospeed = speed

	tio.Cc[unix.VMIN] = 0
	tio.Cc[unix.VTIME] = pollSliceDeciseconds

	if err := unix.IoctlSetTermios(fd, unix.TCSETS, tio); err != nil {
		return fmt.Errorf("%w: applying attributes to %s: %w", ErrConfigFailed, cfg.Device, err)
	}
	return nil
}

// Config returns the configuration the port was opened with, after
// defaulting.
func (p *Port) Config() Config {
	return p.cfg
}

// Metrics returns a snapshot of the port's operation counters.
func (p *Port) Metrics() MetricsSnapshot {
	return p.metrics.Snapshot()
}

// Close flushes both queues and closes the descriptor. It is safe to
// call multiple times; only the first call does any work.
func (p *Port) Close() error {
	if !p.isOpen.CompareAndSwap(true, false) {
		return nil
	}
	// Discard queued bytes before closing so a stale handle never
	// leaves crossed data for the next open of the same device.
	_ = p.tr.Flush(unix.TCIOFLUSH)
	p.metrics.Closes.Inc()
	if err := p.tr.Close(); err != nil {
		return fmt.Errorf("serial: closing %s: %w", p.cfg.Device, err)
	}
	p.log.Debug().Str("device", p.cfg.Device).Msg("port closed")
	return nil
}
