package serial

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"golang.org/x/sys/unix"
)

const (
	// DefaultDrainEvery is the relay's pacing interval: after this
	// many bytes the port and the echo stream are drained so the
	// sender cannot race ahead of a slow receiver.
	DefaultDrainEvery = 60

	// DefaultByteTimeout bounds a single source read during a relay.
	// For a local file it is a generous safety net against a stuck
	// disk, not a real transport constraint.
	DefaultByteTimeout = 10 * time.Second
)

// ByteSource produces one byte per call under a timeout budget,
// classifying each read with an explicit ReadOutcome. *Port satisfies
// it, as does FileSource for local files.
type ByteSource interface {
	ReadByte(timeout time.Duration) (byte, ReadOutcome, error)
}

// FileSource adapts a local byte stream to the ByteSource contract.
// End of input is reported as the distinct ReadEOF tag, never folded
// into the error return.
type FileSource struct {
	r *bufio.Reader
}

// NewFileSource wraps r for byte-at-a-time reading.
func NewFileSource(r io.Reader) *FileSource {
	return &FileSource{r: bufio.NewReader(r)}
}

// ReadByte reads the next byte. Local reads either complete or fail;
// the budget exists only to honor the ByteSource contract.
func (s *FileSource) ReadByte(_ time.Duration) (byte, ReadOutcome, error) {
	b, err := s.r.ReadByte()
	switch {
	case err == nil:
		return b, ReadData, nil
	case errors.Is(err, io.EOF):
		return 0, ReadEOF, nil
	default:
		return 0, ReadError, err
	}
}

// StreamOptions tunes a relay. The zero value is usable.
type StreamOptions struct {
	// ByteTimeout bounds each source read. Zero means
	// DefaultByteTimeout for Stream; Capture falls back to the
	// source port's configured ReadTimeout instead.
	ByteTimeout time.Duration

	// DrainEvery is the pacing interval in bytes. Zero means
	// DefaultDrainEvery.
	DrainEvery int

	// Echo, if non-nil, receives a copy of every relayed byte and is
	// drained on the same pacing interval so the visible echo stays
	// synchronized with the physical transfer.
	Echo *os.File
}

func (o StreamOptions) withDefaults() StreamOptions {
	if o.ByteTimeout <= 0 {
		o.ByteTimeout = DefaultByteTimeout
	}
	if o.DrainEvery <= 0 {
		o.DrainEvery = DefaultDrainEvery
	}
	return o
}

// StreamStats reports what a relay actually moved.
type StreamStats struct {
	Bytes  int64 // Bytes relayed in order
	Drains int64 // Pacing drains performed
	EOF    bool  // Whether the source reported end-of-file
}

// Stream relays src to dst one byte at a time. Every DrainEvery bytes
// both the port and the echo stream are drained to bound buffering.
// The relay stops cleanly on ReadEOF after one final drain and flush;
// a source timeout or failure stops it without retry.
func Stream(src ByteSource, dst *Port, opts StreamOptions) (StreamStats, error) {
	opts = opts.withDefaults()
	var st StreamStats

	for {
		b, outcome, err := src.ReadByte(opts.ByteTimeout)
		switch outcome {
		case ReadEOF:
			st.EOF = true
			if err := dst.Drain(); err != nil {
				return st, err
			}
			if err := dst.Flush(); err != nil {
				return st, err
			}
			return st, nil

		case ReadTimeout:
			return st, fmt.Errorf("%w: no byte within %s", ErrSourceStalled, opts.ByteTimeout)

		case ReadError:
			return st, fmt.Errorf("serial: stream source: %w", err)

		case ReadData:
			if err := dst.WriteByte(b); err != nil {
				return st, err
			}
			echoByte(opts.Echo, b)
			st.Bytes++
			if st.Bytes%int64(opts.DrainEvery) == 0 {
				if err := dst.Drain(); err != nil {
					return st, err
				}
				drainEcho(opts.Echo)
				st.Drains++
			}
		}
	}
}

// Capture relays port bytes to a local file until the line goes
// quiet: the first per-byte timeout ends the capture cleanly. The
// same pacing interval applies, with the destination synced in place
// of a port drain.
func Capture(src *Port, dst *os.File, opts StreamOptions) (StreamStats, error) {
	// The source is always a port here, so an unset per-byte timeout
	// falls back to the port's configured read budget.
	if opts.ByteTimeout <= 0 {
		opts.ByteTimeout = src.cfg.ReadTimeout
	}
	opts = opts.withDefaults()
	var st StreamStats

	for {
		b, outcome, err := src.ReadByte(opts.ByteTimeout)
		switch outcome {
		case ReadTimeout:
			_ = dst.Sync()
			return st, nil

		case ReadEOF:
			st.EOF = true
			_ = dst.Sync()
			return st, nil

		case ReadError:
			return st, err

		case ReadData:
			if _, err := dst.Write([]byte{b}); err != nil {
				return st, fmt.Errorf("serial: capture write: %w", err)
			}
			echoByte(opts.Echo, b)
			st.Bytes++
			if st.Bytes%int64(opts.DrainEvery) == 0 {
				_ = dst.Sync()
				drainEcho(opts.Echo)
				st.Drains++
			}
		}
	}
}

func echoByte(f *os.File, b byte) {
	if f == nil {
		return
	}
	_, _ = f.Write([]byte{b})
}

// drainEcho waits for the echo stream to reach its device. Terminals
// get a real tcdrain; regular files and pipes fall back to Sync.
// Failures are ignored: the echo is cosmetic.
func drainEcho(f *os.File) {
	if f == nil {
		return
	}
	if err := drainFd(int(f.Fd())); err != nil {
		if errors.Is(err, unix.ENOTTY) || errors.Is(err, unix.EINVAL) {
			_ = f.Sync()
		}
	}
}
