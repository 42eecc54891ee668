package serial

import (
	"fmt"
	"time"
)

// ReadByte reads exactly one byte within the given budget. It issues
// poll-slice-bounded reads and subtracts elapsed time until a byte
// arrives, the budget is exhausted, or the OS reports a failure.
// Total wall-clock spent never exceeds the budget plus one poll
// slice. A negative timeout is clamped to zero; zero still performs
// one bounded read so a byte that is already queued is returned.
//
// The outcome is ReadData with the byte, ReadTimeout with no error,
// or ReadError with the wrapped OS error. Independent calls share no
// state.
func (p *Port) ReadByte(timeout time.Duration) (byte, ReadOutcome, error) {
	if !p.isOpen.Load() {
		return 0, ReadError, ErrPortNotOpen
	}
	if timeout < 0 {
		timeout = 0
	}
	p.metrics.ReadOperations.Inc()

	var buf [1]byte
	deadline := time.Now().Add(timeout)
	for {
		n, err := p.tr.Read(buf[:])
		if err != nil {
			p.metrics.ReadErrors.Inc()
			return 0, ReadError, fmt.Errorf("serial: read %s: %w", p.cfg.Device, err)
		}
		if n > 0 {
			p.metrics.BytesRead.Inc()
			return buf[0], ReadData, nil
		}
		if !time.Now().Before(deadline) {
			p.metrics.ReadTimeouts.Inc()
			return 0, ReadTimeout, nil
		}
	}
}

// ReadLine assembles one line from repeated byte reads. The timeout
// budget is shared across the whole line, not reset per byte.
// Assembly stops when the eol byte is read (excluded from the
// result), when maxLen-1 bytes have been collected, or when the
// budget runs out. The returned slice is caller-owned.
//
// complete is true only when the eol byte terminated the line. A
// timeout before any data yields a zero-length, non-error result;
// a timeout after partial data yields the partial line the same way.
// A transport error returns the bytes collected so far along with
// the error.
func (p *Port) ReadLine(eol byte, maxLen int, timeout time.Duration) ([]byte, bool, error) {
	if !p.isOpen.Load() {
		return nil, false, ErrPortNotOpen
	}
	if maxLen < 1 {
		maxLen = 1
	}

	limit := maxLen - 1
	scratch, release := p.pool.Scratch(limit)
	defer release()

	var complete bool
	n := 0
	deadline := time.Now().Add(timeout)
	for n < limit {
		remaining := time.Until(deadline)
		if remaining < 0 {
			remaining = 0
		}
		b, outcome, err := p.ReadByte(remaining)
		if outcome == ReadError {
			return copyOut(scratch[:n]), false, err
		}
		if outcome == ReadTimeout {
			break
		}
		if b == eol {
			complete = true
			break
		}
		scratch[n] = b
		n++

		// The byte above may have landed at or past the deadline;
		// re-check the clock, not the pre-read budget, before
		// polling again.
		if !time.Now().Before(deadline) {
			break
		}
	}

	return copyOut(scratch[:n]), complete, nil
}

// ReadByteDefault reads one byte under the port's configured
// ReadTimeout.
func (p *Port) ReadByteDefault() (byte, ReadOutcome, error) {
	return p.ReadByte(p.cfg.ReadTimeout)
}

// ReadLineDefault assembles a line using the port's configured EOL
// sentinel and ReadTimeout.
func (p *Port) ReadLineDefault(maxLen int) ([]byte, bool, error) {
	return p.ReadLine(*p.cfg.EOL, maxLen, p.cfg.ReadTimeout)
}

func copyOut(b []byte) []byte {
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
