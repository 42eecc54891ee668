package serial

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// Write blocks until the entire buffer is accepted into the OS send
// queue, retrying short writes, or until an error occurs. It returns
// the number of bytes actually queued. Acceptance into the queue is
// not transmission; pair with Drain when pacing matters.
func (p *Port) Write(b []byte) (int, error) {
	if !p.isOpen.Load() {
		return 0, ErrPortNotOpen
	}
	if len(b) == 0 {
		return 0, nil
	}
	p.metrics.WriteOperations.Inc()

	written := 0
	for written < len(b) {
		n, err := p.tr.Write(b[written:])
		if err != nil {
			p.metrics.WriteErrors.Inc()
			return written, fmt.Errorf("serial: write %s: %w", p.cfg.Device, err)
		}
		if n == 0 {
			p.metrics.WriteErrors.Inc()
			return written, ErrPartialWrite
		}
		written += n
	}
	p.metrics.BytesWritten.Add(int64(written))
	return written, nil
}

// WriteString writes s in full.
func (p *Port) WriteString(s string) (int, error) {
	return p.Write([]byte(s))
}

// WriteByte writes a single byte.
func (p *Port) WriteByte(b byte) error {
	_, err := p.Write([]byte{b})
	return err
}

// Drain blocks until the OS reports all queued output physically
// transmitted. Use it to keep a sender from racing ahead of a slow
// receiver and before switching transmit/receive direction.
func (p *Port) Drain() error {
	if !p.isOpen.Load() {
		return ErrPortNotOpen
	}
	p.metrics.Drains.Inc()
	if err := p.tr.Drain(); err != nil {
		return fmt.Errorf("serial: drain %s: %w", p.cfg.Device, err)
	}
	return nil
}

// Flush discards both pending input and pending output at the OS
// level, uninspected. It establishes a known-empty state before a
// request/response exchange, compensating for boot-time noise from
// freshly reset devices.
func (p *Port) Flush() error {
	return p.flush(unix.TCIOFLUSH)
}

// FlushInput discards pending input only.
func (p *Port) FlushInput() error {
	return p.flush(unix.TCIFLUSH)
}

// FlushOutput discards pending output only.
func (p *Port) FlushOutput() error {
	return p.flush(unix.TCOFLUSH)
}

func (p *Port) flush(queue int) error {
	if !p.isOpen.Load() {
		return ErrPortNotOpen
	}
	p.metrics.Flushes.Inc()
	if err := p.tr.Flush(queue); err != nil {
		return fmt.Errorf("serial: flush %s: %w", p.cfg.Device, err)
	}
	return nil
}
