package serial

import "golang.org/x/sys/unix"

// transport is the narrow OS surface a Port drives. The production
// implementation wraps a configured terminal descriptor; tests
// substitute fakes to exercise the timeout engine without hardware.
type transport interface {
	// Read issues one bounded read: it returns as soon as at least
	// one byte is available, or with n == 0 after the device's poll
	// slice elapses.
	Read(p []byte) (int, error)
	Write(p []byte) (int, error)
	// Drain blocks until all queued output is physically transmitted.
	Drain() error
	// Flush discards queued bytes; queue is one of unix.TCIFLUSH,
	// unix.TCOFLUSH or unix.TCIOFLUSH.
	Flush(queue int) error
	Close() error
}

// fdTransport drives a raw-mode terminal file descriptor.
type fdTransport struct {
	fd int
}

func (t *fdTransport) Read(p []byte) (int, error) {
	for {
		n, err := unix.Read(t.fd, p)
		if err == unix.EINTR {
			continue
		}
		if n < 0 {
			n = 0
		}
		return n, err
	}
}

func (t *fdTransport) Write(p []byte) (int, error) {
	for {
		n, err := unix.Write(t.fd, p)
		if err == unix.EINTR {
			continue
		}
		if n < 0 {
			n = 0
		}
		return n, err
	}
}

// TCSBRK with a non-zero argument is the Linux spelling of tcdrain(3).
func (t *fdTransport) Drain() error {
	return drainFd(t.fd)
}

func (t *fdTransport) Flush(queue int) error {
	for {
		err := unix.IoctlSetInt(t.fd, unix.TCFLSH, queue)
		if err == unix.EINTR {
			continue
		}
		return err
	}
}

func (t *fdTransport) Close() error {
	return unix.Close(t.fd)
}

func drainFd(fd int) error {
	for {
		err := unix.IoctlSetInt(fd, unix.TCSBRK, 1)
		if err == unix.EINTR {
			continue
		}
		return err
	}
}
