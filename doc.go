// Package serial provides synchronous, timeout-bounded access to
// POSIX raw-mode serial devices on Linux.
//
// A Port is opened and configured once, then driven by a single
// caller: timeout-bounded single-byte reads, line assembly against an
// end-of-line sentinel, full-buffer writes, drain (wait until
// transmitted) and flush (discard queued bytes). A byte-stream relay
// built on the same primitives moves data between a local file and
// the port, pacing the transfer with periodic drains.
//
// Reads never block indefinitely: the device is configured with a
// short fixed poll slice, and every read operation carries an
// explicit budget. A budget that expires without data is reported as
// ReadTimeout, which is an expected outcome, not an error; transport
// failures are always distinguishable from a quiet line.
//
// Example usage:
//
//	port, err := serial.Open(serial.Config{
//	    Device:   "/dev/ttyUSB0",
//	    BaudRate: 9600,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer port.Close()
//
//	if _, err := port.WriteString("hello\n"); err != nil {
//	    log.Fatal(err)
//	}
//	if err := port.Drain(); err != nil {
//	    log.Fatal(err)
//	}
//
//	line, complete, err := port.ReadLine('\n', 256, 5*time.Second)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("received %q (complete=%v)\n", line, complete)
//
// This package does not support Windows.
package serial
