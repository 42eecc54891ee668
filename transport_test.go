package serial

import (
	"bytes"
	"sync"
	"time"
)

// fakeTransport simulates a raw-mode descriptor for tests: reads
// serve queued bytes immediately and otherwise burn one simulated
// poll slice, the way VMIN=0/VTIME=1 behaves on an idle line.
type fakeTransport struct {
	mu sync.Mutex

	pending []byte
	readErr error         // reported once pending is exhausted
	delay   time.Duration // latency before a queued byte is served
	slice   time.Duration
	reads   int

	writeCap     int // max bytes accepted per Write, 0 means all
	writeErr     error
	rejectWrites bool // accept zero bytes without error
	written      bytes.Buffer

	drains  int
	flushes []int
	closed  bool
}

func newFakeTransport(data string) *fakeTransport {
	return &fakeTransport{
		pending: []byte(data),
		slice:   time.Millisecond,
	}
}

func (f *fakeTransport) Read(p []byte) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reads++
	if len(f.pending) == 0 {
		if f.readErr != nil {
			return 0, f.readErr
		}
		time.Sleep(f.slice)
		return 0, nil
	}
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	n := copy(p, f.pending)
	f.pending = f.pending[n:]
	return n, nil
}

func (f *fakeTransport) Write(p []byte) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.writeErr != nil {
		return 0, f.writeErr
	}
	if f.rejectWrites {
		return 0, nil
	}
	n := len(p)
	if f.writeCap > 0 && n > f.writeCap {
		n = f.writeCap
	}
	f.written.Write(p[:n])
	return n, nil
}

func (f *fakeTransport) Drain() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.drains++
	return nil
}

func (f *fakeTransport) Flush(queue int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.flushes = append(f.flushes, queue)
	return nil
}

func (f *fakeTransport) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

// fakePort builds a Port over a fakeTransport preloaded with data.
func fakePort(data string) (*Port, *fakeTransport) {
	tr := newFakeTransport(data)
	return newPort(tr, Config{Device: "/dev/fake0", BaudRate: 9600}), tr
}
