package serial

import (
	"errors"
	"testing"
	"time"
)

func TestReadByteReturnsQueuedByte(t *testing.T) {
	p, _ := fakePort("\xa5")

	b, outcome, err := p.ReadByte(time.Second)
	if err != nil {
		t.Fatalf("ReadByte: %v", err)
	}
	if outcome != ReadData {
		t.Fatalf("outcome = %v, want %v", outcome, ReadData)
	}
	if b != 0xa5 {
		t.Fatalf("byte = %#x, want 0xa5", b)
	}
}

func TestReadByteZeroTimeoutIssuesOneRead(t *testing.T) {
	p, tr := fakePort("")
	tr.slice = 2 * time.Millisecond

	_, outcome, err := p.ReadByte(0)
	if err != nil {
		t.Fatalf("ReadByte: %v", err)
	}
	if outcome != ReadTimeout {
		t.Fatalf("outcome = %v, want %v", outcome, ReadTimeout)
	}
	if tr.reads != 1 {
		t.Fatalf("reads = %d, want 1", tr.reads)
	}
}

func TestReadByteBudgetNotExceeded(t *testing.T) {
	p, tr := fakePort("")
	tr.slice = 10 * time.Millisecond

	budget := 35 * time.Millisecond
	start := time.Now()
	_, outcome, err := p.ReadByte(budget)
	elapsed := time.Since(start)

	if err != nil {
		t.Fatalf("ReadByte: %v", err)
	}
	if outcome != ReadTimeout {
		t.Fatalf("outcome = %v, want %v", outcome, ReadTimeout)
	}
	if elapsed < budget {
		t.Fatalf("returned after %v, before the %v budget expired", elapsed, budget)
	}
	// May overshoot by at most one poll slice, plus scheduler slack.
	if limit := budget + tr.slice + 25*time.Millisecond; elapsed > limit {
		t.Fatalf("took %v, want at most %v", elapsed, limit)
	}
}

func TestReadByteWrapsTransportError(t *testing.T) {
	p, tr := fakePort("")
	boom := errors.New("device gone")
	tr.readErr = boom

	_, outcome, err := p.ReadByte(time.Second)
	if outcome != ReadError {
		t.Fatalf("outcome = %v, want %v", outcome, ReadError)
	}
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want wrapped %v", err, boom)
	}
}

func TestReadByteOnClosedPort(t *testing.T) {
	p, _ := fakePort("data")
	if err := p.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	_, outcome, err := p.ReadByte(time.Second)
	if outcome != ReadError {
		t.Fatalf("outcome = %v, want %v", outcome, ReadError)
	}
	if !errors.Is(err, ErrPortNotOpen) {
		t.Fatalf("err = %v, want ErrPortNotOpen", err)
	}
}

func TestReadLineComplete(t *testing.T) {
	p, _ := fakePort("hello\nmore")

	line, complete, err := p.ReadLine('\n', 256, time.Second)
	if err != nil {
		t.Fatalf("ReadLine: %v", err)
	}
	if !complete {
		t.Fatal("complete = false, want true")
	}
	if string(line) != "hello" {
		t.Fatalf("line = %q, want %q", line, "hello")
	}
}

func TestReadLineStopsAtLimit(t *testing.T) {
	p, _ := fakePort("abcdef\n")

	line, complete, err := p.ReadLine('\n', 4, time.Second)
	if err != nil {
		t.Fatalf("ReadLine: %v", err)
	}
	if complete {
		t.Fatal("complete = true for a truncated line")
	}
	if string(line) != "abc" {
		t.Fatalf("line = %q, want %q", line, "abc")
	}
}

func TestReadLineQuietLineIsNotAnError(t *testing.T) {
	p, _ := fakePort("")

	line, complete, err := p.ReadLine('\n', 256, 10*time.Millisecond)
	if err != nil {
		t.Fatalf("ReadLine: %v", err)
	}
	if complete {
		t.Fatal("complete = true with no data")
	}
	if len(line) != 0 {
		t.Fatalf("line = %q, want empty", line)
	}
}

func TestReadLineSharedBudgetReturnsPartial(t *testing.T) {
	p, tr := fakePort("ab")
	tr.slice = 5 * time.Millisecond

	budget := 30 * time.Millisecond
	start := time.Now()
	line, complete, err := p.ReadLine('\n', 256, budget)
	elapsed := time.Since(start)

	if err != nil {
		t.Fatalf("ReadLine: %v", err)
	}
	if complete {
		t.Fatal("complete = true without an eol byte")
	}
	if string(line) != "ab" {
		t.Fatalf("line = %q, want %q", line, "ab")
	}
	if limit := budget + tr.slice + 25*time.Millisecond; elapsed > limit {
		t.Fatalf("took %v, want at most %v", elapsed, limit)
	}
}

func TestReadLineBudgetWithSlicePacedBytes(t *testing.T) {
	// Each byte costs a full poll slice, so one lands at the deadline
	// with budget still showing on its pre-read snapshot. The loop
	// must stop on the clock, not on that snapshot.
	p, tr := fakePort("abcdef")
	tr.delay = 100 * time.Millisecond

	budget := 150 * time.Millisecond
	start := time.Now()
	line, complete, err := p.ReadLine('\n', 256, budget)
	elapsed := time.Since(start)

	if err != nil {
		t.Fatalf("ReadLine: %v", err)
	}
	if complete {
		t.Fatal("complete = true without an eol byte")
	}
	if string(line) != "ab" {
		t.Fatalf("line = %q, want %q", line, "ab")
	}
	if limit := budget + tr.delay + 30*time.Millisecond; elapsed > limit {
		t.Fatalf("took %v, want at most budget plus one poll slice (%v)", elapsed, limit)
	}
}

func TestReadByteDefaultUsesConfiguredTimeout(t *testing.T) {
	tr := newFakeTransport("")
	p := newPort(tr, Config{Device: "/dev/fake0", BaudRate: 9600, ReadTimeout: 30 * time.Millisecond})

	start := time.Now()
	_, outcome, err := p.ReadByteDefault()
	elapsed := time.Since(start)

	if err != nil {
		t.Fatalf("ReadByteDefault: %v", err)
	}
	if outcome != ReadTimeout {
		t.Fatalf("outcome = %v, want %v", outcome, ReadTimeout)
	}
	if elapsed < 30*time.Millisecond {
		t.Fatalf("returned after %v, before the configured 30ms budget", elapsed)
	}
}

func TestReadLineDefaultUsesConfiguredEOL(t *testing.T) {
	tr := newFakeTransport("status ok;tail")
	p := newPort(tr, Config{
		Device:      "/dev/fake0",
		BaudRate:    9600,
		EOL:         EOLByte(';'),
		ReadTimeout: time.Second,
	})

	line, complete, err := p.ReadLineDefault(256)
	if err != nil {
		t.Fatalf("ReadLineDefault: %v", err)
	}
	if !complete {
		t.Fatal("complete = false, want true")
	}
	if string(line) != "status ok" {
		t.Fatalf("line = %q, want %q", line, "status ok")
	}
}

func TestReadLineDefaultNulSentinel(t *testing.T) {
	tr := newFakeTransport("ab\x00cd")
	p := newPort(tr, Config{
		Device:      "/dev/fake0",
		BaudRate:    9600,
		EOL:         EOLByte(0),
		ReadTimeout: time.Second,
	})

	line, complete, err := p.ReadLineDefault(256)
	if err != nil {
		t.Fatalf("ReadLineDefault: %v", err)
	}
	if !complete {
		t.Fatal("complete = false, want true")
	}
	if string(line) != "ab" {
		t.Fatalf("line = %q, want %q", line, "ab")
	}
}

func TestReadLineErrorReturnsPartial(t *testing.T) {
	p, tr := fakePort("ab")
	boom := errors.New("device gone")
	tr.readErr = boom

	line, complete, err := p.ReadLine('\n', 256, time.Second)
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want wrapped %v", err, boom)
	}
	if complete {
		t.Fatal("complete = true on transport error")
	}
	if string(line) != "ab" {
		t.Fatalf("line = %q, want partial %q", line, "ab")
	}
}

func TestReadMetrics(t *testing.T) {
	p, _ := fakePort("x")

	if _, _, err := p.ReadByte(time.Second); err != nil {
		t.Fatalf("ReadByte: %v", err)
	}
	if _, outcome, _ := p.ReadByte(0); outcome != ReadTimeout {
		t.Fatalf("outcome = %v, want %v", outcome, ReadTimeout)
	}

	m := p.Metrics()
	if m.ReadOperations != 2 {
		t.Errorf("ReadOperations = %d, want 2", m.ReadOperations)
	}
	if m.BytesRead != 1 {
		t.Errorf("BytesRead = %d, want 1", m.BytesRead)
	}
	if m.ReadTimeouts != 1 {
		t.Errorf("ReadTimeouts = %d, want 1", m.ReadTimeouts)
	}
}
