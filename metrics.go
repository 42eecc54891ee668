package serial

import "go.uber.org/atomic"

// Metrics tracks per-port operation counters. All fields are safe to
// read while the single caller drives the port.
type Metrics struct {
	Opens  atomic.Int64 // Successful opens
	Closes atomic.Int64 // Closes that did work

	ReadOperations atomic.Int64 // ReadByte calls
	BytesRead      atomic.Int64 // Bytes produced by reads
	ReadTimeouts   atomic.Int64 // Budgets exhausted with no data
	ReadErrors     atomic.Int64 // OS read failures

	WriteOperations atomic.Int64 // Write calls
	BytesWritten    atomic.Int64 // Bytes accepted into the send queue
	WriteErrors     atomic.Int64 // OS write failures and zero-progress writes

	Drains  atomic.Int64 // Drain calls
	Flushes atomic.Int64 // Flush/FlushInput/FlushOutput calls
}

// MetricsSnapshot is a point-in-time copy of the counters.
type MetricsSnapshot struct {
	Opens  int64
	Closes int64

	ReadOperations int64
	BytesRead      int64
	ReadTimeouts   int64
	ReadErrors     int64

	WriteOperations int64
	BytesWritten    int64
	WriteErrors     int64

	Drains  int64
	Flushes int64
}

// Snapshot copies the current counter values.
func (m *Metrics) Snapshot() MetricsSnapshot {
	return MetricsSnapshot{
		Opens:           m.Opens.Load(),
		Closes:          m.Closes.Load(),
		ReadOperations:  m.ReadOperations.Load(),
		BytesRead:       m.BytesRead.Load(),
		ReadTimeouts:    m.ReadTimeouts.Load(),
		ReadErrors:      m.ReadErrors.Load(),
		WriteOperations: m.WriteOperations.Load(),
		BytesWritten:    m.BytesWritten.Load(),
		WriteErrors:     m.WriteErrors.Load(),
		Drains:          m.Drains.Load(),
		Flushes:         m.Flushes.Load(),
	}
}
