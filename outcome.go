package serial

// ReadOutcome classifies the result of a single bounded byte read.
// Timeout and end-of-file are expected outcomes, carried as explicit
// tags so they are never collapsed into the error return.
type ReadOutcome int

const (
	// ReadData means exactly one byte was produced.
	ReadData ReadOutcome = iota
	// ReadTimeout means the budget expired with zero bytes
	// transferred. The line being quiet is not a failure.
	ReadTimeout
	// ReadEOF means a file-backed source is exhausted. Serial ports
	// never report it.
	ReadEOF
	// ReadError means the OS reported a transport failure.
	ReadError
)

func (o ReadOutcome) String() string {
	switch o {
	case ReadData:
		return "data"
	case ReadTimeout:
		return "timeout"
	case ReadEOF:
		return "eof"
	case ReadError:
		return "error"
	default:
		return "unknown"
	}
}
