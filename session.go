package serial

import "github.com/rs/zerolog"

// Session owns at most one live port at a time. Opening a new device
// first closes (and thereby flushes) any prior handle, so a sequence
// of opens never leaks descriptors or crosses configuration between
// devices.
type Session struct {
	port *Port
	log  zerolog.Logger
}

// NewSession returns an empty session logging through log.
func NewSession(log zerolog.Logger) *Session {
	return &Session{log: log}
}

// Open replaces the session's port with a freshly opened one. The
// prior handle, if any, is closed first; its close error is logged
// but does not block the new open. On open failure the session holds
// no port.
func (s *Session) Open(cfg Config) (*Port, error) {
	if s.port != nil {
		if err := s.port.Close(); err != nil {
			s.log.Warn().Err(err).Msg("closing previous port")
		}
		s.port = nil
	}

	p, err := Open(cfg)
	if err != nil {
		return nil, err
	}
	s.port = p
	return p, nil
}

// SetLogger replaces the logger used for lifecycle warnings.
func (s *Session) SetLogger(log zerolog.Logger) {
	s.log = log
}

// Port returns the live handle, or nil when none is open.
func (s *Session) Port() *Port {
	return s.port
}

// Close closes the live handle if there is one. Safe to call
// multiple times.
func (s *Session) Close() error {
	if s.port == nil {
		return nil
	}
	err := s.port.Close()
	s.port = nil
	return err
}
