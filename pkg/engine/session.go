package engine

import (
	"sync"

	"github.com/TFMV/embedworld/pkg/vectortypes"
)

// Session threads the previous frame between successive computations for
// one view. Updates are serialized so stabilization always compares against
// the frame that was actually shown last.
type Session struct {
	engine   *Engine
	mu       sync.Mutex
	previous vectortypes.Coords
}

// NewSession creates a session with no previous frame.
func NewSession(e *Engine) *Session {
	return &Session{engine: e}
}

// Update computes the next frame. req.Previous is replaced by the session's
// last frame. Fallback scatters are returned but not remembered.
func (s *Session) Update(req Request) (*Result, *Diagnostics, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	req.Previous = s.previous
	result, diag, err := s.engine.Run(req)
	if err != nil {
		return nil, nil, err
	}
	if !result.Incomplete {
		s.previous = result.Coords.Clone()
	}
	return result, diag, nil
}

// Previous returns a copy of the last remembered frame.
func (s *Session) Previous() vectortypes.Coords {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.previous == nil {
		return nil
	}
	return s.previous.Clone()
}

// Reset forgets the previous frame.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.previous = nil
}
