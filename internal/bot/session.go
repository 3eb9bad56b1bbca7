package bot

import "sync"

// Mode is what the next text message from an admin means.
type Mode int

const (
	ModeIdle Mode = iota
	ModeEditingTemplate
	ModeBroadcasting
)

func (m Mode) String() string {
	switch m {
	case ModeIdle:
		return "idle"
	case ModeEditingTemplate:
		return "editing_template"
	case ModeBroadcasting:
		return "broadcasting"
	default:
		return "unknown"
	}
}

// Sessions holds the per-admin mode. It is never persisted.
type Sessions struct {
	mu    sync.Mutex
	modes map[int64]Mode
}

func NewSessions() *Sessions {
	return &Sessions{modes: map[int64]Mode{}}
}

// SetMode overwrites whatever mode id was in.
func (s *Sessions) SetMode(id int64, m Mode) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if m == ModeIdle {
		delete(s.modes, id)
		return
	}
	s.modes[id] = m
}

// Mode returns ModeIdle for unknown ids.
func (s *Sessions) Mode(id int64) Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.modes[id]
}

func (s *Sessions) ClearMode(id int64) {
	s.mu.Lock()
	delete(s.modes, id)
	s.mu.Unlock()
}

// Consume returns id's mode and resets it to idle in one step.
func (s *Sessions) Consume(id int64) Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	m := s.modes[id]
	delete(s.modes, id)
	return m
}
