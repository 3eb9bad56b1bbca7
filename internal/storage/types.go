package storage

import (
	"context"
	"errors"
	"time"
)

// DefaultTemplate is the welcome message used on first start and after reset.
const DefaultTemplate = "Hello {name}, your request has been approved!"

var ErrClosed = errors.New("storage closed")

// Config configures storage.
//
// Driver values:
//   - "file" (default): JSON document at Path plus <base>.audit.jsonl
//   - "sqlite": SQLite database file at Path
type Config struct {
	Driver      string
	Path        string
	BusyTimeout time.Duration // sqlite only; 0 means default
}

// State is the durable record.
type State struct {
	WelcomeMsg string  `json:"welcome_msg"`
	Users      []int64 `json:"users"`
}

// DefaultState is what Load returns when nothing has been saved yet.
func DefaultState() State {
	return State{WelcomeMsg: DefaultTemplate, Users: []int64{}}
}

// normalize repairs a loaded record: empty template becomes the default and
// duplicate ids are dropped keeping first occurrence.
func (s State) normalize() State {
	if s.WelcomeMsg == "" {
		s.WelcomeMsg = DefaultTemplate
	}
	out := make([]int64, 0, len(s.Users))
	seen := make(map[int64]struct{}, len(s.Users))
	for _, id := range s.Users {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	s.Users = out
	return s
}

// AuditEntry records an admin action or a join approval outcome.
// Keep it compact and schema-stable.
type AuditEntry struct {
	At      time.Time `json:"at"`
	ActorID int64     `json:"actor_id"`
	Action  string    `json:"action"`
	Target  string    `json:"target,omitempty"`
	OK      int       `json:"ok"`
	Fail    int       `json:"fail"`
	Error   string    `json:"err,omitempty"`
}

// Store is the persistence API used by the registry.
type Store interface {
	// Load returns the saved state, or DefaultState when none exists.
	Load(ctx context.Context) (State, error)
	// Save replaces the saved state with st.
	Save(ctx context.Context, st State) error
	AppendAudit(ctx context.Context, e AuditEntry) error
	Close() error
}
