package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"joinbot/internal/storage"
)

var ErrEmptyTemplate = errors.New("welcome message must not be empty")

// Registry owns the durable state in memory. Every mutation is written
// through to the store before the call returns. When the write fails the
// in-memory change is kept and the error is returned, so the next
// successful save persists it.
type Registry struct {
	store storage.Store

	mu    sync.Mutex
	state storage.State
	index map[int64]struct{}
}

// LoadRegistry reads the saved state once.
func LoadRegistry(ctx context.Context, store storage.Store) (*Registry, error) {
	st, err := store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load state: %w", err)
	}
	if st.WelcomeMsg == "" {
		st.WelcomeMsg = storage.DefaultTemplate
	}
	r := &Registry{store: store, index: make(map[int64]struct{}, len(st.Users))}
	users := make([]int64, 0, len(st.Users))
	for _, id := range st.Users {
		if _, ok := r.index[id]; ok {
			continue
		}
		r.index[id] = struct{}{}
		users = append(users, id)
	}
	r.state = storage.State{WelcomeMsg: st.WelcomeMsg, Users: users}
	return r, nil
}

func (r *Registry) Template() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state.WelcomeMsg
}

// SetTemplate stores text verbatim. The one exception is blank or
// whitespace-only text: it is rejected with ErrEmptyTemplate and the template
// is left unchanged, so the welcome message never renders empty. Telegram
// does not deliver such messages, so in practice every edit is stored.
func (r *Registry) SetTemplate(ctx context.Context, text string) error {
	if strings.TrimSpace(text) == "" {
		return ErrEmptyTemplate
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state.WelcomeMsg = text
	return r.saveLocked(ctx)
}

func (r *Registry) ResetTemplate(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state.WelcomeMsg = storage.DefaultTemplate
	return r.saveLocked(ctx)
}

// Register appends id if it is new. added is false (and nothing is written)
// for a known id.
func (r *Registry) Register(ctx context.Context, id int64) (added bool, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.index[id]; ok {
		return false, nil
	}
	r.index[id] = struct{}{}
	r.state.Users = append(r.state.Users, id)
	return true, r.saveLocked(ctx)
}

// Users returns a copy of the registered ids in registration order.
func (r *Registry) Users() []int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]int64(nil), r.state.Users...)
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.state.Users)
}

// Audit appends e to the store's audit log.
func (r *Registry) Audit(ctx context.Context, e storage.AuditEntry) error {
	return r.store.AppendAudit(ctx, e)
}

func (r *Registry) saveLocked(ctx context.Context) error {
	snap := storage.State{
		WelcomeMsg: r.state.WelcomeMsg,
		Users:      append([]int64(nil), r.state.Users...),
	}
	if err := r.store.Save(ctx, snap); err != nil {
		return fmt.Errorf("save state: %w", err)
	}
	return nil
}
