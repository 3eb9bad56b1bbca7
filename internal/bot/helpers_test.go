package bot

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"joinbot/internal/storage"
)

// memStore is an in-memory storage.Store that records every save.
type memStore struct {
	mu      sync.Mutex
	state   storage.State
	saves   []storage.State
	audits  []storage.AuditEntry
	saveErr error
}

func newMemStore(st storage.State) *memStore {
	return &memStore{state: st}
}

func (m *memStore) Load(ctx context.Context) (storage.State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state.WelcomeMsg == "" && m.state.Users == nil {
		return storage.DefaultState(), nil
	}
	return storage.State{WelcomeMsg: m.state.WelcomeMsg, Users: append([]int64(nil), m.state.Users...)}, nil
}

func (m *memStore) Save(ctx context.Context, st storage.State) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.state = st
	m.saves = append(m.saves, st)
	return nil
}

func (m *memStore) AppendAudit(ctx context.Context, e storage.AuditEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.audits = append(m.audits, e)
	return nil
}

func (m *memStore) Close() error { return nil }

func (m *memStore) saved() storage.State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

func (m *memStore) saveCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.saves)
}

func (m *memStore) failSaves(err error) {
	m.mu.Lock()
	m.saveErr = err
	m.mu.Unlock()
}

func (m *memStore) actions() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.audits))
	for _, e := range m.audits {
		out = append(out, e.Action)
	}
	return out
}

var errDelivery = errors.New("forbidden: bot was blocked by the user")

func loadRegistry(t *testing.T, store storage.Store) *Registry {
	t.Helper()
	reg, err := LoadRegistry(context.Background(), store)
	require.NoError(t, err)
	return reg
}
