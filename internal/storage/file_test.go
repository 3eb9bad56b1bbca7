package storage

import (
	"bufio"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	logx "joinbot/pkg/logx"
)

func openTestFile(t *testing.T) (Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.json")
	st, err := Open(Config{Driver: "file", Path: path}, logx.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	return st, path
}

func TestFileStore_LoadMissingReturnsDefault(t *testing.T) {
	t.Parallel()
	st, _ := openTestFile(t)

	got, err := st.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, DefaultTemplate, got.WelcomeMsg)
	assert.Empty(t, got.Users)
	assert.NotNil(t, got.Users)
}

func TestFileStore_RoundTrip(t *testing.T) {
	t.Parallel()
	st, path := openTestFile(t)
	ctx := context.Background()

	want := State{WelcomeMsg: "Hi {name}!", Users: []int64{42, 7, 100}}
	require.NoError(t, st.Save(ctx, want))

	got, err := st.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err), "tmp file must not survive Save")

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	var m map[string]any
	require.NoError(t, json.Unmarshal(raw, &m))
	assert.Contains(t, m, "welcome_msg")
	assert.Contains(t, m, "users")
}

func TestFileStore_EmptyTemplateRepaired(t *testing.T) {
	t.Parallel()
	st, path := openTestFile(t)
	require.NoError(t, os.WriteFile(path, []byte(`{"welcome_msg":"","users":[5,5,6]}`), 0o600))

	got, err := st.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, DefaultTemplate, got.WelcomeMsg)
	assert.Equal(t, []int64{5, 6}, got.Users)
}

func TestFileStore_CorruptIsError(t *testing.T) {
	t.Parallel()
	st, path := openTestFile(t)
	require.NoError(t, os.WriteFile(path, []byte(`{"welcome_msg":`), 0o600))

	_, err := st.Load(context.Background())
	assert.Error(t, err)
}

func TestFileStore_AppendAudit(t *testing.T) {
	t.Parallel()
	st, path := openTestFile(t)
	ctx := context.Background()

	require.NoError(t, st.AppendAudit(ctx, AuditEntry{ActorID: 1, Action: "template.reset"}))
	require.NoError(t, st.AppendAudit(ctx, AuditEntry{ActorID: 1, Action: "broadcast", OK: 2, Fail: 1}))
	require.NoError(t, st.Close())

	f, err := os.Open(filepath.Join(filepath.Dir(path), "data.audit.jsonl"))
	require.NoError(t, err)
	defer f.Close()

	var actions []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		var e AuditEntry
		require.NoError(t, json.Unmarshal(sc.Bytes(), &e))
		actions = append(actions, e.Action)
	}
	require.NoError(t, sc.Err())
	assert.Equal(t, []string{"template.reset", "broadcast"}, actions)
}

func TestFileStore_ClosedErrors(t *testing.T) {
	t.Parallel()
	st, _ := openTestFile(t)
	require.NoError(t, st.Close())

	assert.ErrorIs(t, st.Save(context.Background(), DefaultState()), ErrClosed)
	_, err := st.Load(context.Background())
	assert.ErrorIs(t, err, ErrClosed)
}

func TestOpen_UnknownDriver(t *testing.T) {
	t.Parallel()
	_, err := Open(Config{Driver: "redis", Path: "x"}, logx.Nop())
	assert.Error(t, err)
}
