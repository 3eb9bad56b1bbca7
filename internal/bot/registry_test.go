package bot

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"joinbot/internal/storage"
)

func TestLoadRegistry_Defaults(t *testing.T) {
	t.Parallel()
	reg := loadRegistry(t, newMemStore(storage.State{}))

	assert.Equal(t, storage.DefaultTemplate, reg.Template())
	assert.Equal(t, 0, reg.Len())
}

func TestRegistry_RegisterIsIdempotent(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := newMemStore(storage.State{})
	reg := loadRegistry(t, store)

	for i := 0; i < 5; i++ {
		added, err := reg.Register(ctx, 42)
		require.NoError(t, err)
		assert.Equal(t, i == 0, added)
	}
	added, err := reg.Register(ctx, 7)
	require.NoError(t, err)
	assert.True(t, added)

	assert.Equal(t, []int64{42, 7}, reg.Users())
	assert.Equal(t, []int64{42, 7}, store.saved().Users)
	assert.Equal(t, 2, store.saveCount(), "only new ids are flushed")
}

func TestRegistry_SetTemplateFlushes(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := newMemStore(storage.State{})
	reg := loadRegistry(t, store)

	require.NoError(t, reg.SetTemplate(ctx, "Hi {name}!"))
	assert.Equal(t, "Hi {name}!", reg.Template())
	assert.Equal(t, "Hi {name}!", store.saved().WelcomeMsg)

	require.NoError(t, reg.ResetTemplate(ctx))
	assert.Equal(t, storage.DefaultTemplate, reg.Template())
	assert.Equal(t, storage.DefaultTemplate, store.saved().WelcomeMsg)
}

func TestRegistry_EmptyTemplateRejected(t *testing.T) {
	t.Parallel()
	store := newMemStore(storage.State{})
	reg := loadRegistry(t, store)

	err := reg.SetTemplate(context.Background(), "   ")
	assert.ErrorIs(t, err, ErrEmptyTemplate)
	assert.Equal(t, storage.DefaultTemplate, reg.Template())
	assert.Equal(t, 0, store.saveCount())
}

func TestRegistry_SaveFailureKeepsMemory(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := newMemStore(storage.State{})
	reg := loadRegistry(t, store)
	store.failSaves(errors.New("disk full"))

	added, err := reg.Register(ctx, 5)
	assert.True(t, added)
	assert.Error(t, err)
	assert.Contains(t, reg.Users(), int64(5))

	err = reg.SetTemplate(ctx, "X {name}")
	assert.Error(t, err)
	assert.Equal(t, "X {name}", reg.Template())
}

func TestRegistry_UsersIsSnapshot(t *testing.T) {
	t.Parallel()
	reg := loadRegistry(t, newMemStore(storage.State{WelcomeMsg: "w", Users: []int64{1, 2}}))

	users := reg.Users()
	users[0] = 99
	assert.Equal(t, []int64{1, 2}, reg.Users())
}
