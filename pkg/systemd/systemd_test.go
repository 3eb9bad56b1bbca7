package systemd

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNotifyOutsideSystemdIsNoop(t *testing.T) {
	t.Setenv("NOTIFY_SOCKET", "")

	sent, err := Ready()
	require.NoError(t, err)
	require.False(t, sent)

	sent, err = Status("users=%d", 3)
	require.NoError(t, err)
	require.False(t, sent)

	sent, err = Stopping()
	require.NoError(t, err)
	require.False(t, sent)
}
