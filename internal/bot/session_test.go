package bot

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSessions_Transitions(t *testing.T) {
	t.Parallel()
	s := NewSessions()

	assert.Equal(t, ModeIdle, s.Mode(1))

	s.SetMode(1, ModeEditingTemplate)
	assert.Equal(t, ModeEditingTemplate, s.Mode(1))
	assert.Equal(t, ModeIdle, s.Mode(2))

	// A new menu selection overwrites the current mode.
	s.SetMode(1, ModeBroadcasting)
	assert.Equal(t, ModeBroadcasting, s.Mode(1))

	assert.Equal(t, ModeBroadcasting, s.Consume(1))
	assert.Equal(t, ModeIdle, s.Mode(1))
	assert.Equal(t, ModeIdle, s.Consume(1))

	s.SetMode(2, ModeEditingTemplate)
	s.ClearMode(2)
	assert.Equal(t, ModeIdle, s.Mode(2))
}

func TestMode_String(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "idle", ModeIdle.String())
	assert.Equal(t, "editing_template", ModeEditingTemplate.String())
	assert.Equal(t, "broadcasting", ModeBroadcasting.String())
	assert.Equal(t, "unknown", Mode(9).String())
}
