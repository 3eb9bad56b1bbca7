package tgui

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"joinbot/internal/transport"
)

func TestMarkup_Rows(t *testing.T) {
	t.Parallel()
	rm, err := Markup(transport.Keyboard{
		{{Text: "A", Data: "a"}},
		{{Text: "B", Data: "b"}, {Text: "C", Data: "c"}},
	})
	require.NoError(t, err)
	require.NotNil(t, rm)
	require.Len(t, rm.InlineKeyboard, 2)
	assert.Len(t, rm.InlineKeyboard[1], 2)
	assert.Equal(t, "a", rm.InlineKeyboard[0][0].Data)
	assert.Equal(t, "C", rm.InlineKeyboard[1][1].Text)
}

func TestMarkup_Empty(t *testing.T) {
	t.Parallel()
	rm, err := Markup(nil)
	require.NoError(t, err)
	assert.Nil(t, rm)
}

func TestValidate_Limits(t *testing.T) {
	t.Parallel()
	long := transport.Keyboard{{{Text: "x", Data: strings.Repeat("d", MaxCallbackDataLen+1)}}}
	assert.ErrorIs(t, Validate(long), ErrCallbackDataTooLong)

	wide := transport.Keyboard{make([]transport.KeyboardButton, MaxButtonsPerRow+1)}
	assert.ErrorIs(t, Validate(wide), ErrRowTooWide)
}
