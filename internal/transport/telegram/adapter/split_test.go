package adapter

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tele "gopkg.in/telebot.v4"
)

func TestSplitTelegramText_Short(t *testing.T) {
	t.Parallel()
	assert.Equal(t, []string{"hello"}, splitTelegramText("hello", 0, ""))
	assert.Equal(t, []string{""}, splitTelegramText("", 10, ""))
}

func TestSplitTelegramText_RuneLimit(t *testing.T) {
	t.Parallel()
	s := strings.Repeat("é", 25)
	chunks := splitTelegramText(s, 10, "")
	require.Len(t, chunks, 3)
	for _, c := range chunks {
		assert.LessOrEqual(t, utf8.RuneCountInString(c), 10)
	}
	assert.Equal(t, s, strings.Join(chunks, ""))
}

func TestSplitTelegramText_PrefersNewline(t *testing.T) {
	t.Parallel()
	s := "aaaaaaa\nbbbbbbbbbb"
	chunks := splitTelegramText(s, 10, "")
	assert.Equal(t, []string{"aaaaaaa", "bbbbbbbbbb"}, chunks)
}

func TestSplitTelegramText_HTMLTag(t *testing.T) {
	t.Parallel()
	s := "abcdef<b>x</b>"
	chunks := splitTelegramText(s, 8, "HTML")
	require.NotEmpty(t, chunks)
	assert.Equal(t, "abcdef", chunks[0])
}

func TestParseCommand(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in         string
		name, args string
		ok         bool
	}{
		{in: "/start", name: "start", ok: true},
		{in: "/Admin@joinbot", name: "admin", ok: true},
		{in: "/admin@JoinBot", name: "admin", ok: true},
		{in: "/start  payload x", name: "start", args: "payload x", ok: true},
		{in: "/rules@otherbot", ok: false},
		{in: "/start@otherbot", ok: false},
		{in: "hello", ok: false},
		{in: "/", ok: false},
		{in: "/@joinbot", ok: false},
	}
	for _, tt := range tests {
		name, args, ok := parseCommand(tt.in, "joinbot")
		assert.Equal(t, tt.ok, ok, tt.in)
		assert.Equal(t, tt.name, name, tt.in)
		assert.Equal(t, tt.args, args, tt.in)
	}
}

func TestParseCommand_UnknownSelfAcceptsAnySuffix(t *testing.T) {
	t.Parallel()
	name, _, ok := parseCommand("/start@whatever", "")
	assert.True(t, ok)
	assert.Equal(t, "start", name)
}

func TestUpdateFromMessage(t *testing.T) {
	t.Parallel()
	msg := func(text string) *tele.Message {
		return &tele.Message{ID: 9, Text: text, Chat: &tele.Chat{ID: -100}, Sender: &tele.User{ID: 7}}
	}

	up, ok := updateFromMessage(msg("/start@joinbot"), "joinbot")
	require.True(t, ok)
	require.NotNil(t, up.Command)
	assert.Equal(t, "start", up.Command.Name)
	assert.Equal(t, int64(7), up.FromID())

	_, ok = updateFromMessage(msg("/start@otherbot"), "joinbot")
	assert.False(t, ok, "commands for other bots are dropped")

	up, ok = updateFromMessage(msg("welcome {name}"), "joinbot")
	require.True(t, ok)
	require.NotNil(t, up.Text)
	assert.Equal(t, "welcome {name}", up.Text.Text)
}
