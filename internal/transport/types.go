package transport

import (
	"context"
	"strings"
)

// UpdateKind tags which variant of Update is populated.
type UpdateKind string

const (
	UpdateCommand     UpdateKind = "command"
	UpdateButton      UpdateKind = "button"
	UpdateText        UpdateKind = "text"
	UpdateJoinRequest UpdateKind = "join_request"
)

// Update is an inbound event. Exactly one of the variant pointers matching
// Kind is non-nil.
type Update struct {
	Kind        UpdateKind
	Command     *Command
	Button      *Button
	Text        *Text
	JoinRequest *JoinRequest
}

// FromID returns the sender of whichever variant is set (0 if none).
func (u Update) FromID() int64 {
	switch u.Kind {
	case UpdateCommand:
		if u.Command != nil {
			return u.Command.FromID
		}
	case UpdateButton:
		if u.Button != nil {
			return u.Button.FromID
		}
	case UpdateText:
		if u.Text != nil {
			return u.Text.FromID
		}
	case UpdateJoinRequest:
		if u.JoinRequest != nil {
			return u.JoinRequest.UserID
		}
	}
	return 0
}

// Command is a "/name args" message.
type Command struct {
	MessageID    int
	Chat         ChatTarget
	FromID       int64
	FromUsername string
	Name         string // without leading slash and @botname suffix
	Args         string
}

// Button is an inline keyboard press.
type Button struct {
	ID        string // callback query id
	Chat      ChatTarget
	FromID    int64
	MessageID int
	Data      string
}

// Ref returns the message the pressed keyboard is attached to.
func (b Button) Ref() MessageRef {
	return MessageRef{ChatID: b.Chat.ChatID, ThreadID: b.Chat.ThreadID, MessageID: b.MessageID}
}

// Text is a plain (non-command) text message.
type Text struct {
	MessageID int
	Chat      ChatTarget
	FromID    int64
	Text      string
}

// JoinRequest is a pending request to join a gated chat.
type JoinRequest struct {
	ChatID    int64
	ChatTitle string
	UserID    int64
	FirstName string
	LastName  string
	Username  string
}

// DisplayName is the name substituted into the welcome template.
func (j JoinRequest) DisplayName() string {
	if s := strings.TrimSpace(j.FirstName); s != "" {
		return s
	}
	if s := strings.TrimSpace(j.Username); s != "" {
		return s
	}
	return "there"
}

type ChatTarget struct {
	ChatID   int64
	ThreadID int
}

type MessageRef struct {
	ChatID    int64
	ThreadID  int
	MessageID int
}

// KeyboardButton is one inline button; Data comes back as Button.Data.
type KeyboardButton struct {
	Text string
	Data string
}

// Keyboard is a list of inline button rows.
type Keyboard [][]KeyboardButton

type SendOptions struct {
	ParseMode      string
	DisablePreview bool
	Keyboard       Keyboard
}

// Adapter is a Sender that also produces inbound updates.
type Adapter interface {
	Sender

	Start(ctx context.Context, out chan<- Update) error
	Stop(ctx context.Context) error
}
