//go:generate go run github.com/golang/mock/mockgen -source=sender.go -package=transport -destination=mock_sender.go
package transport

import "context"

// Sender is the outbound half of the messaging platform.
//
// Every method reports delivery failure as a returned error; callers decide
// whether a failure matters.
type Sender interface {
	SendText(ctx context.Context, to ChatTarget, text string, opt *SendOptions) (MessageRef, error)
	EditText(ctx context.Context, ref MessageRef, text string, opt *SendOptions) error
	AnswerCallback(ctx context.Context, callbackID string, text string) error
	ApproveJoinRequest(ctx context.Context, chatID, userID int64) error
}
