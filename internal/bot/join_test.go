package bot

import (
	"context"
	"errors"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"

	"joinbot/internal/eventbus"
	"joinbot/internal/storage"
	"joinbot/internal/transport"
	logx "joinbot/pkg/logx"
)

func TestJoinHandler_ApproveRegisterWelcomeInOrder(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	sender := transport.NewMockSender(ctrl)
	store := newMemStore(storage.State{})
	reg := loadRegistry(t, store)
	bus := eventbus.New()
	events, unsub := bus.Subscribe(4)
	defer unsub()

	gomock.InOrder(
		sender.EXPECT().ApproveJoinRequest(gomock.Any(), int64(-100), int64(42)).
			DoAndReturn(func(ctx context.Context, chatID, userID int64) error {
				assert.NotContains(t, reg.Users(), int64(42), "approval happens before registration")
				return nil
			}),
		sender.EXPECT().SendText(gomock.Any(), transport.ChatTarget{ChatID: 42}, "Hello Ana, your request has been approved!", gomock.Nil()).
			DoAndReturn(func(ctx context.Context, to transport.ChatTarget, text string, opt *transport.SendOptions) (transport.MessageRef, error) {
				assert.Contains(t, reg.Users(), int64(42), "registration happens before welcome")
				return transport.MessageRef{ChatID: 42, MessageID: 1}, nil
			}),
	)

	h := NewJoinHandler(sender, reg, bus, logx.Nop())
	out := h.Handle(context.Background(), transport.JoinRequest{ChatID: -100, UserID: 42, FirstName: "Ana"})

	assert.True(t, out.Approved)
	assert.True(t, out.Registered)
	assert.True(t, out.Welcomed)
	assert.Equal(t, []int64{42}, store.saved().Users)
	assert.Equal(t, []string{"join.approve"}, store.actions())
	assert.Equal(t, eventbus.JoinApproved, (<-events).Type)
}

func TestJoinHandler_FailuresAreIndependent(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	sender := transport.NewMockSender(ctrl)
	reg := loadRegistry(t, newMemStore(storage.State{}))

	sender.EXPECT().ApproveJoinRequest(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("HIDE_REQUESTER_MISSING"))
	sender.EXPECT().SendText(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(transport.MessageRef{}, errDelivery)

	h := NewJoinHandler(sender, reg, nil, logx.Nop())
	out := h.Handle(context.Background(), transport.JoinRequest{ChatID: -1, UserID: 8, FirstName: "Bo"})

	assert.False(t, out.Approved)
	assert.Error(t, out.ApproveErr)
	assert.True(t, out.Registered, "registration still happens after failed approval")
	assert.False(t, out.Welcomed)
	assert.ErrorIs(t, out.WelcomeErr, errDelivery)
	assert.Contains(t, reg.Users(), int64(8))
}

func TestJoinHandler_RepeatedRequestsRegisterOnce(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	sender := transport.NewMockSender(ctrl)
	store := newMemStore(storage.State{})
	reg := loadRegistry(t, store)

	sender.EXPECT().ApproveJoinRequest(gomock.Any(), gomock.Any(), int64(5)).Return(nil).Times(3)
	sender.EXPECT().SendText(gomock.Any(), transport.ChatTarget{ChatID: 5}, gomock.Any(), gomock.Any()).Return(transport.MessageRef{}, nil).Times(3)

	h := NewJoinHandler(sender, reg, nil, logx.Nop())
	for i := 0; i < 3; i++ {
		out := h.Handle(context.Background(), transport.JoinRequest{ChatID: -1, UserID: 5, FirstName: "C"})
		assert.Equal(t, i == 0, out.Registered)
	}
	assert.Equal(t, []int64{5}, reg.Users())
	assert.Equal(t, 1, store.saveCount())
}

func TestJoinRequest_DisplayNameFallback(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "Ana", transport.JoinRequest{FirstName: "Ana", Username: "ana_x"}.DisplayName())
	assert.Equal(t, "ana_x", transport.JoinRequest{Username: "ana_x"}.DisplayName())
	assert.Equal(t, "there", transport.JoinRequest{}.DisplayName())
}
