package bot

import (
	"context"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"

	"joinbot/internal/storage"
	"joinbot/internal/transport"
	logx "joinbot/pkg/logx"
)

func TestBroadcaster_CountsPartialFailures(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	sender := transport.NewMockSender(ctrl)
	store := newMemStore(storage.State{WelcomeMsg: storage.DefaultTemplate, Users: []int64{1, 2, 3}})
	reg := loadRegistry(t, store)

	gomock.InOrder(
		sender.EXPECT().SendText(gomock.Any(), transport.ChatTarget{ChatID: 1}, "Update", gomock.Nil()).Return(transport.MessageRef{}, nil),
		sender.EXPECT().SendText(gomock.Any(), transport.ChatTarget{ChatID: 2}, "Update", gomock.Nil()).Return(transport.MessageRef{}, errDelivery),
		sender.EXPECT().SendText(gomock.Any(), transport.ChatTarget{ChatID: 3}, "Update", gomock.Nil()).Return(transport.MessageRef{}, nil),
	)

	res := NewBroadcaster(sender, reg, nil, logx.Nop()).Broadcast(context.Background(), "Update")

	assert.Equal(t, 3, res.Total)
	assert.Equal(t, 2, res.Delivered)
	assert.Equal(t, 1, res.Failed)
	assert.Equal(t, []int64{1, 2, 3}, reg.Users())
	assert.Equal(t, 0, store.saveCount())
}

func TestBroadcaster_EmptyRegistry(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	sender := transport.NewMockSender(ctrl)
	reg := loadRegistry(t, newMemStore(storage.State{}))

	res := NewBroadcaster(sender, reg, nil, logx.Nop()).Broadcast(context.Background(), "hi")
	assert.Equal(t, Result{}, Result{Total: res.Total, Delivered: res.Delivered, Failed: res.Failed})
}
