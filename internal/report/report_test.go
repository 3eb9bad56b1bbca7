package report

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"joinbot/internal/transport"
	logx "joinbot/pkg/logx"
)

type fixedCounter int

func (c fixedCounter) Len() int { return int(c) }

func TestParseSchedule(t *testing.T) {
	t.Parallel()
	base := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	tests := []struct {
		raw     string
		next    time.Time
		wantErr bool
	}{
		{raw: "0 9 * * *", next: time.Date(2024, 3, 2, 9, 0, 0, 0, time.UTC)},
		{raw: "30 0 9 * * *", next: time.Date(2024, 3, 2, 9, 0, 30, 0, time.UTC)},
		{raw: "@hourly", next: time.Date(2024, 3, 1, 11, 0, 0, 0, time.UTC)},
		{raw: "12h", next: base.Add(12 * time.Hour)},
		{raw: "", wantErr: true},
		{raw: "soon", wantErr: true},
		{raw: "61 * * * *", wantErr: true},
		{raw: "-1h", wantErr: true},
	}
	for _, tt := range tests {
		sched, err := ParseSchedule(tt.raw)
		if tt.wantErr {
			assert.Error(t, err, "raw=%q", tt.raw)
			continue
		}
		require.NoError(t, err, "raw=%q", tt.raw)
		assert.Equal(t, tt.next, sched.Next(base), "raw=%q", tt.raw)
	}
}

func TestService_FireSendsToEveryAdmin(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	sender := transport.NewMockSender(ctrl)

	sender.EXPECT().SendText(gomock.Any(), transport.ChatTarget{ChatID: 1}, "Registered users: 3", gomock.Nil()).Return(transport.MessageRef{}, nil)
	sender.EXPECT().SendText(gomock.Any(), transport.ChatTarget{ChatID: 2}, "Registered users: 3", gomock.Nil()).Return(transport.MessageRef{}, errors.New("blocked"))

	s, err := New(Config{Spec: "@daily"}, sender, []int64{1, 2}, fixedCounter(3), logx.Nop())
	require.NoError(t, err)
	assert.Equal(t, 1, s.Fire(context.Background()))
}

func TestService_RunStopsOnCancel(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	sender := transport.NewMockSender(ctrl)

	s, err := New(Config{Spec: "@yearly", Location: time.UTC}, sender, []int64{1}, fixedCounter(0), logx.Nop())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
