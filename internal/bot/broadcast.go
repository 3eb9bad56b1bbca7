package bot

import (
	"context"
	"time"

	"joinbot/internal/eventbus"
	"joinbot/internal/transport"
	logx "joinbot/pkg/logx"
)

// Result summarizes one broadcast.
type Result struct {
	Total     int
	Delivered int
	Failed    int
	Took      time.Duration
}

// Broadcaster sends one message to every registered user, sequentially and
// in registration order. A failed recipient is counted and skipped.
type Broadcaster struct {
	sender transport.Sender
	reg    *Registry
	bus    eventbus.Bus
	log    logx.Logger
}

func NewBroadcaster(sender transport.Sender, reg *Registry, bus eventbus.Bus, log logx.Logger) *Broadcaster {
	return &Broadcaster{sender: sender, reg: reg, bus: bus, log: log}
}

func (b *Broadcaster) Broadcast(ctx context.Context, text string) Result {
	start := time.Now()
	users := b.reg.Users()
	res := Result{Total: len(users)}

	for _, id := range users {
		if _, err := b.sender.SendText(ctx, transport.ChatTarget{ChatID: id}, text, nil); err != nil {
			res.Failed++
			b.log.Debug("broadcast delivery failed", logx.Int64("user_id", id), logx.Err(err))
			continue
		}
		res.Delivered++
	}
	res.Took = time.Since(start)

	b.log.Info("broadcast finished",
		logx.Int("total", res.Total),
		logx.Int("delivered", res.Delivered),
		logx.Int("failed", res.Failed),
		logx.Duration("took", res.Took),
	)
	if b.bus != nil {
		b.bus.Publish(eventbus.Event{Type: eventbus.BroadcastFinished, Data: res})
	}
	return res
}
