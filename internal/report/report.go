// Package report periodically sends admins a summary of the user registry.
package report

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/robfig/cron/v3"

	"joinbot/internal/transport"
	logx "joinbot/pkg/logx"
)

var parser = cron.NewParser(cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

// ParseSchedule accepts a cron expression (5 or 6 fields), a descriptor like
// "@daily" or "@every 6h", or a bare Go duration ("12h") as shorthand for
// "@every".
func ParseSchedule(raw string) (cron.Schedule, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil, fmt.Errorf("schedule required")
	}
	if !strings.ContainsAny(s, " \t") && !strings.HasPrefix(s, "@") {
		d, err := time.ParseDuration(s)
		if err != nil {
			return nil, fmt.Errorf("invalid schedule %q (use cron like '0 9 * * *', '@daily' or a duration like '12h')", raw)
		}
		if d <= 0 {
			return nil, fmt.Errorf("interval must be > 0")
		}
		return cron.Every(d), nil
	}
	sched, err := parser.Parse(s)
	if err != nil {
		return nil, fmt.Errorf("invalid schedule %q: %w", raw, err)
	}
	return sched, nil
}

// Counter is the read side of the registry the report needs.
type Counter interface {
	Len() int
}

type Config struct {
	Spec     string
	Location *time.Location
}

// Service sends "Registered users: N" to every admin on a schedule.
type Service struct {
	sched  cron.Schedule
	loc    *time.Location
	sender transport.Sender
	admins []int64
	reg    Counter
	log    logx.Logger
}

func New(cfg Config, sender transport.Sender, admins []int64, reg Counter, log logx.Logger) (*Service, error) {
	sched, err := ParseSchedule(cfg.Spec)
	if err != nil {
		return nil, err
	}
	loc := cfg.Location
	if loc == nil {
		loc = time.Local
	}
	return &Service{
		sched:  sched,
		loc:    loc,
		sender: sender,
		admins: append([]int64(nil), admins...),
		reg:    reg,
		log:    log,
	}, nil
}

// Text is the report body.
func Text(n int) string {
	return fmt.Sprintf("Registered users: %d", n)
}

// Fire sends the report now and returns how many admins received it.
func (s *Service) Fire(ctx context.Context) int {
	text := Text(s.reg.Len())
	sent := 0
	for _, id := range s.admins {
		if _, err := s.sender.SendText(ctx, transport.ChatTarget{ChatID: id}, text, nil); err != nil {
			s.log.Debug("report delivery failed", logx.Int64("admin_id", id), logx.Err(err))
			continue
		}
		sent++
	}
	s.log.Info("registry report sent", logx.Int("admins", sent), logx.Int("users", s.reg.Len()))
	return sent
}

// Run schedules the report and blocks until ctx is done; a report in
// progress is allowed to finish.
func (s *Service) Run(ctx context.Context) error {
	c := cron.New(cron.WithParser(parser), cron.WithLocation(s.loc), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	c.Schedule(s.sched, cron.FuncJob(func() { s.Fire(ctx) }))
	c.Start()
	s.log.Info("report scheduler started", logx.Time("next", s.sched.Next(time.Now().In(s.loc))))

	<-ctx.Done()
	<-c.Stop().Done()
	return nil
}
