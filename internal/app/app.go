package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	tele "gopkg.in/telebot.v4"

	"joinbot/internal/bot"
	"joinbot/internal/config"
	"joinbot/internal/eventbus"
	"joinbot/internal/report"
	"joinbot/internal/runtime/supervisor"
	"joinbot/internal/storage"
	kit "joinbot/internal/transport"
	telegram "joinbot/internal/transport/telegram/adapter"
	logx "joinbot/pkg/logx"
	"joinbot/pkg/systemd"
)

var menuCommands = []tele.Command{
	{Text: "start", Description: "Open the admin panel"},
	{Text: "admin", Description: "Open the admin panel"},
}

type App struct {
	cfgm *config.ConfigManager
	sup  *supervisor.Supervisor

	log   logx.Logger
	logs  *logx.Service
	bus   eventbus.Bus
	store storage.Store

	adapter *telegram.Adapter
	admins  bot.AdminSet
	reg     *bot.Registry
	router  *bot.Router
	report  *report.Service

	updates chan kit.Update
}

// NewApp loads the config, opens storage and wires every component. getenv
// supplies environment overrides (usually os.Getenv).
func NewApp(cfgPath string, getenv func(string) string) (*App, error) {
	cfgm := config.NewConfigManager(cfgPath)
	cfgm.SetEnv(getenv)
	cfg, err := cfgm.Load()
	if err != nil {
		return nil, err
	}
	if err := validate(cfg); err != nil {
		return nil, err
	}

	bootLog := logx.NewConsole("INFO").With(logx.String("comp", "telegram"))
	pollTimeout, err := config.ParseDurationOrDefault("telegram.poll_timeout", cfg.Telegram.PollTimeout, 10*time.Second)
	if err != nil {
		return nil, err
	}
	ad, err := telegram.New(telegram.Config{
		Token:       cfg.Telegram.Token,
		PollTimeout: pollTimeout,
	}, bootLog)
	if err != nil {
		return nil, err
	}

	// Target first, so enabling the chat sink does not warn about a missing chat.
	logSvc, log := logx.NewService(logx.Config{Level: cfg.Logging.Level, Console: cfg.Logging.Console}, ad)
	logSvc.SetChatTarget(cfg.Telegram.LogChat)
	logSvc.Apply(mapLoggingConfig(cfg))
	log = log.With(logx.String("comp", "app"))

	sc, err := mapStorageConfig(cfg)
	if err != nil {
		_ = logSvc.Close()
		return nil, err
	}
	store, err := storage.Open(sc, log.With(logx.String("comp", "storage")))
	if err != nil {
		_ = logSvc.Close()
		return nil, err
	}
	loadCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	reg, err := bot.LoadRegistry(loadCtx, store)
	cancel()
	if err != nil {
		_ = store.Close()
		_ = logSvc.Close()
		return nil, err
	}

	var admins bot.AdminSet
	if getenv != nil {
		admins = bot.ParseAdminIDs(getenv(config.EnvAdminIDs))
	}
	admins = admins.Merge(cfg.Telegram.AdminIDs...)
	if admins.Len() == 0 {
		log.Warn("no admin ids configured; every panel action will be denied")
	}

	bus := eventbus.New()
	router := bot.NewRouter(bot.Deps{
		Sender:   ad,
		Admins:   admins,
		Registry: reg,
		Sessions: bot.NewSessions(),
		Bus:      bus,
		Log:      log.With(logx.String("comp", "router")),
	})

	a := &App{
		cfgm:    cfgm,
		log:     log,
		logs:    logSvc,
		bus:     bus,
		store:   store,
		adapter: ad,
		admins:  admins,
		reg:     reg,
		router:  router,
		updates: make(chan kit.Update, 256),
	}

	rc, ok, err := mapReportConfig(cfg)
	if err != nil {
		_ = store.Close()
		_ = logSvc.Close()
		return nil, err
	}
	if ok {
		a.report, err = report.New(rc, ad, admins.IDs(), reg, log.With(logx.String("comp", "report")))
		if err != nil {
			_ = store.Close()
			_ = logSvc.Close()
			return nil, err
		}
	}

	log.Info("state loaded",
		logx.String("storage", sc.Driver),
		logx.String("path", sc.Path),
		logx.Int("users", reg.Len()),
		logx.Int("admins", admins.Len()),
	)
	return a, nil
}

// Done is closed when the app supervisor context is canceled (fatal error or Stop()).
func (a *App) Done() <-chan struct{} {
	if a.sup == nil {
		ch := make(chan struct{})
		close(ch)
		return ch
	}
	return a.sup.Context().Done()
}

// Err returns the first fatal error observed by the supervisor (if any).
func (a *App) Err() error {
	if a.sup == nil {
		return nil
	}
	return a.sup.Err()
}

func (a *App) Start(ctx context.Context) error {
	a.sup = supervisor.NewSupervisor(ctx, supervisor.WithLogger(a.log), supervisor.WithCancelOnError(true))

	a.cfgm.SetLogger(a.log.With(logx.String("comp", "config")))
	a.cfgm.SetValidator(func(_ context.Context, cfg *config.Config) error {
		return validate(cfg)
	})

	if err := a.adapter.Start(a.sup.Context(), a.updates); err != nil {
		return err
	}

	menuCtx, cancel := context.WithTimeout(a.sup.Context(), 10*time.Second)
	if err := a.adapter.SetCommands(menuCtx, menuCommands); err != nil {
		a.log.Warn("set menu commands failed", logx.Err(err))
	}
	cancel()

	a.sup.Go("router", func(c context.Context) error {
		return a.router.Run(c, a.updates)
	})

	if a.report != nil {
		a.sup.Go("report", a.report.Run)
	}

	events, unsub := a.bus.Subscribe(128)
	a.sup.Go0("eventbus.log", func(c context.Context) {
		defer unsub()
		for {
			select {
			case <-c.Done():
				return
			case e, ok := <-events:
				if !ok {
					return
				}
				a.log.Debug("event", logx.String("type", e.Type), logx.Time("time", e.Time), logx.Any("data", e.Data))
			}
		}
	})

	sub := a.cfgm.Subscribe(8)
	a.sup.Go0("config.reload", func(c context.Context) {
		defer a.cfgm.Unsubscribe(sub)
		lastApplied := a.cfgm.Get()
		for {
			select {
			case <-c.Done():
				return
			case newCfg, ok := <-sub:
				if !ok {
					return
				}
				a.applyConfig(lastApplied, newCfg)
				lastApplied = newCfg
			}
		}
	})

	a.sup.GoRestart("config.watch", a.cfgm.Watch,
		supervisor.WithRestartBackoff(time.Second, 30*time.Second),
	)

	if sent, err := systemd.Ready(); err != nil {
		a.log.Debug("sd_notify ready failed", logx.Err(err))
	} else if sent {
		_, _ = systemd.Status("serving %d users", a.reg.Len())
	}

	a.log.Info("app started")
	return nil
}

// applyConfig hot-applies the logging section. Every other section is only
// read at startup.
func (a *App) applyConfig(oldCfg, newCfg *config.Config) {
	sections, attrs := config.SummarizeConfigChange(oldCfg, newCfg)
	if len(sections) == 0 {
		a.log.Info("config reloaded (no changes)")
		return
	}
	fields := append([]logx.Field{logx.String("changed", strings.Join(sections, ","))}, attrs...)

	a.logs.SetChatTarget(newCfg.Telegram.LogChat)
	a.logs.Apply(mapLoggingConfig(newCfg))

	if config.RestartRequired(sections) {
		a.log.Warn("config changed outside logging; restart required for changes to take effect", fields...)
	}
	a.bus.Publish(eventbus.Event{Type: eventbus.ConfigReloaded, Data: sections})
	a.log.Info("config reloaded", fields...)
}

func (a *App) Stop(ctx context.Context, reason StopReason) error {
	if a.sup == nil {
		return nil
	}
	a.log.Info("stopping", logx.String("reason", string(reason)))
	_, _ = systemd.Stopping()

	a.sup.Cancel()

	// step bounds one shutdown stage without extending the caller's deadline.
	step := func(name string, max time.Duration, fn func(context.Context) error) {
		start := time.Now()
		if dl, ok := ctx.Deadline(); ok {
			if rem := time.Until(dl); rem < max {
				max = rem
			}
		}
		if max <= 0 {
			a.log.Warn("stop step skipped (deadline reached)", logx.String("name", name))
			return
		}
		stepCtx, cancel := context.WithTimeout(ctx, max)
		defer cancel()

		done := make(chan error, 1)
		go func() {
			defer func() {
				if r := recover(); r != nil {
					done <- fmt.Errorf("panic in stop step %s: %v", name, r)
				}
			}()
			done <- fn(stepCtx)
		}()

		select {
		case err := <-done:
			if err != nil {
				a.log.Warn("stop step error", logx.String("name", name), logx.Err(err))
			}
			a.log.Debug("stop step end", logx.String("name", name), logx.Duration("took", time.Since(start)))
		case <-stepCtx.Done():
			a.log.Warn("stop step deadline reached (continuing)", logx.String("name", name), logx.Duration("elapsed", time.Since(start)))
		}
	}

	step("adapter", 3*time.Second, a.adapter.Stop)
	// Router and report finish the update or job in flight before returning.
	step("supervisor", 5*time.Second, a.sup.Wait)
	step("storage", time.Second, func(context.Context) error { return a.store.Close() })

	c := a.sup.Counters()
	a.log.Info("stopped", logx.Uint64("goroutines_started", c.Started), logx.Int64("goroutines_active", c.Active))
	return a.logs.Close()
}
