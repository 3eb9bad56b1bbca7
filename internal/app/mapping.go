package app

import (
	"fmt"
	"strings"
	"time"

	"joinbot/internal/config"
	"joinbot/internal/report"
	"joinbot/internal/storage"
	logx "joinbot/pkg/logx"
)

func mapStorageConfig(cfg *config.Config) (storage.Config, error) {
	sc := cfg.Storage
	driver := strings.ToLower(strings.TrimSpace(sc.Driver))
	path := strings.TrimSpace(sc.Path)
	switch driver {
	case "", "file":
		return storage.Config{Driver: "file", Path: path}, nil
	case "sqlite", "sqlite3":
		if path == "" {
			return storage.Config{}, fmt.Errorf("storage.path is required when storage.driver=sqlite")
		}
		busy, err := config.ParseDurationOrDefault("storage.busy_timeout", sc.BusyTimeout, 5*time.Second)
		if err != nil {
			return storage.Config{}, err
		}
		return storage.Config{Driver: driver, Path: path, BusyTimeout: busy}, nil
	default:
		return storage.Config{}, fmt.Errorf("unknown storage.driver: %s", sc.Driver)
	}
}

// mapLoggingConfig converts the logging section. The chat sink is enabled
// only when a log chat is configured.
func mapLoggingConfig(cfg *config.Config) logx.Config {
	lc := cfg.Logging
	return logx.Config{
		Level:   lc.Level,
		Console: lc.Console,
		File: logx.FileConfig{
			Enabled: lc.File.Enabled,
			Path:    lc.File.Path,
		},
		Chat: logx.ChatConfig{
			Enabled:    lc.Telegram.Enabled && cfg.Telegram.LogChat != 0,
			MinLevel:   lc.Telegram.MinLevel,
			RatePerSec: lc.Telegram.RatePerSec,
		},
	}
}

// mapReportConfig returns ok=false when no schedule is configured.
func mapReportConfig(cfg *config.Config) (rc report.Config, ok bool, err error) {
	spec := strings.TrimSpace(cfg.Report.Cron)
	if spec == "" {
		return report.Config{}, false, nil
	}
	if _, err := report.ParseSchedule(spec); err != nil {
		return report.Config{}, false, fmt.Errorf("report.cron: %w", err)
	}
	rc.Spec = spec
	if tz := strings.TrimSpace(cfg.Report.Timezone); tz != "" {
		loc, err := time.LoadLocation(tz)
		if err != nil {
			return report.Config{}, false, fmt.Errorf("report.timezone: invalid %q: %w", tz, err)
		}
		rc.Location = loc
	}
	return rc, true, nil
}

// validate is the full check run at startup and before a hot reload is
// committed.
func validate(cfg *config.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if _, err := mapStorageConfig(cfg); err != nil {
		return err
	}
	_, _, err := mapReportConfig(cfg)
	return err
}
