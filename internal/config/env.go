package config

import "strings"

// Environment variables that override file values.
const (
	EnvToken    = "BOT_TOKEN"
	EnvAdminIDs = "ADMIN_IDS"
	EnvDataFile = "DATA_FILE"
	EnvLogLevel = "LOG_LEVEL"
)

// ApplyEnv overlays environment overrides onto cfg. ADMIN_IDS is not applied
// here; it is parsed by the admin gate and merged with Telegram.AdminIDs.
func ApplyEnv(cfg *Config, getenv func(string) string) {
	if cfg == nil || getenv == nil {
		return
	}
	if v := strings.TrimSpace(getenv(EnvToken)); v != "" {
		cfg.Telegram.Token = v
	}
	if v := strings.TrimSpace(getenv(EnvDataFile)); v != "" {
		cfg.Storage.Path = v
	}
	if v := strings.TrimSpace(getenv(EnvLogLevel)); v != "" {
		cfg.Logging.Level = v
	}
}
