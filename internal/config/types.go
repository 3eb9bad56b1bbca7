package config

// Config is the on-disk configuration (JSON or YAML).
type Config struct {
	Telegram TelegramConfig `json:"telegram"`
	Logging  LoggingConfig  `json:"logging"`
	Storage  StorageConfig  `json:"storage"`
	Report   ReportConfig   `json:"report"`
}

type TelegramConfig struct {
	Token string `json:"token"`
	// AdminIDs is merged with the ADMIN_IDS environment variable at startup.
	AdminIDs []int64 `json:"admin_ids"`
	// LogChat receives mirrored log lines when logging.telegram is enabled.
	LogChat int64 `json:"log_chat,omitempty"`
	// PollTimeout is a Go duration string (e.g. "10s", "2m").
	PollTimeout string `json:"poll_timeout"`
}

type LoggingConfig struct {
	Level    string          `json:"level"`
	Console  bool            `json:"console"`
	File     LoggingFile     `json:"file"`
	Telegram LoggingTelegram `json:"telegram"`
}

type LoggingFile struct {
	Enabled bool   `json:"enabled"`
	Path    string `json:"path"`
}

type LoggingTelegram struct {
	Enabled    bool   `json:"enabled"`
	MinLevel   string `json:"min_level"`
	RatePerSec int    `json:"rate_per_sec"`
}

// StorageConfig selects the state backend.
//
// Example:
//
//	"storage": { "driver": "file", "path": "./data.json" }
type StorageConfig struct {
	Driver      string `json:"driver"`
	Path        string `json:"path"`
	BusyTimeout string `json:"busy_timeout,omitempty"` // Go duration string (sqlite)
}

// ReportConfig controls the periodic "registered users" summary sent to
// admins. An empty Cron disables it.
type ReportConfig struct {
	Cron     string `json:"cron,omitempty"`
	Timezone string `json:"timezone,omitempty"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Telegram: TelegramConfig{PollTimeout: "10s"},
		Logging: LoggingConfig{
			Level:   "INFO",
			Console: true,
			Telegram: LoggingTelegram{
				MinLevel:   "WARN",
				RatePerSec: 1,
			},
		},
		Storage: StorageConfig{Driver: "file", Path: "data.json"},
	}
}
