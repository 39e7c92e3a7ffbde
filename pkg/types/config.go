package types

import "time"

// StoreConfig holds settings for the durable object store.
type StoreConfig struct {
	// Path is the SQLite database file (default "data/feedforward.db").
	Path string `json:"path" yaml:"path" mapstructure:"path"`

	// BusyRetries is how many times a locked database write is retried (default 5).
	BusyRetries int `json:"busy_retries" yaml:"busy_retries" mapstructure:"busy_retries"`

	// BusyBaseDelay is the first backoff delay for a locked database.
	BusyBaseDelay time.Duration `json:"busy_base_delay" yaml:"busy_base_delay" mapstructure:"busy_base_delay"`
}

// IdentityConfig selects how the current participant is resolved.
type IdentityConfig struct {
	// Participant is an explicit participant id. It wins over Dir.
	Participant string `json:"participant" yaml:"participant" mapstructure:"participant"`

	// Dir is a directory of credential files containing a participant-id file.
	Dir string `json:"dir" yaml:"dir" mapstructure:"dir"`
}

// MatchingConfig holds defaults for match requests.
type MatchingConfig struct {
	// MinTrust is the default minimum supply trust score (default 0.3).
	MinTrust float64 `json:"min_trust" yaml:"min_trust" mapstructure:"min_trust"`

	// Limit is the default maximum number of matches (default 10).
	Limit int `json:"limit" yaml:"limit" mapstructure:"limit"`
}

// LogConfig configures the structured logger.
type LogConfig struct {
	Level       string `json:"level" yaml:"level" mapstructure:"level"`
	Development bool   `json:"development" yaml:"development" mapstructure:"development"`
}

// Config groups all engine configuration.
type Config struct {
	Store    StoreConfig    `json:"store" yaml:"store" mapstructure:"store"`
	Identity IdentityConfig `json:"identity" yaml:"identity" mapstructure:"identity"`
	Matching MatchingConfig `json:"matching" yaml:"matching" mapstructure:"matching"`
	Log      LogConfig      `json:"log" yaml:"log" mapstructure:"log"`
}

// DefaultConfig returns the configuration used when nothing is set.
func DefaultConfig() Config {
	return Config{
		Store: StoreConfig{
			Path:          "data/feedforward.db",
			BusyRetries:   5,
			BusyBaseDelay: 50 * time.Millisecond,
		},
		Identity: IdentityConfig{Dir: ".identity/"},
		Matching: MatchingConfig{MinTrust: 0.3, Limit: 10},
		Log:      LogConfig{Level: "info"},
	}
}
