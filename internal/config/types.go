package config

import "time"

// Config is the CLI configuration.
type Config struct {
	API      APIConfig      `mapstructure:"api"`
	Cache    CacheConfig    `mapstructure:"cache"`
	Throttle ThrottleConfig `mapstructure:"throttle"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// APIConfig holds credentials and request defaults.
type APIConfig struct {
	Key          string        `mapstructure:"key" validate:"required_without=BearerToken"`
	BearerToken  string        `mapstructure:"bearer_token"`
	SessionID    string        `mapstructure:"session_id"`
	Host         string        `mapstructure:"host" validate:"required,hostname_port|hostname"`
	Insecure     bool          `mapstructure:"insecure"`
	Language     string        `mapstructure:"language" validate:"omitempty,bcp47_language_tag"`
	Region       string        `mapstructure:"region"`
	IncludeAdult bool          `mapstructure:"include_adult"`
	Timeout      time.Duration `mapstructure:"timeout" validate:"min=0"`
}

// CacheConfig enables the response cache. An empty Path keeps it in
// memory.
type CacheConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	Path    string        `mapstructure:"path"`
	TTL     time.Duration `mapstructure:"ttl" validate:"min=0"`
}

// ThrottleConfig limits outgoing requests. Zero RPS disables it.
type ThrottleConfig struct {
	RPS   int `mapstructure:"rps" validate:"min=0"`
	Burst int `mapstructure:"burst" validate:"min=0"`
}

// LoggingConfig controls the CLI logger and the request log.
type LoggingConfig struct {
	Level    string `mapstructure:"level" validate:"oneof=debug info warn error"`
	Format   string `mapstructure:"format" validate:"oneof=text json"`
	Requests bool   `mapstructure:"requests"`
	Path     string `mapstructure:"path"`
}
