// Package config loads the CLI configuration from a file, the
// environment and a .env file.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/adamwoolhether/tmdb"
	"github.com/adamwoolhether/tmdb/internal/validate"
)

// EnvPrefix prefixes every environment variable, e.g. TMDB_API_KEY.
const EnvPrefix = "TMDB"

// Load reads configPath, or tmdb.yaml from the working directory and
// $HOME/.tmdb when empty. A missing default file is not an error.
// Environment variables override the file; a .env file in the working
// directory is loaded first without replacing variables already set.
func Load(configPath string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, env := range map[string]string{
		"api.key":          "TMDB_API_KEY",
		"api.bearer_token": "TMDB_READ_ACCESS_TOKEN",
		"api.session_id":   "TMDB_SESSION_ID",
	} {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("binding %s: %w", env, err)
		}
	}

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("tmdb")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".tmdb"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("api.key", "")
	v.SetDefault("api.bearer_token", "")
	v.SetDefault("api.session_id", "")
	v.SetDefault("api.host", tmdb.DefaultHost)
	v.SetDefault("api.insecure", false)
	v.SetDefault("api.language", "")
	v.SetDefault("api.region", "")
	v.SetDefault("api.include_adult", false)
	v.SetDefault("api.timeout", "30s")

	v.SetDefault("cache.enabled", false)
	v.SetDefault("cache.path", "")
	v.SetDefault("cache.ttl", "0s")

	v.SetDefault("throttle.rps", 40)
	v.SetDefault("throttle.burst", 20)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
	v.SetDefault("logging.requests", false)
	v.SetDefault("logging.path", "")
}

// Validate checks the configuration values.
func (c *Config) Validate() error {
	if c.API.Key == "your-api-key-here" {
		return errors.New("api.key must be set to a valid API key")
	}
	if c.Throttle.RPS > 0 && c.Throttle.Burst == 0 {
		return errors.New("throttle.burst must be set when throttle.rps is")
	}

	return validate.Struct(c)
}

// Logger builds the CLI logger writing to w.
func (c *Config) Logger(w io.Writer) *slog.Logger {
	level := slog.LevelInfo
	switch c.Logging.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{Level: level}
	if c.Logging.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}

	return slog.New(slog.NewTextHandler(w, opts))
}

// ClientOptions turns the configuration into tmdb.Client options.
func (c *Config) ClientOptions(logger *slog.Logger) []tmdb.Option {
	opts := []tmdb.Option{
		tmdb.WithHost(c.API.Host),
		tmdb.WithSecure(!c.API.Insecure),
		tmdb.WithLogger(logger),
		tmdb.WithAdult(c.API.IncludeAdult),
	}

	if c.API.Key != "" {
		opts = append(opts, tmdb.WithAPIToken(c.API.Key))
	}
	if c.API.BearerToken != "" {
		opts = append(opts, tmdb.WithBearerToken(c.API.BearerToken))
	}
	if c.API.SessionID != "" {
		opts = append(opts, tmdb.WithSessionToken(c.API.SessionID))
	}
	if c.API.Language != "" {
		opts = append(opts, tmdb.WithLanguage(c.API.Language))
	}
	if c.API.Region != "" {
		opts = append(opts, tmdb.WithRegion(c.API.Region))
	}
	if c.API.Timeout > 0 {
		opts = append(opts, tmdb.WithTimeout(c.API.Timeout))
	}
	if c.Throttle.RPS > 0 {
		opts = append(opts, tmdb.WithThrottle(c.Throttle.RPS, c.Throttle.Burst))
	}
	if c.Cache.Enabled {
		opts = append(opts, tmdb.WithCache(c.Cache.Path, c.Cache.TTL))
	}
	if c.Logging.Requests {
		opts = append(opts, tmdb.WithLogging(c.Logging.Path))
	}

	return opts
}
