// Package config loads the service configuration from defaults, an
// optional YAML file, DUTCH_* environment variables and command-line flags,
// in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// EnvPrefix prefixes every environment variable read by Load. Nested keys
// use a double underscore: DUTCH_SERVER__ADDR sets server.addr.
const EnvPrefix = "DUTCH_"

// Config is the full service configuration.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Database  DatabaseConfig  `koanf:"database"`
	Cache     CacheConfig     `koanf:"cache"`
	Translate TranslateConfig `koanf:"translate"`
	Session   SessionConfig   `koanf:"session"`
	Sync      SyncConfig      `koanf:"sync"`
	Seed      SeedConfig      `koanf:"seed"`
	Log       LogConfig       `koanf:"log"`
}

type ServerConfig struct {
	Addr            string        `koanf:"addr" validate:"required"`
	ReadTimeout     time.Duration `koanf:"read_timeout" validate:"gt=0"`
	WriteTimeout    time.Duration `koanf:"write_timeout" validate:"gt=0"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" validate:"gt=0"`
	// CORSOrigin is echoed in Access-Control-Allow-Origin. Empty disables CORS.
	CORSOrigin      string        `koanf:"cors_origin"`
}

type DatabaseConfig struct {
	Driver string `koanf:"driver" validate:"oneof=sqlite postgres"`
	DSN    string `koanf:"dsn" validate:"required"`
}

// CacheConfig selects the cache backend. An empty RedisAddr keeps caches in memory.
type CacheConfig struct {
	RedisAddr string `koanf:"redis_addr" validate:"omitempty,hostname_port"`
	Prefix    string `koanf:"prefix" validate:"required"`
}

type TranslateConfig struct {
	BaseURL string        `koanf:"base_url" validate:"required,url"`
	Timeout time.Duration `koanf:"timeout" validate:"gt=0"`
}

type SessionConfig struct {
	TTL          time.Duration `koanf:"ttl" validate:"gt=0"`
	SecureCookie bool          `koanf:"secure_cookie"`
}

// SyncConfig controls content sources. An Interval of zero disables the
// periodic sync.
type SyncConfig struct {
	Interval time.Duration `koanf:"interval" validate:"gte=0"`
	ReposDir string        `koanf:"repos_dir" validate:"required"`
}

type SeedConfig struct {
	Enabled bool `koanf:"enabled"`
}

type LogConfig struct {
	Level  string `koanf:"level" validate:"oneof=debug info warn error"`
	Format string `koanf:"format" validate:"oneof=text json"`
}

var defaults = map[string]any{
	"server.addr":             ":8080",
	"server.read_timeout":     "10s",
	"server.write_timeout":    "30s",
	"server.shutdown_timeout": "10s",
	"server.cors_origin":      "",
	"database.driver":         "sqlite",
	"database.dsn":            "dutch.db",
	"cache.redis_addr":        "",
	"cache.prefix":            "dutch",
	"translate.base_url":      "https://api.mymemory.translated.net",
	"translate.timeout":       "5s",
	"session.ttl":             "168h",
	"session.secure_cookie":   false,
	"sync.interval":           "0s",
	"sync.repos_dir":          "repos",
	"seed.enabled":            true,
	"log.level":               "info",
	"log.format":              "text",
}

// NewFlagSet returns a FlagSet declaring --config and one flag per
// configuration key. Callers may add their own flags before Load.
func NewFlagSet(name string) *pflag.FlagSet {
	flags := pflag.NewFlagSet(name, pflag.ContinueOnError)
	flags.String("config", "", "Path to a YAML configuration file")
	flags.String("server.addr", ":8080", "HTTP listen address")
	flags.String("database.driver", "sqlite", "Database driver (sqlite or postgres)")
	flags.String("database.dsn", "dutch.db", "Database DSN or SQLite file path")
	flags.String("cache.redis_addr", "", "Redis address for shared caches (empty keeps them in memory)")
	flags.Duration("sync.interval", 0, "Interval between periodic source syncs (0 disables)")
	flags.Bool("seed.enabled", true, "Load the default deck into an empty database")
	flags.String("log.level", "info", "Log level (debug, info, warn, error)")
	flags.String("log.format", "text", "Log format (text or json)")
	return flags
}

// Load parses args with flags and builds the configuration.
func Load(flags *pflag.FlagSet, args []string) (*Config, error) {
	if err := flags.Parse(args); err != nil {
		return nil, err
	}

	// Load .env file if it exists
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	k := koanf.New(".")
	for key, val := range defaults {
		if err := k.Set(key, val); err != nil {
			return nil, fmt.Errorf("failed to set default %s: %w", key, err)
		}
	}

	if path, _ := flags.GetString("config"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment: %w", err)
	}

	if err := k.Load(posflag.Provider(flags, ".", k), nil); err != nil {
		return nil, fmt.Errorf("failed to load flags: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func envKey(s string) string {
	s = strings.TrimPrefix(s, EnvPrefix)
	return strings.ReplaceAll(strings.ToLower(s), "__", ".")
}

// Validate checks the configuration values.
func (c *Config) Validate() error {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// NewLogger builds the process logger described by c.
func (c LogConfig) NewLogger() *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Level)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if c.Format == "json" {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}
