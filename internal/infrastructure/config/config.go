package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	Storage   StorageConfig
	Presets   PresetConfig
	History   HistoryConfig
	Logging   LogConfig
	RateLimit RateLimitConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port string `envconfig:"PORT" default:"8090"`
	Host string `envconfig:"HOST" default:"0.0.0.0"`
}

// StorageConfig holds session persistence configuration. An empty Dir
// falls back to a per-user directory under the OS temp dir, matching the
// session-scoped lifetime of the persisted payloads.
type StorageConfig struct {
	Dir     string `envconfig:"STATE_DIR" default:""`
	Enabled bool   `envconfig:"STATE_PERSIST" default:"true"`
}

// PresetConfig holds view preset seeding configuration.
type PresetConfig struct {
	Dir string `envconfig:"PRESET_DIR" default:"./presets"`
}

// HistoryConfig holds navigation history configuration.
type HistoryConfig struct {
	MaxAge      time.Duration `envconfig:"HISTORY_MAX_AGE" default:"30m"`
	SessionIdle time.Duration `envconfig:"SESSION_IDLE_EVICT" default:"1h"`
	EvictTick   time.Duration `envconfig:"SESSION_EVICT_TICK" default:"10m"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info"`
	Development bool   `envconfig:"LOG_DEV" default:"false"`
}

// RateLimitConfig holds rate limiting configuration.
type RateLimitConfig struct {
	RequestsPerSecond int  `envconfig:"RATE_LIMIT_RPS" default:"100"`
	Burst             int  `envconfig:"RATE_LIMIT_BURST" default:"200"`
	Enabled           bool `envconfig:"RATE_LIMIT_ENABLED" default:"true"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	cfg.applyFallbacks()
	return &cfg, nil
}

// LoadOrDefault loads configuration from environment or returns defaults.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// Default returns default configuration.
func Default() *Config {
	cfg := &Config{
		Server: ServerConfig{
			Port: "8090",
			Host: "0.0.0.0",
		},
		Storage: StorageConfig{
			Enabled: true,
		},
		Presets: PresetConfig{
			Dir: "./presets",
		},
		History: HistoryConfig{
			MaxAge:      30 * time.Minute,
			SessionIdle: time.Hour,
			EvictTick:   10 * time.Minute,
		},
		Logging: LogConfig{
			Level:       "info",
			Development: false,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 100,
			Burst:             200,
			Enabled:           true,
		},
	}
	cfg.applyFallbacks()
	return cfg
}

func (c *Config) applyFallbacks() {
	if c.Storage.Dir == "" {
		c.Storage.Dir = filepath.Join(os.TempDir(), "gridstate-sessions")
	}
}
