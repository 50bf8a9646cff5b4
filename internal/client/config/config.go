package config

import (
	"fmt"
	"time"
)

// Token storage backends.
const (
	StorageSQLite = "sqlite"
	StorageRedis  = "redis"
)

// Post store modes.
const (
	PostModeMemory = "memory"
	PostModeRemote = "remote"
)

// Config holds runtime settings for the SocialHub client. The env tags name
// the variables read by parseEnv, without the SOCIALHUB_ prefix.
type Config struct {
	ServerURL           string        `env:"SERVER_URL"`
	RequestTimeout      time.Duration `env:"REQUEST_TIMEOUT"`
	DatabasePath        string        `env:"DATABASE_PATH"`
	TokenStorage        string        `env:"TOKEN_STORAGE"`
	RedisURL            string        `env:"REDIS_URL"`
	PostMode            string        `env:"POST_MODE"`
	OnlineCheckInterval time.Duration `env:"ONLINE_CHECK_INTERVAL"`
	LogLevel            string        `env:"LOG_LEVEL"`
	LogFile             string        `env:"LOG_FILE"`
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://localhost:8080"
	c.RequestTimeout = 10 * time.Second
	c.DatabasePath = "socialhub.db"
	c.TokenStorage = StorageSQLite
	c.RedisURL = "redis://localhost:6379/0"
	c.PostMode = PostModeRemote
	c.OnlineCheckInterval = 3 * time.Second
	c.LogLevel = "info"
	c.LogFile = ""
}

// Validate rejects values the client cannot run with.
func (c *Config) Validate() error {
	switch c.TokenStorage {
	case StorageSQLite, StorageRedis:
	default:
		return fmt.Errorf("unknown token storage %q (want %s or %s)", c.TokenStorage, StorageSQLite, StorageRedis)
	}
	switch c.PostMode {
	case PostModeMemory, PostModeRemote:
	default:
		return fmt.Errorf("unknown post mode %q (want %s or %s)", c.PostMode, PostModeMemory, PostModeRemote)
	}
	if c.ServerURL == "" {
		return fmt.Errorf("server url is required")
	}
	if c.RequestTimeout < 0 {
		return fmt.Errorf("request timeout must not be negative")
	}
	return nil
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present), the environment and command-line flags. Later sources
// take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}
