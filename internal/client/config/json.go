package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dmitrijs2005/socialhub/internal/flagx"
	"github.com/dmitrijs2005/socialhub/internal/timex"
)

// JsonConfig is the on-disk form of Config. Fields left out of the file
// keep their previous value; durations accept "3s" or nanoseconds.
type JsonConfig struct {
	ServerURL           *string         `json:"server_url"`
	RequestTimeout      *timex.Duration `json:"request_timeout"`
	DatabasePath        *string         `json:"database_path"`
	TokenStorage        *string         `json:"token_storage"`
	RedisURL            *string         `json:"redis_url"`
	PostMode            *string         `json:"post_mode"`
	OnlineCheckInterval *timex.Duration `json:"online_check_interval"`
	LogLevel            *string         `json:"log_level"`
	LogFile             *string         `json:"log_file"`
}

// parseJson overlays cfg with the JSON file named by -c or -config. It
// panics when the file cannot be read or parsed.
func parseJson(cfg *Config) {
	path := flagx.JsonConfigFlags()
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	jc.apply(cfg)
}

func (jc JsonConfig) apply(cfg *Config) {
	setString(&cfg.ServerURL, jc.ServerURL)
	setDuration(&cfg.RequestTimeout, jc.RequestTimeout)
	setString(&cfg.DatabasePath, jc.DatabasePath)
	setString(&cfg.TokenStorage, jc.TokenStorage)
	setString(&cfg.RedisURL, jc.RedisURL)
	setString(&cfg.PostMode, jc.PostMode)
	setDuration(&cfg.OnlineCheckInterval, jc.OnlineCheckInterval)
	setString(&cfg.LogLevel, jc.LogLevel)
	setString(&cfg.LogFile, jc.LogFile)
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func setDuration(dst *time.Duration, v *timex.Duration) {
	if v != nil {
		*dst = v.Duration
	}
}
