// Package config loads runtime configuration for the SocialHub client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected with -c or -config.
//  3. SOCIALHUB_* environment variables.
//  4. Command-line flags, which override everything else.
//
// Supported flags
//
//	-a string   backend base URL
//	-t int      request timeout (seconds)
//	-d string   local database path
//	-m string   post store mode: memory or remote
//	-s string   token storage: sqlite or redis
//
// # JSON schema
//
// Durations use timex.Duration, so they can be strings like "3s" or integer
// nanoseconds. Keys left out keep their previous value:
//
//	{
//	  "server_url": "https://api.socialhub.example",
//	  "request_timeout": "10s",
//	  "database_path": "socialhub.db",
//	  "token_storage": "sqlite",
//	  "redis_url": "redis://localhost:6379/0",
//	  "post_mode": "remote",
//	  "online_check_interval": "3s",
//	  "log_level": "info",
//	  "log_file": ""
//	}
//
// # Environment
//
// SOCIALHUB_SERVER_URL, SOCIALHUB_REQUEST_TIMEOUT, SOCIALHUB_DATABASE_PATH,
// SOCIALHUB_TOKEN_STORAGE, SOCIALHUB_REDIS_URL, SOCIALHUB_POST_MODE,
// SOCIALHUB_ONLINE_CHECK_INTERVAL, SOCIALHUB_LOG_LEVEL, SOCIALHUB_LOG_FILE.
// Durations are Go duration strings.
package config
