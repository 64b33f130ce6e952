// Package config loads runtime configuration for the signup client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file named by -c or -config.
//  3. Environment variables prefixed with SIGNUP_.
//  4. Command-line flags, which override everything else.
//
// Supported flags
//
//	-a string   base URL of the activities API
//	-d string   path of the local session database
//	-t int      request timeout in seconds (0 = none)
//	-m int      status message display time in seconds
//	-l string   log level: debug, info, warn, error
//
// # JSON schema
//
// Durations may be strings like "5s" or integer nanoseconds:
//
//	{
//	  "server_url": "http://127.0.0.1:8000",
//	  "database_path": "signup.db",
//	  "request_timeout": "10s",
//	  "message_delay": "5s",
//	  "log_level": "info"
//	}
//
// # Environment
//
//	SIGNUP_SERVER_URL, SIGNUP_DATABASE_PATH, SIGNUP_REQUEST_TIMEOUT,
//	SIGNUP_MESSAGE_DELAY, SIGNUP_LOG_LEVEL
package config
