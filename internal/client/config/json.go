package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/mergington/signup/internal/timex"
)

// JsonConfig is the on-disk shape of the config file. Only keys present in
// the file override the current values.
type JsonConfig struct {
	ServerURL      *string         `json:"server_url"`
	DatabasePath   *string         `json:"database_path"`
	RequestTimeout *timex.Duration `json:"request_timeout"`
	MessageDelay   *timex.Duration `json:"message_delay"`
	LogLevel       *string         `json:"log_level"`
}

// parseJSON overlays cfg with the file at path. An empty path is a no-op.
func parseJSON(cfg *Config, path string) error {
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	if jc.ServerURL != nil {
		cfg.ServerURL = *jc.ServerURL
	}
	if jc.DatabasePath != nil {
		cfg.DatabasePath = *jc.DatabasePath
	}
	if jc.RequestTimeout != nil {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.MessageDelay != nil {
		cfg.MessageDelay = jc.MessageDelay.Duration
	}
	if jc.LogLevel != nil {
		cfg.LogLevel = *jc.LogLevel
	}
	return nil
}
