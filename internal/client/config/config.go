package config

import (
	"os"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/mergington/signup/internal/flagx"
)

// Config holds runtime settings for the signup client.
type Config struct {
	ServerURL      string        `env:"SERVER_URL"`
	DatabasePath   string        `env:"DATABASE_PATH"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`
	MessageDelay   time.Duration `env:"MESSAGE_DELAY"`
	LogLevel       string        `env:"LOG_LEVEL"`
}

// LoadDefaults populates c with defaults.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://127.0.0.1:8000"
	c.DatabasePath = "signup.db"
	c.RequestTimeout = 0
	c.MessageDelay = 5 * time.Second
	c.LogLevel = "info"
}

// LoadConfig builds a Config from defaults, the JSON file, the process
// environment and args (usually os.Args[1:]), in that order.
func LoadConfig(args []string) (*Config, error) {
	return load(args, env.ToMap(os.Environ()))
}

func load(args []string, environ map[string]string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := parseJSON(cfg, flagx.ConfigPath(args)); err != nil {
		return nil, err
	}
	if err := parseEnv(cfg, environ); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	return cfg, nil
}
