package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

const envPrefix = "SIGNUP_"

// parseEnv overlays cfg with SIGNUP_* variables from environ. Unset
// variables leave the field as it is.
func parseEnv(cfg *Config, environ map[string]string) error {
	opts := env.Options{Prefix: envPrefix, Environment: environ}
	if err := env.ParseWithOptions(cfg, opts); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}
