package config

import (
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
)

const envPrefix = "MAPKEEPER_"

// parseEnv overlays cfg with MAPKEEPER_* variables. A nil environ reads the
// process environment. Unset variables leave the current value untouched.
func parseEnv(cfg *Config, environ map[string]string) error {
	if environ == nil {
		environ = env.ToMap(os.Environ())
	}

	opts := env.Options{
		Prefix:      envPrefix,
		Environment: environ,
	}
	if err := env.ParseWithOptions(cfg, opts); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}
