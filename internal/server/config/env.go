package config

import (
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
)

const envPrefix = "MAPKEEPER_MIRROR_"

func parseEnv(cfg *Config, environ map[string]string) error {
	if environ == nil {
		environ = env.ToMap(os.Environ())
	}
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: envPrefix, Environment: environ}); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}
