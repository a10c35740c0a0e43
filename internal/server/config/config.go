// Package config handles configuration for the mirror server: defaults,
// MAPKEEPER_MIRROR_* environment variables, a JSON overlay and command-line
// flags, applied in that order.
package config

import (
	"os"
	"time"
)

// Config holds runtime settings for the mirror server.
//
// Fields:
//   - EndpointAddrGRPC: bind address for the gRPC endpoint.
//   - DatabaseDSN: PostgreSQL DSN (pgx). Empty keeps snapshots in memory.
//   - SecretKey: HMAC secret for client tokens (HS256). Override the default.
//   - TokenValidityDuration: lifetime of tokens issued by mirrortoken.
//   - MetricsAddr: bind address of the Prometheus endpoint; empty disables it.
//   - MaxSnapshotBytes: largest accepted snapshot document.
type Config struct {
	EndpointAddrGRPC      string        `env:"GRPC_ADDR"`
	DatabaseDSN           string        `env:"DATABASE_DSN"`
	SecretKey             string        `env:"SECRET_KEY"`
	TokenValidityDuration time.Duration `env:"TOKEN_VALIDITY"`
	MetricsAddr           string        `env:"METRICS_ADDR"`
	MaxSnapshotBytes      int           `env:"MAX_SNAPSHOT_BYTES"`
	LogLevel              string        `env:"LOG_LEVEL"`
	LogFormat             string        `env:"LOG_FORMAT"`
}

// LoadDefaults populates Config with development defaults.
// NOTE: SecretKey must be overridden outside development.
func (c *Config) LoadDefaults() {
	c.EndpointAddrGRPC = ":50051"
	c.DatabaseDSN = ""
	c.SecretKey = "secretKey"
	c.TokenValidityDuration = 30 * 24 * time.Hour
	c.MetricsAddr = ":9090"
	c.MaxSnapshotBytes = 8 << 20
	c.LogLevel = "info"
	c.LogFormat = "json"
}

// LoadConfig builds a Config from all sources and panics on malformed input.
func LoadConfig() *Config {
	cfg, err := load(os.Args[1:], nil)
	if err != nil {
		panic(err)
	}
	return cfg
}

func load(args []string, environ map[string]string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := parseEnv(cfg, environ); err != nil {
		return nil, err
	}
	if err := parseJson(cfg, args); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	return cfg, nil
}
