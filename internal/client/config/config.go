package config

import (
	"encoding/hex"
	"fmt"
	"os"
	"time"
)

// Mirror kinds accepted by Config.MirrorKind.
const (
	MirrorNone  = "none"
	MirrorGRPC  = "grpc"
	MirrorS3    = "s3"
	MirrorRedis = "redis"
)

// Config holds runtime settings for the mapkeeper CLI.
type Config struct {
	DatabasePath string `env:"DB_PATH"`
	LogLevel     string `env:"LOG_LEVEL"`
	LogFormat    string `env:"LOG_FORMAT"`

	// SessionTTL of zero keeps sessions alive until logout or restart.
	SessionTTL          time.Duration `env:"SESSION_TTL"`
	OnlineCheckInterval time.Duration `env:"ONLINE_CHECK_INTERVAL"`

	MirrorKind    string        `env:"MIRROR"`
	MirrorAddr    string        `env:"MIRROR_ADDR"`
	MirrorToken   string        `env:"MIRROR_TOKEN"`
	MirrorKey     string        `env:"MIRROR_KEY"`
	MirrorTimeout time.Duration `env:"MIRROR_TIMEOUT"`

	S3Bucket       string `env:"S3_BUCKET"`
	S3Region       string `env:"S3_REGION"`
	S3BaseEndpoint string `env:"S3_BASE_ENDPOINT"`
	S3AccessKey    string `env:"S3_ACCESS_KEY"`
	S3SecretKey    string `env:"S3_SECRET_KEY"`
	S3ObjectKey    string `env:"S3_OBJECT_KEY"`

	RedisKey string `env:"REDIS_KEY"`
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.DatabasePath = "mapkeeper.db"
	c.LogLevel = "info"
	c.LogFormat = "text"
	c.SessionTTL = 0
	c.OnlineCheckInterval = 3 * time.Second
	c.MirrorKind = MirrorNone
	c.MirrorAddr = "127.0.0.1:50051"
	c.MirrorTimeout = 5 * time.Second
	c.S3Region = "us-east-1"
	c.S3ObjectKey = "mapkeeper/snapshot.json"
	c.RedisKey = "mapkeeper:snapshot"
}

// LoadConfig builds a Config from defaults, the process environment, an
// optional JSON file and command-line flags, in that order. It panics when
// any source is malformed.
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

// SealKey decodes MirrorKey. An empty key returns nil, meaning snapshots are
// mirrored unsealed.
func (c *Config) SealKey() ([]byte, error) {
	if c.MirrorKey == "" {
		return nil, nil
	}
	key, err := hex.DecodeString(c.MirrorKey)
	if err != nil {
		return nil, fmt.Errorf("decode mirror key: %w", err)
	}
	switch len(key) {
	case 16, 24, 32:
		return key, nil
	default:
		return nil, fmt.Errorf("mirror key must be 16, 24 or 32 bytes, got %d", len(key))
	}
}
