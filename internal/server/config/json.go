package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/dmitrijs2005/mapkeeper/internal/flagx"
)

// duration accepts "1h" style strings or integer nanoseconds.
type duration time.Duration

func (d *duration) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	switch value := v.(type) {
	case float64:
		*d = duration(time.Duration(value))
	case string:
		parsed, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		*d = duration(parsed)
	default:
		return fmt.Errorf("invalid duration %s", string(b))
	}
	return nil
}

// JsonConfig is the on-disk form of Config; absent keys keep their value.
type JsonConfig struct {
	EndpointAddrGRPC      *string   `json:"endpoint_addr_grpc"`
	DatabaseDSN           *string   `json:"database_dsn"`
	SecretKey             *string   `json:"secret_key"`
	TokenValidityDuration *duration `json:"token_validity_duration"`
	MetricsAddr           *string   `json:"metrics_addr"`
	MaxSnapshotBytes      *int      `json:"max_snapshot_bytes"`
	LogLevel              *string   `json:"log_level"`
	LogFormat             *string   `json:"log_format"`
}

func parseJson(cfg *Config, args []string) error {
	path := flagx.ConfigFileFlag(args)
	if path == "" {
		return nil
	}

	file, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	if c.EndpointAddrGRPC != nil {
		cfg.EndpointAddrGRPC = *c.EndpointAddrGRPC
	}
	if c.DatabaseDSN != nil {
		cfg.DatabaseDSN = *c.DatabaseDSN
	}
	if c.SecretKey != nil {
		cfg.SecretKey = *c.SecretKey
	}
	if c.TokenValidityDuration != nil {
		cfg.TokenValidityDuration = time.Duration(*c.TokenValidityDuration)
	}
	if c.MetricsAddr != nil {
		cfg.MetricsAddr = *c.MetricsAddr
	}
	if c.MaxSnapshotBytes != nil {
		cfg.MaxSnapshotBytes = *c.MaxSnapshotBytes
	}
	if c.LogLevel != nil {
		cfg.LogLevel = *c.LogLevel
	}
	if c.LogFormat != nil {
		cfg.LogFormat = *c.LogFormat
	}
	return nil
}
