package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/dmitrijs2005/mapkeeper/internal/flagx"
)

// duration accepts either a Go duration string ("3s") or integer nanoseconds.
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

// JsonConfig is the on-disk form of Config. Pointer fields distinguish an
// absent key from an explicit zero value.
type JsonConfig struct {
	DatabasePath        *string   `json:"database_path"`
	LogLevel            *string   `json:"log_level"`
	LogFormat           *string   `json:"log_format"`
	SessionTTL          *duration `json:"session_ttl"`
	OnlineCheckInterval *duration `json:"online_check_interval"`

	MirrorKind    *string   `json:"mirror"`
	MirrorAddr    *string   `json:"mirror_addr"`
	MirrorToken   *string   `json:"mirror_token"`
	MirrorKey     *string   `json:"mirror_key"`
	MirrorTimeout *duration `json:"mirror_timeout"`

	S3Bucket       *string `json:"s3_bucket"`
	S3Region       *string `json:"s3_region"`
	S3BaseEndpoint *string `json:"s3_base_endpoint"`
	S3AccessKey    *string `json:"s3_access_key"`
	S3SecretKey    *string `json:"s3_secret_key"`
	S3ObjectKey    *string `json:"s3_object_key"`

	RedisKey *string `json:"redis_key"`
}

// parseJson overlays cfg with the JSON file named by -c or -config. Without
// either flag it does nothing.
func parseJson(cfg *Config, args []string) error {
	path := flagx.ConfigFileFlag(args)
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

	setString(&cfg.DatabasePath, jc.DatabasePath)
	setString(&cfg.LogLevel, jc.LogLevel)
	setString(&cfg.LogFormat, jc.LogFormat)
	setDuration(&cfg.SessionTTL, jc.SessionTTL)
	setDuration(&cfg.OnlineCheckInterval, jc.OnlineCheckInterval)
	setString(&cfg.MirrorKind, jc.MirrorKind)
	setString(&cfg.MirrorAddr, jc.MirrorAddr)
	setString(&cfg.MirrorToken, jc.MirrorToken)
	setString(&cfg.MirrorKey, jc.MirrorKey)
	setDuration(&cfg.MirrorTimeout, jc.MirrorTimeout)
	setString(&cfg.S3Bucket, jc.S3Bucket)
	setString(&cfg.S3Region, jc.S3Region)
	setString(&cfg.S3BaseEndpoint, jc.S3BaseEndpoint)
	setString(&cfg.S3AccessKey, jc.S3AccessKey)
	setString(&cfg.S3SecretKey, jc.S3SecretKey)
	setString(&cfg.S3ObjectKey, jc.S3ObjectKey)
	setString(&cfg.RedisKey, jc.RedisKey)

	return nil
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

func setDuration(dst *time.Duration, src *duration) {
	if src != nil {
		*dst = time.Duration(*src)
	}
}
