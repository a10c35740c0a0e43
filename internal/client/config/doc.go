// Package config loads runtime configuration for the mapkeeper CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Environment variables prefixed with MAPKEEPER_ (see parseEnv).
//  3. Optional JSON file selected with -c or -config (see parseJson).
//  4. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-d string   path of the local SQLite database
//	-l string   log level (debug, info, warn, error)
//	-f string   log format (text, json, pretty)
//	-m string   mirror kind (none, grpc, s3, redis)
//	-a string   mirror address (gRPC host:port or Redis host:port)
//	-t string   mirror access token
//	-k string   hex encoded AES key used to seal mirrored snapshots
//	-i int      online status check interval (seconds)
//	-s duration session lifetime, 0 keeps sessions until logout
//
// # JSON schema
//
// Durations may be strings like "3s" or integer nanoseconds:
//
//	{
//	  "database_path": "mapkeeper.db",
//	  "mirror": "grpc",
//	  "mirror_addr": "127.0.0.1:50051",
//	  "online_check_interval": "3s"
//	}
package config
