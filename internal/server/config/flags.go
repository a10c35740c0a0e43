package config

import (
	"flag"
	"io"

	"github.com/dmitrijs2005/mapkeeper/internal/flagx"
)

// parseFlags overlays cfg with command-line flags.
//
//	-a string   gRPC bind address (e.g., ":50051")
//	-d string   PostgreSQL DSN, empty for in-memory storage
//	-s string   JWT HMAC secret key
//	-t duration token validity for issued tokens
//	-m string   metrics bind address, empty disables it
//	-x int      maximum snapshot size in bytes
//	-l string   log level
func parseFlags(cfg *Config, args []string) error {
	args = flagx.FilterArgs(args, []string{"-a", "-d", "-s", "-t", "-m", "-x", "-l"})

	fs := flag.NewFlagSet("mirror", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.EndpointAddrGRPC, "a", cfg.EndpointAddrGRPC, "address and port to run server")
	fs.StringVar(&cfg.DatabaseDSN, "d", cfg.DatabaseDSN, "database DSN")
	fs.StringVar(&cfg.SecretKey, "s", cfg.SecretKey, "secret key")
	fs.DurationVar(&cfg.TokenValidityDuration, "t", cfg.TokenValidityDuration, "token validity")
	fs.StringVar(&cfg.MetricsAddr, "m", cfg.MetricsAddr, "metrics address")
	fs.IntVar(&cfg.MaxSnapshotBytes, "x", cfg.MaxSnapshotBytes, "maximum snapshot size in bytes")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")

	return fs.Parse(args)
}
