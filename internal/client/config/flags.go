package config

import (
	"flag"
	"io"
	"time"

	"github.com/dmitrijs2005/mapkeeper/internal/flagx"
)

var flagNames = []string{"-d", "-l", "-f", "-m", "-a", "-t", "-k", "-i", "-s"}

// parseFlags overlays cfg with command-line flags. Only the flags listed in
// flagNames are looked at, so -c and unrelated arguments pass through.
func parseFlags(cfg *Config, args []string) error {
	args = flagx.FilterArgs(args, flagNames)

	fs := flag.NewFlagSet("mapkeeper", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.DatabasePath, "d", cfg.DatabasePath, "path of the local database")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")
	fs.StringVar(&cfg.LogFormat, "f", cfg.LogFormat, "log format")
	fs.StringVar(&cfg.MirrorKind, "m", cfg.MirrorKind, "mirror kind: none, grpc, s3, redis")
	fs.StringVar(&cfg.MirrorAddr, "a", cfg.MirrorAddr, "mirror address")
	fs.StringVar(&cfg.MirrorToken, "t", cfg.MirrorToken, "mirror access token")
	fs.StringVar(&cfg.MirrorKey, "k", cfg.MirrorKey, "hex encoded snapshot sealing key")
	fs.DurationVar(&cfg.SessionTTL, "s", cfg.SessionTTL, "session lifetime")
	onlineCheckInterval := fs.Int("i", int(cfg.OnlineCheckInterval.Seconds()), "online check interval (in seconds)")

	if err := fs.Parse(args); err != nil {
		return err
	}

	fs.Visit(func(f *flag.Flag) {
		if f.Name == "i" {
			cfg.OnlineCheckInterval = time.Duration(*onlineCheckInterval) * time.Second
		}
	})
	return nil
}
