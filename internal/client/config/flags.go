package config

import (
	"flag"
	"io"
	"time"

	"github.com/dmitrijs2005/gophprofile/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
//	-a string   address and port of the identity backend
//	-i int      connectivity check interval in seconds
//	-l string   message locale (es, en)
//	-s string   profile store (postgres, mongo, redis, s3)
//
// Other arguments are ignored.
func parseFlags(cfg *Config, args []string) error {
	args = flagx.Filter(args, "-a", "-i", "-l", "-s")

	fs := flag.NewFlagSet("gophprofile", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.IdentityAddr, "a", cfg.IdentityAddr, "address and port of the identity backend")
	interval := fs.Int("i", int(cfg.ConnectivityInterval.Seconds()), "connectivity check interval (in seconds)")
	fs.StringVar(&cfg.Locale, "l", cfg.Locale, "message locale")
	fs.StringVar(&cfg.ProfileStore, "s", cfg.ProfileStore, "profile store")

	if err := fs.Parse(args); err != nil {
		return err
	}

	fs.Visit(func(f *flag.Flag) {
		if f.Name == "i" {
			cfg.ConnectivityInterval = time.Duration(*interval) * time.Second
		}
	})
	return nil
}
