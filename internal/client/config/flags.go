package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/socialhub/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
//	-a string   backend base URL
//	-t int      request timeout in seconds
//	-d string   local database path
//	-m string   post store mode: memory or remote
//	-s string   token storage: sqlite or redis
//
// -t overrides the timeout only when given, so sub-second values from
// earlier sources survive. Only these flags are considered; anything else
// on the command line is left to other loaders. It panics on malformed
// values.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-t", "-d", "-m", "-s"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.ServerURL, "a", cfg.ServerURL, "backend base URL")
	timeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")
	fs.StringVar(&cfg.DatabasePath, "d", cfg.DatabasePath, "path to the local database")
	fs.StringVar(&cfg.PostMode, "m", cfg.PostMode, "post store mode (memory|remote)")
	fs.StringVar(&cfg.TokenStorage, "s", cfg.TokenStorage, "token storage (sqlite|redis)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	fs.Visit(func(f *flag.Flag) {
		if f.Name == "t" {
			cfg.RequestTimeout = time.Duration(*timeout) * time.Second
		}
	})
}
