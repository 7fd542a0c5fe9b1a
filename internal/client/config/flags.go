package config

import (
	"flag"
	"io"
	"time"

	"github.com/dmitrijs2005/reverseauction/internal/flagx"
)

// parseFlags applies the short flags this package owns; other flags in args
// are ignored so the CLI can define its own.
//
//	-a string   REST api base url
//	-w string   realtime url
//	-t int      request timeout (seconds)
//	-r int      reconnect attempts (0 = unbounded)
//	-s string   local storage path
func parseFlags(cfg *Config, args []string) error {
	args = flagx.FilterArgs(args, []string{"-a", "-w", "-t", "-r", "-s"})

	fs := flag.NewFlagSet("market", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.APIBaseURL, "a", cfg.APIBaseURL, "api base url")
	fs.StringVar(&cfg.RealtimeURL, "w", cfg.RealtimeURL, "realtime url")
	timeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")
	fs.IntVar(&cfg.ReconnectMaxAttempts, "r", cfg.ReconnectMaxAttempts, "reconnect attempts, 0 for unbounded")
	fs.StringVar(&cfg.StoragePath, "s", cfg.StoragePath, "local storage path")

	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg.RequestTimeout = time.Duration(*timeout) * time.Second
	return nil
}
