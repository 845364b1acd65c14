package config

import (
	"flag"
	"time"

	"github.com/dmitrijs2005/authdialog/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-u string   login API endpoint URL
//	-d string   local store DSN
//	-l string   UI language
//	-t int      request timeout (in seconds)
//	-r string   reset_password fragment to complete at boot
//	-v string   log level
//
// Only the flags listed above are parsed; args is filtered with
// flagx.FilterArgs first so foreign flags do not fail the parse.
func parseFlags(cfg *Config, args []string) {
	args = flagx.FilterArgs(args, []string{"-u", "-d", "-l", "-t", "-r", "-v"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.APIURL, "u", cfg.APIURL, "login API endpoint URL")
	fs.StringVar(&cfg.StoreDSN, "d", cfg.StoreDSN, "local store DSN")
	fs.StringVar(&cfg.Language, "l", cfg.Language, "UI language")
	timeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")
	fs.StringVar(&cfg.ResetFragment, "r", cfg.ResetFragment, "reset_password URL fragment")
	fs.StringVar(&cfg.LogLevel, "v", cfg.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	if flagx.Visited(fs)["t"] {
		cfg.RequestTimeout = time.Duration(*timeout) * time.Second
	}
}
