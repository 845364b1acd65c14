package config

import (
	"flag"
	"time"

	"github.com/dmitrijs2005/authdialog/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":8080")
//	-s string   JWT HMAC secret key
//	-t int      session validity, minutes
//	-p string   public base URL
//	-f int      failed logins before a captcha is required
//	-v string   log level
//
// Notes:
//   - args is first filtered with flagx.FilterArgs so flags meant for other
//     components do not fail the parse.
//   - The session validity is accepted in minutes and applied only when the
//     flag is given.
func parseFlags(config *Config, args []string) {
	args = flagx.FilterArgs(args, []string{"-a", "-s", "-t", "-p", "-f", "-v"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.ListenAddr, "a", config.ListenAddr, "address and port to run server")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")
	sessionValidity := fs.Int("t", int(config.SessionValidity.Minutes()), "session validity (in minutes)")
	fs.StringVar(&config.PublicURL, "p", config.PublicURL, "public base URL")
	fs.IntVar(&config.FailuresBeforeCaptcha, "f", config.FailuresBeforeCaptcha, "failed logins before captcha")
	fs.StringVar(&config.LogLevel, "v", config.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	if flagx.Visited(fs)["t"] {
		config.SessionValidity = time.Duration(*sessionValidity) * time.Minute
	}
}
