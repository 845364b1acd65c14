// Package config handles configuration for the dev API server, including
// defaults, JSON overlay, and command-line flags.
package config

import (
	"os"
	"time"
)

// SeedUser is an account created when the server starts.
type SeedUser struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email"`
	// MustChangePassword forces a password change before 2FA enrollment.
	MustChangePassword bool `json:"must_change_password"`
}

// Config holds runtime settings for the dev API server.
//
// Fields:
//   - ListenAddr: bind address of the HTTP endpoint.
//   - PublicURL: base URL used in qr_url, success urls and reset links.
//   - SecretKey: HMAC secret for signing session JWTs (HS256). Do not use test defaults in prod.
//   - SessionValidity: lifetime of a session cookie.
//   - FailuresBeforeCaptcha: failed logins per user tolerated before a captcha is required.
//   - CaptchaWindow: time in which one tolerated failure is regained.
//   - Users: accounts seeded at start.
//   - LogLevel: debug, info, warn or error.
//   - SMTP: outgoing mail relay. Mail is printed to stderr when Host is empty.
type Config struct {
	ListenAddr            string
	PublicURL             string
	SecretKey             string
	SessionValidity       time.Duration
	FailuresBeforeCaptcha int
	CaptchaWindow         time.Duration
	Users                 []SeedUser
	LogLevel              string
	SMTP                  SMTPConfig
}

// SMTPConfig describes the relay used for reset mails.
type SMTPConfig struct {
	Host     string `json:"host"`
	Port     int    `json:"port"`
	Username string `json:"username"`
	Password string `json:"password"`
	From     string `json:"from"`
}

// LoadDefaults populates Config with development defaults.
// NOTE: These values are insecure for production and should be overridden.
func (c *Config) LoadDefaults() {
	c.ListenAddr = ":8080"
	c.PublicURL = "http://127.0.0.1:8080"
	c.SecretKey = "secretKey"
	c.SessionValidity = 60 * time.Minute
	c.FailuresBeforeCaptcha = 3
	c.CaptchaWindow = 5 * time.Minute
	c.Users = []SeedUser{{Username: "alice", Password: "secret", Email: "alice@example.com"}}
	c.LogLevel = "info"
	c.SMTP = SMTPConfig{Port: 587, From: "noreply@authdialog.local"}
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file and finally from command-line flags.
func LoadConfig() *Config {
	return load(os.Args[1:])
}

func load(args []string) *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg, args)
	parseFlags(cfg, args)
	return cfg
}
