package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/authdialog/internal/flagx"
	"github.com/dmitrijs2005/authdialog/internal/timex"
)

// JsonConfig is the on-disk form of Config. Durations use timex.Duration so
// they can be written as "1h" or as integer nanoseconds.
type JsonConfig struct {
	ListenAddr            string         `json:"listen_addr"`
	PublicURL             string         `json:"public_url"`
	SecretKey             string         `json:"secret_key"`
	SessionValidity       timex.Duration `json:"session_validity"`
	FailuresBeforeCaptcha int            `json:"failures_before_captcha"`
	CaptchaWindow         timex.Duration `json:"captcha_window"`
	Users                 []SeedUser     `json:"users"`
	LogLevel              string         `json:"log_level"`
	SMTP                  SMTPConfig     `json:"smtp"`
}

// parseJson overlays config with the file named by -c or -config. Only
// fields present with a non-zero value replace the current ones. Panics if
// the file cannot be read or parsed.
func parseJson(config *Config, args []string) {
	jsonConfigFile := flagx.ConfigPath(args)

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	if c.ListenAddr != "" {
		config.ListenAddr = c.ListenAddr
	}
	if c.PublicURL != "" {
		config.PublicURL = c.PublicURL
	}
	if c.SecretKey != "" {
		config.SecretKey = c.SecretKey
	}
	if c.SessionValidity.Duration > 0 {
		config.SessionValidity = c.SessionValidity.Duration
	}
	if c.FailuresBeforeCaptcha > 0 {
		config.FailuresBeforeCaptcha = c.FailuresBeforeCaptcha
	}
	if c.CaptchaWindow.Duration > 0 {
		config.CaptchaWindow = c.CaptchaWindow.Duration
	}
	if len(c.Users) > 0 {
		config.Users = c.Users
	}
	if c.LogLevel != "" {
		config.LogLevel = c.LogLevel
	}
	if c.SMTP.Host != "" {
		config.SMTP.Host = c.SMTP.Host
		config.SMTP.Username = c.SMTP.Username
		config.SMTP.Password = c.SMTP.Password
	}
	if c.SMTP.Port > 0 {
		config.SMTP.Port = c.SMTP.Port
	}
	if c.SMTP.From != "" {
		config.SMTP.From = c.SMTP.From
	}
}
