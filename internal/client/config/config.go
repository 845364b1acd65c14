package config

import (
	"os"
	"time"

	"github.com/dmitrijs2005/authdialog/internal/client/models"
)

// Config holds runtime settings for the dialog client.
//
// Fields:
//   - APIURL: the single login API endpoint all requests go to.
//   - Phones: authenticator platforms offered during 2FA enrollment.
//   - Language: preferred UI language tag (matched against bundled tables).
//   - StoreDSN: SQLite DSN of the local metadata store.
//   - RequestTimeout: deadline for a single API call.
//   - LogLevel: debug, info, warn or error.
//   - ResetFragment: a "#reset_password?k=v&..." fragment to complete at boot.
type Config struct {
	APIURL         string
	Phones         []models.PhoneProfile
	Language       string
	StoreDSN       string
	RequestTimeout time.Duration
	LogLevel       string
	ResetFragment  string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIURL = "http://127.0.0.1:8080/login_api.php"
	c.Phones = models.DefaultPhones()
	c.Language = "en"
	c.StoreDSN = "authdialog.db"
	c.RequestTimeout = 15 * time.Second
	c.LogLevel = "info"
	c.ResetFragment = ""
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
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
