package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/authdialog/internal/client/models"
	"github.com/dmitrijs2005/authdialog/internal/flagx"
	"github.com/dmitrijs2005/authdialog/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Durations use
// timex.Duration so they can be written as "15s" or as integer nanoseconds.
type JsonConfig struct {
	APIURL         string                `json:"api_url"`
	Phones         []models.PhoneProfile `json:"phones"`
	Language       string                `json:"language"`
	StoreDSN       string                `json:"store_dsn"`
	RequestTimeout timex.Duration        `json:"request_timeout"`
	LogLevel       string                `json:"log_level"`
	ResetFragment  string                `json:"reset_fragment"`
}

// parseJson overlays cfg with the fields present in the file named by -c or
// -config. Absent or zero fields keep their current value. Panics on read or
// unmarshal errors.
func parseJson(cfg *Config, args []string) {
	jsonConfigFile := flagx.ConfigPath(args)
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.APIURL != "" {
		cfg.APIURL = jc.APIURL
	}
	if len(jc.Phones) > 0 {
		cfg.Phones = jc.Phones
	}
	if jc.Language != "" {
		cfg.Language = jc.Language
	}
	if jc.StoreDSN != "" {
		cfg.StoreDSN = jc.StoreDSN
	}
	if jc.RequestTimeout.Duration > 0 {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.LogLevel != "" {
		cfg.LogLevel = jc.LogLevel
	}
	if jc.ResetFragment != "" {
		cfg.ResetFragment = jc.ResetFragment
	}
}
