package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/authdialog/internal/client/models"
)

func defaults() *Config {
	c := &Config{}
	c.LoadDefaults()
	return c
}

func writeTempJSON(t *testing.T, data map[string]any) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cfg.json")
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	c := defaults()

	assert.Equal(t, "http://127.0.0.1:8080/login_api.php", c.APIURL)
	assert.Equal(t, models.DefaultPhones(), c.Phones)
	assert.Equal(t, "en", c.Language)
	assert.Equal(t, 15*time.Second, c.RequestTimeout)
	assert.Equal(t, "info", c.LogLevel)
	assert.Empty(t, c.ResetFragment)
}

func TestLoad_NoArgsGivesDefaults(t *testing.T) {
	assert.Empty(t, cmp.Diff(defaults(), load(nil)))
}

func TestParseFlags(t *testing.T) {
	tests := []struct {
		name        string
		args        []string
		expected    func() *Config
		expectPanic bool
	}{
		{
			name: "all flags",
			args: []string{"-u", "http://api/x.php", "-d", ":memory:", "-l", "vi", "-t", "3", "-r", "#reset_password?a=b", "-v", "debug"},
			expected: func() *Config {
				c := defaults()
				c.APIURL = "http://api/x.php"
				c.StoreDSN = ":memory:"
				c.Language = "vi"
				c.RequestTimeout = 3 * time.Second
				c.ResetFragment = "#reset_password?a=b"
				c.LogLevel = "debug"
				return c
			},
		},
		{
			name:     "unknown flags ignored",
			args:     []string{"-x", "1", "-l", "vi"},
			expected: func() *Config { c := defaults(); c.Language = "vi"; return c },
		},
		{
			name:        "bad timeout",
			args:        []string{"-t", "abc"},
			expectPanic: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaults()
			if tt.expectPanic {
				require.Panics(t, func() { parseFlags(cfg, tt.args) })
				return
			}
			require.NotPanics(t, func() { parseFlags(cfg, tt.args) })
			assert.Empty(t, cmp.Diff(tt.expected(), cfg))
		})
	}
}

func TestParseFlags_TimeoutKeptWhenNotGiven(t *testing.T) {
	cfg := defaults()
	cfg.RequestTimeout = 1500 * time.Millisecond

	parseFlags(cfg, []string{"-l", "en"})

	assert.Equal(t, 1500*time.Millisecond, cfg.RequestTimeout)
}

func TestParseJson_Overlay(t *testing.T) {
	path := writeTempJSON(t, map[string]any{
		"api_url":         "https://forum.example/login_api.php",
		"phones":          []map[string]string{{"title": "Nokia", "slug": "nokia", "app_url": "http://n"}},
		"request_timeout": "10s",
	})

	cfg := defaults()
	parseJson(cfg, []string{"-c", path})

	want := defaults()
	want.APIURL = "https://forum.example/login_api.php"
	want.Phones = []models.PhoneProfile{{Title: "Nokia", Slug: "nokia", AppURL: "http://n"}}
	want.RequestTimeout = 10 * time.Second
	assert.Empty(t, cmp.Diff(want, cfg))
}

func TestParseJson_NoConfigFlag_NoChanges(t *testing.T) {
	cfg := defaults()
	parseJson(cfg, []string{"-u", "x"})
	assert.Empty(t, cmp.Diff(defaults(), cfg))
}

func TestParseJson_InvalidJSONPanics(t *testing.T) {
	bad := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{ this is not valid json`), 0o600))

	require.Panics(t, func() { parseJson(defaults(), []string{"-config", bad}) })
}

func TestParseJson_MissingFilePanics(t *testing.T) {
	require.Panics(t, func() { parseJson(defaults(), []string{"-c", "/does/not/exist.json"}) })
}

func TestLoad_FlagsOverrideJSON(t *testing.T) {
	path := writeTempJSON(t, map[string]any{"language": "vi", "log_level": "warn"})

	cfg := load([]string{"-c", path, "-l", "en"})

	assert.Equal(t, "en", cfg.Language)
	assert.Equal(t, "warn", cfg.LogLevel)
}
