// Package config loads runtime configuration for the dialog client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-u string   login API endpoint URL
//	-d string   local store DSN
//	-l string   UI language (en, vi)
//	-t int      request timeout (seconds)
//	-r string   reset_password fragment completed at boot
//	-v string   log level
//
// # JSON schema
//
//	{
//	  "api_url": "https://forum.example/login_api.php",
//	  "phones": [{"title": "iPhone", "slug": "iphone", "app_url": "http://..."}],
//	  "language": "vi",
//	  "store_dsn": "/home/me/.authdialog.db",
//	  "request_timeout": "10s",
//	  "log_level": "debug",
//	  "reset_fragment": "#reset_password?userid=7&activationid=abc"
//	}
//
// Note: This package does not read environment variables directly; use the
// JSON file or flags to configure values.
package config
