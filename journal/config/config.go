// Package config loads settings for the journal-submit command.
//
// Settings come from an optional YAML file, then environment variables
// override whatever the file set.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"

	"go.yaml.in/yaml/v2"
)

const (
	// DefaultServerURL is where the journal server listens out of the box.
	DefaultServerURL = "http://127.0.0.1:3000"
	DefaultLogFormat = LogFormatText
	DefaultTraceName = "journal-go"
)

// Log formats understood by the command.
const (
	LogFormatText = "text"
	LogFormatJSON = "json"
)

// Environment variables read by Load.
const (
	EnvServerURL   = "JOURNAL_SERVER_URL"
	EnvLogFormat   = "JOURNAL_LOG_FORMAT"
	EnvMetricsAddr = "JOURNAL_METRICS_ADDR"
)

// Config holds the command settings.
type Config struct {
	// ServerURL is the journal server base URL; entries go to its /new_entry.
	ServerURL string `yaml:"server_url"`

	// LogFormat selects text or json event lines on stderr.
	LogFormat string `yaml:"log_format"`

	// MetricsAddr, when set, serves Prometheus metrics on this address.
	MetricsAddr string `yaml:"metrics_addr"`

	// TraceName is the OpenTelemetry tracer name.
	TraceName string `yaml:"trace_name"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		ServerURL: DefaultServerURL,
		LogFormat: DefaultLogFormat,
		TraceName: DefaultTraceName,
	}
}

// Load builds a Config from defaults, the YAML file at path (skipped when
// path is empty) and the environment, in that order.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to parse YAML config: %w", err)
		}
	}

	cfg.ServerURL = getEnv(EnvServerURL, cfg.ServerURL)
	cfg.LogFormat = getEnv(EnvLogFormat, cfg.LogFormat)
	cfg.MetricsAddr = getEnv(EnvMetricsAddr, cfg.MetricsAddr)

	return cfg, nil
}

// Validate checks that the settings can be used.
func (c Config) Validate() error {
	u, err := url.Parse(c.ServerURL)
	if err != nil {
		return fmt.Errorf("configuration error: server_url: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("configuration error: server_url %q must be an absolute http(s) url", c.ServerURL)
	}

	switch c.LogFormat {
	case LogFormatText, LogFormatJSON:
	default:
		return fmt.Errorf("configuration error: log_format %q (want %q or %q)", c.LogFormat, LogFormatText, LogFormatJSON)
	}

	if c.TraceName == "" {
		return errors.New("configuration error: trace_name is empty")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}
