package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "journal.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{EnvServerURL, EnvLogFormat, EnvMetricsAddr} {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg != Default() {
		t.Errorf("Load(\"\") = %+v, want %+v", cfg, Default())
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestLoad_FileThenEnv(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
server_url: https://journal.example.com
log_format: json
metrics_addr: ":9090"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.ServerURL != "https://journal.example.com" || cfg.LogFormat != LogFormatJSON || cfg.MetricsAddr != ":9090" {
		t.Errorf("file values not applied: %+v", cfg)
	}
	if cfg.TraceName != DefaultTraceName {
		t.Errorf("TraceName = %q, want default", cfg.TraceName)
	}

	t.Setenv(EnvServerURL, "http://localhost:8080")
	cfg, err = Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.ServerURL != "http://localhost:8080" {
		t.Errorf("env override ignored: ServerURL = %q", cfg.ServerURL)
	}
}

func TestLoad_Errors(t *testing.T) {
	clearEnv(t)

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Load() of missing file should fail")
	}

	bad := writeConfig(t, "server_url: [unterminated")
	if _, err := Load(bad); err == nil || !strings.Contains(err.Error(), "parse") {
		t.Errorf("Load() error = %v, want parse error", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"default", func(*Config) {}, false},
		{"https", func(c *Config) { c.ServerURL = "https://example.com" }, false},
		{"relative url", func(c *Config) { c.ServerURL = "/new_entry" }, true},
		{"bad scheme", func(c *Config) { c.ServerURL = "ftp://example.com" }, true},
		{"bad log format", func(c *Config) { c.LogFormat = "xml" }, true},
		{"empty trace name", func(c *Config) { c.TraceName = "" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
