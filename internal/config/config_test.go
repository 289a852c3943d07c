package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func validConfig(t *testing.T) *Config {
	t.Helper()
	return &Config{
		APIBaseURL:        "http://localhost:8001",
		AppBaseURL:        "http://localhost:3000",
		Environment:       "development",
		OAuthRedirectPort: "8085",
		StateDir:          t.TempDir(),
	}
}

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"API_BASE_URL", "APP_BASE_URL", "ENVIRONMENT", "OAUTH_REDIRECT_PORT", "SATANG_STATE_DIR"} {
		t.Setenv(key, "")
	}

	cfg := Load()
	if cfg.APIBaseURL != "http://localhost:8001" {
		t.Errorf("APIBaseURL = %q", cfg.APIBaseURL)
	}
	if cfg.AppBaseURL != "http://localhost:3000" {
		t.Errorf("AppBaseURL = %q", cfg.AppBaseURL)
	}
	if cfg.Environment != "development" || cfg.Production() {
		t.Errorf("Environment = %q, Production() = %v", cfg.Environment, cfg.Production())
	}
	if cfg.OAuthRedirectPort != "8085" {
		t.Errorf("OAuthRedirectPort = %q", cfg.OAuthRedirectPort)
	}
	if cfg.StateDir != "./data" {
		t.Errorf("StateDir = %q", cfg.StateDir)
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("API_BASE_URL", "https://api.satang.app")
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("SATANG_STATE_DIR", "/var/lib/satang")

	cfg := Load()
	if cfg.APIBaseURL != "https://api.satang.app" {
		t.Errorf("APIBaseURL = %q", cfg.APIBaseURL)
	}
	if !cfg.Production() {
		t.Error("Production() = false, want true")
	}
	if cfg.DBPath() != filepath.Join("/var/lib/satang", "satang.db") {
		t.Errorf("DBPath() = %q", cfg.DBPath())
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"bad api scheme", func(c *Config) { c.APIBaseURL = "ftp://host" }, "invalid API_BASE_URL scheme"},
		{"missing app host", func(c *Config) { c.AppBaseURL = "http://" }, "missing host"},
		{"bad environment", func(c *Config) { c.Environment = "staging" }, "invalid environment"},
		{"non-numeric port", func(c *Config) { c.OAuthRedirectPort = "abc" }, "must be a number"},
		{"port out of range", func(c *Config) { c.OAuthRedirectPort = "70000" }, "between 1 and 65535"},
		{"missing client file", func(c *Config) { c.GoogleOAuthClientFile = "/nonexistent/client.json" }, "does not exist"},
		{"empty state dir", func(c *Config) { c.StateDir = "" }, "state directory cannot be empty"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig(t)
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate() error = %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() = %v, want message containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestValidateAccumulatesErrors(t *testing.T) {
	cfg := validConfig(t)
	cfg.Environment = "staging"
	cfg.OAuthRedirectPort = "abc"

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation error")
	}
	for _, want := range []string{"invalid environment", "must be a number"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q missing %q", err, want)
		}
	}
}

func TestValidateCreatesStateDir(t *testing.T) {
	cfg := validConfig(t)
	cfg.StateDir = filepath.Join(t.TempDir(), "nested", "state")

	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if _, err := os.Stat(cfg.StateDir); err != nil {
		t.Errorf("state directory was not created: %v", err)
	}
}
