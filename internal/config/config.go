package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

type Config struct {
	// Backend API
	APIBaseURL string

	// Application origin used for post-login redirect checks
	AppBaseURL string

	// Environment: "development" or "production"
	Environment string

	// Google OAuth client
	GoogleOAuthClientFile string
	GoogleOAuthClientJSON string
	OAuthRedirectPort     string

	// Local state (token, user snapshot, chat history)
	StateDir string
}

func Load() *Config {
	cfg := &Config{
		APIBaseURL:  getEnv("API_BASE_URL", "http://localhost:8001"),
		AppBaseURL:  getEnv("APP_BASE_URL", "http://localhost:3000"),
		Environment: getEnv("ENVIRONMENT", "development"),

		GoogleOAuthClientFile: getEnv("GOOGLE_OAUTH_CLIENT_FILE", ""),
		GoogleOAuthClientJSON: getEnv("GOOGLE_OAUTH_CLIENT_JSON", ""),
		OAuthRedirectPort:     getEnv("OAUTH_REDIRECT_PORT", "8085"),

		StateDir: getEnv("SATANG_STATE_DIR", "./data"),
	}

	return cfg
}

// Production reports whether the client runs against a production
// backend. Development builds log at debug level, production at info.
func (c *Config) Production() bool {
	return c.Environment == "production"
}

// DBPath returns the path of the local SQLite snapshot database.
func (c *Config) DBPath() string {
	return filepath.Join(c.StateDir, "satang.db")
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	baseURLs := []struct {
		name  string
		value string
	}{
		{"API_BASE_URL", c.APIBaseURL},
		{"APP_BASE_URL", c.AppBaseURL},
	}
	for _, u := range baseURLs {
		name, value := u.name, u.value
		parsed, err := url.Parse(value)
		if err != nil {
			errors = append(errors, fmt.Sprintf("invalid %s '%s': %v", name, value, err))
			continue
		}
		if parsed.Scheme != "http" && parsed.Scheme != "https" {
			errors = append(errors, fmt.Sprintf("invalid %s scheme '%s': must be 'http' or 'https'", name, parsed.Scheme))
		}
		if parsed.Host == "" {
			errors = append(errors, fmt.Sprintf("invalid %s '%s': missing host", name, value))
		}
	}

	if c.Environment != "development" && c.Environment != "production" {
		errors = append(errors, fmt.Sprintf("invalid environment '%s': must be 'development' or 'production'", c.Environment))
	}

	if port, err := strconv.Atoi(c.OAuthRedirectPort); err != nil {
		errors = append(errors, fmt.Sprintf("invalid OAuth redirect port '%s': must be a number", c.OAuthRedirectPort))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid OAuth redirect port %d: must be between 1 and 65535", port))
	}

	if c.GoogleOAuthClientFile != "" {
		if _, err := os.Stat(c.GoogleOAuthClientFile); os.IsNotExist(err) {
			errors = append(errors, fmt.Sprintf("Google OAuth client file does not exist: %s", c.GoogleOAuthClientFile))
		}
	}

	if c.StateDir == "" {
		errors = append(errors, "state directory cannot be empty")
	} else if _, err := os.Stat(c.StateDir); os.IsNotExist(err) {
		if err := os.MkdirAll(c.StateDir, 0700); err != nil {
			errors = append(errors, fmt.Sprintf("cannot create state directory '%s': %v", c.StateDir, err))
		}
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
