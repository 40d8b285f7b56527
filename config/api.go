package config

import (
	"strings"
	"time"
)

const defaultAPIURL = "http://localhost:3000"

// APIConfig contains backend REST API configuration.
type APIConfig struct {
	// BaseURL is the origin of the timeclock backend (e.g., "https://api.example.com").
	BaseURL string `env:"API_URL" envDefault:"http://localhost:3000"`

	// Timeout bounds every backend request.
	Timeout time.Duration `env:"API_TIMEOUT" envDefault:"15s"`
}

// Sanitize applies guardrails to API configuration values.
func (a *APIConfig) Sanitize() {
	a.BaseURL = strings.TrimRight(strings.TrimSpace(a.BaseURL), "/")
	if a.BaseURL == "" {
		a.BaseURL = defaultAPIURL
	}
	if a.Timeout <= 0 {
		a.Timeout = 15 * time.Second
	}
}
