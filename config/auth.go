package config

import (
	"strings"
	"time"

	domainauth "github.com/target/timeclock/internal/domain/auth"
)

// AuthConfig groups all authentication-related configuration.
type AuthConfig struct {
	// LaunchURL is the navigation URL the client was opened with. A "token"
	// query parameter on it is consumed by the bootstrap.
	LaunchURL string `env:"LAUNCH_URL" envDefault:"timeclock://app/"`

	// SSOTimeout bounds the wait for the host frame's session response.
	SSOTimeout time.Duration `env:"SSO_TIMEOUT" envDefault:"5s"`

	// PlaceholderRole is the role given to a redirect-token session whose
	// profile refresh failed. The default matches the hosted web client.
	PlaceholderRole domainauth.Role `env:"AUTH_PLACEHOLDER_ROLE" envDefault:"admin"`

	// CallbackAddr is the loopback address the login command listens on for the redirect.
	CallbackAddr string `env:"AUTH_CALLBACK_ADDR" envDefault:"127.0.0.1:8765"`

	// CallbackTimeout bounds how long the login command waits for the redirect.
	CallbackTimeout time.Duration `env:"AUTH_CALLBACK_TIMEOUT" envDefault:"5m"`
}

// Sanitize applies guardrails to auth configuration values.
func (a *AuthConfig) Sanitize() {
	a.LaunchURL = strings.TrimSpace(a.LaunchURL)
	if a.LaunchURL == "" {
		a.LaunchURL = "timeclock://app/"
	}
	if a.SSOTimeout <= 0 {
		a.SSOTimeout = 5 * time.Second
	}
	if !a.PlaceholderRole.Valid() {
		a.PlaceholderRole = domainauth.RoleAdmin
	}
	a.CallbackAddr = strings.TrimSpace(a.CallbackAddr)
	if a.CallbackAddr == "" {
		a.CallbackAddr = "127.0.0.1:8765"
	}
	if a.CallbackTimeout <= 0 {
		a.CallbackTimeout = 5 * time.Minute
	}
}
