package ports

// Package ports defines interfaces (hexagonal ports) for auth-related behavior.
// Implementations live in internal/adapters; orchestration in internal/service.

import (
	"context"
	"encoding/json"
	"net/url"

	domainauth "github.com/target/timeclock/internal/domain/auth"
)

// CredentialStore persists the bearer token and the cached profile.
// Token and user are stored independently; a missing value is not an error.
type CredentialStore interface {
	// Token returns the stored bearer token, or "" when none is stored.
	Token(ctx context.Context) (string, error)
	SetToken(ctx context.Context, token string) error
	// User returns the cached profile, or nil when absent or undecodable.
	User(ctx context.Context) (*domainauth.User, error)
	SetUser(ctx context.Context, user domainauth.User) error
	// Clear removes both token and user.
	Clear(ctx context.Context) error
}

// SSOExchange is the backend response to a successful SSO payload exchange.
type SSOExchange struct {
	Token string          `json:"token"`
	User  domainauth.User `json:"user"`
}

// AuthAPI is the backend surface used during the auth bootstrap.
type AuthAPI interface {
	// Refresh validates token and returns the associated profile.
	Refresh(ctx context.Context, token string) (domainauth.User, error)
	// ExchangeSSO trades an opaque host session payload for a bearer token and profile.
	ExchangeSSO(ctx context.Context, sessionData json.RawMessage) (SSOExchange, error)
}

// SessionBridge obtains host session data when running inside a foreign frame.
type SessionBridge interface {
	RequestSession(ctx context.Context) (json.RawMessage, error)
}

// FrameDetector reports whether the client runs embedded in a host frame.
// An error means detection itself was blocked; callers treat it as embedded.
type FrameDetector interface {
	IsEmbedded() (bool, error)
}

// Location is the navigation URL the client was launched with.
type Location interface {
	Current() *url.URL
	// Replace swaps the visible URL without resubmitting it.
	Replace(u *url.URL) error
}

// SessionInvalidator receives notice that the backend rejected the stored credentials.
type SessionInvalidator interface {
	Invalidate(ctx context.Context, reason string)
}
