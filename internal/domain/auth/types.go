package auth

// Package auth contains domain-level types for credentials and the authentication state.
// It is pure and free of framework/adapter concerns.

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Role represents an application's authorization role.
// Keep string form for easy persistence.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool { return r == RoleAdmin || r == RoleUser }

// UnmarshalText implements encoding.TextUnmarshaler for Role.
func (r *Role) UnmarshalText(text []byte) error {
	v := Role(strings.ToLower(strings.TrimSpace(string(text))))
	if !v.Valid() {
		return fmt.Errorf("invalid Role: %q (valid options: user, admin)", string(text))
	}
	*r = v
	return nil
}

// UnmarshalJSON decodes a role from a profile. Unlike UnmarshalText it never
// fails on an unknown or empty role: those decode as RoleUser so a new backend
// role cannot invalidate a cached profile.
func (r *Role) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("decode role: %w", err)
	}
	v := Role(strings.ToLower(strings.TrimSpace(s)))
	if !v.Valid() {
		v = RoleUser
	}
	*r = v
	return nil
}

// ID is an opaque backend identifier. The backend may encode ids as JSON strings
// or numbers; both decode into the string form.
type ID string

// UnmarshalJSON accepts string and numeric ids.
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("decode id: %w", err)
	}
	*id = ID(n.String())
	return nil
}

// User is the cached profile of the signed-in principal.
type User struct {
	ID    ID     `json:"id,omitempty"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
	Role  Role   `json:"role"`
}

// IsAdmin returns true if the user may use admin-only operations.
func (u *User) IsAdmin() bool { return u != nil && u.Role == RoleAdmin }

// FirstName returns the first word of the display name, or "there" when unknown.
func (u *User) FirstName() string {
	if u == nil {
		return "there"
	}
	if fields := strings.Fields(u.Name); len(fields) > 0 {
		return fields[0]
	}
	return "there"
}

// PlaceholderUser is the identity assumed when a redirect token could not be
// resolved to a profile.
func PlaceholderUser(role Role) User {
	if !role.Valid() {
		role = RoleAdmin
	}
	return User{Name: "User", Role: role}
}

// Credential pairs a bearer token with the cached profile. User may be nil
// while Token is set.
type Credential struct {
	Token string
	User  *User
}

// Status enumerates the authentication states.
type Status string

const (
	StatusLoading         Status = "loading"
	StatusAuthenticated   Status = "authenticated"
	StatusUnauthenticated Status = "unauthenticated"
	// StatusError means the credential store itself failed; auth outcomes never use it.
	StatusError Status = "error"
)

// State is the observable result of the auth bootstrap.
type State struct {
	Status Status
	User   *User
	// Error carries a displayable reason; set for StatusError and optionally
	// for StatusUnauthenticated.
	Error string
}

// Loading returns the initial state.
func Loading() State { return State{Status: StatusLoading} }

// Authenticated returns an authenticated state for u.
func Authenticated(u User) State { return State{Status: StatusAuthenticated, User: &u} }

// Unauthenticated returns an unauthenticated state with an optional message.
func Unauthenticated(msg string) State { return State{Status: StatusUnauthenticated, Error: msg} }

// Failed returns an error state.
func Failed(msg string) State { return State{Status: StatusError, Error: msg} }

// IsAuthenticated reports whether s carries a usable identity.
func (s State) IsAuthenticated() bool { return s.Status == StatusAuthenticated && s.User != nil }
