package api

import (
	"fmt"
	"net/http"

	"golang.org/x/oauth2"

	"github.com/target/timeclock/internal/ports"
)

// bearerTransport reads the token from the credential store on every request
// so a token stored mid-session (login, SSO, redirect) is picked up without
// rebuilding the client.
type bearerTransport struct {
	store ports.CredentialStore
	base  http.RoundTripper
}

func (t *bearerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	tok, err := t.store.Token(req.Context())
	if err != nil {
		if req.Body != nil {
			_ = req.Body.Close()
		}
		return nil, fmt.Errorf("read bearer token: %w", err)
	}
	if tok == "" {
		return t.base.RoundTrip(req)
	}

	rt := &oauth2.Transport{
		Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: tok, TokenType: "Bearer"}),
		Base:   t.base,
	}
	return rt.RoundTrip(req)
}
