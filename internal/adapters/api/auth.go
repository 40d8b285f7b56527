package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	domainauth "github.com/target/timeclock/internal/domain/auth"
	apperrors "github.com/target/timeclock/internal/errors"
	"github.com/target/timeclock/internal/ports"
)

type refreshRequest struct {
	Token string `json:"token"`
}

type refreshResponse struct {
	User *domainauth.User `json:"user"`
}

// Refresh validates token and returns the associated profile. The token is
// sent in the body; the call is anonymous so a rejection never triggers
// session invalidation.
func (c *Client) Refresh(ctx context.Context, token string) (domainauth.User, error) {
	var resp refreshResponse
	err := c.do(ctx, call{
		endpoint:  "auth_refresh",
		method:    http.MethodPost,
		path:      "/api/auth/refresh",
		body:      refreshRequest{Token: token},
		anonymous: true,
	}, &resp)
	if err != nil {
		return domainauth.User{}, err
	}
	if resp.User == nil {
		return domainauth.User{}, apperrors.RequestFailed(http.StatusOK, "refresh response missing user")
	}
	return *resp.User, nil
}

type ssoRequest struct {
	SessionData json.RawMessage `json:"sessionData"`
}

// ExchangeSSO trades the host's opaque session payload for a token and profile.
// Any failure is reported as exchange_failed.
func (c *Client) ExchangeSSO(ctx context.Context, sessionData json.RawMessage) (ports.SSOExchange, error) {
	var resp ports.SSOExchange
	err := c.do(ctx, call{
		endpoint:    "auth_sso",
		method:      http.MethodPost,
		path:        "/api/auth/sso",
		body:        ssoRequest{SessionData: sessionData},
		anonymous:   true,
		failMessage: "SSO failed",
	}, &resp)
	if err != nil {
		if apperrors.IsCanceled(err) {
			return ports.SSOExchange{}, err
		}
		return ports.SSOExchange{}, apperrors.Wrap(err, apperrors.ErrCodeExchangeFailed, apperrors.UserMessage(err))
	}
	if strings.TrimSpace(resp.Token) == "" {
		return ports.SSOExchange{}, apperrors.New(apperrors.ErrCodeExchangeFailed, "SSO failed")
	}
	return resp, nil
}
