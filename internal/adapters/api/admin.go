package api

import (
	"context"
	"net/http"
	"net/url"

	domainauth "github.com/target/timeclock/internal/domain/auth"
	"github.com/target/timeclock/internal/domain/model"
	apperrors "github.com/target/timeclock/internal/errors"
)

// Users returns the organization roster.
func (c *Client) Users(ctx context.Context) (model.Roster, error) {
	var roster model.Roster
	err := c.do(ctx, call{
		endpoint: "admin_users",
		method:   http.MethodGet,
		path:     "/api/admin/users",
	}, &roster)
	return roster, err
}

type roleUpdate struct {
	Role domainauth.Role `json:"role"`
}

// UpdateUserRole changes a user's role.
func (c *Client) UpdateUserRole(ctx context.Context, id domainauth.ID, role domainauth.Role) error {
	if id == "" {
		return apperrors.ValidationField("id", "user id is required")
	}
	if !role.Valid() {
		return apperrors.ValidationField("role", "role must be user or admin")
	}
	return c.do(ctx, call{
		endpoint: "admin_user_update",
		method:   http.MethodPut,
		path:     "/api/admin/users/" + url.PathEscape(string(id)),
		body:     roleUpdate{Role: role},
	}, nil)
}

// Org returns the organization record.
func (c *Client) Org(ctx context.Context) (model.Org, error) {
	var org model.Org
	err := c.do(ctx, call{
		endpoint: "admin_org",
		method:   http.MethodGet,
		path:     "/api/admin/org",
	}, &org)
	return org, err
}
