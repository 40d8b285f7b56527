package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	domainauth "github.com/target/timeclock/internal/domain/auth"
	"github.com/target/timeclock/internal/domain/model"
	apperrors "github.com/target/timeclock/internal/errors"
)

func entryQuery(q model.EntryQuery, withUser bool) url.Values {
	v := url.Values{}
	page := q.Page
	if page < 1 {
		page = 1
	}
	v.Set("page", strconv.Itoa(page))
	if !q.Start.IsZero() {
		v.Set("start", formatTime(q.Start))
	}
	if !q.End.IsZero() {
		v.Set("end", formatTime(q.End))
	}
	if withUser && q.UserID != "" {
		v.Set("user_id", string(q.UserID))
	}
	return v
}

// MyEntries lists the caller's entries.
func (c *Client) MyEntries(ctx context.Context, q model.EntryQuery) (model.EntryPage, error) {
	var page model.EntryPage
	err := c.do(ctx, call{
		endpoint: "entries_mine",
		method:   http.MethodGet,
		path:     "/api/entries/mine",
		query:    entryQuery(q, false),
	}, &page)
	return page, err
}

// AllEntries lists entries across the organization (admin).
func (c *Client) AllEntries(ctx context.Context, q model.EntryQuery) (model.TeamEntries, error) {
	var team model.TeamEntries
	err := c.do(ctx, call{
		endpoint: "entries_all",
		method:   http.MethodGet,
		path:     "/api/entries/all",
		query:    entryQuery(q, true),
	}, &team)
	return team, err
}

// EditEntry replaces the times and notes of an entry (admin).
func (c *Client) EditEntry(ctx context.Context, id domainauth.ID, update model.EntryUpdate) error {
	if id == "" {
		return apperrors.ValidationField("id", "entry id is required")
	}
	return c.do(ctx, call{
		endpoint: "entries_edit",
		method:   http.MethodPut,
		path:     "/api/entries/" + url.PathEscape(string(id)),
		body:     update,
	}, nil)
}

// DeleteEntry removes an entry (admin).
func (c *Client) DeleteEntry(ctx context.Context, id domainauth.ID) error {
	if id == "" {
		return apperrors.ValidationField("id", "entry id is required")
	}
	return c.do(ctx, call{
		endpoint: "entries_delete",
		method:   http.MethodDelete,
		path:     "/api/entries/" + url.PathEscape(string(id)),
	}, nil)
}

// CreateManualEntry records a backdated entry for a user (admin).
func (c *Client) CreateManualEntry(ctx context.Context, entry model.ManualEntry) error {
	return c.do(ctx, call{
		endpoint: "entries_manual",
		method:   http.MethodPost,
		path:     "/api/entries/manual",
		body:     entry,
	}, nil)
}
