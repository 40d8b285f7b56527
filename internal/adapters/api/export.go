package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/target/timeclock/internal/domain/model"
)

// ExportCSV returns the timesheet export for the query window as CSV text.
func (c *Client) ExportCSV(ctx context.Context, q model.EntryQuery) (string, error) {
	v := url.Values{}
	v.Set("start", formatTime(q.Start))
	v.Set("end", formatTime(q.End))
	if q.UserID != "" {
		v.Set("user_id", string(q.UserID))
	}

	var csv string
	err := c.do(ctx, call{
		endpoint: "export_csv",
		method:   http.MethodGet,
		path:     "/api/export/csv",
		query:    v,
	}, &csv)
	return csv, err
}
