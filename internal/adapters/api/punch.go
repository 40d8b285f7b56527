package api

import (
	"context"
	"net/http"
	"time"

	"github.com/target/timeclock/internal/domain/model"
	apperrors "github.com/target/timeclock/internal/errors"
)

// PunchStatus returns the caller's current punch state.
func (c *Client) PunchStatus(ctx context.Context) (model.PunchStatus, error) {
	var st model.PunchStatus
	err := c.do(ctx, call{
		endpoint: "punch_status",
		method:   http.MethodGet,
		path:     "/api/punch/status",
	}, &st)
	return st, err
}

type punchInResponse struct {
	ClockIn time.Time `json:"clock_in"`
}

// PunchIn starts a session and returns the server's clock-in instant.
func (c *Client) PunchIn(ctx context.Context) (time.Time, error) {
	var resp punchInResponse
	err := c.do(ctx, call{
		endpoint: "punch_in",
		method:   http.MethodPost,
		path:     "/api/punch/in",
	}, &resp)
	if err != nil {
		return time.Time{}, err
	}
	if resp.ClockIn.IsZero() {
		return time.Time{}, apperrors.RequestFailed(http.StatusOK, "punch in response missing clock_in")
	}
	return resp.ClockIn, nil
}

type punchOutRequest struct {
	Notes string `json:"notes,omitempty"`
}

// PunchOut ends the active session.
func (c *Client) PunchOut(ctx context.Context, notes string) error {
	return c.do(ctx, call{
		endpoint: "punch_out",
		method:   http.MethodPost,
		path:     "/api/punch/out",
		body:     punchOutRequest{Notes: notes},
	}, nil)
}
