//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/target/timeclock/internal/domain/auth"
)

const maxNotesLen = 1000

// Hours is a total-hours figure as reported by the backend. It is kept in its
// display form ("12.50"); numeric JSON values are formatted with two decimals.
type Hours string

// UnmarshalJSON accepts string and numeric hour totals.
func (h *Hours) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*h = "0.00"
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*h = Hours(s)
	default:
		f, err := strconv.ParseFloat(string(data), 64)
		if err != nil {
			return fmt.Errorf("decode hours: %w", err)
		}
		*h = Hours(strconv.FormatFloat(f, 'f', 2, 64))
	}
	return nil
}

// String returns the display form, defaulting to "0.00".
func (h Hours) String() string {
	if h == "" {
		return "0.00"
	}
	return string(h)
}

// Entry is a persisted interval; ClockOut is nil while the interval is active.
type Entry struct {
	ID              auth.ID    `json:"id"`
	UserID          auth.ID    `json:"user_id,omitempty"`
	UserName        string     `json:"user_name,omitempty"`
	ClockIn         time.Time  `json:"clock_in"`
	ClockOut        *time.Time `json:"clock_out,omitempty"`
	Notes           string     `json:"notes,omitempty"`
	DurationMinutes int        `json:"duration_minutes,omitempty"`
}

// Active reports whether the entry has no clock-out yet.
func (e Entry) Active() bool { return e.ClockOut == nil }

// DurationLabel renders the duration as "Xh Ym", or "LIVE" for active entries.
func (e Entry) DurationLabel() string {
	if e.DurationMinutes == 0 {
		return "LIVE"
	}
	return fmt.Sprintf("%dh %dm", e.DurationMinutes/60, e.DurationMinutes%60)
}

// EntryPage is the response of the personal entries listing.
type EntryPage struct {
	Entries    []Entry `json:"entries"`
	TotalHours Hours   `json:"total_hours"`
}

// UserSummary aggregates hours per user for the admin team view.
type UserSummary struct {
	ID         auth.ID `json:"id"`
	Name       string  `json:"name"`
	Email      string  `json:"email"`
	TotalHours Hours   `json:"total_hours"`
}

// TeamEntries is the response of the all-entries listing.
type TeamEntries struct {
	Entries     []Entry       `json:"entries"`
	UserSummary []UserSummary `json:"user_summary"`
}

// EntryQuery filters entry listings. Zero times are omitted from the request.
type EntryQuery struct {
	Start  time.Time
	End    time.Time
	Page   int
	UserID auth.ID
}

// EntryUpdate edits an existing entry.
type EntryUpdate struct {
	ClockIn  time.Time  `json:"clock_in"`
	ClockOut *time.Time `json:"clock_out,omitempty"`
	Notes    string     `json:"notes,omitempty"`
}

var (
	errClockInRequired  = errors.New("clock_in is required")
	errClockOutRequired = errors.New("clock_out is required")
	errClockOutBefore   = errors.New("clock_out must be after clock_in")
	errUserRequired     = errors.New("user_id is required")
	errNotesTooLong     = fmt.Errorf("notes must be at most %d characters", maxNotesLen)
)

// Validate checks the update before it is sent.
func (u *EntryUpdate) Validate() error {
	u.Notes = strings.TrimSpace(u.Notes)
	if u.ClockIn.IsZero() {
		return errClockInRequired
	}
	if u.ClockOut != nil && !u.ClockOut.After(u.ClockIn) {
		return errClockOutBefore
	}
	if len(u.Notes) > maxNotesLen {
		return errNotesTooLong
	}
	return nil
}

// ManualEntry creates a backdated entry for a user.
type ManualEntry struct {
	UserID   auth.ID   `json:"user_id"`
	ClockIn  time.Time `json:"clock_in"`
	ClockOut time.Time `json:"clock_out"`
	Notes    string    `json:"notes,omitempty"`
}

// Validate checks the manual entry before it is sent.
func (m *ManualEntry) Validate() error {
	m.Notes = strings.TrimSpace(m.Notes)
	switch {
	case strings.TrimSpace(string(m.UserID)) == "":
		return errUserRequired
	case m.ClockIn.IsZero():
		return errClockInRequired
	case m.ClockOut.IsZero():
		return errClockOutRequired
	case !m.ClockOut.After(m.ClockIn):
		return errClockOutBefore
	case len(m.Notes) > maxNotesLen:
		return errNotesTooLong
	}
	return nil
}
