package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/target/timeclock/internal/domain/model"
	"github.com/target/timeclock/internal/ports"
)

// Range is a listing window ending now.
type Range string

const (
	RangeWeek     Range = "week"
	RangeTwoWeeks Range = "2week"
	RangeMonth    Range = "month"
)

// Days returns the window length in days.
func (r Range) Days() int {
	switch r {
	case RangeTwoWeeks:
		return 14
	case RangeMonth:
		return 31
	default:
		return 7
	}
}

// Window returns the [start, end] interval ending at now.
func (r Range) Window(now time.Time) (time.Time, time.Time) {
	return now.AddDate(0, 0, -r.Days()), now
}

// ParseRange parses a range name; empty input selects RangeWeek.
func ParseRange(s string) (Range, error) {
	switch r := Range(strings.ToLower(strings.TrimSpace(s))); r {
	case "":
		return RangeWeek, nil
	case RangeWeek, RangeTwoWeeks, RangeMonth:
		return r, nil
	default:
		return "", fmt.Errorf("invalid range: %q (valid options: week, 2week, month)", s)
	}
}

// Timesheet lists the current user's own entries.
type Timesheet struct {
	api   ports.EntriesAPI
	clock clockwork.Clock
}

// NewTimesheet constructs a Timesheet. A nil clock selects the real clock.
func NewTimesheet(api ports.EntriesAPI, clock clockwork.Clock) *Timesheet {
	if api == nil {
		panic("EntriesAPI is required")
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Timesheet{api: api, clock: clock}
}

// Mine returns one page of the caller's entries within r.
func (t *Timesheet) Mine(ctx context.Context, r Range, page int) (model.EntryPage, error) {
	start, end := r.Window(t.clock.Now())
	p, err := t.api.MyEntries(ctx, model.EntryQuery{Start: start, End: end, Page: page})
	if err != nil {
		return model.EntryPage{}, fmt.Errorf("list entries: %w", err)
	}
	return p, nil
}
