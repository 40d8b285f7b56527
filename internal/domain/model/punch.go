//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import (
	"time"

	"github.com/target/timeclock/internal/domain/auth"
)

// PunchSession is the clock-in state of the current user as last confirmed by the server.
type PunchSession struct {
	ClockedIn   bool
	ClockInTime *time.Time
}

// Start returns the timer origin, or nil when clocked out.
func (s PunchSession) Start() *time.Time {
	if !s.ClockedIn {
		return nil
	}
	return s.ClockInTime
}

// PunchStatus is the response of the punch status endpoint.
type PunchStatus struct {
	ClockedIn bool       `json:"clocked_in"`
	ClockIn   *time.Time `json:"clock_in,omitempty"`
}

// Session converts the status response into a PunchSession.
func (s PunchStatus) Session() PunchSession {
	if !s.ClockedIn {
		return PunchSession{}
	}
	return PunchSession{ClockedIn: true, ClockInTime: s.ClockIn}
}

// Roster is the admin user listing.
type Roster struct {
	Users []auth.User `json:"users"`
}

// Org is the organization record exposed to admins. Its shape is owned by the backend.
type Org map[string]any
