package testutil

import (
	"time"

	domainauth "github.com/target/timeclock/internal/domain/auth"
	"github.com/target/timeclock/internal/domain/model"
)

// UserBuilder provides a fluent interface for building users for testing.
type UserBuilder struct {
	user domainauth.User
}

// NewUser creates a new UserBuilder with sensible defaults.
func NewUser() *UserBuilder {
	return &UserBuilder{
		user: domainauth.User{
			ID:    "1",
			Name:  "Ada Lovelace",
			Email: "ada@example.com",
			Role:  domainauth.RoleUser,
		},
	}
}

// WithID sets the user id.
func (b *UserBuilder) WithID(id string) *UserBuilder {
	b.user.ID = domainauth.ID(id)
	return b
}

// WithName sets the display name.
func (b *UserBuilder) WithName(name string) *UserBuilder {
	b.user.Name = name
	return b
}

// AsAdmin gives the user the admin role.
func (b *UserBuilder) AsAdmin() *UserBuilder {
	b.user.Role = domainauth.RoleAdmin
	return b
}

// Build returns the constructed user.
func (b *UserBuilder) Build() domainauth.User {
	return b.user
}

// Ptr returns a pointer to a copy of the constructed user.
func (b *UserBuilder) Ptr() *domainauth.User {
	u := b.user
	return &u
}

// EntryBuilder provides a fluent interface for building time entries for testing.
type EntryBuilder struct {
	entry model.Entry
}

// NewEntry creates an active entry that started at TestTime.
func NewEntry() *EntryBuilder {
	return &EntryBuilder{
		entry: model.Entry{
			ID:       "100",
			UserID:   "1",
			UserName: "Ada Lovelace",
			ClockIn:  TestTime(),
		},
	}
}

// WithID sets the entry id.
func (b *EntryBuilder) WithID(id string) *EntryBuilder {
	b.entry.ID = domainauth.ID(id)
	return b
}

// ClosedAfter closes the entry d after its clock-in.
func (b *EntryBuilder) ClosedAfter(d time.Duration) *EntryBuilder {
	out := b.entry.ClockIn.Add(d)
	b.entry.ClockOut = &out
	b.entry.DurationMinutes = int(d / time.Minute)
	return b
}

// WithNotes sets the entry notes.
func (b *EntryBuilder) WithNotes(notes string) *EntryBuilder {
	b.entry.Notes = notes
	return b
}

// Build returns the constructed entry.
func (b *EntryBuilder) Build() model.Entry {
	return b.entry
}
