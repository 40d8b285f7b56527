package ports

import (
	"context"
	"time"

	domainauth "github.com/target/timeclock/internal/domain/auth"
	"github.com/target/timeclock/internal/domain/model"
)

// PunchAPI mutates and reads the current user's punch state.
type PunchAPI interface {
	PunchStatus(ctx context.Context) (model.PunchStatus, error)
	// PunchIn starts a session and returns the server clock-in instant.
	PunchIn(ctx context.Context) (time.Time, error)
	PunchOut(ctx context.Context, notes string) error
}

// EntriesAPI lists and edits time entries.
type EntriesAPI interface {
	MyEntries(ctx context.Context, q model.EntryQuery) (model.EntryPage, error)
	AllEntries(ctx context.Context, q model.EntryQuery) (model.TeamEntries, error)
	EditEntry(ctx context.Context, id domainauth.ID, update model.EntryUpdate) error
	DeleteEntry(ctx context.Context, id domainauth.ID) error
	CreateManualEntry(ctx context.Context, entry model.ManualEntry) error
}

// AdminAPI manages the roster and organization.
type AdminAPI interface {
	Users(ctx context.Context) (model.Roster, error)
	UpdateUserRole(ctx context.Context, id domainauth.ID, role domainauth.Role) error
	Org(ctx context.Context) (model.Org, error)
}

// ExportAPI downloads timesheet exports.
type ExportAPI interface {
	// ExportCSV returns the CSV text produced by the backend.
	ExportCSV(ctx context.Context, q model.EntryQuery) (string, error)
}
