package service

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/jonboulle/clockwork"
	"golang.org/x/sync/errgroup"

	domainauth "github.com/target/timeclock/internal/domain/auth"
	"github.com/target/timeclock/internal/domain/model"
	apperrors "github.com/target/timeclock/internal/errors"
	"github.com/target/timeclock/internal/ports"
)

const dashboardDays = 7

// AdminBackend is the backend surface used by AdminConsole.
type AdminBackend interface {
	ports.EntriesAPI
	ports.AdminAPI
	ports.ExportAPI
}

// AdminConsoleOptions groups dependencies for AdminConsole.
type AdminConsoleOptions struct {
	API    AdminBackend // Required
	Clock  clockwork.Clock
	Logger *slog.Logger
}

// AdminConsole runs administrator operations on behalf of an admin identity.
type AdminConsole struct {
	api    AdminBackend
	clock  clockwork.Clock
	logger *slog.Logger
}

// NewAdminConsole constructs a new AdminConsole.
func NewAdminConsole(opts AdminConsoleOptions) *AdminConsole {
	if opts.API == nil {
		panic("AdminBackend is required")
	}
	clock := opts.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &AdminConsole{api: opts.API, clock: clock, logger: logger.With("component", "admin")}
}

func requireAdmin(u *domainauth.User) error {
	if !u.IsAdmin() {
		return apperrors.Forbidden("Admin access required")
	}
	return nil
}

// Dashboard is the admin landing view.
type Dashboard struct {
	Team   model.TeamEntries
	Roster model.Roster
}

// Dashboard loads the last seven days of entries and the roster concurrently.
func (a *AdminConsole) Dashboard(ctx context.Context, as *domainauth.User) (Dashboard, error) {
	if err := requireAdmin(as); err != nil {
		return Dashboard{}, err
	}

	now := a.clock.Now()
	var out Dashboard
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		team, err := a.api.AllEntries(gctx, model.EntryQuery{Start: now.AddDate(0, 0, -dashboardDays), End: now, Page: 1})
		if err != nil {
			return fmt.Errorf("load entries: %w", err)
		}
		out.Team = team
		return nil
	})
	g.Go(func() error {
		roster, err := a.api.Users(gctx)
		if err != nil {
			return fmt.Errorf("load users: %w", err)
		}
		out.Roster = roster
		return nil
	})
	if err := g.Wait(); err != nil {
		return Dashboard{}, err
	}
	return out, nil
}

// Entries lists entries across the organization.
func (a *AdminConsole) Entries(ctx context.Context, as *domainauth.User, q model.EntryQuery) (model.TeamEntries, error) {
	if err := requireAdmin(as); err != nil {
		return model.TeamEntries{}, err
	}
	return a.api.AllEntries(ctx, q)
}

// EditEntry validates and applies an entry update.
func (a *AdminConsole) EditEntry(ctx context.Context, as *domainauth.User, id domainauth.ID, update model.EntryUpdate) error {
	if err := requireAdmin(as); err != nil {
		return err
	}
	if err := update.Validate(); err != nil {
		return apperrors.Validation(err.Error())
	}
	if err := a.api.EditEntry(ctx, id, update); err != nil {
		return err
	}
	a.logger.InfoContext(ctx, "entry updated", "entry_id", id, "admin_id", as.ID)
	return nil
}

// DeleteEntry removes an entry.
func (a *AdminConsole) DeleteEntry(ctx context.Context, as *domainauth.User, id domainauth.ID) error {
	if err := requireAdmin(as); err != nil {
		return err
	}
	if err := a.api.DeleteEntry(ctx, id); err != nil {
		return err
	}
	a.logger.InfoContext(ctx, "entry deleted", "entry_id", id, "admin_id", as.ID)
	return nil
}

// CreateManualEntry validates and records a backdated entry.
func (a *AdminConsole) CreateManualEntry(ctx context.Context, as *domainauth.User, entry model.ManualEntry) error {
	if err := requireAdmin(as); err != nil {
		return err
	}
	if err := entry.Validate(); err != nil {
		return apperrors.Validation(err.Error())
	}
	if err := a.api.CreateManualEntry(ctx, entry); err != nil {
		return err
	}
	a.logger.InfoContext(ctx, "manual entry created", "user_id", entry.UserID, "admin_id", as.ID)
	return nil
}

// Users returns the roster.
func (a *AdminConsole) Users(ctx context.Context, as *domainauth.User) (model.Roster, error) {
	if err := requireAdmin(as); err != nil {
		return model.Roster{}, err
	}
	return a.api.Users(ctx)
}

// SetRole changes the role of a user.
func (a *AdminConsole) SetRole(ctx context.Context, as *domainauth.User, id domainauth.ID, role domainauth.Role) error {
	if err := requireAdmin(as); err != nil {
		return err
	}
	if !role.Valid() {
		return apperrors.ValidationField("role", "role must be user or admin")
	}
	if err := a.api.UpdateUserRole(ctx, id, role); err != nil {
		return err
	}
	a.logger.InfoContext(ctx, "role updated", "user_id", id, "role", role, "admin_id", as.ID)
	return nil
}

// Org returns the organization record.
func (a *AdminConsole) Org(ctx context.Context, as *domainauth.User) (model.Org, error) {
	if err := requireAdmin(as); err != nil {
		return nil, err
	}
	return a.api.Org(ctx)
}

// ExportFileName returns the export file name for the given day.
func ExportFileName(day time.Time) string {
	return "timesheet_" + day.Format(time.DateOnly) + ".csv"
}

// Export downloads the CSV for q and writes it into dir. It returns the file path.
func (a *AdminConsole) Export(ctx context.Context, as *domainauth.User, q model.EntryQuery, dir string) (string, error) {
	if err := requireAdmin(as); err != nil {
		return "", err
	}
	if q.Start.IsZero() || q.End.IsZero() {
		return "", apperrors.Validation("start and end are required")
	}
	csv, err := a.api.ExportCSV(ctx, q)
	if err != nil {
		return "", err
	}

	if dir == "" {
		dir = "."
	}
	path := filepath.Join(dir, ExportFileName(a.clock.Now()))
	if err := os.WriteFile(path, []byte(csv), 0o600); err != nil {
		return "", fmt.Errorf("write export: %w", err)
	}
	a.logger.InfoContext(ctx, "export written", "path", path, "bytes", len(csv))
	return path, nil
}
