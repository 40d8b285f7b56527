package main

import (
	"errors"
	"flag"
	"os"
	"time"

	domainauth "github.com/target/timeclock/internal/domain/auth"
	"github.com/target/timeclock/internal/domain/model"
	"github.com/target/timeclock/internal/service"
)

func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	return fs
}

func parseOutputOnly(name string, args []string) (outputOptions, error) {
	fs := newFlagSet(name)
	var out outputOptions
	out.register(fs)
	if err := fs.Parse(args); err != nil {
		return outputOptions{}, err
	}
	return out, out.validate()
}

func runDashboard(cmdCtx *commandContext, args []string) error {
	out, err := parseOutputOnly("dashboard", args)
	if err != nil {
		return err
	}
	return withAdmin(cmdCtx, func(console *service.AdminConsole, as *domainauth.User) error {
		dash, err := console.Dashboard(cmdCtx.Ctx, as)
		if err != nil {
			return err
		}
		return printJSON(cmdCtx.Out, out, map[string]any{
			"entries":      dash.Team.Entries,
			"user_summary": dash.Team.UserSummary,
			"users":        dash.Roster.Users,
		})
	})
}

type entriesOptions struct {
	Query  model.EntryQuery
	Output outputOptions
}

func parseEntriesFlags(args []string) (entriesOptions, error) {
	fs := newFlagSet("entries")
	var opts entriesOptions
	var userID string
	fs.Var(timeFlag{&opts.Query.Start}, "start", "Earliest clock-in")
	fs.Var(timeFlag{&opts.Query.End}, "end", "Latest clock-in")
	fs.StringVar(&userID, "user", "", "Only entries of this user id")
	fs.IntVar(&opts.Query.Page, "page", 1, "Page number")
	opts.Output.register(fs)

	if err := fs.Parse(args); err != nil {
		return entriesOptions{}, err
	}
	opts.Query.UserID = domainauth.ID(userID)
	return opts, opts.Output.validate()
}

func runEntries(cmdCtx *commandContext, args []string) error {
	opts, err := parseEntriesFlags(args)
	if err != nil {
		return err
	}
	return withAdmin(cmdCtx, func(console *service.AdminConsole, as *domainauth.User) error {
		team, err := console.Entries(cmdCtx.Ctx, as, opts.Query)
		if err != nil {
			return err
		}
		return printJSON(cmdCtx.Out, opts.Output, team)
	})
}

type editEntryOptions struct {
	ID     domainauth.ID
	Update model.EntryUpdate
}

func parseEditEntryFlags(args []string) (editEntryOptions, error) {
	fs := newFlagSet("edit-entry")
	var opts editEntryOptions
	var id string
	var clockOut time.Time
	fs.StringVar(&id, "id", "", "Entry id (required)")
	fs.Var(timeFlag{&opts.Update.ClockIn}, "in", "Clock-in time (required)")
	fs.Var(timeFlag{&clockOut}, "out", "Clock-out time; omit to leave the entry open")
	fs.StringVar(&opts.Update.Notes, "notes", "", "Notes")

	if err := fs.Parse(args); err != nil {
		return editEntryOptions{}, err
	}
	if id == "" {
		return editEntryOptions{}, errors.New("--id is required")
	}
	opts.ID = domainauth.ID(id)
	if !clockOut.IsZero() {
		opts.Update.ClockOut = &clockOut
	}
	return opts, nil
}

func runEditEntry(cmdCtx *commandContext, args []string) error {
	opts, err := parseEditEntryFlags(args)
	if err != nil {
		return err
	}
	return withAdmin(cmdCtx, func(console *service.AdminConsole, as *domainauth.User) error {
		if err := console.EditEntry(cmdCtx.Ctx, as, opts.ID, opts.Update); err != nil {
			return err
		}
		return writef(cmdCtx.Out, "Entry %s updated\n", opts.ID)
	})
}

func runDeleteEntry(cmdCtx *commandContext, args []string) error {
	fs := newFlagSet("delete-entry")
	var id string
	fs.StringVar(&id, "id", "", "Entry id (required)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if id == "" {
		return errors.New("--id is required")
	}

	return withAdmin(cmdCtx, func(console *service.AdminConsole, as *domainauth.User) error {
		if err := console.DeleteEntry(cmdCtx.Ctx, as, domainauth.ID(id)); err != nil {
			return err
		}
		return writef(cmdCtx.Out, "Entry %s deleted\n", id)
	})
}

func parseManualEntryFlags(args []string) (model.ManualEntry, error) {
	fs := newFlagSet("manual-entry")
	var entry model.ManualEntry
	var userID string
	fs.StringVar(&userID, "user", "", "User id (required)")
	fs.Var(timeFlag{&entry.ClockIn}, "in", "Clock-in time (required)")
	fs.Var(timeFlag{&entry.ClockOut}, "out", "Clock-out time (required)")
	fs.StringVar(&entry.Notes, "notes", "", "Notes")

	if err := fs.Parse(args); err != nil {
		return model.ManualEntry{}, err
	}
	entry.UserID = domainauth.ID(userID)
	return entry, nil
}

func runManualEntry(cmdCtx *commandContext, args []string) error {
	entry, err := parseManualEntryFlags(args)
	if err != nil {
		return err
	}
	return withAdmin(cmdCtx, func(console *service.AdminConsole, as *domainauth.User) error {
		if err := console.CreateManualEntry(cmdCtx.Ctx, as, entry); err != nil {
			return err
		}
		return writef(cmdCtx.Out, "Entry recorded for user %s\n", entry.UserID)
	})
}

func runUsers(cmdCtx *commandContext, args []string) error {
	out, err := parseOutputOnly("users", args)
	if err != nil {
		return err
	}
	return withAdmin(cmdCtx, func(console *service.AdminConsole, as *domainauth.User) error {
		roster, err := console.Users(cmdCtx.Ctx, as)
		if err != nil {
			return err
		}
		return printJSON(cmdCtx.Out, out, roster)
	})
}

func runSetRole(cmdCtx *commandContext, args []string) error {
	fs := newFlagSet("set-role")
	var id, roleName string
	fs.StringVar(&id, "id", "", "User id (required)")
	fs.StringVar(&roleName, "role", "", "New role: user or admin (required)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if id == "" {
		return errors.New("--id is required")
	}
	var role domainauth.Role
	if err := role.UnmarshalText([]byte(roleName)); err != nil {
		return err
	}

	return withAdmin(cmdCtx, func(console *service.AdminConsole, as *domainauth.User) error {
		if err := console.SetRole(cmdCtx.Ctx, as, domainauth.ID(id), role); err != nil {
			return err
		}
		return writef(cmdCtx.Out, "User %s is now %s\n", id, role)
	})
}

func runOrg(cmdCtx *commandContext, args []string) error {
	out, err := parseOutputOnly("org", args)
	if err != nil {
		return err
	}
	return withAdmin(cmdCtx, func(console *service.AdminConsole, as *domainauth.User) error {
		org, err := console.Org(cmdCtx.Ctx, as)
		if err != nil {
			return err
		}
		return printJSON(cmdCtx.Out, out, org)
	})
}

type exportOptions struct {
	Query model.EntryQuery
	Dir   string
}

func parseExportFlags(args []string) (exportOptions, error) {
	fs := newFlagSet("export")
	var opts exportOptions
	var userID string
	fs.Var(timeFlag{&opts.Query.Start}, "start", "Window start (required)")
	fs.Var(timeFlag{&opts.Query.End}, "end", "Window end (required)")
	fs.StringVar(&userID, "user", "", "Only this user id")
	fs.StringVar(&opts.Dir, "dir", ".", "Directory the CSV is written to")

	if err := fs.Parse(args); err != nil {
		return exportOptions{}, err
	}
	opts.Query.UserID = domainauth.ID(userID)
	return opts, nil
}

func runExport(cmdCtx *commandContext, args []string) error {
	opts, err := parseExportFlags(args)
	if err != nil {
		return err
	}
	return withAdmin(cmdCtx, func(console *service.AdminConsole, as *domainauth.User) error {
		path, err := console.Export(cmdCtx.Ctx, as, opts.Query, opts.Dir)
		if err != nil {
			return err
		}
		return writef(cmdCtx.Out, "Exported %s\n", path)
	})
}
