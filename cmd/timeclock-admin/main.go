package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"github.com/target/timeclock/config"
	"github.com/target/timeclock/internal/bootstrap"
	domainauth "github.com/target/timeclock/internal/domain/auth"
	"github.com/target/timeclock/internal/service"
)

type commandFn func(ctx *commandContext, args []string) error

type command struct {
	name        string
	description string
	run         commandFn
}

type commandContext struct {
	Ctx    context.Context
	Logger *slog.Logger
	Config config.AppConfig
	Out    io.Writer

	// newApp builds the application wiring for one command.
	newApp func(ctx context.Context) (*bootstrap.App, error)
}

func main() {
	os.Exit(run()) //nolint:forbidigo // CLI exit status reflects command outcome
}

func run() int {
	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		_ = writef(os.Stderr, "load config: %v\n", err)
		return 1
	}
	logger := bootstrap.InitLogger(cfg.Observability.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmdCtx := &commandContext{
		Ctx:    ctx,
		Logger: logger,
		Config: cfg,
		Out:    os.Stdout,
	}
	cmdCtx.newApp = func(ctx context.Context) (*bootstrap.App, error) {
		return bootstrap.NewApp(ctx, bootstrap.AppOptions{Config: cfg, Logger: logger})
	}

	return dispatch(cmdCtx, os.Args[1:])
}

// dispatch runs the named command and returns the process exit status.
func dispatch(cmdCtx *commandContext, args []string) int {
	if len(args) == 0 {
		if err := printUsage(cmdCtx.Out); err != nil {
			cmdCtx.Logger.Error("print usage failed", "error", err)
		}
		return 2
	}

	cmdName := args[0]
	cmd, ok := commands()[cmdName]
	if !ok {
		if err := writef(os.Stderr, "unknown command %q\n\n", cmdName); err != nil {
			cmdCtx.Logger.Error("print unknown command message failed", "error", err)
		}
		if err := printUsage(cmdCtx.Out); err != nil {
			cmdCtx.Logger.Error("print usage failed", "error", err)
		}
		return 2
	}

	if err := cmd.run(cmdCtx, args[1:]); err != nil {
		cmdCtx.Logger.ErrorContext(cmdCtx.Ctx, "command failed", "command", cmdName, "error", err)
		_ = writef(os.Stderr, "%s: %v\n", cmdName, err)
		return 1
	}
	return 0
}

func commands() map[string]command {
	return map[string]command{
		"dashboard": {
			name:        "dashboard",
			description: "Entries from the last 7 days and the roster",
			run:         runDashboard,
		},
		"entries": {
			name:        "entries",
			description: "List entries across the organization",
			run:         runEntries,
		},
		"edit-entry": {
			name:        "edit-entry",
			description: "Change the times or notes of an entry",
			run:         runEditEntry,
		},
		"delete-entry": {
			name:        "delete-entry",
			description: "Delete an entry",
			run:         runDeleteEntry,
		},
		"manual-entry": {
			name:        "manual-entry",
			description: "Record a backdated entry for a user",
			run:         runManualEntry,
		},
		"users": {
			name:        "users",
			description: "List users",
			run:         runUsers,
		},
		"set-role": {
			name:        "set-role",
			description: "Change a user's role",
			run:         runSetRole,
		},
		"org": {
			name:        "org",
			description: "Show the organization record",
			run:         runOrg,
		},
		"export": {
			name:        "export",
			description: "Download a timesheet CSV",
			run:         runExport,
		},
	}
}

func printUsage(w io.Writer) error {
	if err := writef(w, "Usage: timeclock-admin <command> [flags]\n\n"); err != nil {
		return err
	}
	if err := writef(w, "Available commands:\n"); err != nil {
		return err
	}
	names := make([]string, 0, len(commands()))
	for name := range commands() {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		c := commands()[name]
		if err := writef(w, "  %-14s %s\n", c.name, c.description); err != nil {
			return err
		}
	}
	return nil
}

func writef(w io.Writer, format string, args ...any) error {
	_, err := fmt.Fprintf(w, format, args...)
	return err
}

// withAdmin signs in, then runs fn with the admin console and identity.
func withAdmin(cmdCtx *commandContext, fn func(console *service.AdminConsole, as *domainauth.User) error) error {
	app, err := cmdCtx.newApp(cmdCtx.Ctx)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := app.Close(); cerr != nil {
			cmdCtx.Logger.Warn("close app", "error", cerr)
		}
	}()

	user, err := app.RequireUser(cmdCtx.Ctx)
	if err != nil {
		return err
	}
	return fn(app.AdminConsole(), user)
}
