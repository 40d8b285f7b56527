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
	In     io.Reader
	Out    io.Writer

	// newApp builds the application wiring for one command.
	newApp func(ctx context.Context) (*bootstrap.App, error)
}

func (c *commandContext) app() (*bootstrap.App, error) {
	return c.newApp(c.Ctx)
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
		In:     os.Stdin,
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
		"login": {
			name:        "login",
			description: "Wait for the sign-in redirect and store the session",
			run:         runLogin,
		},
		"whoami": {
			name:        "whoami",
			description: "Show the signed-in user",
			run:         runWhoami,
		},
		"status": {
			name:        "status",
			description: "Show whether you are clocked in",
			run:         runStatus,
		},
		"punch": {
			name:        "punch",
			description: "Clock in, or clock out when already clocked in",
			run:         runPunch,
		},
		"clock": {
			name:        "clock",
			description: "Live punch clock; Enter punches, q quits",
			run:         runClock,
		},
		"hours": {
			name:        "hours",
			description: "List your entries and total hours",
			run:         runHours,
		},
		"logout": {
			name:        "logout",
			description: "Forget the stored session",
			run:         runLogout,
		},
	}
}

func printUsage(w io.Writer) error {
	if err := writef(w, "Usage: timeclock <command> [flags]\n\n"); err != nil {
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
		if err := writef(w, "  %-10s %s\n", c.name, c.description); err != nil {
			return err
		}
	}
	return nil
}

func writef(w io.Writer, format string, args ...any) error {
	_, err := fmt.Fprintf(w, format, args...)
	return err
}

func closeApp(cmdCtx *commandContext, app *bootstrap.App) {
	if err := app.Close(); err != nil {
		cmdCtx.Logger.Warn("close app", "error", err)
	}
}
