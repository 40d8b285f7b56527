package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/target/timeclock/internal/adapters/launch"
	domainauth "github.com/target/timeclock/internal/domain/auth"
	"github.com/target/timeclock/internal/domain/model"
	"github.com/target/timeclock/internal/service"
)

const (
	displayDate = "Mon Jan 2"
	displayTime = "15:04"
)

type loginOptions struct {
	Addr    string
	Timeout time.Duration
}

func parseLoginFlags(cmdCtx *commandContext, args []string) (loginOptions, error) {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	opts := loginOptions{Addr: cmdCtx.Config.Auth.CallbackAddr, Timeout: cmdCtx.Config.Auth.CallbackTimeout}
	fs.StringVar(&opts.Addr, "addr", opts.Addr, "Loopback address that receives the sign-in redirect")
	fs.DurationVar(&opts.Timeout, "timeout", opts.Timeout, "How long to wait for the redirect")

	if err := fs.Parse(args); err != nil {
		return loginOptions{}, err
	}
	if opts.Timeout <= 0 {
		return loginOptions{}, errors.New("--timeout must be positive")
	}
	return opts, nil
}

func runLogin(cmdCtx *commandContext, args []string) error {
	opts, err := parseLoginFlags(cmdCtx, args)
	if err != nil {
		return err
	}

	receiver, err := launch.Listen(opts.Addr, cmdCtx.Logger)
	if err != nil {
		return err
	}
	if err := writef(cmdCtx.Out, "Open timeclock from your account; waiting for the redirect to %s\n", receiver.RedirectURL()); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmdCtx.Ctx, opts.Timeout)
	defer cancel()
	callback, err := receiver.Wait(ctx)
	if err != nil {
		return fmt.Errorf("wait for sign-in: %w", err)
	}

	app, err := cmdCtx.app()
	if err != nil {
		return err
	}
	defer closeApp(cmdCtx, app)

	state, err := app.Authenticate(cmdCtx.Ctx, callback.String())
	if err != nil {
		return err
	}
	if !state.IsAuthenticated() {
		return fmt.Errorf("sign-in failed: %s", state.Error)
	}
	return writef(cmdCtx.Out, "Signed in as %s (%s)\n", state.User.Name, state.User.Role)
}

func runWhoami(cmdCtx *commandContext, _ []string) error {
	app, err := cmdCtx.app()
	if err != nil {
		return err
	}
	defer closeApp(cmdCtx, app)

	user, err := app.RequireUser(cmdCtx.Ctx)
	if err != nil {
		return err
	}
	return printUser(cmdCtx, user)
}

func printUser(cmdCtx *commandContext, user *domainauth.User) error {
	tw := tabwriter.NewWriter(cmdCtx.Out, 0, 4, 2, ' ', 0)
	rows := [][2]string{
		{"Name", user.Name},
		{"Email", user.Email},
		{"Role", string(user.Role)},
	}
	for _, row := range rows {
		if row[1] == "" {
			continue
		}
		if err := writef(tw, "%s:\t%s\n", row[0], row[1]); err != nil {
			return err
		}
	}
	return tw.Flush()
}

func runStatus(cmdCtx *commandContext, _ []string) error {
	app, err := cmdCtx.app()
	if err != nil {
		return err
	}
	defer closeApp(cmdCtx, app)

	if _, err := app.RequireUser(cmdCtx.Ctx); err != nil {
		return err
	}
	pc := app.PunchController()
	if err := pc.Sync(cmdCtx.Ctx); err != nil {
		return err
	}
	return printSession(cmdCtx, pc.Session(), app.Clock.Now())
}

func printSession(cmdCtx *commandContext, s model.PunchSession, now time.Time) error {
	start := s.Start()
	if start == nil {
		return writef(cmdCtx.Out, "Clocked out\n")
	}
	return writef(cmdCtx.Out, "Clocked in since %s (%s)\n",
		start.Local().Format(displayTime), service.FormatElapsed(now.Sub(*start)))
}

type punchOptions struct {
	Notes string
}

func parsePunchFlags(args []string) (punchOptions, error) {
	fs := flag.NewFlagSet("punch", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	var opts punchOptions
	fs.StringVar(&opts.Notes, "notes", "", "Notes attached when clocking out")

	if err := fs.Parse(args); err != nil {
		return punchOptions{}, err
	}
	opts.Notes = strings.TrimSpace(opts.Notes)
	return opts, nil
}

func runPunch(cmdCtx *commandContext, args []string) error {
	opts, err := parsePunchFlags(args)
	if err != nil {
		return err
	}

	app, err := cmdCtx.app()
	if err != nil {
		return err
	}
	defer closeApp(cmdCtx, app)

	if _, err := app.RequireUser(cmdCtx.Ctx); err != nil {
		return err
	}
	pc := app.PunchController()
	if err := pc.Sync(cmdCtx.Ctx); err != nil {
		return err
	}
	if err := pc.Punch(cmdCtx.Ctx, service.WithNotes(opts.Notes)); err != nil {
		return err
	}
	return printSession(cmdCtx, pc.Session(), app.Clock.Now())
}

type hoursOptions struct {
	Range service.Range
	Page  int
}

func parseHoursFlags(args []string) (hoursOptions, error) {
	fs := flag.NewFlagSet("hours", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	var rangeName string
	opts := hoursOptions{}
	fs.StringVar(&rangeName, "range", string(service.RangeWeek), "Window ending now: week, 2week, or month")
	fs.IntVar(&opts.Page, "page", 1, "Page number")

	if err := fs.Parse(args); err != nil {
		return hoursOptions{}, err
	}
	r, err := service.ParseRange(rangeName)
	if err != nil {
		return hoursOptions{}, err
	}
	opts.Range = r
	if opts.Page < 1 {
		return hoursOptions{}, errors.New("--page must be at least 1")
	}
	return opts, nil
}

func runHours(cmdCtx *commandContext, args []string) error {
	opts, err := parseHoursFlags(args)
	if err != nil {
		return err
	}

	app, err := cmdCtx.app()
	if err != nil {
		return err
	}
	defer closeApp(cmdCtx, app)

	if _, err := app.RequireUser(cmdCtx.Ctx); err != nil {
		return err
	}
	page, err := app.Timesheet().Mine(cmdCtx.Ctx, opts.Range, opts.Page)
	if err != nil {
		return err
	}
	return printEntries(cmdCtx, page)
}

func printEntries(cmdCtx *commandContext, page model.EntryPage) error {
	if len(page.Entries) == 0 {
		if err := writef(cmdCtx.Out, "No entries\n"); err != nil {
			return err
		}
	} else {
		tw := tabwriter.NewWriter(cmdCtx.Out, 0, 4, 2, ' ', 0)
		if err := writef(tw, "DATE\tIN\tOUT\tDURATION\tNOTES\n"); err != nil {
			return err
		}
		for _, e := range page.Entries {
			out := "-"
			if e.ClockOut != nil {
				out = e.ClockOut.Local().Format(displayTime)
			}
			if err := writef(tw, "%s\t%s\t%s\t%s\t%s\n",
				e.ClockIn.Local().Format(displayDate),
				e.ClockIn.Local().Format(displayTime),
				out,
				e.DurationLabel(),
				e.Notes,
			); err != nil {
				return err
			}
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}
	return writef(cmdCtx.Out, "Total: %s hours\n", page.TotalHours)
}

func runLogout(cmdCtx *commandContext, _ []string) error {
	app, err := cmdCtx.app()
	if err != nil {
		return err
	}
	defer closeApp(cmdCtx, app)

	if err := app.Logout(cmdCtx.Ctx); err != nil {
		return err
	}
	return writef(cmdCtx.Out, "Signed out\n")
}

// readLines forwards trimmed input lines until r is exhausted or ctx ends.
func readLines(ctx context.Context, r *bufio.Scanner) <-chan string {
	lines := make(chan string)
	go func() {
		defer close(lines)
		for r.Scan() {
			select {
			case lines <- strings.TrimSpace(r.Text()):
			case <-ctx.Done():
				return
			}
		}
	}()
	return lines
}
