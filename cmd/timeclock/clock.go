package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/target/timeclock/internal/bootstrap"
	domainauth "github.com/target/timeclock/internal/domain/auth"
	apperrors "github.com/target/timeclock/internal/errors"
	"github.com/target/timeclock/internal/service"
)

// syncWriter serializes writes from the timer goroutine and the command loop.
type syncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *syncWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}

type clockSession struct {
	cmdCtx *commandContext
	app    *bootstrap.App
	out    io.Writer

	view *service.ClockView
	wg   sync.WaitGroup
}

func runClock(cmdCtx *commandContext, _ []string) error {
	app, err := cmdCtx.app()
	if err != nil {
		return err
	}
	defer closeApp(cmdCtx, app)

	user, err := app.RequireUser(cmdCtx.Ctx)
	if err != nil {
		return err
	}

	invalidated := make(chan struct{}, 1)
	unsubscribe := app.Events.Subscribe(func(context.Context, string) {
		select {
		case invalidated <- struct{}{}:
		default:
		}
	})
	defer unsubscribe()

	cs := &clockSession{cmdCtx: cmdCtx, app: app, out: &syncWriter{w: cmdCtx.Out}}
	defer cs.wg.Wait()
	if err := cs.mount(user); err != nil {
		return err
	}
	defer func() { cs.view.Unmount() }()

	ctx := cmdCtx.Ctx
	lines := readLines(ctx, bufio.NewScanner(cmdCtx.In))
	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok || line == "q" || line == "quit" {
				return nil
			}
			if line == "" {
				cs.punch(ctx)
			}
		case <-invalidated:
			cs.view.Unmount()
			user, err = app.RequireUser(ctx)
			if err != nil {
				return fmt.Errorf("session ended: %w", err)
			}
			if err := cs.mount(user); err != nil {
				return err
			}
		}
	}
}

func (cs *clockSession) mount(user *domainauth.User) error {
	cs.view = cs.app.ClockView(func(display string) {
		_ = writef(cs.out, "\r%s ", display)
	})
	if err := writef(cs.out, "%s\nEnter punches, q quits.\n", cs.view.Greeting(user)); err != nil {
		return err
	}
	if err := cs.view.Mount(cs.cmdCtx.Ctx); err != nil {
		return err
	}
	return cs.printSession()
}

// punch runs in the background so repeated presses meet the in-flight guard.
func (cs *clockSession) punch(ctx context.Context) {
	view := cs.view
	cs.wg.Add(1)
	go func() {
		defer cs.wg.Done()
		if err := view.Punch(ctx); err != nil {
			_ = writef(cs.out, "\nPunch failed: %s\n", apperrors.UserMessage(err))
			return
		}
		_ = cs.printSessionOf(view)
	}()
}

func (cs *clockSession) printSession() error {
	return cs.printSessionOf(cs.view)
}

func (cs *clockSession) printSessionOf(view *service.ClockView) error {
	if start := view.Session().Start(); start != nil {
		return writef(cs.out, "\nClocked in at %s\n", start.Local().Format(displayTime))
	}
	return writef(cs.out, "\nClocked out\n")
}
