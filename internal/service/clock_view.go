package service

import (
	"context"
	"sync"

	"github.com/jonboulle/clockwork"

	domainauth "github.com/target/timeclock/internal/domain/auth"
	"github.com/target/timeclock/internal/domain/model"
)

// ClockViewOptions groups dependencies for ClockView.
type ClockViewOptions struct {
	Punch *PunchController // Required
	Timer *ElapsedTimer    // Required
	Clock clockwork.Clock
}

// ClockView binds a PunchController to an ElapsedTimer so the display
// follows every confirmed punch.
type ClockView struct {
	punch *PunchController
	timer *ElapsedTimer
	clock clockwork.Clock

	mu          sync.Mutex
	unsubscribe func()
}

// NewClockView constructs a new ClockView.
func NewClockView(opts ClockViewOptions) *ClockView {
	if opts.Punch == nil {
		panic("PunchController is required")
	}
	if opts.Timer == nil {
		panic("ElapsedTimer is required")
	}
	clock := opts.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &ClockView{punch: opts.Punch, timer: opts.Timer, clock: clock}
}

// Mount loads the server punch state and starts following it. A failed sync
// leaves the view mounted in the clocked-out state; the error is returned and
// also available from the controller.
func (v *ClockView) Mount(ctx context.Context) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.unsubscribe != nil {
		return nil
	}
	err := v.punch.Sync(ctx)
	v.timer.Reset(v.punch.Session().Start())
	v.unsubscribe = v.punch.OnChange(func(s model.PunchSession) {
		v.timer.Reset(s.Start())
	})
	return err
}

// Unmount stops following the controller and halts the timer.
func (v *ClockView) Unmount() {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.unsubscribe != nil {
		v.unsubscribe()
		v.unsubscribe = nil
	}
	v.timer.Stop()
}

// Punch toggles the clocked-in state through the controller.
func (v *ClockView) Punch(ctx context.Context, opts ...PunchOption) error {
	return v.punch.Punch(ctx, opts...)
}

// Session returns the last confirmed punch session.
func (v *ClockView) Session() model.PunchSession { return v.punch.Session() }

// Elapsed returns the current timer display.
func (v *ClockView) Elapsed() string { return v.timer.Display() }

// Greeting returns a time-of-day greeting for u.
func (v *ClockView) Greeting(u *domainauth.User) string {
	return Greeting(v.clock.Now().Hour(), u)
}

// Greeting picks the salutation for the given local hour.
func Greeting(hour int, u *domainauth.User) string {
	var part string
	switch {
	case hour < 12:
		part = "Good morning"
	case hour < 17:
		part = "Good afternoon"
	default:
		part = "Good evening"
	}
	return part + ", " + u.FirstName()
}
