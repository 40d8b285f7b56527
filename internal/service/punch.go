package service

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/target/timeclock/internal/domain/model"
	apperrors "github.com/target/timeclock/internal/errors"
	"github.com/target/timeclock/internal/observability/metrics"
	"github.com/target/timeclock/internal/observability/statsd"
	"github.com/target/timeclock/internal/ports"
)

// PunchControllerOptions groups dependencies for PunchController.
type PunchControllerOptions struct {
	API     ports.PunchAPI // Required
	Logger  *slog.Logger
	Metrics statsd.Sink
}

// PunchController owns the clocked-in state. State changes only after the
// backend confirms them, and at most one punch is in flight at a time.
type PunchController struct {
	api     ports.PunchAPI
	logger  *slog.Logger
	metrics statsd.Sink

	inFlight atomic.Bool

	mu        sync.RWMutex
	session   model.PunchSession
	lastErr   error
	observers map[uint64]func(model.PunchSession)
	nextObs   uint64
}

// NewPunchController constructs a new PunchController in the clocked-out state.
func NewPunchController(opts PunchControllerOptions) *PunchController {
	if opts.API == nil {
		panic("PunchAPI is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &PunchController{
		api:       opts.API,
		logger:    logger.With("component", "punch"),
		metrics:   opts.Metrics,
		observers: make(map[uint64]func(model.PunchSession)),
	}
}

// PunchOption customizes a single punch.
type PunchOption func(*punchRequest)

type punchRequest struct {
	notes string
}

// WithNotes attaches notes to a clock-out. It is ignored when clocking in.
func WithNotes(notes string) PunchOption {
	return func(r *punchRequest) { r.notes = notes }
}

// Sync replaces the local state with the server's.
func (p *PunchController) Sync(ctx context.Context) error {
	st, err := p.api.PunchStatus(ctx)
	if err != nil {
		p.setError(err)
		return err
	}
	p.setSession(st.Session())
	return nil
}

// Punch toggles the clocked-in state. A call made while another punch is in
// flight returns immediately without contacting the backend.
func (p *PunchController) Punch(ctx context.Context, opts ...PunchOption) error {
	if !p.inFlight.CompareAndSwap(false, true) {
		p.logger.DebugContext(ctx, "punch ignored; another punch is in flight")
		return nil
	}
	defer p.inFlight.Store(false)

	req := punchRequest{}
	for _, opt := range opts {
		opt(&req)
	}

	if p.Session().ClockedIn {
		return p.clockOut(ctx, req)
	}
	return p.clockIn(ctx)
}

func (p *PunchController) clockIn(ctx context.Context) error {
	at, err := p.api.PunchIn(ctx)
	if err != nil {
		return p.fail(ctx, "in", err)
	}
	p.succeed(ctx, "in", model.PunchSession{ClockedIn: true, ClockInTime: &at})
	return nil
}

func (p *PunchController) clockOut(ctx context.Context, req punchRequest) error {
	if err := p.api.PunchOut(ctx, req.notes); err != nil {
		return p.fail(ctx, "out", err)
	}
	p.succeed(ctx, "out", model.PunchSession{})
	return nil
}

func (p *PunchController) fail(ctx context.Context, action string, err error) error {
	p.logger.WarnContext(ctx, "punch failed", "action", action, "error", err)
	metrics.EmitPunch(p.metrics, metrics.PunchMetric{Action: action, Result: metrics.ResultError, Err: err})
	p.setError(err)
	return err
}

func (p *PunchController) succeed(ctx context.Context, action string, s model.PunchSession) {
	p.logger.InfoContext(ctx, "punch recorded", "action", action)
	metrics.EmitPunch(p.metrics, metrics.PunchMetric{Action: action, Result: metrics.ResultSuccess})
	p.setSession(s)
}

// Session returns the last confirmed session.
func (p *PunchController) Session() model.PunchSession {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.session
}

// Busy reports whether a punch is in flight.
func (p *PunchController) Busy() bool {
	return p.inFlight.Load()
}

// LastError returns the error of the most recent failed call, or nil after a success.
func (p *PunchController) LastError() error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.lastErr
}

// ErrorMessage returns LastError formatted for display.
func (p *PunchController) ErrorMessage() string {
	return apperrors.UserMessage(p.LastError())
}

// OnChange registers fn for every confirmed session change.
func (p *PunchController) OnChange(fn func(model.PunchSession)) func() {
	p.mu.Lock()
	id := p.nextObs
	p.nextObs++
	p.observers[id] = fn
	p.mu.Unlock()

	return func() {
		p.mu.Lock()
		delete(p.observers, id)
		p.mu.Unlock()
	}
}

func (p *PunchController) setError(err error) {
	p.mu.Lock()
	p.lastErr = err
	p.mu.Unlock()
}

func (p *PunchController) setSession(s model.PunchSession) {
	p.mu.Lock()
	p.session = s
	p.lastErr = nil
	fns := make([]func(model.PunchSession), 0, len(p.observers))
	for _, fn := range p.observers {
		fns = append(fns, fn)
	}
	p.mu.Unlock()

	for _, fn := range fns {
		fn(s)
	}
}
