package service

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"sync"
	"time"

	domainauth "github.com/target/timeclock/internal/domain/auth"
	apperrors "github.com/target/timeclock/internal/errors"
	"github.com/target/timeclock/internal/observability/metrics"
	"github.com/target/timeclock/internal/observability/statsd"
	"github.com/target/timeclock/internal/ports"
)

// Bootstrap paths, reported in logs and metrics.
const (
	PathRedirectToken = "redirect_token"
	PathCachedToken   = "cached_token"
	PathEmbeddedSSO   = "embedded_sso"
	PathNone          = "none"
	PathStoreFailure  = "store_failure"
)

const redirectTokenParam = "token"

// BootstrapPorts are the collaborators the bootstrap consults.
type BootstrapPorts struct {
	Store    ports.CredentialStore // Required
	API      ports.AuthAPI         // Required
	Location ports.Location        // Required
	Frame    ports.FrameDetector   // Optional: nil means standalone
	Bridge   ports.SessionBridge   // Optional: required for the SSO path
}

// BootstrapConfig tunes the bootstrap.
type BootstrapConfig struct {
	// PlaceholderRole is assumed when a redirect token cannot be resolved to a profile.
	PlaceholderRole domainauth.Role
	Logger          *slog.Logger
	Metrics         statsd.Sink
}

// AuthBootstrapperOptions groups dependencies for AuthBootstrapper.
type AuthBootstrapperOptions struct {
	Ports  BootstrapPorts
	Events *SessionEvents // Optional: invalidations reset the state to unauthenticated
	Config BootstrapConfig
}

// AuthBootstrapper resolves the startup identity. It tries, in order, a token
// on the launch URL, the cached credentials, and the host frame's SSO session,
// and settles on exactly one outcome per instance. A "reload" is a new
// instance.
type AuthBootstrapper struct {
	ports  BootstrapPorts
	cfg    BootstrapConfig
	logger *slog.Logger

	once        sync.Once
	unsubscribe func()

	mu        sync.RWMutex
	state     domainauth.State
	observers map[uint64]func(domainauth.State)
	nextObs   uint64
}

// NewAuthBootstrapper constructs a new AuthBootstrapper in the loading state.
func NewAuthBootstrapper(opts AuthBootstrapperOptions) *AuthBootstrapper {
	if opts.Ports.Store == nil {
		panic("CredentialStore is required")
	}
	if opts.Ports.API == nil {
		panic("AuthAPI is required")
	}
	if opts.Ports.Location == nil {
		panic("Location is required")
	}
	cfg := opts.Config
	if !cfg.PlaceholderRole.Valid() {
		cfg.PlaceholderRole = domainauth.RoleAdmin
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	b := &AuthBootstrapper{
		ports:     opts.Ports,
		cfg:       cfg,
		logger:    logger.With("component", "auth_bootstrap"),
		state:     domainauth.Loading(),
		observers: make(map[uint64]func(domainauth.State)),
	}
	if opts.Events != nil {
		b.unsubscribe = opts.Events.Subscribe(b.onInvalidate)
	}
	return b
}

// Close detaches the bootstrapper from session events.
func (b *AuthBootstrapper) Close() {
	if b.unsubscribe != nil {
		b.unsubscribe()
	}
}

// State returns the current state.
func (b *AuthBootstrapper) State() domainauth.State {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.state
}

// OnChange registers fn for every state change after the initial loading state.
func (b *AuthBootstrapper) OnChange(fn func(domainauth.State)) func() {
	b.mu.Lock()
	id := b.nextObs
	b.nextObs++
	b.observers[id] = fn
	b.mu.Unlock()

	return func() {
		b.mu.Lock()
		delete(b.observers, id)
		b.mu.Unlock()
	}
}

// Run resolves the identity on first call; later calls return the current
// state without re-running any step.
func (b *AuthBootstrapper) Run(ctx context.Context) domainauth.State {
	b.once.Do(func() {
		started := time.Now()
		run := &bootstrapRun{}
		for s := step(b.redirectToken); s != nil; {
			s = s(ctx, run)
		}

		b.logger.InfoContext(ctx, "auth bootstrap resolved",
			"path", run.path,
			"status", run.state.Status,
			"degraded", run.degraded,
		)
		metrics.EmitAuthBootstrap(b.cfg.Metrics, metrics.BootstrapMetric{
			Path:     run.path,
			Status:   string(run.state.Status),
			Degraded: run.degraded,
			Duration: time.Since(started),
		})
		b.publish(run.state)
	})
	return b.State()
}

// bootstrapRun carries the outcome of one evaluation between steps.
type bootstrapRun struct {
	state    domainauth.State
	path     string
	degraded bool
	// ssoErr is shown with the unauthenticated state.
	ssoErr string
}

// step is one state of the bootstrap machine. It returns the next step, or
// nil once run.state is final.
type step func(ctx context.Context, run *bootstrapRun) step

func (b *AuthBootstrapper) redirectToken(ctx context.Context, run *bootstrapRun) step {
	loc := b.ports.Location.Current()
	token := ""
	if loc != nil {
		token = strings.TrimSpace(loc.Query().Get(redirectTokenParam))
	}
	if token == "" {
		return b.cachedToken
	}

	if err := b.ports.Store.SetToken(ctx, token); err != nil {
		return b.storeFailure(ctx, run, "persist redirect token", err)
	}
	if err := b.ports.Location.Replace(withoutToken(loc)); err != nil {
		b.logger.WarnContext(ctx, "could not remove token from launch url", "error", err)
	}

	user, err := b.ports.API.Refresh(ctx, token)
	if err != nil {
		placeholder := domainauth.PlaceholderUser(b.cfg.PlaceholderRole)
		b.logger.WarnContext(ctx, "profile refresh failed; trusting redirect token with placeholder identity",
			"role", placeholder.Role,
			"error", err,
		)
		run.degraded = true
		return b.finish(run, PathRedirectToken, domainauth.Authenticated(placeholder))
	}

	if err := b.ports.Store.SetUser(ctx, user); err != nil {
		return b.storeFailure(ctx, run, "persist user", err)
	}
	return b.finish(run, PathRedirectToken, domainauth.Authenticated(user))
}

func (b *AuthBootstrapper) cachedToken(ctx context.Context, run *bootstrapRun) step {
	token, err := b.ports.Store.Token(ctx)
	if err != nil {
		return b.storeFailure(ctx, run, "read token", err)
	}
	if token == "" {
		return b.embeddedSSO
	}

	cached, err := b.ports.Store.User(ctx)
	if err != nil {
		return b.storeFailure(ctx, run, "read user", err)
	}
	if cached != nil {
		return b.finish(run, PathCachedToken, domainauth.Authenticated(*cached))
	}

	user, err := b.ports.API.Refresh(ctx, token)
	if err == nil {
		if setErr := b.ports.Store.SetUser(ctx, user); setErr != nil {
			return b.storeFailure(ctx, run, "persist user", setErr)
		}
		return b.finish(run, PathCachedToken, domainauth.Authenticated(user))
	}
	if ctx.Err() != nil {
		// Shutting down; leave the stored token for the next start.
		return b.finish(run, PathNone, domainauth.Unauthenticated(""))
	}

	b.logger.InfoContext(ctx, "cached token rejected; clearing credentials", "error", err)
	if clearErr := b.ports.Store.Clear(ctx); clearErr != nil {
		return b.storeFailure(ctx, run, "clear credentials", clearErr)
	}
	return b.embeddedSSO
}

func (b *AuthBootstrapper) embeddedSSO(ctx context.Context, run *bootstrapRun) step {
	if !b.embedded(ctx) || b.ports.Bridge == nil {
		return b.unauthenticated
	}

	payload, err := b.ports.Bridge.RequestSession(ctx)
	if err != nil {
		run.ssoErr = ssoMessage(err)
		return b.unauthenticated
	}

	res, err := b.ports.API.ExchangeSSO(ctx, payload)
	if err != nil {
		b.logger.WarnContext(ctx, "sso exchange failed", "error", err)
		run.ssoErr = ssoMessage(err)
		return b.unauthenticated
	}

	if err := b.ports.Store.SetToken(ctx, res.Token); err != nil {
		return b.storeFailure(ctx, run, "persist sso token", err)
	}
	if err := b.ports.Store.SetUser(ctx, res.User); err != nil {
		return b.storeFailure(ctx, run, "persist user", err)
	}
	return b.finish(run, PathEmbeddedSSO, domainauth.Authenticated(res.User))
}

func (b *AuthBootstrapper) unauthenticated(_ context.Context, run *bootstrapRun) step {
	return b.finish(run, PathNone, domainauth.Unauthenticated(run.ssoErr))
}

// embedded reports whether a host frame is present. A detection failure counts as embedded.
func (b *AuthBootstrapper) embedded(ctx context.Context) bool {
	if b.ports.Frame == nil {
		return false
	}
	embedded, err := b.ports.Frame.IsEmbedded()
	if err != nil {
		b.logger.DebugContext(ctx, "frame detection failed; assuming embedded", "error", err)
		return true
	}
	return embedded
}

func (b *AuthBootstrapper) finish(run *bootstrapRun, path string, state domainauth.State) step {
	run.path = path
	run.state = state
	return nil
}

func (b *AuthBootstrapper) storeFailure(ctx context.Context, run *bootstrapRun, op string, err error) step {
	b.logger.ErrorContext(ctx, "credential store failed", "op", op, "error", err)
	return b.finish(run, PathStoreFailure, domainauth.Failed(fmt.Sprintf("credential store: %s: %v", op, err)))
}

func (b *AuthBootstrapper) onInvalidate(ctx context.Context, reason string) {
	b.mu.RLock()
	status := b.state.Status
	b.mu.RUnlock()
	if status == domainauth.StatusLoading {
		return
	}
	b.logger.InfoContext(ctx, "session invalidated; signing out", "reason", reason)
	b.publish(domainauth.Unauthenticated(""))
}

func (b *AuthBootstrapper) publish(state domainauth.State) {
	b.mu.Lock()
	b.state = state
	fns := make([]func(domainauth.State), 0, len(b.observers))
	for _, fn := range b.observers {
		fns = append(fns, fn)
	}
	b.mu.Unlock()

	for _, fn := range fns {
		fn(state)
	}
}

func ssoMessage(err error) string {
	return "SSO: " + apperrors.UserMessage(err)
}

// withoutToken returns u with only the token parameter removed.
func withoutToken(u *url.URL) *url.URL {
	cp := *u
	q := cp.Query()
	q.Del(redirectTokenParam)
	cp.RawQuery = q.Encode()
	return &cp
}
