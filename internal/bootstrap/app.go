package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/jonboulle/clockwork"

	"github.com/target/timeclock/config"
	"github.com/target/timeclock/internal/adapters/api"
	"github.com/target/timeclock/internal/adapters/hostframe"
	"github.com/target/timeclock/internal/adapters/launch"
	domainauth "github.com/target/timeclock/internal/domain/auth"
	"github.com/target/timeclock/internal/observability/statsd"
	"github.com/target/timeclock/internal/ports"
	"github.com/target/timeclock/internal/service"
)

// AppOptions configures NewApp.
type AppOptions struct {
	Config config.AppConfig
	Logger *slog.Logger
	// Overrides replaces adapters normally built from Config.
	Overrides AppOverrides
}

// AppOverrides injects adapters in place of the configured ones (tests, embedding hosts).
type AppOverrides struct {
	Store ports.CredentialStore
	Port  ports.MessagePort
	Frame ports.FrameDetector
	Clock clockwork.Clock
}

// App wires the adapters and services of one client process.
type App struct {
	Config  config.AppConfig
	Logger  *slog.Logger
	Store   ports.CredentialStore
	API     *api.Client
	Events  *service.SessionEvents
	Metrics statsd.Sink
	Clock   clockwork.Clock

	frame  ports.FrameDetector
	bridge ports.SessionBridge
	closer []func() error

	mu sync.Mutex
	// loc outlives each bootstrap so a stripped redirect token stays stripped on reload.
	loc  *launch.Location
	boot *service.AuthBootstrapper
}

// NewApp builds the credential store, API client, host frame bridge and
// session events from configuration.
func NewApp(ctx context.Context, opts AppOptions) (*App, error) {
	cfg := opts.Config
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	clock := opts.Overrides.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}

	loc, err := launch.NewLocation(cfg.Auth.LaunchURL)
	if err != nil {
		return nil, err
	}
	a := &App{Config: cfg, Logger: logger, Clock: clock, Events: service.NewSessionEvents(logger), loc: loc}

	var closeMetrics func() error
	a.Metrics, closeMetrics = BuildMetrics(cfg.Observability.Metrics, logger)
	a.closer = append(a.closer, closeMetrics)

	a.Store = opts.Overrides.Store
	if a.Store == nil {
		store, closeStore, err := NewCredentialStore(ctx, StoreOptions{Store: cfg.Store, Redis: cfg.Redis, Logger: logger})
		if err != nil {
			_ = a.Close()
			return nil, err
		}
		a.Store = store
		a.closer = append(a.closer, closeStore)
	}

	client, err := api.NewClient(api.Options{
		BaseURL:     cfg.API.BaseURL,
		Timeout:     cfg.API.Timeout,
		Store:       a.Store,
		Invalidator: a.Events,
		Metrics:     a.Metrics,
		Logger:      logger,
	})
	if err != nil {
		_ = a.Close()
		return nil, fmt.Errorf("api client: %w", err)
	}
	a.API = client

	a.wireHostFrame(ctx, opts.Overrides)
	return a, nil
}

func (a *App) wireHostFrame(ctx context.Context, o AppOverrides) {
	a.frame = o.Frame
	if a.frame == nil {
		a.frame = hostframe.NewDetector(a.Config.Embed)
	}

	port := o.Port
	if port == nil {
		embedded, err := a.frame.IsEmbedded()
		if err != nil {
			a.Logger.WarnContext(ctx, "frame detection failed; assuming embedded", "error", err)
		} else if !embedded {
			return
		}
		p, err := hostframe.Open(ctx, a.Config.Embed, a.Logger)
		if err != nil {
			a.Logger.WarnContext(ctx, "host frame unavailable; sso disabled", "error", err)
			return
		}
		a.closer = append(a.closer, p.Close)
		port = p
	}

	a.bridge = service.NewSSOBridge(service.SSOBridgeOptions{
		Port:    port,
		Timeout: a.Config.Auth.SSOTimeout,
		Clock:   a.Clock,
		Logger:  a.Logger,
	})
}

// Authenticate runs a fresh bootstrap against launchURL, replacing any
// previous one. A non-empty launchURL becomes the app's launch location; an
// empty one reuses the current location, whose redirect token was already
// stripped by an earlier run.
func (a *App) Authenticate(ctx context.Context, launchURL string) (domainauth.State, error) {
	a.mu.Lock()
	if launchURL != "" {
		loc, err := launch.NewLocation(launchURL)
		if err != nil {
			a.mu.Unlock()
			return domainauth.State{}, err
		}
		a.loc = loc
	}
	loc := a.loc
	a.mu.Unlock()

	boot := service.NewAuthBootstrapper(service.AuthBootstrapperOptions{
		Ports: service.BootstrapPorts{
			Store:    a.Store,
			API:      a.API,
			Location: loc,
			Frame:    a.frame,
			Bridge:   a.bridge,
		},
		Events: a.Events,
		Config: service.BootstrapConfig{
			PlaceholderRole: a.Config.Auth.PlaceholderRole,
			Logger:          a.Logger,
			Metrics:         a.Metrics,
		},
	})

	a.mu.Lock()
	prev := a.boot
	a.boot = boot
	a.mu.Unlock()
	if prev != nil {
		prev.Close()
	}

	return boot.Run(ctx), nil
}

// Reload re-runs the bootstrap from the current launch location.
func (a *App) Reload(ctx context.Context) (domainauth.State, error) {
	return a.Authenticate(ctx, "")
}

// LaunchURL returns the current launch location.
func (a *App) LaunchURL() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.loc.String()
}

// Bootstrapper returns the most recent bootstrapper, or nil before Authenticate.
func (a *App) Bootstrapper() *service.AuthBootstrapper {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.boot
}

// RequireUser authenticates and returns the identity, or an error carrying
// the unauthenticated reason.
func (a *App) RequireUser(ctx context.Context) (*domainauth.User, error) {
	state, err := a.Reload(ctx)
	if err != nil {
		return nil, err
	}
	switch {
	case state.IsAuthenticated():
		return state.User, nil
	case state.Status == domainauth.StatusError:
		return nil, errors.New(state.Error)
	case state.Error != "":
		return nil, fmt.Errorf("not signed in: %s", state.Error)
	default:
		return nil, errors.New("not signed in; run login first")
	}
}

// Logout clears the stored credentials and notifies subscribers.
func (a *App) Logout(ctx context.Context) error {
	if err := a.Store.Clear(ctx); err != nil {
		return fmt.Errorf("clear credentials: %w", err)
	}
	a.Events.Invalidate(ctx, "logout")
	return nil
}

// PunchController builds a punch controller bound to the API client.
func (a *App) PunchController() *service.PunchController {
	return service.NewPunchController(service.PunchControllerOptions{API: a.API, Logger: a.Logger, Metrics: a.Metrics})
}

// ClockView builds a clock view whose timer reports every display update to onTick.
func (a *App) ClockView(onTick func(string)) *service.ClockView {
	return service.NewClockView(service.ClockViewOptions{
		Punch: a.PunchController(),
		Timer: service.NewElapsedTimer(service.ElapsedTimerOptions{Clock: a.Clock, OnTick: onTick}),
		Clock: a.Clock,
	})
}

// Timesheet builds the personal timesheet view.
func (a *App) Timesheet() *service.Timesheet {
	return service.NewTimesheet(a.API, a.Clock)
}

// AdminConsole builds the admin console.
func (a *App) AdminConsole() *service.AdminConsole {
	return service.NewAdminConsole(service.AdminConsoleOptions{API: a.API, Clock: a.Clock, Logger: a.Logger})
}

// Close releases every resource the app opened.
func (a *App) Close() error {
	a.mu.Lock()
	boot := a.boot
	a.boot = nil
	a.mu.Unlock()
	if boot != nil {
		boot.Close()
	}

	var errs []error
	for i := len(a.closer) - 1; i >= 0; i-- {
		if err := a.closer[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closer = nil
	return errors.Join(errs...)
}
