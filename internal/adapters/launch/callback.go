package launch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"time"
)

const callbackPage = `<!doctype html><title>timeclock</title><p>Signed in. You can close this window.</p>`

// ErrNoToken is returned when the callback request carries no token.
var ErrNoToken = errors.New("callback did not include a token")

// CallbackReceiver listens on a loopback address for the browser redirect that
// finishes a hosted login. The redirect target is any path with a "token"
// query parameter.
type CallbackReceiver struct {
	listener net.Listener
	logger   *slog.Logger
}

// Listen binds addr. Use Addr to build the redirect URL handed to the browser.
func Listen(addr string, logger *slog.Logger) (*CallbackReceiver, error) {
	if logger == nil {
		logger = slog.Default()
	}
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen for login callback: %w", err)
	}
	return &CallbackReceiver{listener: ln, logger: logger.With("component", "login_callback")}, nil
}

// RedirectURL returns the URL the backend should redirect to after login.
func (r *CallbackReceiver) RedirectURL() string {
	return "http://" + r.listener.Addr().String() + "/callback"
}

// Wait serves until one request with a token arrives, ctx ends, or the
// listener fails. It returns the full callback URL so the caller can hand it
// to the bootstrap as the launch location.
func (r *CallbackReceiver) Wait(ctx context.Context) (*url.URL, error) {
	got := make(chan *url.URL, 1)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /", func(w http.ResponseWriter, req *http.Request) {
		if req.URL.Query().Get("token") == "" {
			http.Error(w, ErrNoToken.Error(), http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(callbackPage))

		u := *req.URL
		u.Scheme = "http"
		u.Host = req.Host
		select {
		case got <- &u:
		default:
		}
	})

	srv := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	serveErr := make(chan error, 1)
	go func() { serveErr <- srv.Serve(r.listener) }()

	shutdown := func() {
		sctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := srv.Shutdown(sctx); err != nil {
			r.logger.Warn("login callback shutdown failed", "error", err)
		}
	}

	select {
	case u := <-got:
		shutdown()
		r.logger.Info("login callback received")
		return u, nil
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			err = ErrNoToken
		}
		return nil, err
	case <-ctx.Done():
		shutdown()
		return nil, ctx.Err()
	}
}
