package service

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	apperrors "github.com/target/timeclock/internal/errors"
	"github.com/target/timeclock/internal/ports"
)

// DefaultSSOTimeout bounds one handshake with the host frame.
const DefaultSSOTimeout = 5 * time.Second

var _ ports.SessionBridge = (*SSOBridge)(nil)

// SSOBridgeOptions groups dependencies for SSOBridge.
type SSOBridgeOptions struct {
	Port    ports.MessagePort // Required
	Timeout time.Duration     // Optional: defaults to DefaultSSOTimeout
	Clock   clockwork.Clock   // Optional: defaults to the real clock
	Logger  *slog.Logger
}

// SSOBridge asks the host frame for its session data. Each request installs
// its own listener and removes it when the request settles.
type SSOBridge struct {
	port    ports.MessagePort
	timeout time.Duration
	clock   clockwork.Clock
	logger  *slog.Logger
}

// NewSSOBridge constructs a new SSOBridge.
func NewSSOBridge(opts SSOBridgeOptions) *SSOBridge {
	if opts.Port == nil {
		panic("MessagePort is required")
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultSSOTimeout
	}
	clock := opts.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &SSOBridge{
		port:    opts.Port,
		timeout: timeout,
		clock:   clock,
		logger:  logger.With("component", "sso_bridge"),
	}
}

// RequestSession posts REQUEST_USER_DATA and waits for the first
// REQUEST_USER_DATA_RESPONSE. The payload is opaque and unauthenticated; the
// backend validates it during the exchange.
func (b *SSOBridge) RequestSession(ctx context.Context) (json.RawMessage, error) {
	logger := b.logger.With("sso_attempt", uuid.NewString())

	responses := make(chan json.RawMessage, 1)
	unsubscribe := b.port.Subscribe(func(msg ports.HostMessage) {
		if msg.Message != ports.MessageRequestUserDataResponse {
			return
		}
		select {
		case responses <- msg.Payload:
		default:
		}
	})
	defer unsubscribe()

	timer := b.clock.NewTimer(b.timeout)
	defer timer.Stop()

	logger.DebugContext(ctx, "requesting host session")
	if err := b.port.PostMessage(ctx, ports.HostMessage{Message: ports.MessageRequestUserData}); err != nil {
		logger.WarnContext(ctx, "host session request could not be delivered", "error", err)
		return nil, apperrors.Wrap(err, apperrors.ErrCodeSSORejected, "SSO request failed")
	}

	select {
	case payload := <-responses:
		if emptyPayload(payload) {
			logger.WarnContext(ctx, "host answered without session data")
			return nil, apperrors.New(apperrors.ErrCodeSSORejected, "SSO returned no session data")
		}
		logger.DebugContext(ctx, "host session received", "bytes", len(payload))
		return payload, nil
	case <-timer.Chan():
		logger.WarnContext(ctx, "host session request timed out", "timeout", b.timeout)
		return nil, apperrors.New(apperrors.ErrCodeSSOTimeout, "SSO timeout")
	case <-ctx.Done():
		return nil, apperrors.Wrap(ctx.Err(), apperrors.ErrCodeCanceled, "SSO request canceled")
	}
}

// emptyPayload matches the values a host sends when it has no session.
func emptyPayload(p json.RawMessage) bool {
	p = bytes.TrimSpace(p)
	switch string(p) {
	case "", "null", `""`, "false", "0":
		return true
	}
	return false
}
