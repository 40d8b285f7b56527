package service

import (
	"context"
	"log/slog"
	"sync"

	"github.com/target/timeclock/internal/ports"
)

var _ ports.SessionInvalidator = (*SessionEvents)(nil)

// SessionEvents fans out session invalidation to subscribers. The API client
// publishes on it when the backend rejects the stored token; the auth
// bootstrapper and the CLI's reload loop subscribe.
type SessionEvents struct {
	logger *slog.Logger

	mu     sync.Mutex
	subs   map[uint64]func(ctx context.Context, reason string)
	nextID uint64
}

// NewSessionEvents constructs an empty SessionEvents.
func NewSessionEvents(logger *slog.Logger) *SessionEvents {
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionEvents{
		logger: logger,
		subs:   make(map[uint64]func(ctx context.Context, reason string)),
	}
}

// Subscribe registers fn and returns an idempotent unsubscribe func.
func (e *SessionEvents) Subscribe(fn func(ctx context.Context, reason string)) func() {
	e.mu.Lock()
	id := e.nextID
	e.nextID++
	e.subs[id] = fn
	e.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			e.mu.Lock()
			delete(e.subs, id)
			e.mu.Unlock()
		})
	}
}

// Invalidate notifies every subscriber synchronously.
func (e *SessionEvents) Invalidate(ctx context.Context, reason string) {
	e.mu.Lock()
	fns := make([]func(context.Context, string), 0, len(e.subs))
	for _, fn := range e.subs {
		fns = append(fns, fn)
	}
	e.mu.Unlock()

	e.logger.InfoContext(ctx, "session invalidated", "reason", reason, "subscribers", len(fns))
	for _, fn := range fns {
		fn(ctx, reason)
	}
}
