package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSessionEvents_FanOut(t *testing.T) {
	events := NewSessionEvents(nil)

	var a, b []string
	unsubA := events.Subscribe(func(_ context.Context, reason string) { a = append(a, reason) })
	unsubB := events.Subscribe(func(_ context.Context, reason string) { b = append(b, reason) })
	defer unsubB()

	events.Invalidate(context.Background(), "unauthorized")
	unsubA()
	unsubA()
	events.Invalidate(context.Background(), "logout")

	assert.Equal(t, []string{"unauthorized"}, a)
	assert.Equal(t, []string{"unauthorized", "logout"}, b)
}

func TestSessionEvents_NoSubscribers(t *testing.T) {
	assert.NotPanics(t, func() {
		NewSessionEvents(nil).Invalidate(context.Background(), "unauthorized")
	})
}
