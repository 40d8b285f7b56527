package ports

import (
	"context"
	"encoding/json"
)

// Cross-frame message kinds.
const (
	MessageRequestUserData         = "REQUEST_USER_DATA"
	MessageRequestUserDataResponse = "REQUEST_USER_DATA_RESPONSE"
)

// HostMessage is one message exchanged with the host frame.
type HostMessage struct {
	Message string          `json:"message"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// MessagePort is a bidirectional message channel to the host frame.
// Inbound messages are delivered to every subscribed listener; senders are not authenticated.
type MessagePort interface {
	PostMessage(ctx context.Context, msg HostMessage) error
	// Subscribe registers fn and returns a func that removes it. The returned func is idempotent.
	Subscribe(fn func(HostMessage)) (unsubscribe func())
}
