// Package socket implements the bidirectional event channel: clients send named events over a
// websocket and receive named events back, either addressed to them or broadcast to everyone.
package socket

import (
	"context"
	"encoding/json"
)

// Message is the wire frame in both directions.
type Message struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// ErrorPayload is the body of every error event.
type ErrorPayload struct {
	Error string `json:"error"`
}

// SuccessPayload is the body of a successful mutation.
type SuccessPayload struct {
	Success string `json:"success"`
}

// Scope selects who receives an emitted event.
type Scope int

const (
	// ToSender delivers to the connection that sent the request.
	ToSender Scope = iota
	// ToAll delivers to every connected client, the sender included.
	ToAll
)

func (s Scope) String() string {
	switch s {
	case ToSender:
		return "sender"
	case ToAll:
		return "all"
	default:
		return "unknown"
	}
}

// Emitter sends an event to the scope it is asked for. Delivery to ToAll is best effort.
type Emitter interface {
	Emit(ctx context.Context, scope Scope, event string, payload any) error
}

func encode(event string, payload any) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Message{Event: event, Data: data})
}

type connIDKey struct{}

// WithConnID returns ctx carrying the id of the connection an event arrived on.
func WithConnID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, connIDKey{}, id)
}

// ConnID returns the connection id stored by WithConnID, or "" when there is none.
func ConnID(ctx context.Context) string {
	id, _ := ctx.Value(connIDKey{}).(string)
	return id
}
