package socket

import (
	"context"
	"encoding/json"
	"log/slog"
)

// Events emitted by the router itself.
const (
	EventError = "error"

	msgMalformed    = "Malformed message."
	msgUnknownEvent = "Unknown event."
)

// HandlerFunc handles one inbound event. It reports every outcome through emit and never returns an error.
type HandlerFunc func(ctx context.Context, emit Emitter, data json.RawMessage)

// Router maps inbound event names to handlers.
type Router struct {
	logger   *slog.Logger
	handlers map[string]HandlerFunc
}

// NewRouter returns an empty Router.
func NewRouter(logger *slog.Logger) *Router {
	return &Router{logger: logger, handlers: make(map[string]HandlerFunc)}
}

// Handle registers fn for event. Registering the same event twice panics.
func (r *Router) Handle(event string, fn HandlerFunc) {
	if _, dup := r.handlers[event]; dup {
		panic("socket: duplicate handler for event " + event)
	}
	r.handlers[event] = fn
}

// Events returns the number of registered events.
func (r *Router) Events() int {
	return len(r.handlers)
}

// Dispatch decodes one frame and runs its handler to completion.
func (r *Router) Dispatch(ctx context.Context, emit Emitter, frame []byte) {
	var msg Message
	if err := json.Unmarshal(frame, &msg); err != nil || msg.Event == "" {
		r.logger.DebugContext(ctx, "malformed frame", "conn_id", ConnID(ctx), "err", err)
		r.reply(ctx, emit, EventError, ErrorPayload{Error: msgMalformed})
		return
	}
	fn, ok := r.handlers[msg.Event]
	if !ok {
		r.logger.DebugContext(ctx, "unknown event", "event", msg.Event, "conn_id", ConnID(ctx))
		r.reply(ctx, emit, EventError, ErrorPayload{Error: msgUnknownEvent})
		return
	}
	r.logger.DebugContext(ctx, "event", "event", msg.Event, "conn_id", ConnID(ctx))
	fn(ctx, emit, msg.Data)
}

func (r *Router) reply(ctx context.Context, emit Emitter, event string, payload any) {
	if err := emit.Emit(ctx, ToSender, event, payload); err != nil {
		r.logger.ErrorContext(ctx, "emit failed", "event", event, "conn_id", ConnID(ctx), "err", err)
	}
}
