package socket

import (
	"context"
	"log/slog"
	"sync"
)

// Hub tracks connected clients and fans broadcasts out to them.
type Hub struct {
	logger *slog.Logger
	router *Router

	ctx    context.Context
	cancel context.CancelFunc

	mu      sync.RWMutex
	clients map[string]*Client
}

// NewHub returns a Hub dispatching inbound events through router.
func NewHub(router *Router, logger *slog.Logger) *Hub {
	ctx, cancel := context.WithCancel(context.Background())
	return &Hub{
		logger:  logger,
		router:  router,
		ctx:     ctx,
		cancel:  cancel,
		clients: make(map[string]*Client),
	}
}

func (h *Hub) register(c *Client) {
	h.mu.Lock()
	h.clients[c.id] = c
	n := len(h.clients)
	h.mu.Unlock()
	h.logger.Info("client connected", "conn_id", c.id, "clients", n)
}

func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	_, ok := h.clients[c.id]
	delete(h.clients, c.id)
	n := len(h.clients)
	h.mu.Unlock()
	c.close()
	if ok {
		h.logger.Info("client disconnected", "conn_id", c.id, "clients", n)
	}
}

// Count returns the number of connected clients.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Broadcast queues event for every connected client. Clients whose queue is full miss it.
func (h *Hub) Broadcast(event string, payload any) error {
	frame, err := encode(event, payload)
	if err != nil {
		return err
	}
	h.mu.RLock()
	targets := make([]*Client, 0, len(h.clients))
	for _, c := range h.clients {
		targets = append(targets, c)
	}
	h.mu.RUnlock()

	for _, c := range targets {
		if !c.enqueue(frame) {
			h.logger.Warn("dropping broadcast for slow client", "conn_id", c.id, "event", event)
		}
	}
	return nil
}

// Close disconnects every client and cancels in-flight handler contexts.
func (h *Hub) Close() {
	h.cancel()
	h.mu.Lock()
	clients := h.clients
	h.clients = make(map[string]*Client)
	h.mu.Unlock()
	for _, c := range clients {
		c.close()
	}
}

// emitter binds an Emitter to the requesting client.
type emitter struct {
	hub    *Hub
	client *Client
}

func (e emitter) Emit(ctx context.Context, scope Scope, event string, payload any) error {
	if scope == ToAll {
		return e.hub.Broadcast(event, payload)
	}
	frame, err := encode(event, payload)
	if err != nil {
		return err
	}
	if !e.client.enqueue(frame) {
		e.hub.logger.WarnContext(ctx, "dropping reply for slow client", "conn_id", e.client.id, "event", event)
	}
	return nil
}
