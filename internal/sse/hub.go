package sse

import (
	"context"
	"sync"
	"time"
)

const (
	EventRefresh = "refresh"

	ReasonReadState = "read_state"
	ReasonBackend   = "backend"
)

type Event struct {
	UserID string    `json:"user_id"`
	Type   string    `json:"type"`
	Reason string    `json:"reason,omitempty"`
	At     time.Time `json:"at"`
}

// Subscription receives the events published for one user. C is closed on
// Unsubscribe or when the hub is disposed.
type Subscription struct {
	UserID string
	C      <-chan Event

	ch     chan Event
	hub    *Hub
	closed bool
}

func (s *Subscription) Unsubscribe() {
	s.hub.remove(s)
}

// Hub is the in-process refresh event bus.
type Hub struct {
	mu       sync.RWMutex
	users    map[string]map[*Subscription]struct{}
	disposed bool
	buffer   int
}

func NewHub() *Hub {
	return &Hub{
		users:  make(map[string]map[*Subscription]struct{}),
		buffer: 16,
	}
}

// Subscribe registers a listener for userID. On a disposed hub the returned
// subscription is already closed.
func (h *Hub) Subscribe(userID string) *Subscription {
	ch := make(chan Event, h.buffer)
	sub := &Subscription{UserID: userID, C: ch, ch: ch, hub: h}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.disposed {
		close(ch)
		sub.closed = true
		return sub
	}
	if h.users[userID] == nil {
		h.users[userID] = make(map[*Subscription]struct{})
	}
	h.users[userID][sub] = struct{}{}
	return sub
}

// Publish delivers e to every subscriber of e.UserID and returns how many
// received it.
func (h *Hub) Publish(e Event) int {
	if e.Type == "" {
		e.Type = EventRefresh
	}
	if e.At.IsZero() {
		e.At = time.Now().UTC()
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	delivered := 0
	for sub := range h.users[e.UserID] {
		select {
		case sub.ch <- e:
			delivered++
		default:
			// Drop if the client is too slow; a later refresh supersedes it.
		}
	}
	return delivered
}

// Subscribers returns the number of live subscriptions for userID.
func (h *Hub) Subscribers(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.users[userID])
}

// Dispose closes every subscription. Later subscriptions are closed
// immediately and publishes reach nobody.
func (h *Hub) Dispose() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.disposed {
		return
	}
	h.disposed = true
	for _, subs := range h.users {
		for sub := range subs {
			sub.closed = true
			close(sub.ch)
		}
	}
	h.users = make(map[string]map[*Subscription]struct{})
}

// Run disposes the hub when ctx is done.
func (h *Hub) Run(ctx context.Context) {
	<-ctx.Done()
	h.Dispose()
}

func (h *Hub) remove(sub *Subscription) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if sub.closed {
		return
	}
	sub.closed = true
	close(sub.ch)
	subs := h.users[sub.UserID]
	delete(subs, sub)
	if len(subs) == 0 {
		delete(h.users, sub.UserID)
	}
}
