// Package optimistic applies user mutations to local view state before the
// remote call completes and rolls them back when it fails.
package optimistic

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

const DefaultTimeout = 10 * time.Second

var (
	ErrInFlight = errors.New("mutation already in flight")
	ErrClosed   = errors.New("view closed")
)

// State is a toggle and the counter it drives, e.g. liked + like count.
type State struct {
	Active bool `json:"active"`
	Count  int  `json:"count"`
}

// Toggled flips Active and moves Count by one. Count never drops below zero.
func (s State) Toggled() State {
	next := State{Active: !s.Active, Count: s.Count}
	if next.Active {
		next.Count++
	} else if next.Count > 0 {
		next.Count--
	}
	return next
}

// RemoteToggle persists next for id. When ok is true, confirmed (e.g. the
// server's count) replaces the optimistic state.
type RemoteToggle func(ctx context.Context, id string, next State) (confirmed State, ok bool, err error)

type Option func(*options)

type options struct {
	timeout time.Duration
	onError func(id string, err error)
}

func WithTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.timeout = d
		}
	}
}

// WithErrorHandler is called after a failed call has been rolled back.
func WithErrorHandler(fn func(id string, err error)) Option {
	return func(o *options) { o.onError = fn }
}

// Toggler owns toggle states for a view.
type Toggler struct {
	mu     sync.Mutex
	states map[string]State
	guard  *Guard
	remote RemoteToggle
	opts   options
	ctx    context.Context
	cancel context.CancelFunc
	closed bool
}

func NewToggler(remote RemoteToggle, opts ...Option) *Toggler {
	o := options{timeout: DefaultTimeout}
	for _, opt := range opts {
		opt(&o)
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Toggler{
		states: make(map[string]State),
		guard:  NewGuard(),
		remote: remote,
		opts:   o,
		ctx:    ctx,
		cancel: cancel,
	}
}

// Seed sets the state loaded from the server.
func (t *Toggler) Seed(id string, state State) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if state.Count < 0 {
		state.Count = 0
	}
	t.states[id] = state
}

func (t *Toggler) State(id string) State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.states[id]
}

func (t *Toggler) InFlight(id string) bool {
	return t.guard.Active(id)
}

// Toggle applies the flipped state locally, then calls the remote. On failure
// the previous state is restored and the error returned. A toggle on an id
// that is already in flight is ignored with ErrInFlight.
func (t *Toggler) Toggle(ctx context.Context, id string) (State, error) {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return State{}, ErrClosed
	}
	if !t.guard.Acquire(id) {
		current := t.states[id]
		t.mu.Unlock()
		return current, ErrInFlight
	}
	prev := t.states[id]
	next := prev.Toggled()
	t.states[id] = next
	t.mu.Unlock()
	defer t.guard.Release(id)

	callCtx, cancel := context.WithTimeout(ctx, t.opts.timeout)
	defer cancel()
	stop := context.AfterFunc(t.ctx, cancel)
	defer stop()

	confirmed, ok, err := t.remote(callCtx, id, next)

	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return next, ErrClosed
	}
	if err != nil {
		t.states[id] = prev
		t.mu.Unlock()
		err = fmt.Errorf("toggle %s: %w", id, err)
		if t.opts.onError != nil {
			t.opts.onError(id, err)
		}
		return prev, err
	}
	if ok {
		if confirmed.Count < 0 {
			confirmed.Count = 0
		}
		next = confirmed
		t.states[id] = next
	}
	t.mu.Unlock()
	return next, nil
}

// Close detaches the view: outstanding calls are cancelled and their results
// are no longer applied.
func (t *Toggler) Close() {
	t.mu.Lock()
	t.closed = true
	t.mu.Unlock()
	t.cancel()
}
