package optimistic

import "sync"

// Guard tracks ids with an outstanding remote call.
type Guard struct {
	mu       sync.Mutex
	inflight map[string]struct{}
}

func NewGuard() *Guard {
	return &Guard{inflight: make(map[string]struct{})}
}

// Acquire marks id in flight. It reports false if id already was.
func (g *Guard) Acquire(id string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.inflight[id]; ok {
		return false
	}
	g.inflight[id] = struct{}{}
	return true
}

func (g *Guard) Release(id string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.inflight, id)
}

// Active reports whether id is in flight; controls for it should be disabled.
func (g *Guard) Active(id string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	_, ok := g.inflight[id]
	return ok
}
