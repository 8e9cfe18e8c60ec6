package inflight

import "sync"

// Guard tracks which actions have an outstanding call.
type Guard struct {
	lock    sync.Mutex
	pending map[string]struct{}
}

// New returns an empty Guard.
func New() *Guard {
	return &Guard{pending: make(map[string]struct{})}
}

// Acquire marks action as outstanding. It returns false if it already was.
func (g *Guard) Acquire(action string) bool {
	g.lock.Lock()
	defer g.lock.Unlock()
	if _, ok := g.pending[action]; ok {
		return false
	}
	g.pending[action] = struct{}{}
	return true
}

// Release marks action as done.
func (g *Guard) Release(action string) {
	g.lock.Lock()
	defer g.lock.Unlock()
	delete(g.pending, action)
}

// Pending returns true if action is outstanding.
func (g *Guard) Pending(action string) bool {
	g.lock.Lock()
	defer g.lock.Unlock()
	_, ok := g.pending[action]
	return ok
}
