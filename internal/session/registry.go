package session

import "sync"

// Registry holds per-user session state for the life of the process.
// Each user has its own lock; different users never contend.
type Registry struct {
	mu       sync.Mutex
	sessions map[int64]*entry
}

type entry struct {
	mu    sync.Mutex
	state State
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{sessions: make(map[int64]*entry)}
}

// acquire returns the user's entry locked, creating it as Idle on first use.
// The caller must unlock it.
func (r *Registry) acquire(userID int64) *entry {
	r.mu.Lock()
	e, ok := r.sessions[userID]
	if !ok {
		e = &entry{state: Idle()}
		r.sessions[userID] = e
	}
	r.mu.Unlock()

	e.mu.Lock()
	return e
}

// State returns a snapshot of the user's state.
func (r *Registry) State(userID int64) State {
	e := r.acquire(userID)
	defer e.mu.Unlock()
	return e.state
}

// Set overwrites the user's state.
func (r *Registry) Set(userID int64, s State) {
	e := r.acquire(userID)
	e.state = s
	e.mu.Unlock()
}

// Len returns the number of users seen so far.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}
