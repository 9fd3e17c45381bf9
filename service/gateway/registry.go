package gateway

import "sync"

type regEntry struct {
	userID string
	conn   *Conn
}

// Registry is the in-memory bidirectional index between users and their
// live connections. Invariant: a handle appears in byHandle iff it is in
// its user's byUser set, and a user's set is deleted the moment it
// empties. Every mutation touches both maps under the same lock.
type Registry struct {
	mu       sync.RWMutex
	byUser   map[string]map[string]*Conn // userID -> handleID -> conn
	byHandle map[string]regEntry         // handleID -> owner
}

func NewRegistry() *Registry {
	return &Registry{
		byUser:   make(map[string]map[string]*Conn),
		byHandle: make(map[string]regEntry),
	}
}

// Add registers a connection under a user. Idempotent: re-adding the
// same handle is a no-op. Returns the user's connection count after the
// add, so callers can detect the offline->online edge.
func (r *Registry) Add(userID string, c *Conn) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byHandle[c.ID]; !exists {
		r.byHandle[c.ID] = regEntry{userID: userID, conn: c}
		if r.byUser[userID] == nil {
			r.byUser[userID] = make(map[string]*Conn)
		}
		r.byUser[userID][c.ID] = c
	}
	return len(r.byUser[userID])
}

// Remove deletes a handle from both maps. Unknown handles are fine:
// a disconnect can race with a failed-auth close or a forced eviction.
// Returns the owning user and their remaining connection count.
func (r *Registry) Remove(handleID string) (userID string, remaining int, ok bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, exists := r.byHandle[handleID]
	if !exists {
		return "", 0, false
	}
	delete(r.byHandle, handleID)
	if mm := r.byUser[e.userID]; mm != nil {
		delete(mm, handleID)
		remaining = len(mm)
		if remaining == 0 {
			delete(r.byUser, e.userID)
		}
	}
	return e.userID, remaining, true
}

// UserConns returns a point-in-time snapshot of a user's connections.
func (r *Registry) UserConns(userID string) []*Conn {
	r.mu.RLock()
	defer r.mu.RUnlock()

	mm := r.byUser[userID]
	out := make([]*Conn, 0, len(mm))
	for _, c := range mm {
		out = append(out, c)
	}
	return out
}

// AllConns snapshots every registered connection.
func (r *Registry) AllConns() []*Conn {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Conn, 0, len(r.byHandle))
	for _, e := range r.byHandle {
		out = append(out, e.conn)
	}
	return out
}

func (r *Registry) IsOnline(userID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byUser[userID]) > 0
}

func (r *Registry) ConnCount(userID string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byUser[userID])
}

// OnlineUsers returns an unordered snapshot of users with at least one
// live connection.
func (r *Registry) OnlineUsers() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, 0, len(r.byUser))
	for u := range r.byUser {
		out = append(out, u)
	}
	return out
}

func (r *Registry) Total() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byHandle)
}

// RemoveAllForUser evicts every connection of a user (ban / forced
// logout) and returns them. The caller must physically close each one;
// eviction happens before close so no emit can resolve to these handles
// even if the close is slow.
func (r *Registry) RemoveAllForUser(userID string) []*Conn {
	r.mu.Lock()
	defer r.mu.Unlock()

	mm := r.byUser[userID]
	out := make([]*Conn, 0, len(mm))
	for handleID, c := range mm {
		delete(r.byHandle, handleID)
		out = append(out, c)
	}
	delete(r.byUser, userID)
	return out
}
