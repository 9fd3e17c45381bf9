package gateway

import "sync"

// identityTable is the handle -> identity side table owned by the
// gateway; identity is never stashed on the connection object itself.
type identityTable struct {
	mu sync.RWMutex
	m  map[string]*UserIdentity
}

func (t *identityTable) set(handleID string, id *UserIdentity) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.m == nil {
		t.m = make(map[string]*UserIdentity)
	}
	t.m[handleID] = id
}

func (t *identityTable) get(handleID string) *UserIdentity {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.m[handleID]
}

func (t *identityTable) del(handleID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.m, handleID)
}
