package gateway

import "sync"

// FamilyRoomKey builds the room key for a family broadcast group within
// one channel namespace.
func FamilyRoomKey(familyID string) string {
	return "family:" + familyID
}

// RoomTable holds the broadcast groups of one channel namespace.
// Membership is explicit (join/leave), never inferred; the reverse index
// makes the disconnect purge proportional to the rooms the handle had
// actually joined.
type RoomTable struct {
	mu     sync.RWMutex
	rooms  map[string]map[string]*Conn    // roomKey -> handleID -> conn
	byConn map[string]map[string]struct{} // handleID -> joined roomKeys
}

func NewRoomTable() *RoomTable {
	return &RoomTable{
		rooms:  make(map[string]map[string]*Conn),
		byConn: make(map[string]map[string]struct{}),
	}
}

// Join inserts the connection into a room. Re-join is a no-op.
func (t *RoomTable) Join(roomKey string, c *Conn) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.rooms[roomKey] == nil {
		t.rooms[roomKey] = make(map[string]*Conn)
	}
	t.rooms[roomKey][c.ID] = c
	if t.byConn[c.ID] == nil {
		t.byConn[c.ID] = make(map[string]struct{})
	}
	t.byConn[c.ID][roomKey] = struct{}{}
}

// Leave removes the connection from a room. Idempotent.
func (t *RoomTable) Leave(roomKey, handleID string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.leaveLocked(roomKey, handleID)
}

func (t *RoomTable) leaveLocked(roomKey, handleID string) {
	if mm := t.rooms[roomKey]; mm != nil {
		delete(mm, handleID)
		if len(mm) == 0 {
			delete(t.rooms, roomKey)
		}
	}
	if rs := t.byConn[handleID]; rs != nil {
		delete(rs, roomKey)
		if len(rs) == 0 {
			delete(t.byConn, handleID)
		}
	}
}

// PurgeConn removes the handle from every room it had joined. Called on
// disconnect so a later connection can never inherit stale membership.
func (t *RoomTable) PurgeConn(handleID string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	for roomKey := range t.byConn[handleID] {
		t.leaveLocked(roomKey, handleID)
	}
}

// Snapshot returns the room's members at this instant; writers never
// touch the returned slice.
func (t *RoomTable) Snapshot(roomKey string) []*Conn {
	t.mu.RLock()
	defer t.mu.RUnlock()

	mm := t.rooms[roomKey]
	out := make([]*Conn, 0, len(mm))
	for _, c := range mm {
		out = append(out, c)
	}
	return out
}

func (t *RoomTable) Contains(roomKey, handleID string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()

	mm := t.rooms[roomKey]
	_, ok := mm[handleID]
	return ok
}
