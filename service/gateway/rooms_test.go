package gateway

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoomJoinLeave(t *testing.T) {
	rt := NewRoomTable()
	c := NewConn(&frameRecorder{})
	key := FamilyRoomKey("3")

	rt.Join(key, c)
	assert.True(t, rt.Contains(key, c.ID))
	assert.Len(t, rt.Snapshot(key), 1)

	// joining twice has the same effect as once
	rt.Join(key, c)
	assert.Len(t, rt.Snapshot(key), 1)

	rt.Leave(key, c.ID)
	assert.False(t, rt.Contains(key, c.ID))
	assert.Empty(t, rt.Snapshot(key))

	// leaving again is a no-op
	rt.Leave(key, c.ID)
	assert.Empty(t, rt.Snapshot(key))
}

func TestRoomPurgeConn(t *testing.T) {
	rt := NewRoomTable()
	c := NewConn(&frameRecorder{})
	stay := NewConn(&frameRecorder{})

	rt.Join(FamilyRoomKey("3"), c)
	rt.Join(FamilyRoomKey("4"), c)
	rt.Join(FamilyRoomKey("3"), stay)

	rt.PurgeConn(c.ID)

	assert.False(t, rt.Contains(FamilyRoomKey("3"), c.ID))
	assert.False(t, rt.Contains(FamilyRoomKey("4"), c.ID))
	assert.True(t, rt.Contains(FamilyRoomKey("3"), stay.ID))

	// purge of an unknown handle does nothing
	rt.PurgeConn("no-such-handle")
	assert.Len(t, rt.Snapshot(FamilyRoomKey("3")), 1)
}

func TestRoomSnapshotIsDetached(t *testing.T) {
	rt := NewRoomTable()
	c := NewConn(&frameRecorder{})
	rt.Join(FamilyRoomKey("3"), c)

	snap := rt.Snapshot(FamilyRoomKey("3"))
	rt.Leave(FamilyRoomKey("3"), c.ID)
	assert.Len(t, snap, 1)
}
