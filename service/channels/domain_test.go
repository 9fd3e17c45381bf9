package channels

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"FamilyHub/service/gateway"
	"FamilyHub/tools/errs"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeMembers answers membership checks from a static table.
type fakeMembers struct {
	families map[string][]string // familyID -> member user ids
	err      error
}

func (f *fakeMembers) IsMember(_ context.Context, userID, familyID string) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	for _, id := range f.families[familyID] {
		if id == userID {
			return true, nil
		}
	}
	return false, nil
}

type sinkWriter struct {
	mu     sync.Mutex
	frames [][]byte
}

func (s *sinkWriter) WriteFrame(data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := make([]byte, len(data))
	copy(cp, data)
	s.frames = append(s.frames, cp)
	return nil
}

func (s *sinkWriter) Close() error { return nil }

func (s *sinkWriter) last(t *testing.T) gateway.EventFrame {
	t.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()
	require.NotEmpty(t, s.frames)
	var ef gateway.EventFrame
	require.NoError(t, json.Unmarshal(s.frames[len(s.frames)-1], &ef))
	return ef
}

func (s *sinkWriter) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.frames)
}

func testIdentity(userID string) *gateway.UserIdentity {
	return &gateway.UserIdentity{UserID: userID, Role: "member"}
}

func newDomainForTest(members *fakeMembers, conf DomainConf) *DomainChannel {
	gw := gateway.New(gateway.NewRegistry(), gateway.NewHandshakeAuth([]byte("test-secret")), nil)
	return NewDomain(gw, members, conf)
}

func TestJoinRequiresMembership(t *testing.T) {
	members := &fakeMembers{families: map[string][]string{"3": {"7"}}}
	d := newDomainForTest(members, MenuConf())
	c := gateway.NewConn(&sinkWriter{})

	err := d.handleJoin(c, testIdentity("9"), map[string]any{"familyId": "3"})
	assert.ErrorIs(t, err, errs.ErrNotFamilyMember)
	assert.False(t, d.rooms.Contains(gateway.FamilyRoomKey("3"), c.ID))

	require.NoError(t, d.handleJoin(c, testIdentity("7"), map[string]any{"familyId": "3"}))
	assert.True(t, d.rooms.Contains(gateway.FamilyRoomKey("3"), c.ID))

	// re-join is harmless
	require.NoError(t, d.handleJoin(c, testIdentity("7"), map[string]any{"familyId": "3"}))
	assert.Len(t, d.rooms.Snapshot(gateway.FamilyRoomKey("3")), 1)
}

func TestJoinValidatesPayload(t *testing.T) {
	d := newDomainForTest(&fakeMembers{}, MenuConf())
	c := gateway.NewConn(&sinkWriter{})

	err := d.handleJoin(c, testIdentity("7"), map[string]any{})
	assert.ErrorIs(t, err, errs.ErrArgs)

	err = d.handleJoin(c, testIdentity("7"), map[string]any{"familyId": ""})
	assert.ErrorIs(t, err, errs.ErrArgs)
}

func TestJoinSurfacesLookupFailure(t *testing.T) {
	members := &fakeMembers{err: errors.New("mongo down")}
	d := newDomainForTest(members, MenuConf())
	c := gateway.NewConn(&sinkWriter{})

	err := d.handleJoin(c, testIdentity("7"), map[string]any{"familyId": "3"})
	assert.ErrorIs(t, err, errs.ErrInternal)
	assert.False(t, d.rooms.Contains(gateway.FamilyRoomKey("3"), c.ID))
}

func TestLeaveIsIdempotent(t *testing.T) {
	members := &fakeMembers{families: map[string][]string{"3": {"7"}}}
	d := newDomainForTest(members, MenuConf())
	c := gateway.NewConn(&sinkWriter{})
	require.NoError(t, d.handleJoin(c, testIdentity("7"), map[string]any{"familyId": "3"}))

	require.NoError(t, d.handleLeave(c, testIdentity("7"), map[string]any{"familyId": "3"}))
	assert.False(t, d.rooms.Contains(gateway.FamilyRoomKey("3"), c.ID))

	// leaving a room never joined, or twice, is a no-op
	require.NoError(t, d.handleLeave(c, testIdentity("7"), map[string]any{"familyId": "3"}))
	require.NoError(t, d.handleLeave(c, testIdentity("7"), map[string]any{"familyId": "99"}))
}

func TestDisconnectPurgesEveryChannel(t *testing.T) {
	members := &fakeMembers{families: map[string][]string{"3": {"7"}, "4": {"7"}}}
	gw := gateway.New(gateway.NewRegistry(), gateway.NewHandshakeAuth([]byte("test-secret")), nil)
	menu := NewDomain(gw, members, MenuConf())
	shopping := NewDomain(gw, members, ShoppingConf())

	c := gateway.NewConn(&sinkWriter{})
	require.NoError(t, menu.handleJoin(c, testIdentity("7"), map[string]any{"familyId": "3"}))
	require.NoError(t, menu.handleJoin(c, testIdentity("7"), map[string]any{"familyId": "4"}))
	require.NoError(t, shopping.handleJoin(c, testIdentity("7"), map[string]any{"familyId": "3"}))

	menu.OnUserDisconnected(c, "7")
	shopping.OnUserDisconnected(c, "7")

	assert.False(t, menu.rooms.Contains(gateway.FamilyRoomKey("3"), c.ID))
	assert.False(t, menu.rooms.Contains(gateway.FamilyRoomKey("4"), c.ID))
	assert.False(t, shopping.rooms.Contains(gateway.FamilyRoomKey("3"), c.ID))
}

func TestEmitScopedToFamilyRoom(t *testing.T) {
	members := &fakeMembers{families: map[string][]string{"3": {"7"}, "4": {"8"}}}
	gw := gateway.New(gateway.NewRegistry(), gateway.NewHandshakeAuth([]byte("test-secret")), nil)
	menu := NewDomain(gw, members, MenuConf())
	shopping := NewDomain(gw, members, ShoppingConf())

	inRoom := &sinkWriter{}
	otherFamily := &sinkWriter{}
	otherChannel := &sinkWriter{}
	cIn := gateway.NewConn(inRoom)
	cOther := gateway.NewConn(otherFamily)
	cShop := gateway.NewConn(otherChannel)
	require.NoError(t, menu.handleJoin(cIn, testIdentity("7"), map[string]any{"familyId": "3"}))
	require.NoError(t, menu.handleJoin(cOther, testIdentity("8"), map[string]any{"familyId": "4"}))
	require.NoError(t, shopping.handleJoin(cShop, testIdentity("7"), map[string]any{"familyId": "3"}))

	n := menu.NotifyCreated("3", map[string]any{"menuId": "m1"}, "menu created")
	assert.Equal(t, 1, n)
	assert.Equal(t, 1, inRoom.count())
	assert.Zero(t, otherFamily.count())
	// same family id on a different channel stays silent
	assert.Zero(t, otherChannel.count())
}

func TestNotifyPayloadShapes(t *testing.T) {
	members := &fakeMembers{families: map[string][]string{"3": {"7"}}}
	d := newDomainForTest(members, MenuConf())
	sink := &sinkWriter{}
	c := gateway.NewConn(sink)
	require.NoError(t, d.handleJoin(c, testIdentity("7"), map[string]any{"familyId": "3"}))

	d.NotifyCreated("3", map[string]any{"menuId": "m1", "name": "dinner"}, "created")
	ef := sink.last(t)
	assert.Equal(t, "menu_created", ef.Event)
	payload := ef.Data.(map[string]any)
	assert.Contains(t, payload, "menu")
	assert.Equal(t, "created", payload["message"])

	d.NotifyDeleted("3", "m1", "deleted")
	ef = sink.last(t)
	assert.Equal(t, "menu_deleted", ef.Event)
	payload = ef.Data.(map[string]any)
	assert.Equal(t, "m1", payload["menuId"])

	d.NotifyItemAdded("3", "m1", map[string]any{"dishId": "d1"}, "dish added")
	ef = sink.last(t)
	assert.Equal(t, "menu_dish_added", ef.Event)
	payload = ef.Data.(map[string]any)
	assert.Equal(t, "m1", payload["menuId"])
	assert.Contains(t, payload, "menuDish")
	assert.Equal(t, "dish added", payload["message"])

	d.NotifyItemRemoved("3", "m1", "d1", "dish removed")
	ef = sink.last(t)
	assert.Equal(t, "menu_dish_removed", ef.Event)
	payload = ef.Data.(map[string]any)
	assert.Equal(t, "d1", payload["menuDishId"])
}

func TestDomainConfCatalogs(t *testing.T) {
	tests := []struct {
		conf        DomainConf
		wantCreated string
		wantItem    string
	}{
		{MenuConf(), "menu_created", "menu_dish_added"},
		{ShoppingConf(), "shopping_list_created", "shopping_item_added"},
		{FridgeConf(), "fridge_created", "fridge_item_added"},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.wantCreated, tc.conf.EventPrefix+"_created")
		assert.Equal(t, tc.wantItem, tc.conf.ItemPrefix+"_added")
	}
}
