package channels

import (
	"context"
	"time"

	famstore "FamilyHub/module/family/store"
	"FamilyHub/service/gateway"
	"FamilyHub/tools/decode"
	"FamilyHub/tools/errs"
)

// Client commands shared by every domain namespace.
const (
	CmdJoinFamily  = "join_family"
	CmdLeaveFamily = "leave_family"
)

const membershipTimeout = 3 * time.Second

// DomainConf names one domain namespace and the keys of its event
// catalog.
type DomainConf struct {
	Namespace   string // upgrade endpoint + command namespace
	EventPrefix string // e.g. "menu" -> menu_created/menu_updated/menu_deleted
	ItemPrefix  string // e.g. "menu_dish" -> menu_dish_added/...
	EntityKey   string // payload key for the full entity
	ItemKey     string // payload key for the child item
}

func MenuConf() DomainConf {
	return DomainConf{Namespace: "menu", EventPrefix: "menu", ItemPrefix: "menu_dish", EntityKey: "menu", ItemKey: "menuDish"}
}

func ShoppingConf() DomainConf {
	return DomainConf{Namespace: "shopping", EventPrefix: "shopping_list", ItemPrefix: "shopping_item", EntityKey: "shoppingList", ItemKey: "shoppingItem"}
}

func FridgeConf() DomainConf {
	return DomainConf{Namespace: "fridge", EventPrefix: "fridge", ItemPrefix: "fridge_item", EntityKey: "fridge", ItemKey: "fridgeItem"}
}

// DomainChannel is one per-domain namespace (menu, shopping list,
// refrigerator) sharing the base gateway. It owns its room table keyed
// by family id and fans mutation events out to the family's live
// connections. Events are fire-and-forget cache-invalidation hints;
// consumers re-fetch authoritative state over REST.
type DomainChannel struct {
	conf    DomainConf
	gw      *gateway.Gateway
	rooms   *gateway.RoomTable
	members famstore.MembershipStore
}

// NewDomain wires the channel into the gateway: lifecycle cleanup plus
// the join/leave commands on its namespace.
func NewDomain(gw *gateway.Gateway, members famstore.MembershipStore, conf DomainConf) *DomainChannel {
	d := &DomainChannel{
		conf:    conf,
		gw:      gw,
		rooms:   gateway.NewRoomTable(),
		members: members,
	}
	gw.RegisterLifecycleHandler(d)
	gw.RegisterCommand(conf.Namespace, CmdJoinFamily, d.handleJoin)
	gw.RegisterCommand(conf.Namespace, CmdLeaveFamily, d.handleLeave)
	return d
}

func (d *DomainChannel) Namespace() string { return d.conf.Namespace }

func (d *DomainChannel) Rooms() *gateway.RoomTable { return d.rooms }

type familyPayload struct {
	FamilyID string `json:"familyId"`
}

// handleJoin admits family members only. Membership is checked against
// the family store at join time; re-join is idempotent.
func (d *DomainChannel) handleJoin(c *gateway.Conn, identity *gateway.UserIdentity, data map[string]any) error {
	p, err := decode.Map[familyPayload](data)
	if err != nil || p.FamilyID == "" {
		return errs.ErrArgs.WrapMsg("familyId required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), membershipTimeout)
	defer cancel()
	ok, err := d.members.IsMember(ctx, identity.UserID, p.FamilyID)
	if err != nil {
		return errs.ErrInternal.WrapMsg("membership lookup", "err", err)
	}
	if !ok {
		return errs.ErrNotFamilyMember.WrapMsg("join refused", "user", identity.UserID, "family", p.FamilyID)
	}

	d.rooms.Join(gateway.FamilyRoomKey(p.FamilyID), c)
	return nil
}

func (d *DomainChannel) handleLeave(c *gateway.Conn, _ *gateway.UserIdentity, data map[string]any) error {
	p, err := decode.Map[familyPayload](data)
	if err != nil || p.FamilyID == "" {
		return errs.ErrArgs.WrapMsg("familyId required")
	}
	d.rooms.Leave(gateway.FamilyRoomKey(p.FamilyID), c.ID)
	return nil
}

func (d *DomainChannel) OnUserConnected(_ *gateway.Conn, _ *gateway.UserIdentity) {}

// OnUserDisconnected purges the handle from every room so nothing keeps
// pushing into the void and no later connection inherits membership.
func (d *DomainChannel) OnUserDisconnected(c *gateway.Conn, _ string) {
	d.rooms.PurgeConn(c.ID)
}

// EmitToFamily is the raw room cast; the Notify helpers below build the
// catalogued payload shapes on top of it.
func (d *DomainChannel) EmitToFamily(familyID, event string, data any) int {
	return d.gw.EmitToRoom(d.rooms, gateway.FamilyRoomKey(familyID), event, data)
}

// NotifyCreated emits <prefix>_created after the REST tier's durable
// write succeeded.
func (d *DomainChannel) NotifyCreated(familyID string, entity any, message string) int {
	return d.EmitToFamily(familyID, d.conf.EventPrefix+"_created", map[string]any{
		d.conf.EntityKey: entity,
		"message":        message,
	})
}

func (d *DomainChannel) NotifyUpdated(familyID string, entity any, message string) int {
	return d.EmitToFamily(familyID, d.conf.EventPrefix+"_updated", map[string]any{
		d.conf.EntityKey: entity,
		"message":        message,
	})
}

func (d *DomainChannel) NotifyDeleted(familyID, entityID, message string) int {
	return d.EmitToFamily(familyID, d.conf.EventPrefix+"_deleted", map[string]any{
		d.conf.EntityKey + "Id": entityID,
		"message":               message,
	})
}

func (d *DomainChannel) NotifyItemAdded(familyID, parentID string, item any, message string) int {
	return d.EmitToFamily(familyID, d.conf.ItemPrefix+"_added", map[string]any{
		d.conf.EntityKey + "Id": parentID,
		d.conf.ItemKey:          item,
		"message":               message,
	})
}

func (d *DomainChannel) NotifyItemUpdated(familyID, parentID string, item any, message string) int {
	return d.EmitToFamily(familyID, d.conf.ItemPrefix+"_updated", map[string]any{
		d.conf.EntityKey + "Id": parentID,
		d.conf.ItemKey:          item,
		"message":               message,
	})
}

func (d *DomainChannel) NotifyItemRemoved(familyID, parentID, itemID, message string) int {
	return d.EmitToFamily(familyID, d.conf.ItemPrefix+"_removed", map[string]any{
		d.conf.EntityKey + "Id": parentID,
		d.conf.ItemKey + "Id":   itemID,
		"message":               message,
	})
}
