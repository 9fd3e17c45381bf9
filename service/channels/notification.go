package channels

import (
	"context"
	"time"

	notifsvc "FamilyHub/module/notification/service"
	"FamilyHub/service/gateway"
)

const (
	NamespaceNotifications = "notifications"

	CmdSubscribe = "subscribe"
)

// NotificationChannel is the personal namespace. A registered
// connection already receives its unicast pushes; subscribe just
// acknowledges and primes the client with the current unread counter.
type NotificationChannel struct {
	gw  *gateway.Gateway
	svc *notifsvc.Service
}

func NewNotification(gw *gateway.Gateway, svc *notifsvc.Service) *NotificationChannel {
	n := &NotificationChannel{gw: gw, svc: svc}
	gw.RegisterCommand(NamespaceNotifications, CmdSubscribe, n.handleSubscribe)
	return n
}

func (n *NotificationChannel) handleSubscribe(_ *gateway.Conn, identity *gateway.UserIdentity, _ map[string]any) error {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	n.svc.PushUnreadCount(ctx, identity.UserID)
	return nil
}
