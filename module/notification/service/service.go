package service

import (
	"context"
	"time"

	"FamilyHub/logger"
	"FamilyHub/module/notification/model"
	"FamilyHub/module/notification/store"
	"FamilyHub/service/gateway"
	"FamilyHub/tools/errs"
	"FamilyHub/tools/ids"
)

// Event names pushed to the owning user.
const (
	EventNewNotification = "new_notification"
	EventUnreadCount     = "unread_count"
)

// Publisher is the live-push capability this service needs. The
// concrete gateway is bound at startup; persistence never imports it,
// which keeps the dependency pointing one way.
type Publisher interface {
	EmitToUser(userID, event string, data any) int
}

type Service struct {
	store store.Store
	pub   Publisher
}

func New(st store.Store, pub Publisher) *Service {
	return &Service{store: st, pub: pub}
}

// Create persists the record first, then best-effort pushes
// new_notification plus a freshly recomputed unread_count. The durable
// write decides the outcome; push problems are logged and swallowed so
// a real-time hiccup never turns into a failed REST request.
func (s *Service) Create(ctx context.Context, userID, title, body string) (*model.Notification, error) {
	if userID == "" || title == "" {
		return nil, errs.ErrArgs.WrapMsg("userID and title are required")
	}
	n := &model.Notification{
		ID:        ids.GenerateString(),
		UserID:    userID,
		Title:     title,
		Body:      body,
		IsRead:    false,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.store.Insert(ctx, n); err != nil {
		return nil, err
	}

	s.pub.EmitToUser(userID, EventNewNotification, n)
	s.PushUnreadCount(ctx, userID)
	return n, nil
}

// PushUnreadCount recomputes and pushes the unread counter. Failures
// are logged only.
func (s *Service) PushUnreadCount(ctx context.Context, userID string) {
	count, err := s.store.CountUnread(ctx, userID)
	if err != nil {
		logger.Warnf("[notification] unread recount failed user=%s err=%v", userID, err)
		return
	}
	s.pub.EmitToUser(userID, EventUnreadCount, map[string]any{"count": count})
}

func (s *Service) List(ctx context.Context, actor *gateway.UserIdentity, userID string, limit, offset int64) ([]*model.Notification, error) {
	if err := authorize(actor, userID); err != nil {
		return nil, err
	}
	return s.store.FindByUser(ctx, userID, limit, offset)
}

func (s *Service) UnreadCount(ctx context.Context, actor *gateway.UserIdentity, userID string) (int64, error) {
	if err := authorize(actor, userID); err != nil {
		return 0, err
	}
	return s.store.CountUnread(ctx, userID)
}

// MarkAsRead is a plain persistence mutation; read-state is not synced
// live across the user's other devices.
func (s *Service) MarkAsRead(ctx context.Context, actor *gateway.UserIdentity, id string) error {
	n, err := s.store.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := authorize(actor, n.UserID); err != nil {
		return err
	}
	return s.store.MarkRead(ctx, id)
}

func (s *Service) MarkAllAsRead(ctx context.Context, actor *gateway.UserIdentity, userID string) (int64, error) {
	if err := authorize(actor, userID); err != nil {
		return 0, err
	}
	return s.store.MarkAllRead(ctx, userID)
}

func (s *Service) Delete(ctx context.Context, actor *gateway.UserIdentity, id string) error {
	n, err := s.store.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := authorize(actor, n.UserID); err != nil {
		return err
	}
	return s.store.Delete(ctx, id)
}

// authorize admits the record owner and elevated identities, nobody
// else.
func authorize(actor *gateway.UserIdentity, ownerID string) error {
	if actor == nil {
		return errs.ErrNoCredential
	}
	if actor.UserID == ownerID || actor.Elevated() {
		return nil
	}
	return errs.ErrNotRecordOwner.WrapMsg("actor", "user", actor.UserID)
}
