package model

import "time"

const CollectionName = "notifications"

// Notification is the durable record; the live push is only a hint that
// it exists. Unread count is derived by query, never stored.
type Notification struct {
	ID        string    `bson:"notification_id" json:"id"`
	UserID    string    `bson:"user_id" json:"userId"`
	Title     string    `bson:"title" json:"title"`
	Body      string    `bson:"body,omitempty" json:"body,omitempty"`
	IsRead    bool      `bson:"is_read" json:"isRead"`
	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
}
