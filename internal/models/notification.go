package models

import "time"

// NotificationKind identifies what a notification is about
type NotificationKind string

const (
	NotificationKindMoocPublished NotificationKind = "mooc_published"
	NotificationKindMoocCompleted NotificationKind = "mooc_completed"
)

// Notification is a message shown to a user in the notification feed
type Notification struct {
	ID        int              `json:"id"`
	UserID    int              `json:"userId"`
	Kind      NotificationKind `json:"kind"`
	MoocID    int              `json:"moocId"`
	Message   string           `json:"message"`
	IsRead    bool             `json:"isRead"`
	CreatedAt time.Time        `json:"createdAt"`
}
