package persist

import (
	"context"
	"fmt"
)

type NotificationType string

const (
	NotificationTypeComment NotificationType = "COMMENT"
	NotificationTypeReply   NotificationType = "REPLY"
	NotificationTypeSave    NotificationType = "SAVE"
	NotificationTypeSystem  NotificationType = "SYSTEM"
)

// Notification tells OwnerID that ActorID did something to their content.
// Notifications are pulled by polling; there is no push channel.
type Notification struct {
	ID        DBID             `json:"id"`
	CreatedAt CreationTime     `json:"created_at"`
	OwnerID   DBID             `json:"owner_id"`
	ActorID   DBID             `json:"actor_id"`
	Type      NotificationType `json:"type"`
	Message   string           `json:"message"`
	PostID    DBID             `json:"post_id"`
	CommentID DBID             `json:"comment_id"`
	Seen      bool             `json:"seen"`
	Deleted   bool             `json:"deleted"`
}

type NotificationRepository interface {
	GetByID(ctx context.Context, notificationID DBID) (Notification, error)
	// GetByOwnerID returns the owner's notifications, newest first.
	GetByOwnerID(ctx context.Context, ownerID DBID, limit int) ([]Notification, error)
	Create(ctx context.Context, notification Notification) (Notification, error)
	CountUnseen(ctx context.Context, ownerID DBID) (int64, error)
	// MarkSeen marks one notification seen, verifying ownership.
	MarkSeen(ctx context.Context, notificationID DBID, ownerID DBID) error
	MarkAllSeen(ctx context.Context, ownerID DBID) error
}

type ErrNotificationNotFound struct {
	ID DBID
}

func (e ErrNotificationNotFound) Error() string {
	return fmt.Sprintf("notification not found by id: %s", e.ID)
}
