package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/vivemedellin/go-vivemedellin/service/persist"
)

const notificationColumns = `ID,CREATED_AT,OWNER_ID,ACTOR_ID,TYPE,MESSAGE,POST_ID,COMMENT_ID,SEEN,DELETED`

// NotificationRepository represents a notification repository backed by a pgx
// connection pool
type NotificationRepository struct {
	pgx *pgxpool.Pool
}

// NewNotificationRepository creates a new postgres repository for interacting with notifications
func NewNotificationRepository(pgx *pgxpool.Pool) *NotificationRepository {
	return &NotificationRepository{pgx: pgx}
}

// GetByID returns the notification with the given ID
func (n *NotificationRepository) GetByID(pCtx context.Context, pID persist.DBID) (persist.Notification, error) {
	row := n.pgx.QueryRow(pCtx, `SELECT `+notificationColumns+` FROM notifications WHERE ID = $1 AND DELETED = FALSE;`, pID)

	notif, err := scanNotification(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return persist.Notification{}, persist.ErrNotificationNotFound{ID: pID}
		}
		return persist.Notification{}, err
	}
	return notif, nil
}

// GetByOwnerID returns the owner's notifications, newest first
func (n *NotificationRepository) GetByOwnerID(pCtx context.Context, pOwnerID persist.DBID, pLimit int) ([]persist.Notification, error) {
	rows, err := n.pgx.Query(pCtx, `SELECT `+notificationColumns+` FROM notifications WHERE OWNER_ID = $1 AND DELETED = FALSE ORDER BY CREATED_AT DESC, ID DESC LIMIT $2;`, pOwnerID, pLimit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	notifs := []persist.Notification{}
	for rows.Next() {
		notif, err := scanNotification(rows)
		if err != nil {
			return nil, err
		}
		notifs = append(notifs, notif)
	}

	return notifs, rows.Err()
}

// Create persists a new notification
func (n *NotificationRepository) Create(pCtx context.Context, pNotif persist.Notification) (persist.Notification, error) {
	var postID, commentID interface{}
	if pNotif.PostID != "" {
		postID = pNotif.PostID
	}
	if pNotif.CommentID != "" {
		commentID = pNotif.CommentID
	}

	err := n.pgx.QueryRow(pCtx, `INSERT INTO notifications (ID,OWNER_ID,ACTOR_ID,TYPE,MESSAGE,POST_ID,COMMENT_ID) VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING ID,CREATED_AT;`,
		persist.GenerateID(), pNotif.OwnerID, pNotif.ActorID, pNotif.Type, pNotif.Message, postID, commentID).Scan(&pNotif.ID, &pNotif.CreatedAt)
	if err != nil {
		return persist.Notification{}, err
	}

	return pNotif, nil
}

// CountUnseen returns the number of unseen notifications the owner has
func (n *NotificationRepository) CountUnseen(pCtx context.Context, pOwnerID persist.DBID) (int64, error) {
	var count int64
	err := n.pgx.QueryRow(pCtx, `SELECT COUNT(*) FROM notifications WHERE OWNER_ID = $1 AND SEEN = FALSE AND DELETED = FALSE;`, pOwnerID).Scan(&count)
	return count, err
}

// MarkSeen marks one notification seen. Marking a notification the owner
// doesn't hold fails with not-found.
func (n *NotificationRepository) MarkSeen(pCtx context.Context, pID persist.DBID, pOwnerID persist.DBID) error {
	tag, err := n.pgx.Exec(pCtx, `UPDATE notifications SET SEEN = TRUE WHERE ID = $1 AND OWNER_ID = $2 AND DELETED = FALSE;`, pID, pOwnerID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return persist.ErrNotificationNotFound{ID: pID}
	}
	return nil
}

// MarkAllSeen marks every notification the owner holds as seen
func (n *NotificationRepository) MarkAllSeen(pCtx context.Context, pOwnerID persist.DBID) error {
	_, err := n.pgx.Exec(pCtx, `UPDATE notifications SET SEEN = TRUE WHERE OWNER_ID = $1 AND SEEN = FALSE AND DELETED = FALSE;`, pOwnerID)
	return err
}

func scanNotification(row pgx.Row) (persist.Notification, error) {
	var notif persist.Notification
	err := row.Scan(&notif.ID, &notif.CreatedAt, &notif.OwnerID, &notif.ActorID, &notif.Type, &notif.Message, &notif.PostID, &notif.CommentID, &notif.Seen, &notif.Deleted)
	return notif, err
}
