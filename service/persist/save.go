package persist

import (
	"context"
	"fmt"
)

// Save records that a user bookmarked a post. A (user, post) pair saves at
// most once; repeated saves are idempotent.
type Save struct {
	ID        DBID         `json:"id"`
	CreatedAt CreationTime `json:"created_at"`
	UserID    DBID         `json:"user_id"`
	PostID    DBID         `json:"post_id"`
	Deleted   bool         `json:"deleted"`
}

type SaveRepository interface {
	Create(ctx context.Context, userID DBID, postID DBID) (Save, error)
	Delete(ctx context.Context, userID DBID, postID DBID) error
	Exists(ctx context.Context, userID DBID, postID DBID) (bool, error)
	// GetPostsByUserID returns the user's saved posts, most recently saved
	// first.
	GetPostsByUserID(ctx context.Context, userID DBID) ([]Post, error)
}

type ErrSaveNotFound struct {
	UserID DBID
	PostID DBID
}

func (e ErrSaveNotFound) Error() string {
	return fmt.Sprintf("save not found | UserID: %s, PostID: %s", e.UserID, e.PostID)
}
