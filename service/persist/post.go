package persist

import (
	"context"
	"fmt"
)

// Post is a feed item users comment on and save. AuthorName is snapshotted
// like Comment.AuthorName.
type Post struct {
	ID           DBID            `json:"id"`
	CreatedAt    CreationTime    `json:"created_at"`
	LastUpdated  LastUpdatedTime `json:"last_updated"`
	AuthorID     DBID            `json:"author_id"`
	AuthorName   string          `json:"author_name"`
	Title        string          `json:"title"`
	Content      string          `json:"content"`
	Deleted      bool            `json:"deleted"`
	CommentCount int64           `json:"comment_count"`
}

type PostRepository interface {
	GetByID(ctx context.Context, postID DBID) (Post, error)
	// GetFeed returns live posts, newest first, capped at limit.
	GetFeed(ctx context.Context, limit int) ([]Post, error)
	Create(ctx context.Context, post Post) (Post, error)
	Delete(ctx context.Context, postID DBID) error
}

type ErrPostNotFound struct {
	ID DBID
}

func (e ErrPostNotFound) Error() string {
	return fmt.Sprintf("post not found by id: %s", e.ID)
}
