package persist

import (
	"context"
	"fmt"
	"time"
)

// Comment is a single comment or reply on a post. AuthorName is a snapshot of
// the author's display name at creation time, not a live reference. Replies
// is only populated by the tree builder; raw repository reads return it nil.
type Comment struct {
	ID          DBID            `json:"id"`
	CreatedAt   CreationTime    `json:"created_at"`
	LastUpdated LastUpdatedTime `json:"last_updated"`
	PostID      DBID            `json:"post_id"`
	AuthorID    DBID            `json:"author_id"`
	AuthorName  string          `json:"author_name"`
	Content     string          `json:"content"`
	ParentID    DBID            `json:"parent_id"`
	EditedAt    *time.Time      `json:"edited_at"`
	Deleted     bool            `json:"deleted"`

	Replies []*Comment `json:"replies,omitempty"`
}

// IsReply reports whether the comment is attached to another comment rather
// than directly to the post.
func (c Comment) IsReply() bool {
	return c.ParentID != ""
}

type CommentRepository interface {
	GetByID(ctx context.Context, commentID DBID) (Comment, error)
	// GetByPostID returns the flat comment list for a post, empty when the
	// post has no comments.
	GetByPostID(ctx context.Context, postID DBID) ([]Comment, error)
	// Create persists a comment and returns it with its assigned ID and
	// timestamps. comment.ParentID is optional.
	Create(ctx context.Context, comment Comment) (Comment, error)
	// Update replaces a comment's content and stamps its edit time.
	Update(ctx context.Context, commentID DBID, content string, editedAt time.Time) (Comment, error)
	// Delete removes a comment together with its direct replies and returns
	// the IDs of every removed comment. The cascade is one level deep.
	Delete(ctx context.Context, commentID DBID) ([]DBID, error)
	// CountByPostID returns the number of live comments on a post.
	CountByPostID(ctx context.Context, postID DBID) (int64, error)
}

type ErrCommentNotFound struct {
	ID DBID
}

func (e ErrCommentNotFound) Error() string {
	return fmt.Sprintf("comment not found by id: %s", e.ID)
}

// ErrInvalidReplyTarget indicates a reply whose parent does not exist or
// belongs to a different post.
type ErrInvalidReplyTarget struct {
	ParentID DBID
	PostID   DBID
}

func (e ErrInvalidReplyTarget) Error() string {
	return fmt.Sprintf("comment %s is not a valid reply target for post %s", e.ParentID, e.PostID)
}
