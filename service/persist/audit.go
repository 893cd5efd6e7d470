package persist

import "context"

// CommentDeletionAudit is the accountability record written whenever an admin
// removes someone else's comment. It outlives the comment itself.
type CommentDeletionAudit struct {
	ID                DBID         `json:"id"`
	CreatedAt         CreationTime `json:"created_at"`
	CommentID         DBID         `json:"comment_id"`
	PostID            DBID         `json:"post_id"`
	CommentAuthorName string       `json:"comment_author_name"`
	CommentContent    string       `json:"comment_content"`
	DeletedBy         DBID         `json:"deleted_by"`
	DeletedByName     string       `json:"deleted_by_name"`
	DeletedByRole     Role         `json:"deleted_by_role"`
	Reason            string       `json:"reason"`
}

type AuditRepository interface {
	Create(ctx context.Context, record CommentDeletionAudit) (CommentDeletionAudit, error)
	// GetCommentDeletions returns audit records, newest first.
	GetCommentDeletions(ctx context.Context, limit int) ([]CommentDeletionAudit, error)
}
