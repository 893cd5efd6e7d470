package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/vivemedellin/go-vivemedellin/service/persist"
)

// AuditRepository records admin comment deletions in the postgres database.
// Audit rows are append-only.
type AuditRepository struct {
	db                      *sql.DB
	createStmt              *sql.Stmt
	getCommentDeletionsStmt *sql.Stmt
}

// NewAuditRepository creates a new postgres repository for interacting with audit records
func NewAuditRepository(db *sql.DB) *AuditRepository {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()

	createStmt, err := db.PrepareContext(ctx, `INSERT INTO comment_deletion_audit (ID,COMMENT_ID,POST_ID,COMMENT_AUTHOR_NAME,COMMENT_CONTENT,DELETED_BY,DELETED_BY_NAME,DELETED_BY_ROLE,REASON) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING ID,CREATED_AT;`)
	checkNoErr(err)

	getCommentDeletionsStmt, err := db.PrepareContext(ctx, `SELECT ID,CREATED_AT,COMMENT_ID,POST_ID,COMMENT_AUTHOR_NAME,COMMENT_CONTENT,DELETED_BY,DELETED_BY_NAME,DELETED_BY_ROLE,REASON FROM comment_deletion_audit ORDER BY CREATED_AT DESC, ID DESC LIMIT $1;`)
	checkNoErr(err)

	return &AuditRepository{
		db:                      db,
		createStmt:              createStmt,
		getCommentDeletionsStmt: getCommentDeletionsStmt,
	}
}

// Create appends an audit record
func (a *AuditRepository) Create(pCtx context.Context, pRecord persist.CommentDeletionAudit) (persist.CommentDeletionAudit, error) {
	err := a.createStmt.QueryRowContext(pCtx, persist.GenerateID(), pRecord.CommentID, pRecord.PostID, pRecord.CommentAuthorName, pRecord.CommentContent, pRecord.DeletedBy, pRecord.DeletedByName, pRecord.DeletedByRole, pRecord.Reason).Scan(&pRecord.ID, &pRecord.CreatedAt)
	if err != nil {
		return persist.CommentDeletionAudit{}, err
	}
	return pRecord, nil
}

// GetCommentDeletions returns audit records, newest first
func (a *AuditRepository) GetCommentDeletions(pCtx context.Context, pLimit int) ([]persist.CommentDeletionAudit, error) {
	rows, err := a.getCommentDeletionsStmt.QueryContext(pCtx, pLimit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := []persist.CommentDeletionAudit{}
	for rows.Next() {
		var record persist.CommentDeletionAudit
		var role string
		if err := rows.Scan(&record.ID, &record.CreatedAt, &record.CommentID, &record.PostID, &record.CommentAuthorName, &record.CommentContent, &record.DeletedBy, &record.DeletedByName, &role, &record.Reason); err != nil {
			return nil, err
		}
		record.DeletedByRole = persist.Role(role)
		records = append(records, record)
	}

	return records, rows.Err()
}
