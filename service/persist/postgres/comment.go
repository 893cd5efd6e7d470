package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/lib/pq"

	"github.com/vivemedellin/go-vivemedellin/service/persist"
)

// CommentRepository represents a comment repository in the postgres database
type CommentRepository struct {
	db                *sql.DB
	getByIDStmt       *sql.Stmt
	getByPostIDStmt   *sql.Stmt
	createStmt        *sql.Stmt
	updateStmt        *sql.Stmt
	countByPostIDStmt *sql.Stmt
}

// NewCommentRepository creates a new postgres repository for interacting with comments
func NewCommentRepository(db *sql.DB) *CommentRepository {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()

	getByIDStmt, err := db.PrepareContext(ctx, `SELECT ID,CREATED_AT,LAST_UPDATED,POST_ID,AUTHOR_ID,AUTHOR_NAME,CONTENT,PARENT_ID,EDITED_AT,DELETED FROM comments WHERE ID = $1 AND DELETED = FALSE;`)
	checkNoErr(err)

	getByPostIDStmt, err := db.PrepareContext(ctx, `SELECT ID,CREATED_AT,LAST_UPDATED,POST_ID,AUTHOR_ID,AUTHOR_NAME,CONTENT,PARENT_ID,EDITED_AT,DELETED FROM comments WHERE POST_ID = $1 AND DELETED = FALSE ORDER BY CREATED_AT ASC, ID ASC;`)
	checkNoErr(err)

	createStmt, err := db.PrepareContext(ctx, `INSERT INTO comments (ID,POST_ID,AUTHOR_ID,AUTHOR_NAME,CONTENT,PARENT_ID) VALUES ($1, $2, $3, $4, $5, $6) RETURNING ID,CREATED_AT,LAST_UPDATED;`)
	checkNoErr(err)

	updateStmt, err := db.PrepareContext(ctx, `UPDATE comments SET CONTENT = $2, EDITED_AT = $3, LAST_UPDATED = NOW() WHERE ID = $1 AND DELETED = FALSE RETURNING ID,CREATED_AT,LAST_UPDATED,POST_ID,AUTHOR_ID,AUTHOR_NAME,CONTENT,PARENT_ID,EDITED_AT,DELETED;`)
	checkNoErr(err)

	countByPostIDStmt, err := db.PrepareContext(ctx, `SELECT COUNT(*) FROM comments WHERE POST_ID = $1 AND DELETED = FALSE;`)
	checkNoErr(err)

	return &CommentRepository{
		db:                db,
		getByIDStmt:       getByIDStmt,
		getByPostIDStmt:   getByPostIDStmt,
		createStmt:        createStmt,
		updateStmt:        updateStmt,
		countByPostIDStmt: countByPostIDStmt,
	}
}

// GetByID returns the comment with the given ID
func (c *CommentRepository) GetByID(pCtx context.Context, pID persist.DBID) (persist.Comment, error) {
	comment, err := scanComment(c.getByIDStmt.QueryRowContext(pCtx, pID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return persist.Comment{}, persist.ErrCommentNotFound{ID: pID}
		}
		return persist.Comment{}, err
	}
	return comment, nil
}

// GetByPostID returns the flat list of live comments on a post, oldest first
func (c *CommentRepository) GetByPostID(pCtx context.Context, pPostID persist.DBID) ([]persist.Comment, error) {
	rows, err := c.getByPostIDStmt.QueryContext(pCtx, pPostID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	comments := []persist.Comment{}
	for rows.Next() {
		comment, err := scanComment(rows)
		if err != nil {
			return nil, err
		}
		comments = append(comments, comment)
	}

	return comments, rows.Err()
}

// Create persists a new comment and returns it with its assigned ID and timestamps
func (c *CommentRepository) Create(pCtx context.Context, pComment persist.Comment) (persist.Comment, error) {
	var parentID interface{}
	if pComment.ParentID != "" {
		parentID = pComment.ParentID
	}

	err := c.createStmt.QueryRowContext(pCtx, persist.GenerateID(), pComment.PostID, pComment.AuthorID, pComment.AuthorName, pComment.Content, parentID).Scan(&pComment.ID, &pComment.CreatedAt, &pComment.LastUpdated)
	if err != nil {
		return persist.Comment{}, err
	}

	return pComment, nil
}

// Update replaces a comment's content and stamps its edit time
func (c *CommentRepository) Update(pCtx context.Context, pID persist.DBID, pContent string, pEditedAt time.Time) (persist.Comment, error) {
	comment, err := scanComment(c.updateStmt.QueryRowContext(pCtx, pID, pContent, pEditedAt))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return persist.Comment{}, persist.ErrCommentNotFound{ID: pID}
		}
		return persist.Comment{}, err
	}
	return comment, nil
}

// Delete soft-deletes a comment and its direct replies in one transaction and
// returns the IDs of every removed comment, the target first.
func (c *CommentRepository) Delete(pCtx context.Context, pID persist.DBID) ([]persist.DBID, error) {
	tx, err := c.db.BeginTx(pCtx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	rows, err := tx.QueryContext(pCtx, `SELECT ID FROM comments WHERE (ID = $1 OR PARENT_ID = $1) AND DELETED = FALSE ORDER BY (ID = $1) DESC, CREATED_AT ASC;`, pID)
	if err != nil {
		return nil, err
	}

	removed := []persist.DBID{}
	for rows.Next() {
		var id persist.DBID
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return nil, err
		}
		removed = append(removed, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(removed) == 0 || removed[0] != pID {
		return nil, persist.ErrCommentNotFound{ID: pID}
	}

	ids := make([]string, len(removed))
	for i, id := range removed {
		ids[i] = id.String()
	}

	if _, err := tx.ExecContext(pCtx, `UPDATE comments SET DELETED = TRUE, LAST_UPDATED = NOW() WHERE ID = ANY($1);`, pq.Array(ids)); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return removed, nil
}

// CountByPostID returns the number of live comments on a post
func (c *CommentRepository) CountByPostID(pCtx context.Context, pPostID persist.DBID) (int64, error) {
	var count int64
	err := c.countByPostIDStmt.QueryRowContext(pCtx, pPostID).Scan(&count)
	return count, err
}

type scannable interface {
	Scan(dest ...interface{}) error
}

func scanComment(row scannable) (persist.Comment, error) {
	var comment persist.Comment
	err := row.Scan(&comment.ID, &comment.CreatedAt, &comment.LastUpdated, &comment.PostID, &comment.AuthorID, &comment.AuthorName, &comment.Content, &comment.ParentID, &comment.EditedAt, &comment.Deleted)
	return comment, err
}
