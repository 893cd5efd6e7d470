package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/vivemedellin/go-vivemedellin/service/persist"
)

// SaveRepository represents a saved-post repository in the postgres database
type SaveRepository struct {
	db                   *sql.DB
	createStmt           *sql.Stmt
	deleteStmt           *sql.Stmt
	existsStmt           *sql.Stmt
	getPostsByUserIDStmt *sql.Stmt
}

// NewSaveRepository creates a new postgres repository for interacting with saved posts
func NewSaveRepository(db *sql.DB) *SaveRepository {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()

	// A (user, post) pair keeps a single row for its whole life; re-saving
	// resurrects a soft-deleted save.
	createStmt, err := db.PrepareContext(ctx, `INSERT INTO saves (ID,USER_ID,POST_ID) VALUES ($1, $2, $3) ON CONFLICT (USER_ID, POST_ID) DO UPDATE SET DELETED = FALSE RETURNING ID,CREATED_AT;`)
	checkNoErr(err)

	deleteStmt, err := db.PrepareContext(ctx, `UPDATE saves SET DELETED = TRUE WHERE USER_ID = $1 AND POST_ID = $2 AND DELETED = FALSE;`)
	checkNoErr(err)

	existsStmt, err := db.PrepareContext(ctx, `SELECT EXISTS(SELECT 1 FROM saves WHERE USER_ID = $1 AND POST_ID = $2 AND DELETED = FALSE);`)
	checkNoErr(err)

	getPostsByUserIDStmt, err := db.PrepareContext(ctx, `SELECT `+postColumns+` FROM posts p JOIN saves s ON s.POST_ID = p.ID WHERE s.USER_ID = $1 AND s.DELETED = FALSE AND p.DELETED = FALSE ORDER BY s.CREATED_AT DESC;`)
	checkNoErr(err)

	return &SaveRepository{
		db:                   db,
		createStmt:           createStmt,
		deleteStmt:           deleteStmt,
		existsStmt:           existsStmt,
		getPostsByUserIDStmt: getPostsByUserIDStmt,
	}
}

// Create bookmarks a post for a user. Saving an already-saved post is a no-op.
func (s *SaveRepository) Create(pCtx context.Context, pUserID persist.DBID, pPostID persist.DBID) (persist.Save, error) {
	save := persist.Save{UserID: pUserID, PostID: pPostID}

	err := s.createStmt.QueryRowContext(pCtx, persist.GenerateID(), pUserID, pPostID).Scan(&save.ID, &save.CreatedAt)
	if err != nil {
		return persist.Save{}, err
	}

	return save, nil
}

// Delete removes a bookmark
func (s *SaveRepository) Delete(pCtx context.Context, pUserID persist.DBID, pPostID persist.DBID) error {
	res, err := s.deleteStmt.ExecContext(pCtx, pUserID, pPostID)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return persist.ErrSaveNotFound{UserID: pUserID, PostID: pPostID}
	}
	return nil
}

// Exists reports whether the user has the post bookmarked
func (s *SaveRepository) Exists(pCtx context.Context, pUserID persist.DBID, pPostID persist.DBID) (bool, error) {
	var exists bool
	err := s.existsStmt.QueryRowContext(pCtx, pUserID, pPostID).Scan(&exists)
	return exists, err
}

// GetPostsByUserID returns the user's saved posts, most recently saved first
func (s *SaveRepository) GetPostsByUserID(pCtx context.Context, pUserID persist.DBID) ([]persist.Post, error) {
	rows, err := s.getPostsByUserIDStmt.QueryContext(pCtx, pUserID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	posts := []persist.Post{}
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}

	return posts, rows.Err()
}
