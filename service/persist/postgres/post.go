package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/vivemedellin/go-vivemedellin/service/persist"
)

const postColumns = `p.ID,p.CREATED_AT,p.LAST_UPDATED,p.AUTHOR_ID,p.AUTHOR_NAME,p.TITLE,p.CONTENT,p.DELETED,
	(SELECT COUNT(*) FROM comments c WHERE c.POST_ID = p.ID AND c.DELETED = FALSE) AS COMMENT_COUNT`

// PostRepository represents a post repository in the postgres database
type PostRepository struct {
	db          *sql.DB
	getByIDStmt *sql.Stmt
	getFeedStmt *sql.Stmt
	createStmt  *sql.Stmt
	deleteStmt  *sql.Stmt
}

// NewPostRepository creates a new postgres repository for interacting with posts
func NewPostRepository(db *sql.DB) *PostRepository {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()

	getByIDStmt, err := db.PrepareContext(ctx, `SELECT `+postColumns+` FROM posts p WHERE p.ID = $1 AND p.DELETED = FALSE;`)
	checkNoErr(err)

	getFeedStmt, err := db.PrepareContext(ctx, `SELECT `+postColumns+` FROM posts p WHERE p.DELETED = FALSE ORDER BY p.CREATED_AT DESC, p.ID DESC LIMIT $1;`)
	checkNoErr(err)

	createStmt, err := db.PrepareContext(ctx, `INSERT INTO posts (ID,AUTHOR_ID,AUTHOR_NAME,TITLE,CONTENT) VALUES ($1, $2, $3, $4, $5) RETURNING ID,CREATED_AT,LAST_UPDATED;`)
	checkNoErr(err)

	deleteStmt, err := db.PrepareContext(ctx, `UPDATE posts SET DELETED = TRUE, LAST_UPDATED = NOW() WHERE ID = $1 AND DELETED = FALSE;`)
	checkNoErr(err)

	return &PostRepository{
		db:          db,
		getByIDStmt: getByIDStmt,
		getFeedStmt: getFeedStmt,
		createStmt:  createStmt,
		deleteStmt:  deleteStmt,
	}
}

// GetByID returns the post with the given ID, comment count included
func (p *PostRepository) GetByID(pCtx context.Context, pID persist.DBID) (persist.Post, error) {
	post, err := scanPost(p.getByIDStmt.QueryRowContext(pCtx, pID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return persist.Post{}, persist.ErrPostNotFound{ID: pID}
		}
		return persist.Post{}, err
	}
	return post, nil
}

// GetFeed returns live posts, newest first
func (p *PostRepository) GetFeed(pCtx context.Context, pLimit int) ([]persist.Post, error) {
	rows, err := p.getFeedStmt.QueryContext(pCtx, pLimit)
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

// Create persists a new post
func (p *PostRepository) Create(pCtx context.Context, pPost persist.Post) (persist.Post, error) {
	err := p.createStmt.QueryRowContext(pCtx, persist.GenerateID(), pPost.AuthorID, pPost.AuthorName, pPost.Title, pPost.Content).Scan(&pPost.ID, &pPost.CreatedAt, &pPost.LastUpdated)
	if err != nil {
		return persist.Post{}, err
	}
	return pPost, nil
}

// Delete soft-deletes a post
func (p *PostRepository) Delete(pCtx context.Context, pID persist.DBID) error {
	res, err := p.deleteStmt.ExecContext(pCtx, pID)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return persist.ErrPostNotFound{ID: pID}
	}
	return nil
}

func scanPost(row scannable) (persist.Post, error) {
	var post persist.Post
	err := row.Scan(&post.ID, &post.CreatedAt, &post.LastUpdated, &post.AuthorID, &post.AuthorName, &post.Title, &post.Content, &post.Deleted, &post.CommentCount)
	return post, err
}
