package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/lib/pq"

	"github.com/vivemedellin/go-vivemedellin/service/persist"
)

// UserRepository represents a user repository in the postgres database
type UserRepository struct {
	db                *sql.DB
	getByIDStmt       *sql.Stmt
	getByUsernameStmt *sql.Stmt
	createStmt        *sql.Stmt
	deleteStmt        *sql.Stmt
}

// NewUserRepository creates a new postgres repository for interacting with users
func NewUserRepository(db *sql.DB) *UserRepository {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()

	getByIDStmt, err := db.PrepareContext(ctx, `SELECT ID,CREATED_AT,LAST_UPDATED,USERNAME,NAME,PASSWORD_HASH,ROLES,DELETED FROM users WHERE ID = $1 AND DELETED = FALSE;`)
	checkNoErr(err)

	getByUsernameStmt, err := db.PrepareContext(ctx, `SELECT ID,CREATED_AT,LAST_UPDATED,USERNAME,NAME,PASSWORD_HASH,ROLES,DELETED FROM users WHERE USERNAME_IDEMPOTENT = $1 AND DELETED = FALSE;`)
	checkNoErr(err)

	createStmt, err := db.PrepareContext(ctx, `INSERT INTO users (ID,USERNAME,USERNAME_IDEMPOTENT,NAME,PASSWORD_HASH,ROLES) VALUES ($1, $2, $3, $4, $5, $6) RETURNING ID,CREATED_AT,LAST_UPDATED;`)
	checkNoErr(err)

	deleteStmt, err := db.PrepareContext(ctx, `UPDATE users SET DELETED = TRUE, LAST_UPDATED = NOW() WHERE ID = $1;`)
	checkNoErr(err)

	return &UserRepository{
		db:                db,
		getByIDStmt:       getByIDStmt,
		getByUsernameStmt: getByUsernameStmt,
		createStmt:        createStmt,
		deleteStmt:        deleteStmt,
	}
}

// GetByID returns the user with the given ID
func (u *UserRepository) GetByID(pCtx context.Context, pID persist.DBID) (persist.User, error) {
	user, err := scanUser(u.getByIDStmt.QueryRowContext(pCtx, pID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return persist.User{}, persist.ErrUserNotFound{UserID: pID}
		}
		return persist.User{}, err
	}
	return user, nil
}

// GetByUsername returns the user with the given username, matched
// case-insensitively
func (u *UserRepository) GetByUsername(pCtx context.Context, pUsername string) (persist.User, error) {
	user, err := scanUser(u.getByUsernameStmt.QueryRowContext(pCtx, strings.ToLower(pUsername)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return persist.User{}, persist.ErrUserNotFound{Username: pUsername}
		}
		return persist.User{}, err
	}
	return user, nil
}

// Create persists a new user. The username must be unique among live users,
// compared case-insensitively.
func (u *UserRepository) Create(pCtx context.Context, pUser persist.User) (persist.User, error) {
	if _, err := u.GetByUsername(pCtx, pUser.Username); err == nil {
		return persist.User{}, persist.ErrUsernameNotAvailable{Username: pUser.Username}
	} else if !errors.As(err, &persist.ErrUserNotFound{}) {
		return persist.User{}, err
	}

	roles := make([]string, len(pUser.Roles))
	for i, role := range pUser.Roles {
		roles[i] = string(role)
	}

	err := u.createStmt.QueryRowContext(pCtx, persist.GenerateID(), pUser.Username, strings.ToLower(pUser.Username), pUser.Name, pUser.PasswordHash, pq.Array(roles)).Scan(&pUser.ID, &pUser.CreatedAt, &pUser.LastUpdated)
	if err != nil {
		// The unique index backstops the check above under concurrent signups.
		if strings.Contains(err.Error(), "users_username_idempotent_idx") {
			return persist.User{}, persist.ErrUsernameNotAvailable{Username: pUser.Username}
		}
		return persist.User{}, err
	}

	return pUser, nil
}

// Delete soft-deletes a user
func (u *UserRepository) Delete(pCtx context.Context, pID persist.DBID) error {
	_, err := u.deleteStmt.ExecContext(pCtx, pID)
	return err
}

func scanUser(row scannable) (persist.User, error) {
	var user persist.User
	var roles []string
	err := row.Scan(&user.ID, &user.CreatedAt, &user.LastUpdated, &user.Username, &user.Name, &user.PasswordHash, pq.Array(&roles), &user.Deleted)
	if err != nil {
		return persist.User{}, err
	}

	user.Roles = make([]persist.Role, len(roles))
	for i, role := range roles {
		user.Roles[i] = persist.Role(role)
	}
	return user, nil
}
