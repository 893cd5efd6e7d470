package persist

import (
	"context"
	"fmt"
)

// Role is a coarse authorization level carried in auth tokens.
type Role string

const (
	RoleUser  Role = "ROLE_USER"
	RoleAdmin Role = "ROLE_ADMIN"
)

// User is a registered account. PasswordHash never leaves the server.
type User struct {
	ID           DBID            `json:"id"`
	CreatedAt    CreationTime    `json:"created_at"`
	LastUpdated  LastUpdatedTime `json:"last_updated"`
	Username     string          `json:"username"`
	Name         string          `json:"name"`
	PasswordHash string          `json:"-"`
	Roles        []Role          `json:"roles"`
	Deleted      bool            `json:"deleted"`
}

// IsAdmin reports whether the user carries the admin role.
func (u User) IsAdmin() bool {
	for _, r := range u.Roles {
		if r == RoleAdmin {
			return true
		}
	}
	return false
}

// PrimaryRole returns the role clients display, preferring admin.
func (u User) PrimaryRole() Role {
	if u.IsAdmin() {
		return RoleAdmin
	}
	return RoleUser
}

type UserRepository interface {
	GetByID(ctx context.Context, userID DBID) (User, error)
	GetByUsername(ctx context.Context, username string) (User, error)
	Create(ctx context.Context, user User) (User, error)
	Delete(ctx context.Context, userID DBID) error
}

type ErrUserNotFound struct {
	UserID   DBID
	Username string
}

func (e ErrUserNotFound) Error() string {
	if e.Username != "" {
		return fmt.Sprintf("user not found by username: %s", e.Username)
	}
	return fmt.Sprintf("user not found by id: %s", e.UserID)
}

type ErrUsernameNotAvailable struct {
	Username string
}

func (e ErrUsernameNotAvailable) Error() string {
	return fmt.Sprintf("username not available: %s", e.Username)
}
