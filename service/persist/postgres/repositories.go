package postgres

import (
	"database/sql"

	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/vivemedellin/go-vivemedellin/service/persist"
)

// NewRepositories wires every postgres-backed repository against the shared
// connections.
func NewRepositories(db *sql.DB, pgx *pgxpool.Pool) *persist.Repositories {
	return &persist.Repositories{
		UserRepository:         NewUserRepository(db),
		PostRepository:         NewPostRepository(db),
		CommentRepository:      NewCommentRepository(db),
		NotificationRepository: NewNotificationRepository(pgx),
		SaveRepository:         NewSaveRepository(db),
		AuditRepository:        NewAuditRepository(db),
	}
}
