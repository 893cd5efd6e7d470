package publicapi

import (
	"context"

	"github.com/go-playground/validator/v10"

	"github.com/vivemedellin/go-vivemedellin/service/persist"
)

const auditDefaultLimit = 100

type AuditAPI struct {
	repos     *persist.Repositories
	validator *validator.Validate
}

// ListCommentDeletions returns the moderation trail of admin comment
// removals, newest first. Admin only.
func (api AuditAPI) ListCommentDeletions(ctx context.Context, limit int) ([]persist.CommentDeletionAudit, error) {
	if _, err := getAuthenticatedUserID(ctx); err != nil {
		return nil, err
	}

	if !isAdminCtx(ctx) {
		return nil, ErrAdminOnly
	}

	if limit < 1 || limit > 500 {
		limit = auditDefaultLimit
	}

	return api.repos.AuditRepository.GetCommentDeletions(ctx, limit)
}
