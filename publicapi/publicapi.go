package publicapi

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/vivemedellin/go-vivemedellin/service/auth"
	"github.com/vivemedellin/go-vivemedellin/service/notifications"
	"github.com/vivemedellin/go-vivemedellin/service/persist"
	"github.com/vivemedellin/go-vivemedellin/service/redis"
	"github.com/vivemedellin/go-vivemedellin/util"
	"github.com/vivemedellin/go-vivemedellin/validate"
)

const apiContextKey = "publicapi.api"

type PublicAPI struct {
	repos     *persist.Repositories
	validator *validator.Validate

	Auth          *AuthAPI
	User          *UserAPI
	Post          *PostAPI
	Comment       *CommentAPI
	Save          *SaveAPI
	Notifications *NotificationsAPI
	Audit         *AuditAPI
}

func New(ctx context.Context, repos *persist.Repositories, sessionsCache *redis.Cache, notifHandlers *notifications.NotificationHandlers) *PublicAPI {
	validator := validate.WithCustomValidators()

	api := &PublicAPI{
		repos:     repos,
		validator: validator,
	}

	api.Auth = &AuthAPI{repos: repos, validator: validator, sessionsCache: sessionsCache}
	api.User = &UserAPI{repos: repos, validator: validator}
	api.Post = &PostAPI{repos: repos, validator: validator}
	api.Comment = &CommentAPI{repos: repos, validator: validator, posts: api.Post}
	api.Save = &SaveAPI{repos: repos, validator: validator}
	api.Notifications = &NotificationsAPI{repos: repos, validator: validator, handlers: notifHandlers}
	api.Audit = &AuditAPI{repos: repos, validator: validator}

	return api
}

// AddTo adds the specified PublicAPI to a gin context
func AddTo(ctx *gin.Context, api *PublicAPI) {
	ctx.Set(apiContextKey, api)
}

// PushTo pushes the specified PublicAPI onto the context stack and returns the new context
func PushTo(ctx context.Context, api *PublicAPI) context.Context {
	return context.WithValue(ctx, apiContextKey, api)
}

func For(ctx context.Context) *PublicAPI {
	// See if a newer PublicAPI instance has been pushed to the context stack
	if api, ok := ctx.Value(apiContextKey).(*PublicAPI); ok {
		return api
	}

	// If not, fall back to the one added to the gin context
	gc := util.GinContextFromContext(ctx)
	return gc.Value(apiContextKey).(*PublicAPI)
}

func getAuthenticatedUserID(ctx context.Context) (persist.DBID, error) {
	gc := util.GinContextFromContext(ctx)
	authError := auth.GetAuthErrorFromCtx(gc)

	if authError != nil {
		return "", authError
	}

	userID := auth.GetUserIDFromCtx(gc)
	return userID, nil
}

func isAdminCtx(ctx context.Context) bool {
	gc := util.GinContextFromContext(ctx)
	return auth.IsAdminFromCtx(gc)
}
