package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vivemedellin/go-vivemedellin/publicapi"
	"github.com/vivemedellin/go-vivemedellin/service/auth"
	"github.com/vivemedellin/go-vivemedellin/service/logger"
	"github.com/vivemedellin/go-vivemedellin/service/persist"
	sentryutil "github.com/vivemedellin/go-vivemedellin/service/sentry"
	"github.com/vivemedellin/go-vivemedellin/util"
	"github.com/vivemedellin/go-vivemedellin/validate"
)

// handleError translates API-layer errors into HTTP statuses. Anything
// unrecognized is a 500 and gets reported.
func handleError(c *gin.Context, err error) {
	status := errStatus(err)

	if status == http.StatusInternalServerError {
		logger.For(c).Errorf("unexpected error handling %s %s: %s", c.Request.Method, c.FullPath(), err)
		sentryutil.ReportError(c, err)
	}

	util.ErrResponse(c, status, err)
}

func errStatus(err error) int {
	switch {
	case errors.As(err, &validate.ErrInvalidField{}),
		errors.As(err, &persist.ErrInvalidReplyTarget{}):
		return http.StatusBadRequest

	case errors.Is(err, auth.ErrNoAuthSession),
		errors.Is(err, auth.ErrInvalidJWT),
		errors.Is(err, auth.ErrSessionRevoked),
		errors.Is(err, auth.ErrBadCredentials):
		return http.StatusUnauthorized

	case errors.Is(err, publicapi.ErrOnlyEditOwnComment),
		errors.Is(err, publicapi.ErrEditWindowExpired),
		errors.Is(err, publicapi.ErrOnlyRemoveOwnComment),
		errors.Is(err, publicapi.ErrDeletionReasonRequired),
		errors.Is(err, publicapi.ErrAdminOnly):
		return http.StatusForbidden

	case errors.As(err, &persist.ErrCommentNotFound{}),
		errors.As(err, &persist.ErrPostNotFound{}),
		errors.As(err, &persist.ErrUserNotFound{}),
		errors.As(err, &persist.ErrNotificationNotFound{}),
		errors.As(err, &persist.ErrSaveNotFound{}):
		return http.StatusNotFound

	case errors.As(err, &persist.ErrUsernameNotAvailable{}):
		return http.StatusConflict

	default:
		return http.StatusInternalServerError
	}
}
