package publicapi

import (
	"context"

	"github.com/go-playground/validator/v10"

	"github.com/vivemedellin/go-vivemedellin/service/notifications"
	"github.com/vivemedellin/go-vivemedellin/service/persist"
	"github.com/vivemedellin/go-vivemedellin/validate"
)

const notificationsDefaultLimit = 50

type NotificationsAPI struct {
	repos     *persist.Repositories
	validator *validator.Validate
	handlers  *notifications.NotificationHandlers
}

// GetViewerNotifications lists the viewer's notifications, newest first.
func (api NotificationsAPI) GetViewerNotifications(ctx context.Context, limit int) ([]persist.Notification, error) {
	userID, err := getAuthenticatedUserID(ctx)
	if err != nil {
		return nil, err
	}

	if limit < 1 || limit > 100 {
		limit = notificationsDefaultLimit
	}

	return api.repos.NotificationRepository.GetByOwnerID(ctx, userID, limit)
}

// GetUnseenCount returns how many of the viewer's notifications are unread.
func (api NotificationsAPI) GetUnseenCount(ctx context.Context) (int64, error) {
	userID, err := getAuthenticatedUserID(ctx)
	if err != nil {
		return 0, err
	}

	return api.handlers.UnseenCount(ctx, userID)
}

// MarkRead marks one of the viewer's notifications as seen. Marking a
// notification that belongs to someone else fails with not-found.
func (api NotificationsAPI) MarkRead(ctx context.Context, notificationID persist.DBID) error {
	userID, err := getAuthenticatedUserID(ctx)
	if err != nil {
		return err
	}

	if err := validate.ValidateFields(api.validator, validate.ValidationMap{
		"notificationID": validate.WithTag(notificationID, "required"),
	}); err != nil {
		return err
	}

	if err := api.repos.NotificationRepository.MarkSeen(ctx, notificationID, userID); err != nil {
		return err
	}

	api.handlers.InvalidateUnseenCount(ctx, userID)
	return nil
}

// MarkAllRead marks every notification the viewer owns as seen.
func (api NotificationsAPI) MarkAllRead(ctx context.Context) error {
	userID, err := getAuthenticatedUserID(ctx)
	if err != nil {
		return err
	}

	if err := api.repos.NotificationRepository.MarkAllSeen(ctx, userID); err != nil {
		return err
	}

	api.handlers.InvalidateUnseenCount(ctx, userID)
	return nil
}
