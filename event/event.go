package event

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/vivemedellin/go-vivemedellin/service/logger"
	"github.com/vivemedellin/go-vivemedellin/service/notifications"
	"github.com/vivemedellin/go-vivemedellin/service/persist"
	sentryutil "github.com/vivemedellin/go-vivemedellin/service/sentry"
	"github.com/vivemedellin/go-vivemedellin/util"
)

const eventSenderContextKey = "event.eventSender"

type eventSender struct {
	notif    *notifications.NotificationHandlers
	validate *validator.Validate
}

// AddTo registers the event sender on the gin context so handlers deeper in
// the call chain can dispatch without threading dependencies through.
func AddTo(ctx *gin.Context, notif *notifications.NotificationHandlers) {
	sender := &eventSender{notif: notif, validate: validator.New()}
	ctx.Set(eventSenderContextKey, sender)
}

// For retrieves the event sender registered on the request.
func For(ctx context.Context) *eventSender {
	gc := util.GinContextFromContext(ctx)
	return gc.Value(eventSenderContextKey).(*eventSender)
}

// Dispatch hands the event to its handlers asynchronously. Mutations never
// block on notification fanout; failures are logged and reported instead.
func Dispatch(ctx context.Context, evt persist.Event) error {
	sender := For(ctx)

	if err := sender.validate.Struct(evt); err != nil {
		return err
	}

	// Detach from the request context so fanout survives the response.
	go pushEvent(context.Background(), sender, evt)
	return nil
}

func pushEvent(ctx context.Context, sender *eventSender, evt persist.Event) {
	defer sentryutil.RecoverAndRaise(ctx)

	if evt.SubjectUserID == "" || evt.SubjectUserID == evt.ActorID {
		// Nobody to notify, or the actor acted on their own content.
		return
	}

	if err := sender.notif.Handle(ctx, evt); err != nil {
		logger.For(ctx).Error(err)
		sentryutil.ReportError(ctx, err)
	}
}
