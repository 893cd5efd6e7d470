package notifications

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/bsm/redislock"
	"github.com/gammazero/workerpool"
	"github.com/gin-gonic/gin"

	"github.com/vivemedellin/go-vivemedellin/service/logger"
	"github.com/vivemedellin/go-vivemedellin/service/persist"
	"github.com/vivemedellin/go-vivemedellin/service/redis"
	"github.com/vivemedellin/go-vivemedellin/util"
)

const (
	notificationsContextKey = "notifications.notificationHandlers"
	unseenCountPrefix       = "unseen-count:"
	unseenCountTTL          = time.Minute
	lockTTL                 = 5 * time.Second
	fanoutWorkers           = 4
)

// NotificationHandlers turns dispatched events into stored notifications and
// answers unseen-count queries through a short-lived cache. Writes for the
// same owner are serialized with a redis lock so concurrent fanout can't
// interleave cache invalidation with a stale refill.
type NotificationHandlers struct {
	repo        persist.NotificationRepository
	unseenCache *redis.Cache
	locker      *redislock.Client
	pool        *workerpool.WorkerPool

	// mu orders Handle's pool submissions before Stop's drain; submitting to
	// a stopped workerpool panics.
	mu      sync.RWMutex
	stopped bool
}

// New wires the handler set. The lock client shares the cache's redis
// connection. unseenCache may be nil, in which case counts always hit the
// repository and writes skip locking; only tests run that way.
func New(repo persist.NotificationRepository, unseenCache *redis.Cache) *NotificationHandlers {
	handlers := &NotificationHandlers{
		repo:        repo,
		unseenCache: unseenCache,
		pool:        workerpool.New(fanoutWorkers),
	}
	if unseenCache != nil {
		handlers.locker = redislock.New(unseenCache.Client())
	}
	return handlers
}

// AddTo registers the handlers on the gin context.
func AddTo(ctx *gin.Context, handlers *NotificationHandlers) {
	ctx.Set(notificationsContextKey, handlers)
}

// For retrieves the handlers registered on the request.
func For(ctx context.Context) *NotificationHandlers {
	gc := util.GinContextFromContext(ctx)
	return gc.Value(notificationsContextKey).(*NotificationHandlers)
}

// Handle queues a notification for the event's subject. It returns once the
// work is accepted; persistence happens on the worker pool. After Stop the
// event is refused rather than queued.
func (h *NotificationHandlers) Handle(ctx context.Context, evt persist.Event) error {
	notif, err := notificationForEvent(evt)
	if err != nil {
		return err
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.stopped {
		return fmt.Errorf("notification handlers stopped, dropping %s for %s", evt.Action, notif.OwnerID)
	}

	h.pool.Submit(func() {
		if err := h.createNotification(context.Background(), notif); err != nil {
			logger.For(nil).Errorf("failed to create notification for %s: %s", notif.OwnerID, err)
		}
	})

	return nil
}

// Stop refuses further events and drains the worker pool. Safe to call more
// than once; only used at shutdown and in tests.
func (h *NotificationHandlers) Stop() {
	h.mu.Lock()
	if h.stopped {
		h.mu.Unlock()
		return
	}
	h.stopped = true
	h.mu.Unlock()

	h.pool.StopWait()
}

// UnseenCount returns the owner's unseen notification count, served from
// cache when fresh.
func (h *NotificationHandlers) UnseenCount(ctx context.Context, ownerID persist.DBID) (int64, error) {
	if h.unseenCache == nil {
		return h.repo.CountUnseen(ctx, ownerID)
	}

	key := unseenCountPrefix + ownerID.String()

	if bs, err := h.unseenCache.Get(ctx, key); err == nil {
		if count, parseErr := strconv.ParseInt(string(bs), 10, 64); parseErr == nil {
			return count, nil
		}
	}

	count, err := h.repo.CountUnseen(ctx, ownerID)
	if err != nil {
		return 0, err
	}

	if err := h.unseenCache.Set(ctx, key, []byte(strconv.FormatInt(count, 10)), unseenCountTTL); err != nil {
		logger.For(ctx).Errorf("failed to cache unseen count for %s: %s", ownerID, err)
	}

	return count, nil
}

// InvalidateUnseenCount drops the cached count after reads or writes change
// it.
func (h *NotificationHandlers) InvalidateUnseenCount(ctx context.Context, ownerID persist.DBID) {
	if h.unseenCache == nil {
		return
	}
	if err := h.unseenCache.Delete(ctx, unseenCountPrefix+ownerID.String()); err != nil {
		logger.For(ctx).Errorf("failed to invalidate unseen count for %s: %s", ownerID, err)
	}
}

func (h *NotificationHandlers) createNotification(ctx context.Context, notif persist.Notification) error {
	if h.locker != nil {
		lock, err := h.locker.Obtain(ctx, "notification-lock:"+notif.OwnerID.String(), lockTTL, &redislock.Options{
			RetryStrategy: redislock.LimitRetry(redislock.LinearBackoff(50*time.Millisecond), 20),
		})
		if err != nil {
			return err
		}
		defer lock.Release(ctx)
	}

	if _, err := h.repo.Create(ctx, notif); err != nil {
		return err
	}

	h.InvalidateUnseenCount(ctx, notif.OwnerID)
	return nil
}

func notificationForEvent(evt persist.Event) (persist.Notification, error) {
	notif := persist.Notification{
		OwnerID:   evt.SubjectUserID,
		ActorID:   evt.ActorID,
		PostID:    evt.PostID,
		CommentID: evt.CommentID,
	}

	switch evt.Action {
	case persist.ActionCommentedOnPost:
		notif.Type = persist.NotificationTypeComment
		notif.Message = fmt.Sprintf("%s comentó en tu publicación", evt.ActorName)
	case persist.ActionRepliedToComment:
		notif.Type = persist.NotificationTypeReply
		notif.Message = fmt.Sprintf("%s respondió a tu comentario", evt.ActorName)
	case persist.ActionSavedPost:
		notif.Type = persist.NotificationTypeSave
		notif.Message = fmt.Sprintf("%s guardó tu publicación", evt.ActorName)
	case persist.ActionDeletedComment:
		notif.Type = persist.NotificationTypeSystem
		notif.Message = "Un administrador eliminó tu comentario"
	default:
		return persist.Notification{}, fmt.Errorf("no notification handler for action %s", evt.Action)
	}

	return notif, nil
}
