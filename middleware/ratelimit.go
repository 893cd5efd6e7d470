package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/benny-conn/limiters"
	goredis "github.com/go-redis/redis/v8"
	"github.com/gin-gonic/gin"

	"github.com/vivemedellin/go-vivemedellin/service/auth"
	"github.com/vivemedellin/go-vivemedellin/util"
)

// KeyRateLimiter is a redis-backed token bucket keyed by an arbitrary string
// (user ID, IP). Buckets are registered lazily and garbage collected by the
// registry after sitting idle for their window.
type KeyRateLimiter struct {
	name     string
	amount   int64
	duration time.Duration
	client   *goredis.Client
	reg      *limiters.Registry
	clock    limiters.Clock
	logger   limiters.Logger
	mu       sync.Mutex
}

// noopLocker satisfies limiters.DistLocker for buckets whose shared state
// already lives in a single redis key; no cross-process lock is needed.
type noopLocker struct{}

func (noopLocker) Lock(context.Context) error   { return nil }
func (noopLocker) Unlock(context.Context) error { return nil }

var _ limiters.DistLocker = noopLocker{}

// NewKeyRateLimiter allows amount requests per duration for each distinct key.
func NewKeyRateLimiter(name string, amount int64, duration time.Duration, client *goredis.Client) *KeyRateLimiter {
	return &KeyRateLimiter{
		name:     name,
		amount:   amount,
		duration: duration,
		client:   client,
		reg:      limiters.NewRegistry(),
		clock:    limiters.NewSystemClock(),
		logger:   limiters.NewStdLogger(),
	}
}

// ForKey takes one token from key's bucket, reporting whether the request may
// proceed and, if not, how long until it could.
func (i *KeyRateLimiter) ForKey(ctx context.Context, key string) (bool, time.Duration, error) {
	i.mu.Lock()
	bucket := i.reg.GetOrCreate(key, func() interface{} {
		return limiters.NewTokenBucket(
			i.amount,
			i.duration,
			noopLocker{},
			limiters.NewTokenBucketRedis(i.client, fmt.Sprintf("rate:%s:%s", i.name, key), i.duration, false),
			i.clock,
			i.logger,
		)
	}, i.duration, i.clock.Now())
	i.mu.Unlock()

	w, err := bucket.(*limiters.TokenBucket).Limit(ctx)
	if errors.Is(err, limiters.ErrLimitExhausted) {
		return false, w, nil
	} else if err != nil {
		return false, 0, err
	}

	return true, 0, nil
}

// RateLimited rejects requests whose key (the authenticated user, falling
// back to the client IP) has exhausted its bucket. Limiter failures fail
// open: a broken redis should not take writes down with it.
func RateLimited(lim *KeyRateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := auth.GetUserIDFromCtx(c).String()
		if key == "" {
			key = c.ClientIP()
		}

		canContinue, retryAfter, err := lim.ForKey(c, key)
		if err != nil {
			c.Next()
			return
		}

		if !canContinue {
			util.ErrResponse(c, http.StatusTooManyRequests, fmt.Errorf("rate limited, try again in %s", retryAfter.Round(time.Second)))
			return
		}

		c.Next()
	}
}
