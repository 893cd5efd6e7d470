package auth

import (
	"context"
	"time"

	"github.com/vivemedellin/go-vivemedellin/env"
	"github.com/vivemedellin/go-vivemedellin/service/persist"
	"github.com/vivemedellin/go-vivemedellin/service/redis"
)

const revokedSessionPrefix = "revoked-session:"

// RevokeSession blacklists a session until every token minted for it has
// expired. Logout calls this; the auth middleware consults it.
func RevokeSession(ctx context.Context, cache *redis.Cache, sessionID persist.DBID) error {
	if sessionID == "" {
		return nil
	}

	ttl := time.Duration(env.GetInt64("AUTH_JWT_TTL")) * time.Second
	return cache.Set(ctx, revokedSessionPrefix+sessionID.String(), []byte{1}, ttl)
}

// IsSessionRevoked reports whether the session has been logged out. Lookup
// failures are returned so the middleware can decide how to degrade.
func IsSessionRevoked(ctx context.Context, cache *redis.Cache, sessionID persist.DBID) (bool, error) {
	if sessionID == "" {
		return false, nil
	}

	return cache.Exists(ctx, revokedSessionPrefix+sessionID.String())
}
