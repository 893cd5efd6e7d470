package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru"

	"github.com/vivemedellin/go-vivemedellin/service/auth"
	"github.com/vivemedellin/go-vivemedellin/service/logger"
	"github.com/vivemedellin/go-vivemedellin/service/redis"
	"github.com/vivemedellin/go-vivemedellin/util"

	"github.com/gin-gonic/gin"
)

const authHeaderPrefix = "Bearer "

var errAdminRequired = errors.New("admin privileges required")

// parsedClaimsCache avoids re-verifying the same bearer token's signature on
// every request. Entries are trusted only while the token itself is unexpired.
var parsedClaimsCache, _ = lru.New(2048)

// GinContextToContext stashes the gin context inside the request context so
// layers that only see a context.Context can still reach request scope.
func GinContextToContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request = c.Request.WithContext(context.WithValue(c.Request.Context(), util.GinContextKey, c))
		c.Next()
	}
}

// ContinueSession resolves the request's bearer token, if any, into auth
// state on the gin context. It never rejects a request; anonymous requests
// proceed with an auth error recorded for downstream consumers.
func ContinueSession(sessionsCache *redis.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, authHeaderPrefix) {
			auth.SetAuthErrorForCtx(c, auth.ErrNoAuthSession)
			c.Next()
			return
		}

		token := strings.TrimPrefix(header, authHeaderPrefix)

		claims, err := parseCachedAuthToken(c, token)
		if err != nil {
			auth.SetAuthErrorForCtx(c, err)
			c.Next()
			return
		}

		revoked, err := auth.IsSessionRevoked(c, sessionsCache, claims.SessionID)
		if err != nil {
			// A cache outage shouldn't lock everyone out; log and treat the
			// session as live.
			logger.For(c).Errorf("failed to check session revocation: %s", err)
		}
		if revoked {
			auth.SetAuthErrorForCtx(c, auth.ErrSessionRevoked)
			c.Next()
			return
		}

		auth.SetAuthStateForCtx(c, claims.UserID, claims.SessionID, claims.Roles)
		c.Next()
	}
}

// AuthRequired aborts anonymous requests. Must run after ContinueSession.
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := auth.GetAuthErrorFromCtx(c); err != nil {
			util.ErrResponse(c, http.StatusUnauthorized, err)
			return
		}
		c.Next()
	}
}

// AdminRequired aborts requests whose session lacks the admin role. Must run
// after ContinueSession.
func AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := auth.GetAuthErrorFromCtx(c); err != nil {
			util.ErrResponse(c, http.StatusUnauthorized, err)
			return
		}
		if !auth.IsAdminFromCtx(c) {
			util.ErrResponse(c, http.StatusForbidden, errAdminRequired)
			return
		}
		c.Next()
	}
}

func parseCachedAuthToken(ctx context.Context, token string) (auth.AuthTokenClaims, error) {
	if cached, ok := parsedClaimsCache.Get(token); ok {
		claims := cached.(auth.AuthTokenClaims)
		if claims.ExpiresAt != nil && claims.ExpiresAt.After(time.Now()) {
			return claims, nil
		}
		parsedClaimsCache.Remove(token)
		return auth.AuthTokenClaims{}, auth.ErrInvalidJWT
	}

	claims, err := auth.ParseAuthToken(ctx, token)
	if err != nil {
		return auth.AuthTokenClaims{}, err
	}

	parsedClaimsCache.Add(token, claims)
	return claims, nil
}
