package auth

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/vivemedellin/go-vivemedellin/service/persist"
)

// Context keys set by the auth middleware on every request.
const (
	AuthContextKey      = "auth.auth_error"
	UserIDContextKey    = "auth.user_id"
	SessionIDContextKey = "auth.session_id"
	RolesContextKey     = "auth.roles"
)

var (
	// ErrNoAuthSession is returned when a request carries no usable
	// credentials at all.
	ErrNoAuthSession = errors.New("no authenticated session")

	// ErrInvalidJWT is returned when a bearer token fails signature or
	// expiry checks.
	ErrInvalidJWT = errors.New("invalid or expired session token")

	// ErrSessionRevoked is returned when a structurally valid token belongs
	// to a session that logged out.
	ErrSessionRevoked = errors.New("session has been revoked")

	// ErrBadCredentials is returned on username/password mismatch. One
	// message for both cases so login can't be used to probe usernames.
	ErrBadCredentials = errors.New("invalid username or password")
)

// SetAuthStateForCtx stashes the authenticated user on the gin context; the
// middleware is the only caller.
func SetAuthStateForCtx(c *gin.Context, userID persist.DBID, sessionID persist.DBID, roles []persist.Role) {
	c.Set(UserIDContextKey, userID)
	c.Set(SessionIDContextKey, sessionID)
	c.Set(RolesContextKey, roles)
	c.Set(AuthContextKey, error(nil))
}

// SetAuthErrorForCtx records why the request is unauthenticated.
func SetAuthErrorForCtx(c *gin.Context, err error) {
	c.Set(AuthContextKey, err)
}

// GetAuthErrorFromCtx returns the auth failure for the request, or nil when
// the request is authenticated.
func GetAuthErrorFromCtx(c *gin.Context) error {
	v, ok := c.Get(AuthContextKey)
	if !ok {
		return ErrNoAuthSession
	}
	if v == nil {
		return nil
	}

	return v.(error)
}

// GetUserIDFromCtx returns the authenticated user's ID, empty when the
// request is anonymous.
func GetUserIDFromCtx(c *gin.Context) persist.DBID {
	v, ok := c.Get(UserIDContextKey)
	if !ok {
		return ""
	}
	return v.(persist.DBID)
}

// GetSessionIDFromCtx returns the session ID carried by the request's token.
func GetSessionIDFromCtx(c *gin.Context) persist.DBID {
	v, ok := c.Get(SessionIDContextKey)
	if !ok {
		return ""
	}
	return v.(persist.DBID)
}

// GetRolesFromCtx returns the role set carried by the request's token.
func GetRolesFromCtx(c *gin.Context) []persist.Role {
	v, ok := c.Get(RolesContextKey)
	if !ok {
		return nil
	}
	return v.([]persist.Role)
}

// IsAdminFromCtx reports whether the request's token carries the admin role.
func IsAdminFromCtx(c *gin.Context) bool {
	for _, r := range GetRolesFromCtx(c) {
		if r == persist.RoleAdmin {
			return true
		}
	}
	return false
}
