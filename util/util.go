package util

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/exp/slices"
)

// GinContextKey is the key used to stash a *gin.Context inside a request's
// context.Context so deeper layers can reach gin-scoped values.
const GinContextKey = "GinContextKey"

// ErrorResponse is the shape of every error payload returned to clients.
type ErrorResponse struct {
	Error string `json:"error"`
}

// SuccessResponse communicates a bare success for endpoints with no body.
type SuccessResponse struct {
	Success bool `json:"success"`
}

// ErrResponse writes err as a client-facing JSON error with the given status.
func ErrResponse(c *gin.Context, status int, err error) {
	c.Error(err)
	c.AbortWithStatusJSON(status, ErrorResponse{Error: err.Error()})
}

// GinContextFromContext retrieves a gin.Context previously stashed by
// middleware.GinContextToContext, panicking if none is present.
func GinContextFromContext(ctx context.Context) *gin.Context {
	// If the context is already a gin context, use it directly
	if gc, ok := ctx.(*gin.Context); ok {
		return gc
	}

	gc, ok := ctx.Value(GinContextKey).(*gin.Context)
	if !ok {
		panic("gin.Context not found in context")
	}

	return gc
}

// HealthCheckHandler returns a handler reporting process liveness.
func HealthCheckHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"alive": true})
	}
}

// Contains reports whether s is present in strs.
func Contains[T comparable](strs []T, s T) bool {
	return slices.Contains(strs, s)
}

// FirstNonEmptyString returns the first string that isn't empty.
func FirstNonEmptyString(strs ...string) string {
	for _, s := range strs {
		if s != "" {
			return s
		}
	}
	return ""
}

// FindFirst returns the first element of s satisfying f.
func FindFirst[T any](s []T, f func(T) bool) (T, bool) {
	idx := slices.IndexFunc(s, f)
	if idx == -1 {
		var zero T
		return zero, false
	}
	return s[idx], true
}

// ToPointer returns a pointer to the given value.
func ToPointer[T any](v T) *T {
	return &v
}

// FromPointer dereferences p, returning the zero value for a nil pointer.
func FromPointer[T any](p *T) T {
	if p == nil {
		var zero T
		return zero
	}
	return *p
}
