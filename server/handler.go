package server

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/vivemedellin/go-vivemedellin/event"
	"github.com/vivemedellin/go-vivemedellin/middleware"
	"github.com/vivemedellin/go-vivemedellin/publicapi"
	"github.com/vivemedellin/go-vivemedellin/service/notifications"
	"github.com/vivemedellin/go-vivemedellin/service/persist"
	"github.com/vivemedellin/go-vivemedellin/service/redis"
	"github.com/vivemedellin/go-vivemedellin/util"
)

func handlersInit(router *gin.Engine, repos *persist.Repositories, sessionsCache *redis.Cache, notifHandlers *notifications.NotificationHandlers) *gin.Engine {
	router.GET("/alive", util.HealthCheckHandler())

	api := publicapi.New(context.Background(), repos, sessionsCache, notifHandlers)

	limiterClient := redis.NewClient(redis.RateLimitersDB)
	authLimiter := middleware.NewKeyRateLimiter("auth", 10, time.Minute, limiterClient)
	writeLimiter := middleware.NewKeyRateLimiter("write", 30, time.Minute, limiterClient)

	apiGroup := router.Group("/api", useAPI(api, notifHandlers), middleware.ContinueSession(sessionsCache))

	users := apiGroup.Group("/users")
	users.POST("", middleware.RateLimited(authLimiter), registerUser())
	users.POST("/login", middleware.RateLimited(authLimiter), loginUser())
	users.POST("/logout", logoutUser())

	posts := apiGroup.Group("/posts")
	posts.GET("", getFeed())
	posts.POST("", middleware.AuthRequired(), middleware.RateLimited(writeLimiter), createPost())
	posts.GET("/:postID", getPost())
	posts.GET("/:postID/comments", getComments())
	posts.POST("/:postID/comments", middleware.AuthRequired(), middleware.RateLimited(writeLimiter), addComment())

	comments := apiGroup.Group("/comments")
	comments.POST("/:commentID/replies", middleware.AuthRequired(), middleware.RateLimited(writeLimiter), replyToComment())
	comments.PUT("/:commentID", middleware.AuthRequired(), updateComment())
	comments.DELETE("/:commentID", middleware.AuthRequired(), removeComment())

	notifs := apiGroup.Group("/notifications", middleware.AuthRequired())
	notifs.GET("", getNotifications())
	notifs.GET("/unread/count", getUnseenNotificationCount())
	notifs.PUT("/read/:notificationID", markNotificationRead())
	notifs.PUT("/read-all", markAllNotificationsRead())

	saves := apiGroup.Group("/saved-posts", middleware.AuthRequired())
	saves.GET("", getSavedPosts())
	saves.POST("/:postID", savePost())
	saves.DELETE("/:postID", unsavePost())
	saves.GET("/:postID/check", checkPostSaved())

	admin := apiGroup.Group("/admin", middleware.AdminRequired())
	admin.GET("/audit/comment-deletions", getCommentDeletionAudit())

	return router
}

// useAPI stashes the request-scoped entry points on the gin context so
// handlers and anything beneath them can reach the API, event sender, and
// notification handlers through the context alone.
func useAPI(api *publicapi.PublicAPI, notifHandlers *notifications.NotificationHandlers) gin.HandlerFunc {
	return func(c *gin.Context) {
		publicapi.AddTo(c, api)
		event.AddTo(c, notifHandlers)
		notifications.AddTo(c, notifHandlers)
		c.Next()
	}
}
