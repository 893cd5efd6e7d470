package server

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/vivemedellin/go-vivemedellin/publicapi"
	"github.com/vivemedellin/go-vivemedellin/service/persist"
	"github.com/vivemedellin/go-vivemedellin/util"
)

func getNotifications() gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, _ := strconv.Atoi(c.Query("limit"))

		notifs, err := publicapi.For(c).Notifications.GetViewerNotifications(c, limit)
		if err != nil {
			handleError(c, err)
			return
		}

		c.JSON(http.StatusOK, notificationResponsesFrom(notifs))
	}
}

func getUnseenNotificationCount() gin.HandlerFunc {
	return func(c *gin.Context) {
		count, err := publicapi.For(c).Notifications.GetUnseenCount(c)
		if err != nil {
			handleError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"count": count})
	}
}

func markNotificationRead() gin.HandlerFunc {
	return func(c *gin.Context) {
		err := publicapi.For(c).Notifications.MarkRead(c, persist.DBID(c.Param("notificationID")))
		if err != nil {
			handleError(c, err)
			return
		}

		c.JSON(http.StatusOK, util.SuccessResponse{Success: true})
	}
}

func markAllNotificationsRead() gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := publicapi.For(c).Notifications.MarkAllRead(c); err != nil {
			handleError(c, err)
			return
		}

		c.JSON(http.StatusOK, util.SuccessResponse{Success: true})
	}
}
