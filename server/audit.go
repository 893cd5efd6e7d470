package server

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/vivemedellin/go-vivemedellin/publicapi"
)

func getCommentDeletionAudit() gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, _ := strconv.Atoi(c.Query("limit"))

		records, err := publicapi.For(c).Audit.ListCommentDeletions(c, limit)
		if err != nil {
			handleError(c, err)
			return
		}

		c.JSON(http.StatusOK, auditResponsesFrom(records))
	}
}
