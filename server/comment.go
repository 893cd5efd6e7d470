package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vivemedellin/go-vivemedellin/publicapi"
	"github.com/vivemedellin/go-vivemedellin/service/persist"
	"github.com/vivemedellin/go-vivemedellin/util"
)

type addCommentInput struct {
	Content         string       `json:"content" binding:"required"`
	ParentCommentID persist.DBID `json:"parentCommentId"`
}

type replyInput struct {
	Content string `json:"content" binding:"required"`
}

type updateCommentInput struct {
	Content string `json:"content" binding:"required"`
}

type removeCommentInput struct {
	Reason string `json:"reason"`
}

// commentMutationResponse carries the mutation's subject plus the post's
// refreshed thread so clients don't need a second round trip.
type commentMutationResponse struct {
	Comment  *commentResponse  `json:"comment,omitempty"`
	Deleted  []persist.DBID    `json:"deletedIds,omitempty"`
	Comments []commentResponse `json:"comments"`
}

func getComments() gin.HandlerFunc {
	return func(c *gin.Context) {
		forest, err := publicapi.For(c).Comment.GetCommentsByPostID(c, persist.DBID(c.Param("postID")))
		if err != nil {
			handleError(c, err)
			return
		}

		c.JSON(http.StatusOK, commentForestFrom(forest))
	}
}

func addComment() gin.HandlerFunc {
	return func(c *gin.Context) {
		var input addCommentInput
		if err := c.ShouldBindJSON(&input); err != nil {
			util.ErrResponse(c, http.StatusBadRequest, err)
			return
		}

		api := publicapi.For(c)
		created, err := api.Comment.AddComment(c, persist.DBID(c.Param("postID")), input.ParentCommentID, input.Content)
		if err != nil {
			handleError(c, err)
			return
		}

		respondWithThread(c, http.StatusCreated, api, created)
	}
}

func replyToComment() gin.HandlerFunc {
	return func(c *gin.Context) {
		var input replyInput
		if err := c.ShouldBindJSON(&input); err != nil {
			util.ErrResponse(c, http.StatusBadRequest, err)
			return
		}

		api := publicapi.For(c)
		created, err := api.Comment.ReplyToComment(c, persist.DBID(c.Param("commentID")), input.Content)
		if err != nil {
			handleError(c, err)
			return
		}

		respondWithThread(c, http.StatusCreated, api, created)
	}
}

func updateComment() gin.HandlerFunc {
	return func(c *gin.Context) {
		var input updateCommentInput
		if err := c.ShouldBindJSON(&input); err != nil {
			util.ErrResponse(c, http.StatusBadRequest, err)
			return
		}

		updated, err := publicapi.For(c).Comment.UpdateComment(c, persist.DBID(c.Param("commentID")), input.Content)
		if err != nil {
			handleError(c, err)
			return
		}

		c.JSON(http.StatusOK, commentResponseFrom(updated))
	}
}

func removeComment() gin.HandlerFunc {
	return func(c *gin.Context) {
		// The body is optional; only admin removals need a reason.
		var input removeCommentInput
		if c.Request.ContentLength > 0 {
			if err := c.ShouldBindJSON(&input); err != nil {
				util.ErrResponse(c, http.StatusBadRequest, err)
				return
			}
		}

		api := publicapi.For(c)
		commentID := persist.DBID(c.Param("commentID"))

		existing, err := api.Comment.GetCommentByID(c, commentID)
		if err != nil {
			handleError(c, err)
			return
		}

		removed, err := api.Comment.RemoveComment(c, commentID, input.Reason)
		if err != nil {
			handleError(c, err)
			return
		}

		forest, err := api.Comment.GetCommentsByPostID(c, existing.PostID)
		if err != nil {
			handleError(c, err)
			return
		}

		c.JSON(http.StatusOK, commentMutationResponse{
			Deleted:  removed,
			Comments: commentForestFrom(forest),
		})
	}
}

func respondWithThread(c *gin.Context, status int, api *publicapi.PublicAPI, created persist.Comment) {
	forest, err := api.Comment.GetCommentsByPostID(c, created.PostID)
	if err != nil {
		handleError(c, err)
		return
	}

	resp := commentResponseFrom(created)
	c.JSON(status, commentMutationResponse{
		Comment:  &resp,
		Comments: commentForestFrom(forest),
	})
}
