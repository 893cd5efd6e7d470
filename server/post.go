package server

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/vivemedellin/go-vivemedellin/publicapi"
	"github.com/vivemedellin/go-vivemedellin/service/persist"
	"github.com/vivemedellin/go-vivemedellin/util"
)

type createPostInput struct {
	Title   string `json:"title" binding:"required"`
	Content string `json:"content" binding:"required"`
}

func getFeed() gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, _ := strconv.Atoi(c.Query("limit"))

		posts, err := publicapi.For(c).Post.GetFeed(c, limit)
		if err != nil {
			handleError(c, err)
			return
		}

		c.JSON(http.StatusOK, postResponsesFrom(posts))
	}
}

func getPost() gin.HandlerFunc {
	return func(c *gin.Context) {
		post, err := publicapi.For(c).Post.GetPostByID(c, persist.DBID(c.Param("postID")))
		if err != nil {
			handleError(c, err)
			return
		}

		c.JSON(http.StatusOK, postResponseFrom(post))
	}
}

func createPost() gin.HandlerFunc {
	return func(c *gin.Context) {
		var input createPostInput
		if err := c.ShouldBindJSON(&input); err != nil {
			util.ErrResponse(c, http.StatusBadRequest, err)
			return
		}

		post, err := publicapi.For(c).Post.CreatePost(c, input.Title, input.Content)
		if err != nil {
			handleError(c, err)
			return
		}

		c.JSON(http.StatusCreated, postResponseFrom(post))
	}
}
