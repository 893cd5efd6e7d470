package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vivemedellin/go-vivemedellin/publicapi"
	"github.com/vivemedellin/go-vivemedellin/service/persist"
)

func savePost() gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := publicapi.For(c).Save.SavePost(c, persist.DBID(c.Param("postID"))); err != nil {
			handleError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Publicación guardada"})
	}
}

func unsavePost() gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := publicapi.For(c).Save.UnsavePost(c, persist.DBID(c.Param("postID"))); err != nil {
			handleError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Publicación eliminada de guardados"})
	}
}

func checkPostSaved() gin.HandlerFunc {
	return func(c *gin.Context) {
		saved, err := publicapi.For(c).Save.IsPostSaved(c, persist.DBID(c.Param("postID")))
		if err != nil {
			handleError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"saved": saved})
	}
}

func getSavedPosts() gin.HandlerFunc {
	return func(c *gin.Context) {
		posts, err := publicapi.For(c).Save.GetSavedPosts(c)
		if err != nil {
			handleError(c, err)
			return
		}

		c.JSON(http.StatusOK, postResponsesFrom(posts))
	}
}
