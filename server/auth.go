package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vivemedellin/go-vivemedellin/publicapi"
	"github.com/vivemedellin/go-vivemedellin/util"
)

type registerInput struct {
	Username string `json:"username" binding:"required"`
	Name     string `json:"name" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type loginInput struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func registerUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		var input registerInput
		if err := c.ShouldBindJSON(&input); err != nil {
			util.ErrResponse(c, http.StatusBadRequest, err)
			return
		}

		result, err := publicapi.For(c).Auth.Register(c, input.Username, input.Name, input.Password)
		if err != nil {
			handleError(c, err)
			return
		}

		c.JSON(http.StatusCreated, authResponseFrom(result))
	}
}

func loginUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		var input loginInput
		if err := c.ShouldBindJSON(&input); err != nil {
			util.ErrResponse(c, http.StatusBadRequest, err)
			return
		}

		result, err := publicapi.For(c).Auth.Login(c, input.Username, input.Password)
		if err != nil {
			handleError(c, err)
			return
		}

		c.JSON(http.StatusOK, authResponseFrom(result))
	}
}

func logoutUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := publicapi.For(c).Auth.Logout(c); err != nil {
			handleError(c, err)
			return
		}

		c.JSON(http.StatusOK, util.SuccessResponse{Success: true})
	}
}
