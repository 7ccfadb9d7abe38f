package controller

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/ArifMiah07/vibe-chat-backend/internal/pkg/user/application/usecase"

	"github.com/gin-gonic/gin"
)

// GetUserController returns one account's display data by id.
type GetUserController struct {
	UC *usecase.GetUserUseCase
}

func NewGetUserController(uc *usecase.GetUserUseCase) *GetUserController {
	return &GetUserController{UC: uc}
}

func (h *GetUserController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		u, err := h.UC.Execute(ctx, c.Param("id"))
		if err != nil {
			if errors.Is(err, usecase.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "user not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "server error"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "data": u.Ref()})
	}
}
