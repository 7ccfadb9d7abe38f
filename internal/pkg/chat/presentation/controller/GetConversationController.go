package controller

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/ArifMiah07/vibe-chat-backend/internal/auth"
	chat "github.com/ArifMiah07/vibe-chat-backend/internal/pkg/chat/application/domain"
	"github.com/ArifMiah07/vibe-chat-backend/internal/pkg/chat/application/usecase"

	"github.com/gin-gonic/gin"
)

// GetConversationController returns the pairwise history between the caller
// and another user, oldest first (one controller per endpoint).
type GetConversationController struct {
	UC *usecase.GetConversationUseCase
}

func NewGetConversationController(uc *usecase.GetConversationUseCase) *GetConversationController {
	return &GetConversationController{UC: uc}
}

func (h *GetConversationController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		u, ok := auth.CurrentUser(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "not authorized"})
			return
		}

		otherID := c.Param("userId")

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		msgs, err := h.UC.Execute(ctx, usecase.GetConversationInput{
			UserID:      u.ID,
			OtherUserID: otherID,
		})
		if err != nil {
			status := http.StatusBadRequest
			switch {
			case errors.Is(err, usecase.ErrNotFound):
				status = http.StatusNotFound
			case errors.Is(err, usecase.ErrPersistence):
				status = http.StatusInternalServerError
			case errors.Is(err, chat.ErrInvalidUserID):
				status = http.StatusBadRequest
			}
			c.JSON(status, gin.H{"success": false, "message": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"count":   len(msgs),
			"data":    msgs,
		})
	}
}
