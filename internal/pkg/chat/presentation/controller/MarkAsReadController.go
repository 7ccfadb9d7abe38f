package controller

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/ArifMiah07/vibe-chat-backend/internal/auth"
	"github.com/ArifMiah07/vibe-chat-backend/internal/infrastructure/realtime"
	chat "github.com/ArifMiah07/vibe-chat-backend/internal/pkg/chat/application/domain"
	"github.com/ArifMiah07/vibe-chat-backend/internal/pkg/chat/application/usecase"

	"github.com/gin-gonic/gin"
)

// MarkAsReadController marks every unread message from :userId to the caller
// as read and pushes a read receipt to the sender when online.
type MarkAsReadController struct {
	UC  *usecase.MarkAsReadUseCase
	hub *realtime.Hub
}

func NewMarkAsReadController(uc *usecase.MarkAsReadUseCase, hub *realtime.Hub) *MarkAsReadController {
	return &MarkAsReadController{UC: uc, hub: hub}
}

func (h *MarkAsReadController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		u, ok := auth.CurrentUser(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "not authorized"})
			return
		}

		senderID := c.Param("userId")

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		modified, err := h.UC.Execute(ctx, usecase.MarkAsReadInput{
			SenderID:   senderID,
			ReceiverID: u.ID,
		})
		if err != nil {
			status := http.StatusInternalServerError
			if errors.Is(err, chat.ErrInvalidUserID) {
				status = http.StatusBadRequest
			}
			c.JSON(status, gin.H{"success": false, "message": err.Error()})
			return
		}

		// Read receipt to the original sender, best-effort.
		h.hub.NotifyUser(senderID, eventFrame(EventMessagesRead, userEvent{UserID: u.ID}))

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"count":   modified,
			"message": fmt.Sprintf("Marked %d messages as read", modified),
		})
	}
}
