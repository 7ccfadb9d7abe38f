package controller

import (
	"context"
	"net/http"
	"time"

	"github.com/ArifMiah07/vibe-chat-backend/internal/auth"
	"github.com/ArifMiah07/vibe-chat-backend/internal/pkg/chat/application/usecase"

	"github.com/gin-gonic/gin"
)

// UnreadCountController serves the caller's unread-message badge from the
// cache, falling back to the store.
type UnreadCountController struct {
	UC *usecase.UnreadCountUseCase
}

func NewUnreadCountController(uc *usecase.UnreadCountUseCase) *UnreadCountController {
	return &UnreadCountController{UC: uc}
}

func (h *UnreadCountController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		u, ok := auth.CurrentUser(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "not authorized"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		count, err := h.UC.Execute(ctx, u.ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "server error"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "count": count})
	}
}
