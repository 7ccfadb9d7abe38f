package controller

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/ArifMiah07/vibe-chat-backend/internal/auth"
	qport "github.com/ArifMiah07/vibe-chat-backend/internal/infrastructure/queue/port"
	"github.com/ArifMiah07/vibe-chat-backend/internal/infrastructure/realtime"
	chat "github.com/ArifMiah07/vibe-chat-backend/internal/pkg/chat/application/domain"
	"github.com/ArifMiah07/vibe-chat-backend/internal/pkg/chat/application/task"
	"github.com/ArifMiah07/vibe-chat-backend/internal/pkg/chat/application/usecase"

	"github.com/gin-gonic/gin"
)

// SendMessageController handles the REST send-message endpoint (one
// controller per endpoint). The message goes through the same persist-then-
// relay path as the socket event.
type SendMessageController struct {
	UC    *usecase.SendMessageUseCase
	hub   *realtime.Hub
	queue qport.Client
}

func NewSendMessageController(uc *usecase.SendMessageUseCase, hub *realtime.Hub, queue qport.Client) *SendMessageController {
	return &SendMessageController{UC: uc, hub: hub, queue: queue}
}

// sendMessageRequest is the DTO for the HTTP request body
type sendMessageRequest struct {
	Receiver string `json:"receiver" binding:"required"`
	Content  string `json:"content" binding:"required"`
}

func (h *SendMessageController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		u, ok := auth.CurrentUser(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "not authorized"})
			return
		}

		var req sendMessageRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		msg, err := h.UC.Execute(ctx, usecase.SendMessageInput{
			SenderID:   u.ID,
			ReceiverID: req.Receiver,
			Content:    req.Content,
		})
		if err != nil {
			status := http.StatusBadRequest
			switch {
			case errors.Is(err, usecase.ErrNotFound):
				status = http.StatusNotFound
			case errors.Is(err, usecase.ErrPersistence):
				status = http.StatusInternalServerError
			case errors.Is(err, chat.ErrEmptyContent), errors.Is(err, chat.ErrInvalidUserID):
				status = http.StatusBadRequest
			}
			c.JSON(status, gin.H{"success": false, "message": err.Error()})
			return
		}

		// Best-effort realtime notification; the 201 does not depend on it.
		if !h.hub.NotifyUser(msg.ReceiverID, eventFrame(EventNewMessage, msg)) {
			task.EnqueueNotifyOffline(ctx, h.queue, msg.ReceiverID, msg.ID)
		}

		c.JSON(http.StatusCreated, gin.H{"success": true, "data": msg})
	}
}
