package controller

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/ArifMiah07/vibe-chat-backend/internal/pkg/user/application/usecase"

	"github.com/gin-gonic/gin"
)

// LoginController handles credential login (one controller per endpoint).
type LoginController struct {
	UC           *usecase.LoginUseCase
	CookieMaxAge int
}

func NewLoginController(uc *usecase.LoginUseCase, tokenTTL time.Duration) *LoginController {
	return &LoginController{UC: uc, CookieMaxAge: int(tokenTTL.Seconds())}
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (h *LoginController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req loginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		out, err := h.UC.Execute(ctx, usecase.LoginInput{Email: req.Email, Password: req.Password})
		if err != nil {
			if errors.Is(err, usecase.ErrInvalidCredentials) {
				c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "invalid credentials"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "server error"})
			return
		}

		sendTokenResponse(c, http.StatusOK, out.User, out.Token, h.CookieMaxAge)
	}
}
