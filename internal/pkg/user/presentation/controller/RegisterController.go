package controller

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/ArifMiah07/vibe-chat-backend/internal/pkg/user/application/usecase"
	user "github.com/ArifMiah07/vibe-chat-backend/internal/pkg/user/domain"

	"github.com/gin-gonic/gin"
)

// RegisterController handles account creation (one controller per endpoint).
type RegisterController struct {
	UC           *usecase.RegisterUserUseCase
	CookieMaxAge int
}

func NewRegisterController(uc *usecase.RegisterUserUseCase, tokenTTL time.Duration) *RegisterController {
	return &RegisterController{UC: uc, CookieMaxAge: int(tokenTTL.Seconds())}
}

type registerRequest struct {
	Name     string `json:"name" binding:"required,min=2"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

func (h *RegisterController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req registerRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		out, err := h.UC.Execute(ctx, usecase.RegisterUserInput{
			Name:     req.Name,
			Email:    req.Email,
			Password: req.Password,
		})
		if err != nil {
			status := http.StatusBadRequest
			switch {
			case errors.Is(err, usecase.ErrEmailTaken):
				status = http.StatusConflict
			case errors.Is(err, usecase.ErrPersistence):
				status = http.StatusInternalServerError
			}
			c.JSON(status, gin.H{"success": false, "message": err.Error()})
			return
		}

		sendTokenResponse(c, http.StatusCreated, out.User, out.Token, h.CookieMaxAge)
	}
}

// sendTokenResponse sets the http-only token cookie and writes the auth
// response body shared by register and login.
func sendTokenResponse(c *gin.Context, status int, u user.User, token string, maxAge int) {
	c.SetCookie("token", token, maxAge, "/", "", false, true)
	c.JSON(status, gin.H{
		"success": true,
		"token":   token,
		"user":    u.Ref(),
	})
}
