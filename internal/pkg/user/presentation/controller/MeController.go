package controller

import (
	"net/http"

	"github.com/ArifMiah07/vibe-chat-backend/internal/auth"

	"github.com/gin-gonic/gin"
)

// MeController returns the authenticated user's own profile.
type MeController struct{}

func NewMeController() *MeController { return &MeController{} }

func (h *MeController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		u, ok := auth.CurrentUser(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "not authorized"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "user": u.Ref()})
	}
}
