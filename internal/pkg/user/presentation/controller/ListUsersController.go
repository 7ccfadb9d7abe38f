package controller

import (
	"context"
	"net/http"
	"time"

	"github.com/ArifMiah07/vibe-chat-backend/internal/auth"
	"github.com/ArifMiah07/vibe-chat-backend/internal/pkg/user/application/usecase"
	user "github.com/ArifMiah07/vibe-chat-backend/internal/pkg/user/domain"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"
)

// ListUsersController returns every other account, as display refs only.
type ListUsersController struct {
	UC *usecase.ListUsersUseCase
}

func NewListUsersController(uc *usecase.ListUsersUseCase) *ListUsersController {
	return &ListUsersController{UC: uc}
}

func (h *ListUsersController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		u, ok := auth.CurrentUser(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "not authorized"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		users, err := h.UC.Execute(ctx, u.ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "server error"})
			return
		}

		refs := lo.Map(users, func(u user.User, _ int) user.Ref { return u.Ref() })
		c.JSON(http.StatusOK, gin.H{"success": true, "count": len(refs), "data": refs})
	}
}
