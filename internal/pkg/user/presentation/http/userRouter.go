package http

import (
	"time"

	"github.com/ArifMiah07/vibe-chat-backend/internal/auth"
	"github.com/ArifMiah07/vibe-chat-backend/internal/pkg/user/application/usecase"
	"github.com/ArifMiah07/vibe-chat-backend/internal/pkg/user/persistence/repository/port"
	"github.com/ArifMiah07/vibe-chat-backend/internal/pkg/user/presentation/controller"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers auth and user endpoints under the given router
// group.
func RegisterRoutes(g *gin.RouterGroup, tokens *auth.TokenManager, users port.UserRepository, tokenTTL time.Duration) {
	registerCtl := controller.NewRegisterController(usecase.NewRegisterUserUseCase(users, tokens), tokenTTL)
	loginCtl := controller.NewLoginController(usecase.NewLoginUseCase(users, tokens), tokenTTL)
	meCtl := controller.NewMeController()
	listCtl := controller.NewListUsersController(usecase.NewListUsersUseCase(users))
	getCtl := controller.NewGetUserController(usecase.NewGetUserUseCase(users))

	g.POST("/auth/register", registerCtl.Handle())
	g.POST("/auth/login", loginCtl.Handle())

	protected := g.Group("", auth.Middleware(tokens, users))
	protected.GET("/auth/me", meCtl.Handle())
	protected.GET("/users", listCtl.Handle())
	protected.GET("/users/:id", getCtl.Handle())
}
