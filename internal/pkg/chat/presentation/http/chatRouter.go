package http

import (
	"github.com/ArifMiah07/vibe-chat-backend/internal/auth"
	cacheport "github.com/ArifMiah07/vibe-chat-backend/internal/infrastructure/cache/port"
	qport "github.com/ArifMiah07/vibe-chat-backend/internal/infrastructure/queue/port"
	"github.com/ArifMiah07/vibe-chat-backend/internal/infrastructure/realtime"
	"github.com/ArifMiah07/vibe-chat-backend/internal/pkg/chat/application/usecase"
	repository "github.com/ArifMiah07/vibe-chat-backend/internal/pkg/chat/persistence/repository/port"
	"github.com/ArifMiah07/vibe-chat-backend/internal/pkg/chat/presentation/controller"
	userport "github.com/ArifMiah07/vibe-chat-backend/internal/pkg/user/persistence/repository/port"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers message endpoints and the websocket endpoint under
// the given router group. It constructs per-endpoint controllers and binds
// them directly to routes.
func RegisterRoutes(
	g *gin.RouterGroup,
	hub *realtime.Hub,
	tokens *auth.TokenManager,
	users userport.UserRepository,
	messages repository.MessageRepository,
	cache cacheport.Cache,
	queue qport.Client,
) {
	sendUC := usecase.NewSendMessageUseCase(messages, users)
	getUC := usecase.NewGetConversationUseCase(messages, users)
	readUC := usecase.NewMarkAsReadUseCase(messages, cache)
	unreadUC := usecase.NewUnreadCountUseCase(messages, cache)

	sendCtl := controller.NewSendMessageController(sendUC, hub, queue)
	getCtl := controller.NewGetConversationController(getUC)
	readCtl := controller.NewMarkAsReadController(readUC, hub)
	unreadCtl := controller.NewUnreadCountController(unreadUC)
	socketCtl := controller.NewChatSocketController(hub, tokens, users, messages, cache, queue)

	protected := g.Group("/messages", auth.Middleware(tokens, users))
	protected.POST("", sendCtl.Handle())
	protected.GET("/unread", unreadCtl.Handle())
	protected.GET("/:userId", getCtl.Handle())
	protected.PUT("/read/:userId", readCtl.Handle())

	// The socket endpoint authenticates during its own handshake.
	g.GET("/chat/ws", socketCtl.Handle())
}
