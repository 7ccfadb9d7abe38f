package v1

import (
	"time"

	"github.com/ArifMiah07/vibe-chat-backend/internal/auth"
	cacheport "github.com/ArifMiah07/vibe-chat-backend/internal/infrastructure/cache/port"
	qport "github.com/ArifMiah07/vibe-chat-backend/internal/infrastructure/queue/port"
	"github.com/ArifMiah07/vibe-chat-backend/internal/infrastructure/realtime"
	repository "github.com/ArifMiah07/vibe-chat-backend/internal/pkg/chat/persistence/repository/port"
	chathttp "github.com/ArifMiah07/vibe-chat-backend/internal/pkg/chat/presentation/http"
	userport "github.com/ArifMiah07/vibe-chat-backend/internal/pkg/user/persistence/repository/port"
	userhttp "github.com/ArifMiah07/vibe-chat-backend/internal/pkg/user/presentation/http"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts all version 1 API routes under /api/v1.
func RegisterRoutes(
	r *gin.Engine,
	hub *realtime.Hub,
	tokens *auth.TokenManager,
	tokenTTL time.Duration,
	users userport.UserRepository,
	messages repository.MessageRepository,
	cache cacheport.Cache,
	queue qport.Client,
) {
	v1 := r.Group("/api/v1")
	userhttp.RegisterRoutes(v1, tokens, users, tokenTTL)
	chathttp.RegisterRoutes(v1, hub, tokens, users, messages, cache, queue)
}
