package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	user "github.com/ArifMiah07/vibe-chat-backend/internal/pkg/user/domain"
	"github.com/ArifMiah07/vibe-chat-backend/internal/pkg/user/persistence/repository/port"

	"github.com/gin-gonic/gin"
)

// ContextUserKey is the gin context key holding the authenticated user.
const ContextUserKey = "auth.user"

const resolveTimeout = 3 * time.Second

// Middleware returns a gin handler that authenticates requests with a bearer
// token (Authorization header or "token" cookie) and resolves it to a user
// record. Unauthenticated requests are aborted with 401.
func Middleware(tokens *TokenManager, users port.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := BearerToken(c.Request)
		if token == "" {
			abortUnauthorized(c, "not authorized to access this route")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), resolveTimeout)
		defer cancel()

		u, err := ResolveToken(ctx, tokens, users, token)
		if err != nil {
			abortUnauthorized(c, "not authorized to access this route")
			return
		}

		c.Set(ContextUserKey, u)
		c.Next()
	}
}

// BearerToken extracts the credential from the Authorization header or the
// "token" cookie, in that order. Empty string means no credential supplied.
func BearerToken(r *http.Request) string {
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer ")
	}
	if cookie, err := r.Cookie("token"); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	return ""
}

// ResolveToken validates the token and loads the user it identifies.
// It is shared between the HTTP middleware and the websocket handshake.
func ResolveToken(ctx context.Context, tokens *TokenManager, users port.UserRepository, token string) (*user.User, error) {
	claims, err := tokens.Validate(token)
	if err != nil {
		return nil, err
	}
	u, err := users.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, port.ErrUserNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	return u, nil
}

// CurrentUser returns the authenticated user attached by Middleware.
func CurrentUser(c *gin.Context) (*user.User, bool) {
	v, ok := c.Get(ContextUserKey)
	if !ok {
		return nil, false
	}
	u, ok := v.(*user.User)
	return u, ok
}

func abortUnauthorized(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"success": false,
		"message": msg,
	})
}
