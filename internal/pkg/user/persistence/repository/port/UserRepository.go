package port

import (
	"context"
	"errors"

	user "github.com/ArifMiah07/vibe-chat-backend/internal/pkg/user/domain"
)

// ErrUserNotFound signals that a lookup matched no row. Adapters must return
// it (possibly wrapped) instead of a driver-specific not-found error.
var ErrUserNotFound = errors.New("user repository: not found")

// ErrEmailTaken signals a unique-constraint violation on registration.
var ErrEmailTaken = errors.New("user repository: email already registered")

// UserRepository defines persistence operations for user accounts.
type UserRepository interface {
	Create(ctx context.Context, u user.User) (string, error)
	FindByID(ctx context.Context, id string) (*user.User, error)
	FindByEmail(ctx context.Context, email string) (*user.User, error)
	List(ctx context.Context, excludeID string) ([]user.User, error)
}
