package usecase

import (
	"context"
	"fmt"

	user "github.com/ArifMiah07/vibe-chat-backend/internal/pkg/user/domain"
	"github.com/ArifMiah07/vibe-chat-backend/internal/pkg/user/persistence/repository/port"
)

// ListUsersUseCase returns every account except the caller's own, for the
// contact picker.
type ListUsersUseCase struct {
	Users port.UserRepository
}

func NewListUsersUseCase(users port.UserRepository) *ListUsersUseCase {
	return &ListUsersUseCase{Users: users}
}

func (uc *ListUsersUseCase) Execute(ctx context.Context, callerID string) ([]user.User, error) {
	users, err := uc.Users.List(ctx, callerID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return users, nil
}
