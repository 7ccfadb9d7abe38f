package usecase

import (
	"context"
	"errors"
	"fmt"

	user "github.com/ArifMiah07/vibe-chat-backend/internal/pkg/user/domain"
	"github.com/ArifMiah07/vibe-chat-backend/internal/pkg/user/persistence/repository/port"

	"github.com/google/uuid"
)

// GetUserUseCase fetches a single account by id.
type GetUserUseCase struct {
	Users port.UserRepository
}

func NewGetUserUseCase(users port.UserRepository) *GetUserUseCase {
	return &GetUserUseCase{Users: users}
}

func (uc *GetUserUseCase) Execute(ctx context.Context, id string) (*user.User, error) {
	if uuid.Validate(id) != nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	u, err := uc.Users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, port.ErrUserNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return u, nil
}
