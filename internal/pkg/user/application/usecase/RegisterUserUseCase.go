package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/ArifMiah07/vibe-chat-backend/internal/auth"
	user "github.com/ArifMiah07/vibe-chat-backend/internal/pkg/user/domain"
	"github.com/ArifMiah07/vibe-chat-backend/internal/pkg/user/persistence/repository/port"
)

// RegisterUserInput carries registration data.
type RegisterUserInput struct {
	Name     string
	Email    string
	Password string
}

// RegisterUserOutput is the created account plus its session token.
type RegisterUserOutput struct {
	User  user.User
	Token string
}

// RegisterUserUseCase creates an account with a hashed password and issues a
// session token for it.
type RegisterUserUseCase struct {
	Users  port.UserRepository
	Tokens *auth.TokenManager
}

func NewRegisterUserUseCase(users port.UserRepository, tokens *auth.TokenManager) *RegisterUserUseCase {
	return &RegisterUserUseCase{Users: users, Tokens: tokens}
}

func (uc *RegisterUserUseCase) Execute(ctx context.Context, in RegisterUserInput) (*RegisterUserOutput, error) {
	u, err := user.New(in.Name, in.Email, in.Password)
	if err != nil {
		return nil, err
	}

	id, err := uc.Users.Create(ctx, *u)
	if err != nil {
		if errors.Is(err, port.ErrEmailTaken) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	u.ID = id

	token, err := uc.Tokens.Generate(u.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	return &RegisterUserOutput{User: *u, Token: token}, nil
}
