package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ArifMiah07/vibe-chat-backend/internal/auth"
	user "github.com/ArifMiah07/vibe-chat-backend/internal/pkg/user/domain"
	"github.com/ArifMiah07/vibe-chat-backend/internal/pkg/user/persistence/repository/port"
)

// LoginInput carries credentials for the login flow.
type LoginInput struct {
	Email    string
	Password string
}

// LoginOutput is the authenticated account plus its session token.
type LoginOutput struct {
	User  user.User
	Token string
}

// LoginUseCase verifies credentials against the stored bcrypt hash and issues
// a session token. An unknown email and a wrong password produce the same
// error, so the endpoint does not leak which accounts exist.
type LoginUseCase struct {
	Users  port.UserRepository
	Tokens *auth.TokenManager
}

func NewLoginUseCase(users port.UserRepository, tokens *auth.TokenManager) *LoginUseCase {
	return &LoginUseCase{Users: users, Tokens: tokens}
}

func (uc *LoginUseCase) Execute(ctx context.Context, in LoginInput) (*LoginOutput, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))

	u, err := uc.Users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, port.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	if !u.CheckPassword(in.Password) {
		return nil, ErrInvalidCredentials
	}

	token, err := uc.Tokens.Generate(u.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	return &LoginOutput{User: *u, Token: token}, nil
}
