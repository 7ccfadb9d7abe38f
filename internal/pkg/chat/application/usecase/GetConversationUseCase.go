package usecase

import (
	"context"
	"errors"
	"fmt"

	chat "github.com/ArifMiah07/vibe-chat-backend/internal/pkg/chat/application/domain"
	repository "github.com/ArifMiah07/vibe-chat-backend/internal/pkg/chat/persistence/repository/port"
	userport "github.com/ArifMiah07/vibe-chat-backend/internal/pkg/user/persistence/repository/port"

	"github.com/google/uuid"
)

// GetConversationInput identifies the two ends of the history fetch.
type GetConversationInput struct {
	UserID      string // the authenticated caller
	OtherUserID string
}

// GetConversationUseCase fetches the pairwise message history between the
// caller and another user, oldest first.
type GetConversationUseCase struct {
	Messages repository.MessageRepository
	Users    userport.UserRepository
}

func NewGetConversationUseCase(messages repository.MessageRepository, users userport.UserRepository) *GetConversationUseCase {
	return &GetConversationUseCase{Messages: messages, Users: users}
}

func (uc *GetConversationUseCase) Execute(ctx context.Context, in GetConversationInput) ([]chat.Message, error) {
	if uuid.Validate(in.OtherUserID) != nil {
		return nil, chat.ErrInvalidUserID
	}

	if _, err := uc.Users.FindByID(ctx, in.OtherUserID); err != nil {
		if errors.Is(err, userport.ErrUserNotFound) {
			return nil, fmt.Errorf("%w: user %s", ErrNotFound, in.OtherUserID)
		}
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	msgs, err := uc.Messages.FindMessagesBetween(ctx, in.UserID, in.OtherUserID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return msgs, nil
}
