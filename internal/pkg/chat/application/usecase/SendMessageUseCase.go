package usecase

import (
	"context"
	"errors"
	"fmt"

	chat "github.com/ArifMiah07/vibe-chat-backend/internal/pkg/chat/application/domain"
	repository "github.com/ArifMiah07/vibe-chat-backend/internal/pkg/chat/persistence/repository/port"
	userport "github.com/ArifMiah07/vibe-chat-backend/internal/pkg/user/persistence/repository/port"
)

// SendMessageInput carries the data needed to send a new message.
type SendMessageInput struct {
	SenderID   string
	ReceiverID string
	Content    string
}

// SendMessageUseCase persists a direct message after checking that the
// receiver exists, and returns it enriched with sender/receiver display data.
// Persistence is authoritative: if it fails, nothing is relayed. Pushing the
// message to a live receiver connection is the caller's concern.
type SendMessageUseCase struct {
	Messages repository.MessageRepository
	Users    userport.UserRepository
}

func NewSendMessageUseCase(messages repository.MessageRepository, users userport.UserRepository) *SendMessageUseCase {
	return &SendMessageUseCase{Messages: messages, Users: users}
}

// Execute validates, persists and enriches a new message.
func (uc *SendMessageUseCase) Execute(ctx context.Context, in SendMessageInput) (*chat.Message, error) {
	msg, err := chat.NewMessage(in.SenderID, in.ReceiverID, in.Content)
	if err != nil {
		return nil, err
	}

	receiver, err := uc.Users.FindByID(ctx, in.ReceiverID)
	if err != nil {
		if errors.Is(err, userport.ErrUserNotFound) {
			return nil, fmt.Errorf("%w: receiver %s", ErrNotFound, in.ReceiverID)
		}
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	sender, err := uc.Users.FindByID(ctx, in.SenderID)
	if err != nil {
		// The sender was authenticated moments ago; any failure here is
		// infrastructure, not a missing account.
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	id, err := uc.Messages.CreateMessage(ctx, *msg)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	msg.ID = id

	senderRef := sender.Ref()
	receiverRef := receiver.Ref()
	msg.Sender = &senderRef
	msg.Receiver = &receiverRef
	return msg, nil
}
