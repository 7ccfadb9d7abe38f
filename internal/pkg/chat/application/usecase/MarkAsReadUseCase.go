package usecase

import (
	"context"
	"fmt"

	cacheport "github.com/ArifMiah07/vibe-chat-backend/internal/infrastructure/cache/port"
	chat "github.com/ArifMiah07/vibe-chat-backend/internal/pkg/chat/application/domain"
	repository "github.com/ArifMiah07/vibe-chat-backend/internal/pkg/chat/persistence/repository/port"

	"github.com/google/uuid"
)

// MarkAsReadInput flips the read flag on every unread message from SenderID
// addressed to ReceiverID (the authenticated caller).
type MarkAsReadInput struct {
	SenderID   string
	ReceiverID string
}

// MarkAsReadUseCase marks a pairwise conversation as read and returns how
// many messages changed state. The operation is idempotent: a second call
// reports zero modified messages. Notifying the original sender is the
// caller's concern.
type MarkAsReadUseCase struct {
	Messages repository.MessageRepository
	Cache    cacheport.Cache // optional; unread badge invalidation
}

func NewMarkAsReadUseCase(messages repository.MessageRepository, cache cacheport.Cache) *MarkAsReadUseCase {
	return &MarkAsReadUseCase{Messages: messages, Cache: cache}
}

func (uc *MarkAsReadUseCase) Execute(ctx context.Context, in MarkAsReadInput) (int64, error) {
	if uuid.Validate(in.SenderID) != nil {
		return 0, chat.ErrInvalidUserID
	}

	modified, err := uc.Messages.MarkConversationRead(ctx, in.SenderID, in.ReceiverID)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	// The cached unread badge is now stale; drop it so the next read
	// recomputes. Best-effort, the store already holds the truth.
	if uc.Cache != nil && modified > 0 {
		_, _ = uc.Cache.Del(ctx, UnreadBadgeKey(in.ReceiverID))
	}
	return modified, nil
}
