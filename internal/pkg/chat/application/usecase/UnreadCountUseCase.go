package usecase

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	cacheport "github.com/ArifMiah07/vibe-chat-backend/internal/infrastructure/cache/port"
	repository "github.com/ArifMiah07/vibe-chat-backend/internal/pkg/chat/persistence/repository/port"
)

const unreadBadgeTTL = 10 * time.Minute

// UnreadBadgeKey is the cache key holding a user's unread-message count.
func UnreadBadgeKey(userID string) string { return "unread:" + userID }

// UnreadCountUseCase answers "how many unread messages do I have" through the
// cache, falling back to the store on a miss. The background worker refreshes
// the same key when messages arrive for offline users.
type UnreadCountUseCase struct {
	Messages repository.MessageRepository
	Cache    cacheport.Cache
}

func NewUnreadCountUseCase(messages repository.MessageRepository, cache cacheport.Cache) *UnreadCountUseCase {
	return &UnreadCountUseCase{Messages: messages, Cache: cache}
}

func (uc *UnreadCountUseCase) Execute(ctx context.Context, userID string) (int64, error) {
	if uc.Cache != nil {
		if raw, err := uc.Cache.Get(ctx, UnreadBadgeKey(userID)); err == nil {
			if count, err := strconv.ParseInt(raw, 10, 64); err == nil {
				return count, nil
			}
		} else if !errors.Is(err, cacheport.ErrMiss) {
			// Degrade to the store on cache trouble.
			_ = err
		}
	}

	count, err := uc.Messages.CountUnread(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	if uc.Cache != nil {
		_ = uc.Cache.Set(ctx, UnreadBadgeKey(userID), strconv.FormatInt(count, 10), unreadBadgeTTL)
	}
	return count, nil
}
