package port

import (
	"context"

	chat "github.com/ArifMiah07/vibe-chat-backend/internal/pkg/chat/application/domain"
)

// MessageRepository defines persistence operations for direct messages.
type MessageRepository interface {
	// CreateMessage persists m and returns the generated id.
	CreateMessage(ctx context.Context, m chat.Message) (string, error)

	// FindMessagesBetween returns all messages exchanged between a and b in
	// either direction, ordered by creation time ascending, with sender and
	// receiver display data resolved.
	FindMessagesBetween(ctx context.Context, a, b string) ([]chat.Message, error)

	// MarkConversationRead flips read=false to true on every message from
	// senderID to receiverID and returns the number of rows modified.
	// Calling it again immediately modifies zero rows.
	MarkConversationRead(ctx context.Context, senderID, receiverID string) (int64, error)

	// CountUnread returns the number of unread messages addressed to receiverID.
	CountUnread(ctx context.Context, receiverID string) (int64, error)
}
