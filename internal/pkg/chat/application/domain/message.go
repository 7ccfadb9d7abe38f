package chat

import (
	"errors"
	"strings"
	"time"

	user "github.com/ArifMiah07/vibe-chat-backend/internal/pkg/user/domain"

	"github.com/google/uuid"
)

// Domain-level errors for direct messages
var (
	ErrEmptyContent  = errors.New("chat: message content is required")
	ErrInvalidUserID = errors.New("chat: invalid user id")
)

// Message is a persisted direct message between two users. It is immutable
// after creation except for the read flag, which only ever transitions
// false -> true.
type Message struct {
	ID         string    `db:"id" json:"id"`
	SenderID   string    `db:"sender_id" json:"senderId"`
	ReceiverID string    `db:"receiver_id" json:"receiverId"`
	Content    string    `db:"content" json:"content"`
	Read       bool      `db:"read" json:"read"`
	CreatedAt  time.Time `db:"created_at" json:"createdAt"`

	// Sender and Receiver carry display data resolved from the user store;
	// they are populated for API payloads, never persisted on the message row.
	Sender   *user.Ref `json:"sender,omitempty"`
	Receiver *user.Ref `json:"receiver,omitempty"`
}

// NewMessage validates sender, receiver and content and returns an unread
// message stamped with the current time.
func NewMessage(senderID, receiverID, content string) (*Message, error) {
	if uuid.Validate(senderID) != nil || uuid.Validate(receiverID) != nil {
		return nil, ErrInvalidUserID
	}

	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrEmptyContent
	}

	return &Message{
		SenderID:   senderID,
		ReceiverID: receiverID,
		Content:    content,
		Read:       false,
		CreatedAt:  time.Now().UTC(),
	}, nil
}
