package controller

import (
	"encoding/json"

	"github.com/go-playground/validator/v10"
)

// Socket event names. Inbound names are what clients emit; outbound names are
// what this server pushes.
const (
	// inbound
	EventSendMessage     = "sendMessage"
	EventTyping          = "typing"
	EventStopTyping      = "stopTyping"
	EventMarkAsRead      = "markAsRead"
	EventGetOnlineStatus = "getOnlineStatus"
	EventJoinChat        = "joinChat"
	EventLeaveChat       = "leaveChat"

	// outbound
	EventOnlineUsers    = "onlineUsers"
	EventUserOnline     = "userOnline"
	EventUserOffline    = "userOffline"
	EventNewMessage     = "newMessage"
	EventUserTyping     = "userTyping"
	EventUserStopTyping = "userStopTyping"
	EventMessagesRead   = "messagesRead"
)

// validate checks inbound frame payloads before they reach a use case.
var validate = validator.New(validator.WithRequiredStructEnabled())

// inboundFrame is the envelope for every client-to-server event. Ref, when
// set, asks for an ack/error response carrying the same ref (the
// callback-style requests: sendMessage, getOnlineStatus, markAsRead).
type inboundFrame struct {
	Type string          `json:"type"`
	Ref  string          `json:"ref,omitempty"`
	Data json.RawMessage `json:"data,omitempty"`
}

type sendMessagePayload struct {
	Receiver string `json:"receiver" validate:"required,uuid"`
	Content  string `json:"content" validate:"required"`
}

type typingPayload struct {
	ReceiverID string `json:"receiverId" validate:"required,uuid"`
}

type markAsReadPayload struct {
	SenderID string `json:"senderId" validate:"required,uuid"`
}

type onlineStatusPayload struct {
	UserIDs []string `json:"userIds" validate:"required,min=1"`
}

type pairRoomPayload struct {
	UserID string `json:"userId" validate:"required,uuid"`
}

// userEvent is the data of presence/typing/read notifications.
type userEvent struct {
	UserID string `json:"userId"`
}

type outboundFrame struct {
	Type string `json:"type"`
	Data any    `json:"data,omitempty"`
}

type ackFrame struct {
	Type    string `json:"type"`
	Ref     string `json:"ref,omitempty"`
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
}

type errorFrame struct {
	Type  string `json:"type"`
	Ref   string `json:"ref,omitempty"`
	Code  string `json:"code"`
	Error string `json:"error"`
}

// eventFrame marshals a server push event. Marshal failures cannot happen for
// the payload types used here; a nil return is simply not sent.
func eventFrame(eventType string, data any) []byte {
	b, err := json.Marshal(outboundFrame{Type: eventType, Data: data})
	if err != nil {
		return nil
	}
	return b
}
