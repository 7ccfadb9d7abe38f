package task

import (
	"context"
	"encoding/json"
	"log/slog"
	"strconv"
	"time"

	cacheport "github.com/ArifMiah07/vibe-chat-backend/internal/infrastructure/cache/port"
	qport "github.com/ArifMiah07/vibe-chat-backend/internal/infrastructure/queue/port"
	"github.com/ArifMiah07/vibe-chat-backend/internal/pkg/chat/application/usecase"
	repository "github.com/ArifMiah07/vibe-chat-backend/internal/pkg/chat/persistence/repository/port"
)

// NotifyOfflineTaskType is the queue task name for handling a message that
// was persisted while its receiver had no live connection.
const NotifyOfflineTaskType = "chat:notify_offline"

const unreadBadgeTTL = 10 * time.Minute

// NotifyOfflineTaskPayload is the JSON payload transported via the queue.
// Kept decoupled from domain types to avoid tight coupling with JSON tags.
type NotifyOfflineTaskPayload struct {
	ReceiverID string `json:"receiverId"`
	MessageID  string `json:"messageId"`
}

// EnqueueNotifyOffline schedules offline-receiver handling for a persisted
// message. Strictly best-effort: the message row is already the durable
// source of truth, so enqueue failures are logged and swallowed.
func EnqueueNotifyOffline(ctx context.Context, client qport.Client, receiverID, messageID string) {
	if client == nil {
		return
	}
	b, err := json.Marshal(NotifyOfflineTaskPayload{ReceiverID: receiverID, MessageID: messageID})
	if err != nil {
		return
	}
	opts := qport.EnqueueOption{Queue: "chat", MaxRetry: 5}
	if _, err := client.Enqueue(ctx, qport.Task{Type: NotifyOfflineTaskType, Payload: b}, opts); err != nil {
		slog.Warn("failed to enqueue offline notification", "receiver", receiverID, "error", err)
	}
}

// RegisterNotifyOfflineTask binds the task handler to the provided server.
// The handler recomputes the receiver's unread count from the store and
// refreshes the cached badge the client polls when it comes back online.
func RegisterNotifyOfflineTask(srv qport.Server, messages repository.MessageRepository, cache cacheport.Cache) {
	srv.Register(NotifyOfflineTaskType, func(ctx context.Context, t qport.Task) error {
		var p NotifyOfflineTaskPayload
		if err := json.Unmarshal(t.Payload, &p); err != nil {
			// malformed payload: do not retry indefinitely
			return err
		}

		ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()

		count, err := messages.CountUnread(ctx, p.ReceiverID)
		if err != nil {
			return err
		}
		if cache != nil {
			if err := cache.Set(ctx, usecase.UnreadBadgeKey(p.ReceiverID), strconv.FormatInt(count, 10), unreadBadgeTTL); err != nil {
				return err
			}
		}

		slog.Info("offline message notification processed",
			"receiver", p.ReceiverID, "message", p.MessageID, "unread", count)
		return nil
	})
}
