package controller

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/ArifMiah07/vibe-chat-backend/internal/auth"
	cacheport "github.com/ArifMiah07/vibe-chat-backend/internal/infrastructure/cache/port"
	qport "github.com/ArifMiah07/vibe-chat-backend/internal/infrastructure/queue/port"
	"github.com/ArifMiah07/vibe-chat-backend/internal/infrastructure/realtime"
	chat "github.com/ArifMiah07/vibe-chat-backend/internal/pkg/chat/application/domain"
	"github.com/ArifMiah07/vibe-chat-backend/internal/pkg/chat/application/task"
	"github.com/ArifMiah07/vibe-chat-backend/internal/pkg/chat/application/usecase"
	repository "github.com/ArifMiah07/vibe-chat-backend/internal/pkg/chat/persistence/repository/port"
	userport "github.com/ArifMiah07/vibe-chat-backend/internal/pkg/user/persistence/repository/port"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// ChatSocketController handles the websocket endpoint for realtime chat
// traffic: the authentication handshake, presence announcements, message
// relay and the ephemeral typing/read signals.
type ChatSocketController struct {
	hub             *realtime.Hub
	tokens          *auth.TokenManager
	users           userport.UserRepository
	sendMessageUC   *usecase.SendMessageUseCase
	markAsReadUC    *usecase.MarkAsReadUseCase
	queue           qport.Client
	inflightTimeout time.Duration
}

func NewChatSocketController(
	hub *realtime.Hub,
	tokens *auth.TokenManager,
	users userport.UserRepository,
	messages repository.MessageRepository,
	cache cacheport.Cache,
	queue qport.Client,
) *ChatSocketController {
	return &ChatSocketController{
		hub:             hub,
		tokens:          tokens,
		users:           users,
		sendMessageUC:   usecase.NewSendMessageUseCase(messages, users),
		markAsReadUC:    usecase.NewMarkAsReadUseCase(messages, cache),
		queue:           queue,
		inflightTimeout: 5 * time.Second,
	}
}

var wsUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Token auth gates the connection; origin is not part of the contract.
		return true
	},
}

const defaultReadTimeout = 60 * time.Second

// Handle upgrades HTTP connections to websocket after authenticating the
// bearer credential, then processes frames until the client disconnects.
// Unauthenticated attempts are refused before the upgrade: the connection is
// never registered and no event handling happens for it.
func (ctl *ChatSocketController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Query("token")
		if token == "" {
			token = auth.BearerToken(c.Request)
		}
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "token not provided"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), ctl.inflightTimeout)
		u, err := auth.ResolveToken(ctx, ctl.tokens, ctl.users, token)
		cancel()
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "authentication error"})
			return
		}

		ws, err := wsUpgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			// Upgrade already wrote the response; just return.
			return
		}

		conn := realtime.NewConnection(u.ID, ws)
		conn.Start()

		slog.Info("user connected", "user", u.ID, "name", u.Name)
		ctl.connect(conn)
		defer func() {
			slog.Info("user disconnected", "user", u.ID, "name", u.Name)
			ctl.disconnect(conn)
			conn.Close(websocket.CloseNormalClosure, "session closed")
		}()

		ws.SetReadLimit(1 << 20) // 1MB payload cap
		_ = ws.SetReadDeadline(time.Now().Add(defaultReadTimeout))
		ws.SetPongHandler(func(string) error {
			return ws.SetReadDeadline(time.Now().Add(defaultReadTimeout))
		})

		for {
			_, data, err := ws.ReadMessage()
			if err != nil {
				return
			}

			var frame inboundFrame
			if err := json.Unmarshal(data, &frame); err != nil {
				ctl.replyError(conn, "", "bad_request", "invalid payload")
				continue
			}

			ctl.dispatch(c.Request.Context(), conn, frame)
		}
	}
}

// connect registers the client, announces it to everyone else and hands the
// newcomer the online snapshot. The snapshot is captured atomically with the
// registration, so the newcomer can never observe a peer as both missing
// from the snapshot and silent on the broadcast.
func (ctl *ChatSocketController) connect(conn realtime.Client) {
	prev, snapshot := ctl.hub.Register(conn)
	if prev != nil {
		// Single active session per user: the superseded socket is closed
		// rather than left dangling without relay.
		prev.Close(4001, "session replaced")
	}

	_ = conn.Send(eventFrame(EventOnlineUsers, snapshot))
	ctl.hub.BroadcastExcept(conn.User(), eventFrame(EventUserOnline, userEvent{UserID: conn.User()}))
}

// disconnect removes the client and announces the departure. Safe to call
// more than once and after a session replacement: only the removal that
// actually evicts the registry entry broadcasts.
func (ctl *ChatSocketController) disconnect(conn realtime.Client) {
	if ctl.hub.Unregister(conn) {
		ctl.hub.BroadcastExcept(conn.User(), eventFrame(EventUserOffline, userEvent{UserID: conn.User()}))
	}
}

func (ctl *ChatSocketController) dispatch(ctx context.Context, conn realtime.Client, frame inboundFrame) {
	switch frame.Type {
	case EventSendMessage:
		ctl.handleSendMessage(ctx, conn, frame)
	case EventTyping:
		ctl.handleTyping(conn, frame, EventUserTyping)
	case EventStopTyping:
		ctl.handleTyping(conn, frame, EventUserStopTyping)
	case EventMarkAsRead:
		ctl.handleMarkAsRead(ctx, conn, frame)
	case EventGetOnlineStatus:
		ctl.handleOnlineStatus(conn, frame)
	case EventJoinChat:
		ctl.handlePairRoom(conn, frame, true)
	case EventLeaveChat:
		ctl.handlePairRoom(conn, frame, false)
	default:
		ctl.replyError(conn, frame.Ref, "bad_request", "unknown event type")
	}
}

// handleSendMessage persists the message, relays it to the receiver when
// online and acks the sender with the persisted record. Relay is
// fire-and-forget: a vanished receiver connection never fails the send.
func (ctl *ChatSocketController) handleSendMessage(ctx context.Context, conn realtime.Client, frame inboundFrame) {
	var p sendMessagePayload
	if err := json.Unmarshal(frame.Data, &p); err != nil {
		ctl.replyError(conn, frame.Ref, "bad_request", "invalid payload")
		return
	}
	if err := validate.Struct(p); err != nil {
		ctl.replyError(conn, frame.Ref, "bad_request", err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(ctx, ctl.inflightTimeout)
	defer cancel()

	msg, err := ctl.sendMessageUC.Execute(ctx, usecase.SendMessageInput{
		SenderID:   conn.User(),
		ReceiverID: p.Receiver,
		Content:    p.Content,
	})
	if err != nil {
		ctl.handleUseCaseError(conn, frame.Ref, err)
		return
	}

	if !ctl.hub.NotifyUser(msg.ReceiverID, eventFrame(EventNewMessage, msg)) {
		// Receiver offline (or the push failed): the persisted row is the
		// durable truth; kick the badge refresh in the background.
		task.EnqueueNotifyOffline(ctx, ctl.queue, msg.ReceiverID, msg.ID)
	}

	ctl.replyAck(conn, frame.Ref, msg)
}

// handleTyping forwards a typing/stop-typing signal to the receiver if it is
// online. No persistence, no ack, and an offline receiver is a silent no-op.
func (ctl *ChatSocketController) handleTyping(conn realtime.Client, frame inboundFrame, outEvent string) {
	var p typingPayload
	if err := json.Unmarshal(frame.Data, &p); err != nil {
		return
	}
	if err := validate.Struct(p); err != nil {
		return
	}
	ctl.hub.NotifyUser(p.ReceiverID, eventFrame(outEvent, userEvent{UserID: conn.User()}))
}

// handleMarkAsRead flips the read flag on the caller's unread messages from
// the given sender, then notifies that sender when online. Store failures
// surface to the caller; the notification is best-effort.
func (ctl *ChatSocketController) handleMarkAsRead(ctx context.Context, conn realtime.Client, frame inboundFrame) {
	var p markAsReadPayload
	if err := json.Unmarshal(frame.Data, &p); err != nil {
		ctl.replyError(conn, frame.Ref, "bad_request", "invalid payload")
		return
	}
	if err := validate.Struct(p); err != nil {
		ctl.replyError(conn, frame.Ref, "bad_request", err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(ctx, ctl.inflightTimeout)
	defer cancel()

	modified, err := ctl.markAsReadUC.Execute(ctx, usecase.MarkAsReadInput{
		SenderID:   p.SenderID,
		ReceiverID: conn.User(),
	})
	if err != nil {
		ctl.handleUseCaseError(conn, frame.Ref, err)
		return
	}

	ctl.hub.NotifyUser(p.SenderID, eventFrame(EventMessagesRead, userEvent{UserID: conn.User()}))
	ctl.replyAck(conn, frame.Ref, gin.H{"count": modified})
}

// handleOnlineStatus answers an online-status query synchronously against the
// registry.
func (ctl *ChatSocketController) handleOnlineStatus(conn realtime.Client, frame inboundFrame) {
	var p onlineStatusPayload
	if err := json.Unmarshal(frame.Data, &p); err != nil {
		ctl.replyError(conn, frame.Ref, "bad_request", "invalid payload")
		return
	}
	if err := validate.Struct(p); err != nil {
		ctl.replyError(conn, frame.Ref, "bad_request", err.Error())
		return
	}

	ctl.replyAck(conn, frame.Ref, ctl.hub.OnlineStatus(p.UserIDs))
}

// handlePairRoom joins or leaves the deterministic one-to-one room shared
// with the given peer.
func (ctl *ChatSocketController) handlePairRoom(conn realtime.Client, frame inboundFrame, join bool) {
	var p pairRoomPayload
	if err := json.Unmarshal(frame.Data, &p); err != nil {
		return
	}
	if err := validate.Struct(p); err != nil {
		return
	}

	roomID := realtime.PairRoomID(conn.User(), p.UserID)
	if join {
		ctl.hub.JoinRoom(roomID, conn)
		slog.Debug("user joined chat room", "user", conn.User(), "room", roomID)
	} else {
		ctl.hub.LeaveRoom(roomID, conn)
		slog.Debug("user left chat room", "user", conn.User(), "room", roomID)
	}
}

func (ctl *ChatSocketController) handleUseCaseError(conn realtime.Client, ref string, err error) {
	switch {
	case errors.Is(err, usecase.ErrNotFound):
		ctl.replyError(conn, ref, "not_found", err.Error())
	case errors.Is(err, usecase.ErrPersistence):
		ctl.replyError(conn, ref, "internal_error", "unexpected persistence error")
	case errors.Is(err, chat.ErrEmptyContent), errors.Is(err, chat.ErrInvalidUserID):
		ctl.replyError(conn, ref, "bad_request", err.Error())
	default:
		ctl.replyError(conn, ref, "bad_request", err.Error())
	}
}

func (ctl *ChatSocketController) replyAck(conn realtime.Client, ref string, data any) {
	if payload, err := json.Marshal(ackFrame{Type: "ack", Ref: ref, Success: true, Data: data}); err == nil {
		_ = conn.Send(payload)
	}
}

func (ctl *ChatSocketController) replyError(conn realtime.Client, ref string, code string, message string) {
	if payload, err := json.Marshal(errorFrame{Type: "error", Ref: ref, Code: code, Error: message}); err == nil {
		_ = conn.Send(payload)
	}
}
