package controller

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	qport "github.com/ArifMiah07/vibe-chat-backend/internal/infrastructure/queue/port"
	"github.com/ArifMiah07/vibe-chat-backend/internal/infrastructure/realtime"
	chat "github.com/ArifMiah07/vibe-chat-backend/internal/pkg/chat/application/domain"
	"github.com/ArifMiah07/vibe-chat-backend/internal/pkg/chat/application/task"
	user "github.com/ArifMiah07/vibe-chat-backend/internal/pkg/user/domain"
	userport "github.com/ArifMiah07/vibe-chat-backend/internal/pkg/user/persistence/repository/port"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSocket stands in for a live websocket connection.
type fakeSocket struct {
	mu        sync.Mutex
	userID    string
	frames    [][]byte
	closeCode int
}

func (f *fakeSocket) User() string { return f.userID }

func (f *fakeSocket) Send(payload []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.frames = append(f.frames, payload)
	return nil
}

func (f *fakeSocket) Close(code int, _ string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closeCode = code
}

// recordedFrame is the union of every outbound frame shape, for assertions.
type recordedFrame struct {
	Type    string          `json:"type"`
	Ref     string          `json:"ref"`
	Success bool            `json:"success"`
	Code    string          `json:"code"`
	Error   string          `json:"error"`
	Data    json.RawMessage `json:"data"`
}

func (f *fakeSocket) recorded(t *testing.T) []recordedFrame {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]recordedFrame, 0, len(f.frames))
	for _, raw := range f.frames {
		var fr recordedFrame
		require.NoError(t, json.Unmarshal(raw, &fr))
		out = append(out, fr)
	}
	return out
}

func (f *fakeSocket) lastOfType(t *testing.T, frameType string) (recordedFrame, bool) {
	t.Helper()
	frames := f.recorded(t)
	for i := len(frames) - 1; i >= 0; i-- {
		if frames[i].Type == frameType {
			return frames[i], true
		}
	}
	return recordedFrame{}, false
}

type memUsers struct {
	users map[string]user.User
}

func (r *memUsers) Create(_ context.Context, u user.User) (string, error) {
	u.ID = uuid.NewString()
	r.users[u.ID] = u
	return u.ID, nil
}

func (r *memUsers) FindByID(_ context.Context, id string) (*user.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, userport.ErrUserNotFound
	}
	return &u, nil
}

func (r *memUsers) FindByEmail(_ context.Context, email string) (*user.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, userport.ErrUserNotFound
}

func (r *memUsers) List(_ context.Context, excludeID string) ([]user.User, error) {
	var out []user.User
	for _, u := range r.users {
		if u.ID != excludeID {
			out = append(out, u)
		}
	}
	return out, nil
}

type memMessages struct {
	mu       sync.Mutex
	messages []chat.Message
}

func (r *memMessages) CreateMessage(_ context.Context, m chat.Message) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m.ID = uuid.NewString()
	r.messages = append(r.messages, m)
	return m.ID, nil
}

func (r *memMessages) FindMessagesBetween(_ context.Context, a, b string) ([]chat.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []chat.Message
	for _, m := range r.messages {
		if (m.SenderID == a && m.ReceiverID == b) || (m.SenderID == b && m.ReceiverID == a) {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *memMessages) MarkConversationRead(_ context.Context, senderID, receiverID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for i := range r.messages {
		m := &r.messages[i]
		if m.SenderID == senderID && m.ReceiverID == receiverID && !m.Read {
			m.Read = true
			n++
		}
	}
	return n, nil
}

func (r *memMessages) CountUnread(_ context.Context, receiverID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, m := range r.messages {
		if m.ReceiverID == receiverID && !m.Read {
			n++
		}
	}
	return n, nil
}

type fakeQueue struct {
	mu       sync.Mutex
	enqueued []qport.Task
}

func (q *fakeQueue) Enqueue(_ context.Context, t qport.Task, _ ...qport.EnqueueOption) (string, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.enqueued = append(q.enqueued, t)
	return uuid.NewString(), nil
}

func (q *fakeQueue) Close() error { return nil }

type socketFixture struct {
	ctl      *ChatSocketController
	hub      *realtime.Hub
	queue    *fakeQueue
	messages *memMessages
	users    *memUsers
	alice    string
	bob      string
}

func newSocketFixture(t *testing.T) *socketFixture {
	t.Helper()
	alice, bob := uuid.NewString(), uuid.NewString()
	users := &memUsers{users: map[string]user.User{
		alice: {ID: alice, Name: "Alice", Email: "alice@example.com"},
		bob:   {ID: bob, Name: "Bob", Email: "bob@example.com"},
	}}
	hub := realtime.NewHub()
	queue := &fakeQueue{}
	messages := &memMessages{}
	ctl := NewChatSocketController(hub, nil, users, messages, nil, queue)
	return &socketFixture{ctl: ctl, hub: hub, queue: queue, messages: messages, users: users, alice: alice, bob: bob}
}

func frameOf(t *testing.T, eventType, ref string, payload any) inboundFrame {
	t.Helper()
	b, err := json.Marshal(payload)
	require.NoError(t, err)
	return inboundFrame{Type: eventType, Ref: ref, Data: b}
}

func TestConnectDeliversSnapshotAndAnnouncesArrival(t *testing.T) {
	fx := newSocketFixture(t)
	aliceConn := &fakeSocket{userID: fx.alice}
	bobConn := &fakeSocket{userID: fx.bob}

	fx.ctl.connect(aliceConn)
	fx.ctl.connect(bobConn)

	// Alice hears that Bob came online.
	online, ok := aliceConn.lastOfType(t, EventUserOnline)
	require.True(t, ok)
	var ev userEvent
	require.NoError(t, json.Unmarshal(online.Data, &ev))
	assert.Equal(t, fx.bob, ev.UserID)

	// Bob's snapshot names everyone online, himself included.
	snapshot, ok := bobConn.lastOfType(t, EventOnlineUsers)
	require.True(t, ok)
	var ids []string
	require.NoError(t, json.Unmarshal(snapshot.Data, &ids))
	assert.ElementsMatch(t, []string{fx.alice, fx.bob}, ids)
}

func TestDisconnectBroadcastsDepartureOnce(t *testing.T) {
	fx := newSocketFixture(t)
	aliceConn := &fakeSocket{userID: fx.alice}
	bobConn := &fakeSocket{userID: fx.bob}
	fx.ctl.connect(aliceConn)
	fx.ctl.connect(bobConn)

	fx.ctl.disconnect(bobConn)
	fx.ctl.disconnect(bobConn)

	offlineCount := 0
	for _, fr := range aliceConn.recorded(t) {
		if fr.Type == EventUserOffline {
			offlineCount++
		}
	}
	assert.Equal(t, 1, offlineCount, "duplicate disconnects must not re-announce")
	assert.False(t, fx.hub.IsOnline(fx.bob))
}

func TestReplacedSessionIsForceClosed(t *testing.T) {
	fx := newSocketFixture(t)
	stale := &fakeSocket{userID: fx.alice}
	fresh := &fakeSocket{userID: fx.alice}

	fx.ctl.connect(stale)
	fx.ctl.connect(fresh)

	assert.Equal(t, 4001, stale.closeCode)

	// The stale socket's teardown must not take the fresh session offline.
	fx.ctl.disconnect(stale)
	assert.True(t, fx.hub.IsOnline(fx.alice))
}

func TestSendMessageRelaysToOnlineReceiver(t *testing.T) {
	fx := newSocketFixture(t)
	aliceConn := &fakeSocket{userID: fx.alice}
	bobConn := &fakeSocket{userID: fx.bob}
	fx.ctl.connect(aliceConn)
	fx.ctl.connect(bobConn)

	fx.ctl.dispatch(context.Background(), aliceConn,
		frameOf(t, EventSendMessage, "req-1", sendMessagePayload{Receiver: fx.bob, Content: "hello bob"}))

	// Bob receives the persisted message.
	push, ok := bobConn.lastOfType(t, EventNewMessage)
	require.True(t, ok)
	var msg chat.Message
	require.NoError(t, json.Unmarshal(push.Data, &msg))
	assert.Equal(t, "hello bob", msg.Content)
	assert.Equal(t, fx.alice, msg.SenderID)
	assert.False(t, msg.Read)
	require.NotNil(t, msg.Sender)
	assert.Equal(t, "Alice", msg.Sender.Name)

	// Alice gets an ack carrying the same record and ref.
	ack, ok := aliceConn.lastOfType(t, "ack")
	require.True(t, ok)
	assert.Equal(t, "req-1", ack.Ref)
	assert.True(t, ack.Success)

	// Delivery succeeded, so no background work was queued.
	assert.Empty(t, fx.queue.enqueued)
}

func TestSendMessageToOfflineReceiverPersistsAndQueues(t *testing.T) {
	fx := newSocketFixture(t)
	aliceConn := &fakeSocket{userID: fx.alice}
	fx.ctl.connect(aliceConn)

	fx.ctl.dispatch(context.Background(), aliceConn,
		frameOf(t, EventSendMessage, "req-2", sendMessagePayload{Receiver: fx.bob, Content: "see you"}))

	ack, ok := aliceConn.lastOfType(t, "ack")
	require.True(t, ok)
	assert.True(t, ack.Success)
	assert.Len(t, fx.messages.messages, 1, "the message is durable regardless of presence")

	require.Len(t, fx.queue.enqueued, 1)
	assert.Equal(t, task.NotifyOfflineTaskType, fx.queue.enqueued[0].Type)
}

func TestSendMessageToUnknownReceiverFails(t *testing.T) {
	fx := newSocketFixture(t)
	aliceConn := &fakeSocket{userID: fx.alice}
	fx.ctl.connect(aliceConn)

	fx.ctl.dispatch(context.Background(), aliceConn,
		frameOf(t, EventSendMessage, "req-3", sendMessagePayload{Receiver: uuid.NewString(), Content: "hi"}))

	errFrame, ok := aliceConn.lastOfType(t, "error")
	require.True(t, ok)
	assert.Equal(t, "req-3", errFrame.Ref)
	assert.Equal(t, "not_found", errFrame.Code)
	assert.Empty(t, fx.messages.messages)
}

func TestSendMessageRejectsMalformedPayload(t *testing.T) {
	fx := newSocketFixture(t)
	aliceConn := &fakeSocket{userID: fx.alice}
	fx.ctl.connect(aliceConn)

	fx.ctl.dispatch(context.Background(), aliceConn,
		frameOf(t, EventSendMessage, "req-4", sendMessagePayload{Receiver: "not-a-uuid", Content: "hi"}))

	errFrame, ok := aliceConn.lastOfType(t, "error")
	require.True(t, ok)
	assert.Equal(t, "bad_request", errFrame.Code)
}

func TestTypingSignalReachesOnlyOnlineReceiver(t *testing.T) {
	fx := newSocketFixture(t)
	aliceConn := &fakeSocket{userID: fx.alice}
	bobConn := &fakeSocket{userID: fx.bob}
	fx.ctl.connect(aliceConn)
	fx.ctl.connect(bobConn)

	fx.ctl.dispatch(context.Background(), aliceConn,
		frameOf(t, EventTyping, "", typingPayload{ReceiverID: fx.bob}))
	fx.ctl.dispatch(context.Background(), aliceConn,
		frameOf(t, EventStopTyping, "", typingPayload{ReceiverID: fx.bob}))

	typing, ok := bobConn.lastOfType(t, EventUserTyping)
	require.True(t, ok)
	var ev userEvent
	require.NoError(t, json.Unmarshal(typing.Data, &ev))
	assert.Equal(t, fx.alice, ev.UserID)

	_, ok = bobConn.lastOfType(t, EventUserStopTyping)
	assert.True(t, ok)

	// Typing aimed at an offline user vanishes without error traffic.
	before := len(aliceConn.recorded(t))
	fx.ctl.dispatch(context.Background(), aliceConn,
		frameOf(t, EventTyping, "", typingPayload{ReceiverID: uuid.NewString()}))
	assert.Len(t, aliceConn.recorded(t), before)
}

func TestMarkAsReadAcksAndNotifiesOriginalSender(t *testing.T) {
	fx := newSocketFixture(t)
	aliceConn := &fakeSocket{userID: fx.alice}
	bobConn := &fakeSocket{userID: fx.bob}
	fx.ctl.connect(aliceConn)
	fx.ctl.connect(bobConn)

	// Alice messages Bob, then Bob reads the conversation.
	fx.ctl.dispatch(context.Background(), aliceConn,
		frameOf(t, EventSendMessage, "s1", sendMessagePayload{Receiver: fx.bob, Content: "ping"}))
	fx.ctl.dispatch(context.Background(), bobConn,
		frameOf(t, EventMarkAsRead, "r1", markAsReadPayload{SenderID: fx.alice}))

	ack, ok := bobConn.lastOfType(t, "ack")
	require.True(t, ok)
	assert.Equal(t, "r1", ack.Ref)
	var counted struct {
		Count int64 `json:"count"`
	}
	require.NoError(t, json.Unmarshal(ack.Data, &counted))
	assert.Equal(t, int64(1), counted.Count)

	read, ok := aliceConn.lastOfType(t, EventMessagesRead)
	require.True(t, ok)
	var ev userEvent
	require.NoError(t, json.Unmarshal(read.Data, &ev))
	assert.Equal(t, fx.bob, ev.UserID, "the reader is identified to the original sender")
}

func TestOnlineStatusQueryAnswersPerUser(t *testing.T) {
	fx := newSocketFixture(t)
	aliceConn := &fakeSocket{userID: fx.alice}
	bobConn := &fakeSocket{userID: fx.bob}
	fx.ctl.connect(aliceConn)
	fx.ctl.connect(bobConn)
	ghost := uuid.NewString()

	fx.ctl.dispatch(context.Background(), aliceConn,
		frameOf(t, EventGetOnlineStatus, "q1", onlineStatusPayload{UserIDs: []string{fx.bob, ghost}}))

	ack, ok := aliceConn.lastOfType(t, "ack")
	require.True(t, ok)
	var statuses map[string]bool
	require.NoError(t, json.Unmarshal(ack.Data, &statuses))
	assert.Equal(t, map[string]bool{fx.bob: true, ghost: false}, statuses)
}

func TestJoinAndLeaveChatRoom(t *testing.T) {
	fx := newSocketFixture(t)
	aliceConn := &fakeSocket{userID: fx.alice}
	fx.ctl.connect(aliceConn)
	room := realtime.PairRoomID(fx.alice, fx.bob)

	fx.ctl.dispatch(context.Background(), aliceConn,
		frameOf(t, EventJoinChat, "", pairRoomPayload{UserID: fx.bob}))
	assert.Equal(t, []string{fx.alice}, fx.hub.RoomMembers(room))

	fx.ctl.dispatch(context.Background(), aliceConn,
		frameOf(t, EventLeaveChat, "", pairRoomPayload{UserID: fx.bob}))
	assert.Empty(t, fx.hub.RoomMembers(room))
}

func TestUnknownEventTypeIsRejected(t *testing.T) {
	fx := newSocketFixture(t)
	aliceConn := &fakeSocket{userID: fx.alice}
	fx.ctl.connect(aliceConn)

	fx.ctl.dispatch(context.Background(), aliceConn, inboundFrame{Type: "selfDestruct", Ref: "x"})

	errFrame, ok := aliceConn.lastOfType(t, "error")
	require.True(t, ok)
	assert.Equal(t, "bad_request", errFrame.Code)
	assert.Equal(t, "x", errFrame.Ref)
}

func TestRapidReconnectKeepsExactlyOneSession(t *testing.T) {
	fx := newSocketFixture(t)
	var last *fakeSocket
	for i := 0; i < 5; i++ {
		c := &fakeSocket{userID: fx.alice}
		fx.ctl.connect(c)
		if last != nil {
			fx.ctl.disconnect(last)
		}
		last = c
	}

	require.True(t, fx.hub.IsOnline(fx.alice))
	assert.Len(t, fx.hub.OnlineUsers(), 1)
}
