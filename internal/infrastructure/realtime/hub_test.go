package realtime

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClient satisfies Client without a network connection.
type fakeClient struct {
	mu       sync.Mutex
	userID   string
	sent     [][]byte
	closedAs int
	reason   string
	sendErr  error
}

func newFakeClient(userID string) *fakeClient {
	return &fakeClient{userID: userID}
}

func (f *fakeClient) User() string { return f.userID }

func (f *fakeClient) Send(payload []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sendErr != nil {
		return f.sendErr
	}
	f.sent = append(f.sent, payload)
	return nil
}

func (f *fakeClient) Close(code int, reason string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closedAs = code
	f.reason = reason
}

func (f *fakeClient) sentCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}

func TestHubRegisterAndLookup(t *testing.T) {
	hub := NewHub()
	alice := newFakeClient("alice")

	prev, snapshot := hub.Register(alice)

	require.Nil(t, prev)
	assert.Equal(t, []string{"alice"}, snapshot)
	assert.Same(t, alice, hub.Lookup("alice").(*fakeClient))
	assert.True(t, hub.IsOnline("alice"))
	assert.False(t, hub.IsOnline("bob"))
}

func TestHubRegisterSnapshotIncludesAllOnline(t *testing.T) {
	hub := NewHub()
	hub.Register(newFakeClient("alice"))
	hub.Register(newFakeClient("bob"))

	_, snapshot := hub.Register(newFakeClient("carol"))

	assert.ElementsMatch(t, []string{"alice", "bob", "carol"}, snapshot)
	assert.ElementsMatch(t, []string{"alice", "bob", "carol"}, hub.OnlineUsers())
}

func TestHubLastRegistrationWins(t *testing.T) {
	hub := NewHub()
	first := newFakeClient("alice")
	second := newFakeClient("alice")

	prev, _ := hub.Register(first)
	require.Nil(t, prev)

	// When the same user registers again, the earlier client is surrendered
	// to the caller and the registry points at the newcomer.
	prev, snapshot := hub.Register(second)

	require.NotNil(t, prev)
	assert.Same(t, first, prev.(*fakeClient))
	assert.Equal(t, []string{"alice"}, snapshot)
	assert.Same(t, second, hub.Lookup("alice").(*fakeClient))
}

func TestHubUnregisterIsIdempotent(t *testing.T) {
	hub := NewHub()
	alice := newFakeClient("alice")
	hub.Register(alice)

	assert.True(t, hub.Unregister(alice))
	assert.False(t, hub.Unregister(alice), "second unregister must be a no-op")
	assert.False(t, hub.IsOnline("alice"))
}

func TestHubUnregisterIgnoresSupersededClient(t *testing.T) {
	hub := NewHub()
	stale := newFakeClient("alice")
	fresh := newFakeClient("alice")
	hub.Register(stale)
	hub.Register(fresh)

	// The stale socket's deferred disconnect must not evict the live session.
	assert.False(t, hub.Unregister(stale))
	assert.True(t, hub.IsOnline("alice"))
	assert.Same(t, fresh, hub.Lookup("alice").(*fakeClient))
}

func TestHubOnlineStatus(t *testing.T) {
	hub := NewHub()
	hub.Register(newFakeClient("alice"))

	statuses := hub.OnlineStatus([]string{"alice", "bob"})

	assert.Equal(t, map[string]bool{"alice": true, "bob": false}, statuses)
}

func TestHubNotifyUser(t *testing.T) {
	hub := NewHub()
	alice := newFakeClient("alice")
	hub.Register(alice)

	assert.True(t, hub.NotifyUser("alice", []byte("hi")))
	assert.False(t, hub.NotifyUser("bob", []byte("hi")), "offline target is a no-op")
	assert.Equal(t, 1, alice.sentCount())
}

func TestHubBroadcastExcept(t *testing.T) {
	hub := NewHub()
	alice := newFakeClient("alice")
	bob := newFakeClient("bob")
	carol := newFakeClient("carol")
	hub.Register(alice)
	hub.Register(bob)
	hub.Register(carol)

	delivered := hub.BroadcastExcept("alice", []byte("alice is online"))

	assert.Equal(t, 2, delivered)
	assert.Equal(t, 0, alice.sentCount())
	assert.Equal(t, 1, bob.sentCount())
	assert.Equal(t, 1, carol.sentCount())
}

func TestHubBroadcastSkipsFailingClientWithoutAborting(t *testing.T) {
	hub := NewHub()
	bob := newFakeClient("bob")
	bob.sendErr = assert.AnError
	carol := newFakeClient("carol")
	hub.Register(bob)
	hub.Register(carol)

	delivered := hub.BroadcastExcept("alice", []byte("x"))

	assert.Equal(t, 1, delivered)
	assert.Equal(t, 1, carol.sentCount())
}

func TestHubRoomMembership(t *testing.T) {
	hub := NewHub()
	alice := newFakeClient("alice")
	bob := newFakeClient("bob")
	hub.Register(alice)
	hub.Register(bob)

	room := PairRoomID("alice", "bob")
	hub.JoinRoom(room, alice)
	hub.JoinRoom(room, bob)
	assert.ElementsMatch(t, []string{"alice", "bob"}, hub.RoomMembers(room))

	hub.LeaveRoom(room, alice)
	assert.Equal(t, []string{"bob"}, hub.RoomMembers(room))
}

func TestHubJoinRoomRejectsUnregisteredClient(t *testing.T) {
	hub := NewHub()
	alice := newFakeClient("alice")

	hub.JoinRoom("alice-bob", alice)

	assert.Empty(t, hub.RoomMembers("alice-bob"))
}

func TestHubUnregisterDropsRoomMemberships(t *testing.T) {
	hub := NewHub()
	alice := newFakeClient("alice")
	bob := newFakeClient("bob")
	hub.Register(alice)
	hub.Register(bob)
	room := PairRoomID("alice", "bob")
	hub.JoinRoom(room, alice)
	hub.JoinRoom(room, bob)

	hub.Unregister(alice)

	assert.Equal(t, []string{"bob"}, hub.RoomMembers(room))
}

func TestHubCloseTerminatesEverything(t *testing.T) {
	hub := NewHub()
	alice := newFakeClient("alice")
	bob := newFakeClient("bob")
	hub.Register(alice)
	hub.Register(bob)

	hub.Close()

	assert.Empty(t, hub.OnlineUsers())
	assert.Equal(t, 1001, alice.closedAs)
	assert.Equal(t, 1001, bob.closedAs)
}

func TestHubConcurrentRegisterUnregister(t *testing.T) {
	hub := NewHub()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c := newFakeClient("alice")
			hub.Register(c)
			hub.OnlineUsers()
			hub.Unregister(c)
		}()
	}
	wg.Wait()

	assert.False(t, hub.IsOnline("alice"))
}
