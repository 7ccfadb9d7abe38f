package realtime

import "sync"

// Client is a live, authenticated connection as seen by the Hub.
// *Connection is the production implementation; tests substitute fakes.
type Client interface {
	// User returns the identity this client is authenticated as.
	User() string
	// Send delivers a payload to the client, best-effort.
	Send(payload []byte) error
	// Close terminates the client with a websocket close code and reason.
	Close(code int, reason string)
}

// Hub is the process-wide online-user registry: at most one live client per
// user identity, plus pairwise chat-room membership used to scope join/leave
// signaling. It is the only long-lived shared mutable state in the realtime
// path; a single mutex guards the whole working set. The lock is never held
// while writing to a client or while a store call is in flight.
type Hub struct {
	mu        sync.RWMutex
	users     map[string]Client            // userID -> active client
	rooms     map[string]map[string]Client // roomID -> userID -> client
	userRooms map[string]map[string]struct{}
}

// NewHub constructs an empty Hub. One Hub is created at process start and
// injected into connection handlers; it has no other lifecycle.
func NewHub() *Hub {
	return &Hub{
		users:     make(map[string]Client),
		rooms:     make(map[string]map[string]Client),
		userRooms: make(map[string]map[string]struct{}),
	}
}

// Register records c as the active client for its user and returns the
// replaced client, if any, together with a snapshot of all online identities
// taken atomically with the insert (the snapshot includes c's own user).
// Last registration wins; the caller decides what to do with the previous
// session.
func (h *Hub) Register(c Client) (prev Client, snapshot []string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	userID := c.User()
	if existing, ok := h.users[userID]; ok && existing != c {
		prev = existing
		h.dropRoomsLocked(userID)
	}
	h.users[userID] = c

	snapshot = make([]string, 0, len(h.users))
	for id := range h.users {
		snapshot = append(snapshot, id)
	}
	return prev, snapshot
}

// Unregister removes c if it is still the active client for its user and
// reports whether an entry was removed. A client replaced by a later
// Register, or already unregistered, is a no-op — this is what makes
// duplicate disconnect signals idempotent.
func (h *Hub) Unregister(c Client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	userID := c.User()
	current, ok := h.users[userID]
	if !ok || current != c {
		return false
	}
	delete(h.users, userID)
	h.dropRoomsLocked(userID)
	return true
}

// Lookup returns the active client for userID, or nil if offline.
func (h *Hub) Lookup(userID string) Client {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.users[userID]
}

// IsOnline reports whether userID has an active client.
func (h *Hub) IsOnline(userID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.users[userID]
	return ok
}

// OnlineUsers returns a snapshot of all online identities.
func (h *Hub) OnlineUsers() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	ids := make([]string, 0, len(h.users))
	for id := range h.users {
		ids = append(ids, id)
	}
	return ids
}

// OnlineStatus answers an online-status query for a set of identities in a
// single pass against the registry.
func (h *Hub) OnlineStatus(userIDs []string) map[string]bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	statuses := make(map[string]bool, len(userIDs))
	for _, id := range userIDs {
		_, ok := h.users[id]
		statuses[id] = ok
	}
	return statuses
}

// NotifyUser delivers payload to the active client of userID, reporting
// whether a delivery was attempted successfully. Offline users are a no-op.
func (h *Hub) NotifyUser(userID string, payload []byte) bool {
	h.mu.RLock()
	c := h.users[userID]
	h.mu.RUnlock()
	if c == nil {
		return false
	}
	return c.Send(payload) == nil
}

// BroadcastExcept pushes payload to every online client except excludeUserID.
// Targets are snapshotted first and written outside the lock; a failed push
// does not abort delivery to the remaining targets.
func (h *Hub) BroadcastExcept(excludeUserID string, payload []byte) int {
	h.mu.RLock()
	targets := make([]Client, 0, len(h.users))
	for id, c := range h.users {
		if id == excludeUserID {
			continue
		}
		targets = append(targets, c)
	}
	h.mu.RUnlock()

	delivered := 0
	for _, c := range targets {
		if err := c.Send(payload); err == nil {
			delivered++
		}
	}
	return delivered
}

// JoinRoom adds c to the room if c is still registered.
func (h *Hub) JoinRoom(roomID string, c Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	userID := c.User()
	if current, ok := h.users[userID]; !ok || current != c {
		return
	}

	room := h.rooms[roomID]
	if room == nil {
		room = make(map[string]Client)
		h.rooms[roomID] = room
	}
	room[userID] = c

	memberships := h.userRooms[userID]
	if memberships == nil {
		memberships = make(map[string]struct{})
		h.userRooms[userID] = memberships
	}
	memberships[roomID] = struct{}{}
}

// LeaveRoom removes c's user from the room.
func (h *Hub) LeaveRoom(roomID string, c Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.leaveRoomLocked(roomID, c.User())
}

// RoomMembers returns a snapshot of identities currently joined to the room.
func (h *Hub) RoomMembers(roomID string) []string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	members := make([]string, 0, len(h.rooms[roomID]))
	for id := range h.rooms[roomID] {
		members = append(members, id)
	}
	return members
}

// Close terminates every tracked client and clears all registry state.
func (h *Hub) Close() {
	h.mu.Lock()
	clients := make([]Client, 0, len(h.users))
	for _, c := range h.users {
		clients = append(clients, c)
	}
	h.users = make(map[string]Client)
	h.rooms = make(map[string]map[string]Client)
	h.userRooms = make(map[string]map[string]struct{})
	h.mu.Unlock()

	for _, c := range clients {
		c.Close(1001, "server shutdown")
	}
}

func (h *Hub) dropRoomsLocked(userID string) {
	for roomID := range h.userRooms[userID] {
		h.leaveRoomLocked(roomID, userID)
	}
	delete(h.userRooms, userID)
}

func (h *Hub) leaveRoomLocked(roomID, userID string) {
	room := h.rooms[roomID]
	if room == nil {
		return
	}
	delete(room, userID)
	if len(room) == 0 {
		delete(h.rooms, roomID)
	}
	if memberships, ok := h.userRooms[userID]; ok {
		delete(memberships, roomID)
		if len(memberships) == 0 {
			delete(h.userRooms, userID)
		}
	}
}
