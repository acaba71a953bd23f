package websocket

import (
	"log"
	"sync"

	"github.com/samber/lo"
)

// Room labels. A user's personal mailbox is exposed under two aliases
// (bare id and prefixed id) because older front-end builds subscribe by
// either convention; both are aliases of one destination, so fan-out
// across a label set is deduplicated per connection.
const userRoomPrefix = "user_"
const teamRoomPrefix = "team_"

func PersonalRooms(userID string) []string {
	return []string{userID, userRoomPrefix + userID}
}

func TeamRoom(teamID string) string {
	return teamRoomPrefix + teamID
}

// Hub owns the connection registry and the room subscriptions. It is
// mutated only through its methods; the session layer never reaches into
// the maps directly.
type Hub struct {
	mu    sync.RWMutex
	conns map[string]*Client          // user id -> most recent live connection
	rooms map[string]map[*Client]bool // room label -> subscribers
}

func NewHub() *Hub {
	return &Hub{
		conns: make(map[string]*Client),
		rooms: make(map[string]map[*Client]bool),
	}
}

// Register binds a user id to a connection. A second join from the same
// user overwrites the mapping; the prior connection is not closed and
// lingers until its own disconnect.
func (h *Hub) Register(userID string, c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if prev, ok := h.conns[userID]; ok && prev != c {
		log.Printf("ws conn %s superseded by %s for user %s", prev.ID, c.ID, userID)
	}
	h.conns[userID] = c
}

// Remove drops the client from every room and, if it is still the
// registered connection for its user, from the registry. The second case
// matters for stale connections: their disconnect must not evict the
// newer mapping. Reports whether the registry entry was removed.
func (h *Hub) Remove(c *Client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	for label, subs := range h.rooms {
		if subs[c] {
			delete(subs, c)
			if len(subs) == 0 {
				delete(h.rooms, label)
			}
		}
	}

	if c.userID == "" {
		return false
	}
	if cur, ok := h.conns[c.userID]; ok && cur == c {
		delete(h.conns, c.userID)
		return true
	}
	return false
}

func (h *Hub) Lookup(userID string) *Client {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.conns[userID]
}

func (h *Hub) OnlineUserIDs() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return lo.Keys(h.conns)
}

func (h *Hub) JoinRoom(c *Client, label string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	subs := h.rooms[label]
	if subs == nil {
		subs = make(map[*Client]bool)
		h.rooms[label] = subs
	}
	subs[c] = true
}

func (h *Hub) LeaveRoom(c *Client, label string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if subs, ok := h.rooms[label]; ok {
		delete(subs, c)
		if len(subs) == 0 {
			delete(h.rooms, label)
		}
	}
}

func (h *Hub) InRoom(c *Client, label string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.rooms[label][c]
}

// BroadcastAll sends the payload to every registered connection.
func (h *Hub) BroadcastAll(payload []byte) {
	h.mu.RLock()
	clients := make([]*Client, 0, len(h.conns))
	for _, c := range h.conns {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	for _, c := range clients {
		c.enqueue(payload)
	}
}

// BroadcastRooms sends the payload once to every connection subscribed to
// any of the given labels. A connection subscribed to several aliases of
// the same mailbox still receives a single copy.
func (h *Hub) BroadcastRooms(labels []string, payload []byte, exclude *Client) {
	h.mu.RLock()
	seen := make(map[*Client]bool)
	for _, label := range labels {
		for c := range h.rooms[label] {
			if c == exclude || seen[c] {
				continue
			}
			seen[c] = true
		}
	}
	clients := make([]*Client, 0, len(seen))
	for c := range seen {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	for _, c := range clients {
		c.enqueue(payload)
	}
}
