// Package realtime is the websocket side of message delivery: one channel
// per room carrying broadcasts, change-feed events and presence.
package realtime

import (
	"log/slog"
	"sort"
	"sync"

	"communitychat/internal/chat/api"
)

// Hub tracks the sessions subscribed to each room on this instance.
type Hub struct {
	mu       sync.RWMutex
	rooms    map[uint64]map[*Session]bool
	presence map[uint64]map[string]api.PresenceInfo

	logger *slog.Logger
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		rooms:    make(map[uint64]map[*Session]bool),
		presence: make(map[uint64]map[string]api.PresenceInfo),
		logger:   logger,
	}
}

func (h *Hub) register(s *Session) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.rooms[s.roomID] == nil {
		h.rooms[s.roomID] = make(map[*Session]bool)
	}
	h.rooms[s.roomID][s] = true
	h.logger.Debug("[HUB] session registered", "room_id", s.roomID, "user_id", s.actor.UserID, "sessions", len(h.rooms[s.roomID]))
}

// unregister removes s and announces its departure if it was tracked. It is
// safe to call more than once.
func (h *Hub) unregister(s *Session) {
	h.mu.Lock()
	clients, ok := h.rooms[s.roomID]
	if !ok || !clients[s] {
		h.mu.Unlock()
		return
	}
	delete(clients, s)
	close(s.send)
	if len(clients) == 0 {
		delete(h.rooms, s.roomID)
	}
	left, wasTracked := h.untrackLocked(s)
	h.mu.Unlock()

	h.logger.Debug("[HUB] session unregistered", "room_id", s.roomID, "user_id", s.actor.UserID)
	if wasTracked {
		h.sendPresence(s.roomID, api.PresenceLeave, left)
	}
}

// Deliver fans data out to every session of the room. Sessions whose
// buffer is full are dropped; their clients reconnect and gap-fill.
func (h *Hub) Deliver(roomID uint64, data []byte) {
	var slow []*Session

	h.mu.RLock()
	for s := range h.rooms[roomID] {
		select {
		case s.send <- data:
		default:
			slow = append(slow, s)
		}
	}
	h.mu.RUnlock()

	for _, s := range slow {
		h.logger.Warn("[HUB] session buffer full, disconnecting", "room_id", roomID, "user_id", s.actor.UserID)
		h.unregister(s)
	}
}

// DeliverFrame encodes f once and delivers it to the room.
func (h *Hub) DeliverFrame(f api.Frame) {
	data, err := f.Encode()
	if err != nil {
		h.logger.Error("[HUB] encode frame", "type", f.Type, "error", err)
		return
	}
	h.Deliver(f.RoomID, data)
}

// track records s in the room's presence, sends the full presence list to
// s and a join to everyone else.
func (h *Hub) track(s *Session, info api.PresenceInfo) {
	info.SessionKey = s.key

	h.mu.Lock()
	if !h.rooms[s.roomID][s] {
		h.mu.Unlock()
		return
	}
	if h.presence[s.roomID] == nil {
		h.presence[s.roomID] = make(map[string]api.PresenceInfo)
	}
	h.presence[s.roomID][s.key] = info
	s.tracked = true
	users := h.presenceLocked(s.roomID)
	h.mu.Unlock()

	if sync, err := api.NewFrame(api.FramePresence, api.PresenceSync, s.roomID, api.PresenceSyncPayload{Users: users}); err == nil {
		s.enqueue(sync)
	}
	h.sendPresence(s.roomID, api.PresenceJoin, info)
}

func (h *Hub) untrack(s *Session) {
	h.mu.Lock()
	left, ok := h.untrackLocked(s)
	h.mu.Unlock()

	if ok {
		h.sendPresence(s.roomID, api.PresenceLeave, left)
	}
}

func (h *Hub) untrackLocked(s *Session) (api.PresenceInfo, bool) {
	if !s.tracked {
		return api.PresenceInfo{}, false
	}
	s.tracked = false

	entries := h.presence[s.roomID]
	info, ok := entries[s.key]
	delete(entries, s.key)
	if len(entries) == 0 {
		delete(h.presence, s.roomID)
	}
	return info, ok
}

func (h *Hub) sendPresence(roomID uint64, event string, info api.PresenceInfo) {
	f, err := api.NewFrame(api.FramePresence, event, roomID, info)
	if err != nil {
		h.logger.Error("[HUB] encode presence", "error", err)
		return
	}
	h.DeliverFrame(f)
}

func (h *Hub) presenceLocked(roomID uint64) []api.PresenceInfo {
	users := make([]api.PresenceInfo, 0, len(h.presence[roomID]))
	for _, info := range h.presence[roomID] {
		users = append(users, info)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].SessionKey < users[j].SessionKey })
	return users
}

// Presence returns the tracked sessions of a room.
func (h *Hub) Presence(roomID uint64) []api.PresenceInfo {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.presenceLocked(roomID)
}

func (h *Hub) SessionCount(roomID uint64) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[roomID])
}

// Close disconnects every session.
func (h *Hub) Close() {
	h.mu.RLock()
	var all []*Session
	for _, clients := range h.rooms {
		for s := range clients {
			all = append(all, s)
		}
	}
	h.mu.RUnlock()

	for _, s := range all {
		h.unregister(s)
	}
}

// sendTo queues data for a single session if it is still registered.
func (h *Hub) sendTo(s *Session, data []byte) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if !h.rooms[s.roomID][s] {
		return false
	}
	select {
	case s.send <- data:
		return true
	default:
		return false
	}
}
