package realtime

import (
	"context"
	"time"

	"github.com/gorilla/websocket"

	"communitychat/internal/chat/api"
	"communitychat/internal/common"
	"communitychat/internal/dbmysql"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 16 * 1024
	sendBuffer     = 256
	publishTimeout = 2 * time.Second
)

// Session is one websocket subscribed to one room.
type Session struct {
	hub    *Hub
	bus    Publisher
	conn   *websocket.Conn
	send   chan []byte
	key    string
	roomID uint64
	actor  common.Actor
	member *dbmysql.Account

	// guarded by hub.mu
	tracked bool
}

func newSession(hub *Hub, bus Publisher, conn *websocket.Conn, key string, roomID uint64, actor common.Actor, member *dbmysql.Account) *Session {
	return &Session{
		hub:    hub,
		bus:    bus,
		conn:   conn,
		send:   make(chan []byte, sendBuffer),
		key:    key,
		roomID: roomID,
		actor:  actor,
		member: member,
	}
}

func (s *Session) enqueue(f api.Frame) {
	data, err := f.Encode()
	if err != nil {
		s.hub.logger.Error("[WS] encode frame", "type", f.Type, "error", err)
		return
	}
	s.hub.sendTo(s, data)
}

func (s *Session) sendError(err error) {
	f, ferr := api.NewFrame(api.FrameError, "", s.roomID, api.ErrorBodyFrom(err))
	if ferr != nil {
		return
	}
	s.enqueue(f)
}

func (s *Session) readPump() {
	defer func() {
		s.hub.unregister(s)
		s.conn.Close()
	}()

	s.conn.SetReadLimit(maxMessageSize)
	s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.hub.logger.Warn("[WS] unexpected close", "room_id", s.roomID, "user_id", s.actor.UserID, "error", err)
			}
			return
		}

		f, err := api.DecodeFrame(data)
		if err != nil {
			s.sendError(common.Validation("malformed frame"))
			continue
		}
		s.handle(f)
	}
}

func (s *Session) handle(f api.Frame) {
	switch f.Type {
	case api.FrameTrack:
		var info api.PresenceInfo
		_ = f.Decode(&info)
		// identity always comes from the authenticated session
		info.UserID = s.actor.UserID
		info.DisplayName = s.member.Name()
		if info.AvatarURL == "" {
			info.AvatarURL = s.member.AvatarURL
		}
		s.hub.track(s, info)

	case api.FrameUntrack:
		s.hub.untrack(s)

	case api.FrameBroadcast:
		if f.Event != api.EventTyping {
			s.sendError(common.Validation("clients may only broadcast typing"))
			return
		}
		out, err := api.NewFrame(api.FrameBroadcast, api.EventTyping, s.roomID, api.TypingPayload{
			UserID:      s.actor.UserID,
			DisplayName: s.member.Name(),
		})
		if err != nil {
			return
		}
		data, err := out.Encode()
		if err != nil {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		defer cancel()
		if err := s.bus.Publish(ctx, s.roomID, data); err != nil {
			s.hub.logger.Warn("[WS] typing relay failed", "room_id", s.roomID, "error", err)
		}

	default:
		s.sendError(common.Validation("unsupported frame type %q", f.Type))
	}
}

func (s *Session) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		s.conn.Close()
	}()

	for {
		select {
		case data, ok := <-s.send:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				s.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := s.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				s.hub.logger.Debug("[WS] write failed", "room_id", s.roomID, "user_id", s.actor.UserID, "error", err)
				return
			}

		case <-ticker.C:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
