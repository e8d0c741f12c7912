package api

import (
	"github.com/goccy/go-json"
)

type FrameType string

const (
	// client -> server
	FrameTrack   FrameType = "track"
	FrameUntrack FrameType = "untrack"

	// both directions
	FrameBroadcast FrameType = "broadcast"

	// server -> client
	FrameSubscribed FrameType = "subscribed"
	FrameChange     FrameType = "change"
	FramePresence   FrameType = "presence"
	FrameError      FrameType = "error"
)

const (
	EventNewMessage = "new_message"
	EventTyping     = "typing"

	ChangeInsert = "insert"
	ChangeUpdate = "update"

	PresenceSync  = "sync"
	PresenceJoin  = "join"
	PresenceLeave = "leave"
)

// Frame is the envelope of every realtime websocket message.
type Frame struct {
	Type    FrameType       `json:"type"`
	Event   string          `json:"event,omitempty"`
	RoomID  uint64          `json:"room_id,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type SubscribedPayload struct {
	RoomID     uint64 `json:"room_id"`
	SessionKey string `json:"session_key"`
}

type TypingPayload struct {
	UserID      uint64 `json:"user_id"`
	DisplayName string `json:"display_name"`
}

type PresenceSyncPayload struct {
	Users []PresenceInfo `json:"users"`
}

func NewFrame(t FrameType, event string, roomID uint64, payload interface{}) (Frame, error) {
	f := Frame{Type: t, Event: event, RoomID: roomID}
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return Frame{}, err
		}
		f.Payload = raw
	}
	return f, nil
}

func (f Frame) Decode(v interface{}) error {
	if len(f.Payload) == 0 {
		return nil
	}
	return json.Unmarshal(f.Payload, v)
}

func (f Frame) Encode() ([]byte, error) {
	return json.Marshal(f)
}

func DecodeFrame(data []byte) (Frame, error) {
	var f Frame
	err := json.Unmarshal(data, &f)
	return f, err
}
