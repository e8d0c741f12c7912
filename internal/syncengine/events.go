package syncengine

import (
	"fmt"

	"communitychat/internal/chat/api"
	"communitychat/internal/common"
)

// Event is everything a room channel can deliver. The set is closed: only
// the types in this file implement it.
type Event interface {
	isEvent()
}

// Subscribed is the first event on every successful subscription.
type Subscribed struct {
	SessionKey string
}

// Disconnected is posted when the channel drops without being closed by
// the engine.
type Disconnected struct {
	Err error
}

// NewMessage is the instant broadcast of an admitted message.
type NewMessage struct {
	Message api.Message
}

type Typing struct {
	UserID      uint64
	DisplayName string
}

// ChangeInsert and ChangeUpdate come from the store's change feed.
type ChangeInsert struct {
	Message api.Message
}

type ChangeUpdate struct {
	Message api.Message
}

// PresenceSync replaces the whole presence set.
type PresenceSync struct {
	Users []api.PresenceInfo
}

type PresenceJoin struct {
	User api.PresenceInfo
}

type PresenceLeave struct {
	User api.PresenceInfo
}

// ChannelError is an error frame sent by the server on an open channel.
type ChannelError struct {
	Err *common.ChatError
}

func (Subscribed) isEvent()    {}
func (Disconnected) isEvent()  {}
func (NewMessage) isEvent()    {}
func (Typing) isEvent()        {}
func (ChangeInsert) isEvent()  {}
func (ChangeUpdate) isEvent()  {}
func (PresenceSync) isEvent()  {}
func (PresenceJoin) isEvent()  {}
func (PresenceLeave) isEvent() {}
func (ChannelError) isEvent()  {}

// EventFromFrame decodes a server frame into its event.
func EventFromFrame(f api.Frame) (Event, error) {
	switch f.Type {
	case api.FrameSubscribed:
		var p api.SubscribedPayload
		if err := f.Decode(&p); err != nil {
			return nil, fmt.Errorf("decode subscribed: %w", err)
		}
		return Subscribed{SessionKey: p.SessionKey}, nil

	case api.FrameBroadcast:
		switch f.Event {
		case api.EventNewMessage:
			var m api.Message
			if err := f.Decode(&m); err != nil {
				return nil, fmt.Errorf("decode new_message: %w", err)
			}
			return NewMessage{Message: m}, nil
		case api.EventTyping:
			var p api.TypingPayload
			if err := f.Decode(&p); err != nil {
				return nil, fmt.Errorf("decode typing: %w", err)
			}
			return Typing{UserID: p.UserID, DisplayName: p.DisplayName}, nil
		}

	case api.FrameChange:
		var m api.Message
		if err := f.Decode(&m); err != nil {
			return nil, fmt.Errorf("decode change: %w", err)
		}
		switch f.Event {
		case api.ChangeInsert:
			return ChangeInsert{Message: m}, nil
		case api.ChangeUpdate:
			return ChangeUpdate{Message: m}, nil
		}

	case api.FramePresence:
		switch f.Event {
		case api.PresenceSync:
			var p api.PresenceSyncPayload
			if err := f.Decode(&p); err != nil {
				return nil, fmt.Errorf("decode presence sync: %w", err)
			}
			return PresenceSync{Users: p.Users}, nil
		case api.PresenceJoin, api.PresenceLeave:
			var p api.PresenceInfo
			if err := f.Decode(&p); err != nil {
				return nil, fmt.Errorf("decode presence %s: %w", f.Event, err)
			}
			if f.Event == api.PresenceJoin {
				return PresenceJoin{User: p}, nil
			}
			return PresenceLeave{User: p}, nil
		}

	case api.FrameError:
		var body api.ErrorBody
		if err := f.Decode(&body); err != nil {
			return nil, fmt.Errorf("decode error frame: %w", err)
		}
		return ChannelError{Err: body.Err()}, nil
	}

	return nil, fmt.Errorf("unknown frame %s/%s", f.Type, f.Event)
}
