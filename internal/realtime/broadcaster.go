package realtime

import (
	"context"

	"communitychat/internal/chat/api"
	"communitychat/internal/chat/service"
)

// Broadcaster publishes admitted messages as new_message broadcasts.
type Broadcaster struct {
	bus Publisher
}

func NewBroadcaster(bus Publisher) *Broadcaster {
	return &Broadcaster{bus: bus}
}

func (b *Broadcaster) PublishNewMessage(ctx context.Context, view service.MessageView) error {
	msg := api.MessageFrom(view.Message, view.Author)
	f, err := api.NewFrame(api.FrameBroadcast, api.EventNewMessage, msg.RoomID, msg)
	if err != nil {
		return err
	}
	data, err := f.Encode()
	if err != nil {
		return err
	}
	return b.bus.Publish(ctx, msg.RoomID, data)
}

var _ service.Broadcaster = (*Broadcaster)(nil)
