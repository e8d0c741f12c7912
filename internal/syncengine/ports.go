package syncengine

import (
	"context"

	"communitychat/internal/chat/api"
)

// ChatAPI is the request/response side of the chat service. Errors are
// *common.ChatError or *common.TransportError.
type ChatAPI interface {
	ListMessages(ctx context.Context, req *api.ListMessagesRequest) (*api.ListMessagesResponse, error)
	SendMessage(ctx context.Context, req *api.SendMessageRequest) (*api.SendMessageResponse, error)
	GetRole(ctx context.Context, req *api.GetRoleRequest) (*api.GetRoleResponse, error)
	ListModerators(ctx context.Context, req *api.ListModeratorsRequest) (*api.ListModeratorsResponse, error)
	SetRole(ctx context.Context, req *api.SetRoleRequest) error
	Mute(ctx context.Context, req *api.MuteRequest) (*api.MuteResponse, error)
	Unmute(ctx context.Context, req *api.UnmuteRequest) error
	TogglePin(ctx context.Context, req *api.MessageRequest) (*api.TogglePinResponse, error)
	DeleteMessage(ctx context.Context, req *api.MessageRequest) error
	Report(ctx context.Context, req *api.ReportRequest) error
	MarkRead(ctx context.Context, req *api.MarkReadRequest) error
	UploadImage(ctx context.Context, filename, contentType string, data []byte) (*api.UploadResponse, error)
}

// Channel is one live subscription to a room. Track, Untrack and Typing
// must not block. Events is closed when the subscription ends for any
// reason.
type Channel interface {
	Events() <-chan Event
	Track(info api.PresenceInfo) error
	Untrack() error
	Typing() error
	Close() error
}

type Dialer interface {
	Subscribe(ctx context.Context, roomID uint64) (Channel, error)
}
