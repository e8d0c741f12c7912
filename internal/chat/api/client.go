package api

import (
	"context"

	"google.golang.org/grpc"

	"communitychat/internal/common"
)

// Client calls the chat service over any gRPC connection. Every error it
// returns is either a *common.ChatError or a *common.TransportError.
type Client struct {
	cc grpc.ClientConnInterface
}

func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

func (c *Client) invoke(ctx context.Context, method string, in, out interface{}, opts ...grpc.CallOption) error {
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	return common.FromStatus(c.cc.Invoke(ctx, method, in, out, opts...))
}

func (c *Client) ListRooms(ctx context.Context, in *ListRoomsRequest, opts ...grpc.CallOption) (*ListRoomsResponse, error) {
	out := new(ListRoomsResponse)
	if err := c.invoke(ctx, ChatService_ListRooms_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ListMessages(ctx context.Context, in *ListMessagesRequest, opts ...grpc.CallOption) (*ListMessagesResponse, error) {
	out := new(ListMessagesResponse)
	if err := c.invoke(ctx, ChatService_ListMessages_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) SendMessage(ctx context.Context, in *SendMessageRequest, opts ...grpc.CallOption) (*SendMessageResponse, error) {
	out := new(SendMessageResponse)
	if err := c.invoke(ctx, ChatService_SendMessage_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetRole(ctx context.Context, in *GetRoleRequest, opts ...grpc.CallOption) (*GetRoleResponse, error) {
	out := new(GetRoleResponse)
	if err := c.invoke(ctx, ChatService_GetRole_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ListModerators(ctx context.Context, in *ListModeratorsRequest, opts ...grpc.CallOption) (*ListModeratorsResponse, error) {
	out := new(ListModeratorsResponse)
	if err := c.invoke(ctx, ChatService_ListModerators_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) SetRole(ctx context.Context, in *SetRoleRequest, opts ...grpc.CallOption) error {
	return c.invoke(ctx, ChatService_SetRole_FullMethodName, in, new(Empty), opts...)
}

func (c *Client) Mute(ctx context.Context, in *MuteRequest, opts ...grpc.CallOption) (*MuteResponse, error) {
	out := new(MuteResponse)
	if err := c.invoke(ctx, ChatService_Mute_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Unmute(ctx context.Context, in *UnmuteRequest, opts ...grpc.CallOption) error {
	return c.invoke(ctx, ChatService_Unmute_FullMethodName, in, new(Empty), opts...)
}

func (c *Client) TogglePin(ctx context.Context, in *MessageRequest, opts ...grpc.CallOption) (*TogglePinResponse, error) {
	out := new(TogglePinResponse)
	if err := c.invoke(ctx, ChatService_TogglePin_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) DeleteMessage(ctx context.Context, in *MessageRequest, opts ...grpc.CallOption) error {
	return c.invoke(ctx, ChatService_DeleteMessage_FullMethodName, in, new(Empty), opts...)
}

func (c *Client) Report(ctx context.Context, in *ReportRequest, opts ...grpc.CallOption) error {
	return c.invoke(ctx, ChatService_Report_FullMethodName, in, new(Empty), opts...)
}

func (c *Client) MarkRead(ctx context.Context, in *MarkReadRequest, opts ...grpc.CallOption) error {
	return c.invoke(ctx, ChatService_MarkRead_FullMethodName, in, new(Empty), opts...)
}
