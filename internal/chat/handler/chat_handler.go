// Package handler exposes the chat service over gRPC and HTTP.
package handler

import (
	"context"
	"log/slog"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"communitychat/internal/chat/api"
	"communitychat/internal/chat/repository"
	"communitychat/internal/chat/service"
	"communitychat/internal/common"
)

type ChatHandler struct {
	chatService service.ChatService
	logger      *slog.Logger
}

var _ api.ChatServiceServer = (*ChatHandler)(nil)

func NewChatHandler(chatService service.ChatService, logger *slog.Logger) *ChatHandler {
	return &ChatHandler{chatService: chatService, logger: logger}
}

// fail passes typed errors through so their status details reach the
// client. Anything else is logged and reported as Internal.
func (h *ChatHandler) fail(method string, err error) error {
	if ce, ok := common.AsChatError(err); ok {
		return ce
	}
	h.logger.Error("[CHAT] request failed", "method", method, "err", err)
	return status.Error(codes.Internal, "internal error")
}

func actor(ctx context.Context) common.Actor {
	a, _ := common.ActorFromContext(ctx)
	return a
}

func messagesFrom(views []service.MessageView) []api.Message {
	out := make([]api.Message, 0, len(views))
	for _, v := range views {
		out = append(out, api.MessageFrom(v.Message, v.Author))
	}
	return out
}

func (h *ChatHandler) ListRooms(ctx context.Context, _ *api.ListRoomsRequest) (*api.ListRoomsResponse, error) {
	rooms, err := h.chatService.ListRooms(ctx, actor(ctx))
	if err != nil {
		return nil, h.fail("ListRooms", err)
	}

	resp := &api.ListRoomsResponse{Rooms: make([]api.Room, 0, len(rooms))}
	for i := range rooms {
		room := api.RoomFrom(&rooms[i].Room)
		room.UnreadCount = rooms[i].UnreadCount
		if last := rooms[i].LastMessage; last != nil {
			msg := api.MessageFrom(last, nil)
			room.LastMessage = &msg
		}
		resp.Rooms = append(resp.Rooms, room)
	}
	return resp, nil
}

func (h *ChatHandler) ListMessages(ctx context.Context, req *api.ListMessagesRequest) (*api.ListMessagesResponse, error) {
	page, err := h.chatService.ListMessages(ctx, actor(ctx), req.RoomID, repository.MessageQuery{
		Before: req.Before,
		After:  req.After,
		IDs:    req.IDs,
		Pinned: req.Pinned,
		Limit:  req.Limit,
	})
	if err != nil {
		return nil, h.fail("ListMessages", err)
	}
	return &api.ListMessagesResponse{Messages: messagesFrom(page.Messages), HasMore: page.HasMore}, nil
}

func (h *ChatHandler) SendMessage(ctx context.Context, req *api.SendMessageRequest) (*api.SendMessageResponse, error) {
	ct, ok := common.ParseContentType(req.ContentType)
	if !ok {
		return nil, common.Validation("unsupported content type %q", req.ContentType)
	}

	view, err := h.chatService.SendMessage(ctx, actor(ctx), service.SendInput{
		RoomID:      req.RoomID,
		Content:     req.Content,
		ContentType: ct,
		ReplyToID:   req.ReplyToID,
	})
	if err != nil {
		return nil, h.fail("SendMessage", err)
	}
	return &api.SendMessageResponse{Message: api.MessageFrom(view.Message, view.Author)}, nil
}

func (h *ChatHandler) GetRole(ctx context.Context, req *api.GetRoleRequest) (*api.GetRoleResponse, error) {
	st, err := h.chatService.GetRole(ctx, actor(ctx), req.RoomID)
	if err != nil {
		return nil, h.fail("GetRole", err)
	}
	return &api.GetRoleResponse{Role: string(st.Role), IsMuted: st.IsMuted, MutedUntil: st.MutedUntil}, nil
}

func (h *ChatHandler) ListModerators(ctx context.Context, req *api.ListModeratorsRequest) (*api.ListModeratorsResponse, error) {
	mods, err := h.chatService.ListModerators(ctx, actor(ctx), req.RoomID)
	if err != nil {
		return nil, h.fail("ListModerators", err)
	}

	resp := &api.ListModeratorsResponse{Moderators: make([]api.Moderator, 0, len(mods))}
	for _, m := range mods {
		resp.Moderators = append(resp.Moderators, api.Moderator{
			Author: api.Author{UserID: m.UserID, Handle: m.Handle, DisplayName: m.DisplayName, AvatarURL: m.AvatarURL},
			Role:   m.Role,
		})
	}
	return resp, nil
}

func (h *ChatHandler) SetRole(ctx context.Context, req *api.SetRoleRequest) (*api.Empty, error) {
	if err := h.chatService.SetRole(ctx, actor(ctx), req.RoomID, req.UserID, common.Role(req.Role)); err != nil {
		return nil, h.fail("SetRole", err)
	}
	return &api.Empty{}, nil
}

func (h *ChatHandler) Mute(ctx context.Context, req *api.MuteRequest) (*api.MuteResponse, error) {
	expires, err := h.chatService.Mute(ctx, actor(ctx), req.RoomID, req.UserID, req.Minutes, req.Reason)
	if err != nil {
		return nil, h.fail("Mute", err)
	}
	return &api.MuteResponse{ExpiresAt: expires}, nil
}

func (h *ChatHandler) Unmute(ctx context.Context, req *api.UnmuteRequest) (*api.Empty, error) {
	if err := h.chatService.Unmute(ctx, actor(ctx), req.RoomID, req.UserID); err != nil {
		return nil, h.fail("Unmute", err)
	}
	return &api.Empty{}, nil
}

func (h *ChatHandler) TogglePin(ctx context.Context, req *api.MessageRequest) (*api.TogglePinResponse, error) {
	msg, err := h.chatService.TogglePin(ctx, actor(ctx), req.MessageID)
	if err != nil {
		return nil, h.fail("TogglePin", err)
	}
	return &api.TogglePinResponse{Message: api.MessageFrom(msg, nil)}, nil
}

func (h *ChatHandler) DeleteMessage(ctx context.Context, req *api.MessageRequest) (*api.Empty, error) {
	if err := h.chatService.DeleteMessage(ctx, actor(ctx), req.MessageID); err != nil {
		return nil, h.fail("DeleteMessage", err)
	}
	return &api.Empty{}, nil
}

func (h *ChatHandler) Report(ctx context.Context, req *api.ReportRequest) (*api.Empty, error) {
	if err := h.chatService.Report(ctx, actor(ctx), req.MessageID, req.Reason); err != nil {
		return nil, h.fail("Report", err)
	}
	return &api.Empty{}, nil
}

func (h *ChatHandler) MarkRead(ctx context.Context, req *api.MarkReadRequest) (*api.Empty, error) {
	if err := h.chatService.MarkRead(ctx, actor(ctx), req.RoomID); err != nil {
		return nil, h.fail("MarkRead", err)
	}
	return &api.Empty{}, nil
}
