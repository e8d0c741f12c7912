package api

import (
	"context"

	"google.golang.org/grpc"
)

const ServiceName = "communitychat.v1.ChatService"

const (
	ChatService_ListRooms_FullMethodName      = "/communitychat.v1.ChatService/ListRooms"
	ChatService_ListMessages_FullMethodName   = "/communitychat.v1.ChatService/ListMessages"
	ChatService_SendMessage_FullMethodName    = "/communitychat.v1.ChatService/SendMessage"
	ChatService_GetRole_FullMethodName        = "/communitychat.v1.ChatService/GetRole"
	ChatService_ListModerators_FullMethodName = "/communitychat.v1.ChatService/ListModerators"
	ChatService_SetRole_FullMethodName        = "/communitychat.v1.ChatService/SetRole"
	ChatService_Mute_FullMethodName           = "/communitychat.v1.ChatService/Mute"
	ChatService_Unmute_FullMethodName         = "/communitychat.v1.ChatService/Unmute"
	ChatService_TogglePin_FullMethodName      = "/communitychat.v1.ChatService/TogglePin"
	ChatService_DeleteMessage_FullMethodName  = "/communitychat.v1.ChatService/DeleteMessage"
	ChatService_Report_FullMethodName         = "/communitychat.v1.ChatService/Report"
	ChatService_MarkRead_FullMethodName       = "/communitychat.v1.ChatService/MarkRead"
)

// ChatServiceServer is the server API for the chat service.
type ChatServiceServer interface {
	ListRooms(context.Context, *ListRoomsRequest) (*ListRoomsResponse, error)
	ListMessages(context.Context, *ListMessagesRequest) (*ListMessagesResponse, error)
	SendMessage(context.Context, *SendMessageRequest) (*SendMessageResponse, error)
	GetRole(context.Context, *GetRoleRequest) (*GetRoleResponse, error)
	ListModerators(context.Context, *ListModeratorsRequest) (*ListModeratorsResponse, error)
	SetRole(context.Context, *SetRoleRequest) (*Empty, error)
	Mute(context.Context, *MuteRequest) (*MuteResponse, error)
	Unmute(context.Context, *UnmuteRequest) (*Empty, error)
	TogglePin(context.Context, *MessageRequest) (*TogglePinResponse, error)
	DeleteMessage(context.Context, *MessageRequest) (*Empty, error)
	Report(context.Context, *ReportRequest) (*Empty, error)
	MarkRead(context.Context, *MarkReadRequest) (*Empty, error)
}

func RegisterChatServiceServer(s grpc.ServiceRegistrar, srv ChatServiceServer) {
	s.RegisterService(&ChatService_ServiceDesc, srv)
}

// unary builds a method handler the way protoc-gen-go-grpc would emit one.
func unary[Req, Resp any](name string, call func(ChatServiceServer, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	fullMethod := "/" + ServiceName + "/" + name
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(ChatServiceServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
			handler := func(ctx context.Context, req interface{}) (interface{}, error) {
				return call(srv.(ChatServiceServer), ctx, req.(*Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

var ChatService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*ChatServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unary("ListRooms", ChatServiceServer.ListRooms),
		unary("ListMessages", ChatServiceServer.ListMessages),
		unary("SendMessage", ChatServiceServer.SendMessage),
		unary("GetRole", ChatServiceServer.GetRole),
		unary("ListModerators", ChatServiceServer.ListModerators),
		unary("SetRole", ChatServiceServer.SetRole),
		unary("Mute", ChatServiceServer.Mute),
		unary("Unmute", ChatServiceServer.Unmute),
		unary("TogglePin", ChatServiceServer.TogglePin),
		unary("DeleteMessage", ChatServiceServer.DeleteMessage),
		unary("Report", ChatServiceServer.Report),
		unary("MarkRead", ChatServiceServer.MarkRead),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "communitychat/v1/chat.proto",
}
