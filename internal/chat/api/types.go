// Package api holds the wire types shared by the chat RPC server, the
// realtime gateway and clients.
package api

import (
	"time"
)

type Author struct {
	UserID      uint64 `json:"user_id"`
	Handle      string `json:"handle,omitempty"`
	DisplayName string `json:"display_name"`
	AvatarURL   string `json:"avatar_url,omitempty"`
}

type Message struct {
	ID          uint64    `json:"id"`
	RoomID      uint64    `json:"room_id"`
	UserID      uint64    `json:"user_id"`
	Content     string    `json:"content"`
	ContentType string    `json:"content_type"`
	ReplyToID   *uint64   `json:"reply_to_id,omitempty"`
	IsPinned    bool      `json:"is_pinned"`
	IsDeleted   bool      `json:"is_deleted"`
	CreatedAt   time.Time `json:"created_at"`
	Author      *Author   `json:"author,omitempty"`
}

type Room struct {
	ID          uint64   `json:"id"`
	Name        string   `json:"name"`
	Scope       string   `json:"scope"`
	IsActive    bool     `json:"is_active"`
	UnreadCount int64    `json:"unread_count"`
	LastMessage *Message `json:"last_message,omitempty"`
}

type Moderator struct {
	Author
	Role string `json:"role"`
}

// PresenceInfo is what a session tracks on a room channel.
type PresenceInfo struct {
	SessionKey  string `json:"session_key,omitempty"`
	UserID      uint64 `json:"user_id"`
	DisplayName string `json:"display_name"`
	AvatarURL   string `json:"avatar_url,omitempty"`
}

type Empty struct{}

type ListRoomsRequest struct{}

type ListRoomsResponse struct {
	Rooms []Room `json:"rooms"`
}

// ListMessagesRequest pages a room. Before and Pinned pages come back
// newest first; After and IDs lookups come back oldest first.
type ListMessagesRequest struct {
	RoomID uint64   `json:"room_id"`
	Before uint64   `json:"before,omitempty"`
	After  uint64   `json:"after,omitempty"`
	IDs    []uint64 `json:"ids,omitempty"`
	Pinned bool     `json:"pinned,omitempty"`
	Limit  int      `json:"limit,omitempty"`
}

type ListMessagesResponse struct {
	Messages []Message `json:"messages"`
	HasMore  bool      `json:"has_more"`
}

type SendMessageRequest struct {
	RoomID      uint64  `json:"room_id"`
	Content     string  `json:"content"`
	ContentType string  `json:"content_type,omitempty"`
	ReplyToID   *uint64 `json:"reply_to_id,omitempty"`
}

type SendMessageResponse struct {
	Message Message `json:"message"`
}

type GetRoleRequest struct {
	RoomID uint64 `json:"room_id"`
}

type GetRoleResponse struct {
	Role       string     `json:"role"`
	IsMuted    bool       `json:"is_muted"`
	MutedUntil *time.Time `json:"muted_until,omitempty"`
}

type ListModeratorsRequest struct {
	RoomID uint64 `json:"room_id"`
}

type ListModeratorsResponse struct {
	Moderators []Moderator `json:"moderators"`
}

type SetRoleRequest struct {
	RoomID uint64 `json:"room_id"`
	UserID uint64 `json:"user_id"`
	Role   string `json:"role"`
}

type MuteRequest struct {
	RoomID  uint64 `json:"room_id"`
	UserID  uint64 `json:"user_id"`
	Minutes int    `json:"minutes"`
	Reason  string `json:"reason,omitempty"`
}

type MuteResponse struct {
	ExpiresAt time.Time `json:"expires_at"`
}

type UnmuteRequest struct {
	RoomID uint64 `json:"room_id"`
	UserID uint64 `json:"user_id"`
}

type MessageRequest struct {
	MessageID uint64 `json:"message_id"`
}

type TogglePinResponse struct {
	Message Message `json:"message"`
}

type ReportRequest struct {
	MessageID uint64 `json:"message_id"`
	Reason    string `json:"reason"`
}

type MarkReadRequest struct {
	RoomID uint64 `json:"room_id"`
}

// UploadResponse is returned by the media upload endpoint. FileID is the
// content of the image message that references the upload.
type UploadResponse struct {
	FileID      string `json:"file_id"`
	URL         string `json:"url"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
}

type VerificationRequest struct {
	Phone string `json:"phone"`
}

type VerificationConfirm struct {
	Phone string `json:"phone"`
	Code  string `json:"code"`
}

// ErrorBody is the JSON error shape of the HTTP gateway and of error frames.
type ErrorBody struct {
	Code         string     `json:"code"`
	Message      string     `json:"message"`
	MutedUntil   *time.Time `json:"muted_until,omitempty"`
	RetryAfterMs int64      `json:"retry_after_ms,omitempty"`
}
