package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"

	"communitychat/internal/chat/moderation"
	"communitychat/internal/chat/repository"
	"communitychat/internal/common"
	"communitychat/internal/config"
	"communitychat/internal/dbmysql"
	"communitychat/internal/ratelimit"
)

const maxPageSize = 200

// MessageView is a stored message with its author, as delivered to clients.
// Author is nil when the account no longer exists.
type MessageView struct {
	Message *dbmysql.Message
	Author  *dbmysql.Account
}

type MessagePage struct {
	Messages []MessageView
	HasMore  bool
}

type SendInput struct {
	RoomID      uint64
	Content     string
	ContentType common.ContentType
	ReplyToID   *uint64
}

type RoleStatus struct {
	Role       common.Role
	IsMuted    bool
	MutedUntil *time.Time
}

// Broadcaster pushes fire-and-forget events to a room's subscribers.
type Broadcaster interface {
	PublishNewMessage(ctx context.Context, view MessageView) error
}

// ChatService defines the interface exposed to the handler layer
type ChatService interface {
	ListRooms(ctx context.Context, actor common.Actor) ([]repository.RoomSummary, error)
	ListMessages(ctx context.Context, actor common.Actor, roomID uint64, q repository.MessageQuery) (*MessagePage, error)
	SendMessage(ctx context.Context, actor common.Actor, in SendInput) (*MessageView, error)

	GetRole(ctx context.Context, actor common.Actor, roomID uint64) (*RoleStatus, error)
	ListModerators(ctx context.Context, actor common.Actor, roomID uint64) ([]repository.Moderator, error)
	SetRole(ctx context.Context, actor common.Actor, roomID, targetUserID uint64, role common.Role) error
	Mute(ctx context.Context, actor common.Actor, roomID, targetUserID uint64, minutes int, reason string) (time.Time, error)
	Unmute(ctx context.Context, actor common.Actor, roomID, targetUserID uint64) error

	TogglePin(ctx context.Context, actor common.Actor, messageID uint64) (*dbmysql.Message, error)
	DeleteMessage(ctx context.Context, actor common.Actor, messageID uint64) error
	Report(ctx context.Context, actor common.Actor, messageID uint64, reason string) error
	MarkRead(ctx context.Context, actor common.Actor, roomID uint64) error

	CanSubscribe(ctx context.Context, actor common.Actor, roomID uint64) (*dbmysql.Account, error)
	RegisterMedia(ctx context.Context, actor common.Actor, ref *dbmysql.MediaRef) error
}

type chatService struct {
	repo        repository.ChatRepository
	limits      *ratelimit.Registry
	broadcaster Broadcaster
	roles       *roleCache
	clock       clockwork.Clock
	cfg         config.ChatConfig
	logger      *slog.Logger
}

// Constructor used in DI/wire
func NewChatService(
	r repository.ChatRepository,
	limits *ratelimit.Registry,
	b Broadcaster,
	clock clockwork.Clock,
	cfg config.ChatConfig,
	logger *slog.Logger,
) ChatService {
	if cfg.PageSize <= 0 {
		cfg.PageSize = 50
	}
	return &chatService{
		repo:        r,
		limits:      limits,
		broadcaster: b,
		roles:       newRoleCache(cfg.RoleCacheSize, cfg.RoleCacheTTL),
		clock:       clock,
		cfg:         cfg,
		logger:      logger,
	}
}

// now is the store timestamp: UTC, millisecond precision.
func (s *chatService) now() time.Time {
	return s.clock.Now().UTC().Truncate(time.Millisecond)
}

func requireActor(actor common.Actor) error {
	if actor.UserID == 0 {
		return common.ErrUnauthenticated
	}
	return nil
}

// SendMessage validates, rate limits and admits a message, then broadcasts
// it. The change feed picks the insert up from the outbox on its own.
func (s *chatService) SendMessage(ctx context.Context, actor common.Actor, in SendInput) (*MessageView, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	if err := common.ValidateRoomID(in.RoomID); err != nil {
		return nil, err
	}
	if in.ContentType == "" {
		in.ContentType = common.ContentTypeText
	}
	if err := common.ValidateContent(in.Content, in.ContentType, s.cfg.MaxContentLength); err != nil {
		return nil, err
	}

	if in.ContentType == common.ContentTypeImage {
		ref, err := s.repo.GetMediaRef(ctx, in.Content)
		if err != nil {
			if errors.Is(err, common.ErrNotFound) {
				return nil, common.Validation("attached image was not found")
			}
			return nil, err
		}
		if ref.UploadedBy != actor.UserID {
			return nil, common.Validation("attached image belongs to another user")
		}
	}

	if in.ReplyToID != nil {
		target, err := s.repo.GetMessage(ctx, *in.ReplyToID)
		if err != nil {
			if errors.Is(err, common.ErrNotFound) {
				return nil, common.Validation("reply target not found")
			}
			return nil, err
		}
		if target.RoomID != in.RoomID || target.IsDeleted {
			return nil, common.Validation("reply target not found")
		}
	}

	if res := s.limits.Messages().Allow(ratelimit.UserKey(actor.UserID)); !res.Allowed {
		return nil, common.RateLimited(res.ResetIn)
	}

	now := s.now()
	msg := &dbmysql.Message{
		RoomID:      in.RoomID,
		UserID:      actor.UserID,
		Content:     in.Content,
		ContentType: string(in.ContentType),
		ReplyToID:   in.ReplyToID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	var author *dbmysql.Account
	err := s.repo.Admit(ctx, msg, now, func(snap repository.Snapshot) error {
		author = snap.Account
		return moderation.Evaluate(moderation.Input{
			Room:       snap.Room,
			Account:    snap.Account,
			Membership: snap.Membership,
			ActiveMute: snap.ActiveMute,
			Now:        now,
		})
	})
	if err != nil {
		if errors.Is(err, common.ErrMuted) || errors.Is(err, common.ErrBanned) {
			s.roles.invalidate(in.RoomID, actor.UserID)
		}
		return nil, err
	}

	view := &MessageView{Message: msg, Author: author}
	if s.broadcaster != nil {
		if err := s.broadcaster.PublishNewMessage(ctx, *view); err != nil {
			s.logger.Warn("[CHAT] broadcast failed", "room_id", msg.RoomID, "message_id", msg.ID, "error", err)
		}
	}
	return view, nil
}

func (s *chatService) ListRooms(ctx context.Context, actor common.Actor) ([]repository.RoomSummary, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	account, err := s.repo.GetAccount(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	return s.repo.ListRooms(ctx, account)
}

// ListMessages pages through a room the actor can see.
func (s *chatService) ListMessages(ctx context.Context, actor common.Actor, roomID uint64, q repository.MessageQuery) (*MessagePage, error) {
	if _, _, err := s.visibleRoom(ctx, actor, roomID); err != nil {
		return nil, err
	}

	if q.Limit <= 0 {
		q.Limit = s.cfg.PageSize
	}
	if q.Limit > maxPageSize {
		q.Limit = maxPageSize
	}

	messages, hasMore, err := s.repo.ListMessages(ctx, roomID, q)
	if err != nil {
		return nil, err
	}

	views, err := s.withAuthors(ctx, messages)
	if err != nil {
		return nil, err
	}
	return &MessagePage{Messages: views, HasMore: hasMore}, nil
}

func (s *chatService) withAuthors(ctx context.Context, messages []*dbmysql.Message) ([]MessageView, error) {
	seen := make(map[uint64]bool, len(messages))
	ids := make([]uint64, 0, len(messages))
	for _, m := range messages {
		if !seen[m.UserID] {
			seen[m.UserID] = true
			ids = append(ids, m.UserID)
		}
	}

	authors, err := s.repo.AccountsByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	views := make([]MessageView, 0, len(messages))
	for _, m := range messages {
		views = append(views, MessageView{Message: m, Author: authors[m.UserID]})
	}
	return views, nil
}

// visibleRoom loads the room and account and checks the room is active and
// inside the account's scope.
func (s *chatService) visibleRoom(ctx context.Context, actor common.Actor, roomID uint64) (*dbmysql.Room, *dbmysql.Account, error) {
	if err := requireActor(actor); err != nil {
		return nil, nil, err
	}
	if err := common.ValidateRoomID(roomID); err != nil {
		return nil, nil, err
	}

	room, err := s.repo.GetRoom(ctx, roomID)
	if err != nil {
		return nil, nil, err
	}
	if !room.IsActive {
		return nil, nil, common.ErrRoomInactive
	}
	account, err := s.repo.GetAccount(ctx, actor.UserID)
	if err != nil {
		return nil, nil, err
	}
	if !moderation.CheckScope(room, account) {
		return nil, nil, common.AccessDenied("this room is outside your service area")
	}
	return room, account, nil
}

// CanSubscribe is the realtime gateway's join check. It creates the
// membership row on first join.
func (s *chatService) CanSubscribe(ctx context.Context, actor common.Actor, roomID uint64) (*dbmysql.Account, error) {
	_, account, err := s.visibleRoom(ctx, actor, roomID)
	if err != nil {
		return nil, err
	}
	if account.Status == "banned" {
		return nil, common.ErrBanned
	}

	membership, err := s.repo.EnsureMembership(ctx, roomID, actor.UserID)
	if err != nil {
		return nil, err
	}
	if membership != nil && membership.IsBanned {
		return nil, common.ErrBanned
	}
	return account, nil
}

func (s *chatService) MarkRead(ctx context.Context, actor common.Actor, roomID uint64) error {
	if err := requireActor(actor); err != nil {
		return err
	}
	if err := common.ValidateRoomID(roomID); err != nil {
		return err
	}
	return s.repo.MarkRead(ctx, roomID, actor.UserID, s.now())
}

func (s *chatService) RegisterMedia(ctx context.Context, actor common.Actor, ref *dbmysql.MediaRef) error {
	if err := requireActor(actor); err != nil {
		return err
	}
	ref.UploadedBy = actor.UserID
	return s.repo.CreateMediaRef(ctx, ref)
}
