package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"communitychat/internal/common"
	"communitychat/internal/dbmysql"
)

// MessageQuery selects one page of a room's history. At most one of
// Before, After, IDs and Pinned is honoured, in that order of precedence:
// IDs, Pinned, After, Before, newest.
type MessageQuery struct {
	Before uint64
	After  uint64
	IDs    []uint64
	Pinned bool
	Limit  int
}

// RoomSummary is a visible room with the caller's unread count.
type RoomSummary struct {
	Room        dbmysql.Room
	UnreadCount int64
	LastMessage *dbmysql.Message
}

type Moderator struct {
	UserID      uint64 `gorm:"column:user_id"`
	DisplayName string `gorm:"column:display_name"`
	Handle      string `gorm:"column:handle"`
	AvatarURL   string `gorm:"column:avatar_url"`
	Role        string `gorm:"column:role"`
}

// Snapshot is the row state the moderation gate decides on. It is read
// inside the admission transaction with the membership row locked.
type Snapshot struct {
	Room       *dbmysql.Room
	Account    *dbmysql.Account
	Membership *dbmysql.Membership
	ActiveMute *dbmysql.Mute
}

// GateFunc rejects an admission by returning an error, which rolls the
// transaction back.
type GateFunc func(Snapshot) error

// MuteAuthorizer decides whether actor may mute target. Both memberships
// may be nil when the row does not exist.
type MuteAuthorizer func(actor, target *dbmysql.Membership) error

type ChatRepository interface {
	Admit(ctx context.Context, msg *dbmysql.Message, now time.Time, gate GateFunc) error

	GetRoom(ctx context.Context, roomID uint64) (*dbmysql.Room, error)
	GetAccount(ctx context.Context, userID uint64) (*dbmysql.Account, error)
	AccountsByIDs(ctx context.Context, userIDs []uint64) (map[uint64]*dbmysql.Account, error)
	ListRooms(ctx context.Context, account *dbmysql.Account) ([]RoomSummary, error)

	GetMessage(ctx context.Context, messageID uint64) (*dbmysql.Message, error)
	ListMessages(ctx context.Context, roomID uint64, q MessageQuery) ([]*dbmysql.Message, bool, error)
	UpdateMessage(ctx context.Context, msg *dbmysql.Message, fields map[string]interface{}) error

	GetMembership(ctx context.Context, roomID, userID uint64) (*dbmysql.Membership, error)
	EnsureMembership(ctx context.Context, roomID, userID uint64) (*dbmysql.Membership, error)
	ActiveMute(ctx context.Context, roomID, userID uint64, now time.Time) (*dbmysql.Mute, error)
	ListModerators(ctx context.Context, roomID uint64) ([]Moderator, error)
	SetRole(ctx context.Context, roomID, userID uint64, role common.Role) error
	Mute(ctx context.Context, mute *dbmysql.Mute, authorize MuteAuthorizer) error
	Unmute(ctx context.Context, roomID, userID uint64, now time.Time) (int64, error)

	CreateReport(ctx context.Context, report *dbmysql.Report) error
	MarkRead(ctx context.Context, roomID, userID uint64, at time.Time) error

	CreateMediaRef(ctx context.Context, ref *dbmysql.MediaRef) error
	GetMediaRef(ctx context.Context, fileID string) (*dbmysql.MediaRef, error)
}

type chatRepo struct {
	db *gorm.DB
}

func NewChatRepository(db *gorm.DB) ChatRepository {
	return &chatRepo{db: db}
}

func (r *chatRepo) GetRoom(ctx context.Context, roomID uint64) (*dbmysql.Room, error) {
	room, err := findRoom(r.db.WithContext(ctx), roomID)
	if err != nil {
		return nil, err
	}
	if room == nil {
		return nil, common.ErrRoomNotFound
	}
	return room, nil
}

func (r *chatRepo) GetAccount(ctx context.Context, userID uint64) (*dbmysql.Account, error) {
	account, err := findAccount(r.db.WithContext(ctx), userID)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, common.ErrAccountNotFound
	}
	return account, nil
}

func (r *chatRepo) AccountsByIDs(ctx context.Context, userIDs []uint64) (map[uint64]*dbmysql.Account, error) {
	return accountsByIDs(r.db.WithContext(ctx), userIDs)
}

// ListRooms returns the active rooms whose scope covers the account.
func (r *chatRepo) ListRooms(ctx context.Context, account *dbmysql.Account) ([]RoomSummary, error) {
	db := r.db.WithContext(ctx)

	var rooms []dbmysql.Room
	err := db.
		Where("is_active = ?", true).
		Where(db.
			Where("scope = ? AND city_id = ?", common.ScopeCity, account.CityID).
			Or("scope = ? AND city_id = ? AND district_id = ?", common.ScopeDistrict, account.CityID, account.DistrictID).
			Or("scope = ? AND city_id = ? AND district_id = ? AND building_id = ?",
				common.ScopeBuilding, account.CityID, account.DistrictID, account.BuildingID)).
		Order("id ASC").
		Find(&rooms).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list rooms: %w", err)
	}

	summaries := make([]RoomSummary, 0, len(rooms))
	for _, room := range rooms {
		summary := RoomSummary{Room: room}

		var last dbmysql.Message
		err := db.Where("room_id = ? AND is_deleted = ?", room.ID, false).
			Order("created_at DESC, id DESC").
			Take(&last).Error
		switch {
		case err == nil:
			summary.LastMessage = &last
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return nil, fmt.Errorf("failed to load last message: %w", err)
		}

		unread := db.Model(&dbmysql.Message{}).
			Where("room_id = ? AND is_deleted = ? AND user_id <> ?", room.ID, false, account.UserID)
		var marker dbmysql.ReadMarker
		err = db.Where("room_id = ? AND user_id = ?", room.ID, account.UserID).Take(&marker).Error
		switch {
		case err == nil:
			unread = unread.Where("created_at > ?", marker.LastReadAt)
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return nil, fmt.Errorf("failed to load read marker: %w", err)
		}
		if err := unread.Count(&summary.UnreadCount).Error; err != nil {
			return nil, fmt.Errorf("failed to count unread: %w", err)
		}

		summaries = append(summaries, summary)
	}
	return summaries, nil
}

func (r *chatRepo) GetMessage(ctx context.Context, messageID uint64) (*dbmysql.Message, error) {
	var msg dbmysql.Message
	if err := r.db.WithContext(ctx).Where("id = ?", messageID).Take(&msg).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &common.ChatError{Code: common.CodeNotFound, Message: "message not found"}
		}
		return nil, fmt.Errorf("failed to get message: %w", err)
	}
	return &msg, nil
}

// ListMessages returns a page and whether more rows exist beyond it. Pages
// going back in time (default, Before, Pinned) are newest-first; After and
// IDs pages are oldest-first.
func (r *chatRepo) ListMessages(ctx context.Context, roomID uint64, q MessageQuery) ([]*dbmysql.Message, bool, error) {
	query := r.db.WithContext(ctx).Where("room_id = ?", roomID)
	limit := q.Limit

	switch {
	case len(q.IDs) > 0:
		var messages []*dbmysql.Message
		err := query.Where("id IN ?", q.IDs).Order("created_at ASC, id ASC").Find(&messages).Error
		if err != nil {
			return nil, false, fmt.Errorf("failed to get messages by id: %w", err)
		}
		return messages, false, nil
	case q.Pinned:
		query = query.Where("is_pinned = ? AND is_deleted = ?", true, false).Order("created_at DESC, id DESC")
	case q.After > 0:
		query = query.Where("id > ? AND is_deleted = ?", q.After, false).Order("id ASC")
	case q.Before > 0:
		query = query.Where("id < ? AND is_deleted = ?", q.Before, false).Order("created_at DESC, id DESC")
	default:
		query = query.Where("is_deleted = ?", false).Order("created_at DESC, id DESC")
	}

	if limit > 0 {
		query = query.Limit(limit + 1)
	}

	var messages []*dbmysql.Message
	if err := query.Find(&messages).Error; err != nil {
		return nil, false, fmt.Errorf("failed to list messages: %w", err)
	}

	hasMore := false
	if limit > 0 && len(messages) > limit {
		messages = messages[:limit]
		hasMore = true
	}
	return messages, hasMore, nil
}

// UpdateMessage applies fields and writes an update change row in one
// transaction.
func (r *chatRepo) UpdateMessage(ctx context.Context, msg *dbmysql.Message, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(msg).Updates(fields).Error; err != nil {
			return fmt.Errorf("failed to update message: %w", err)
		}
		return writeChange(tx, msg, common.ChangeUpdate)
	})
}

func (r *chatRepo) CreateReport(ctx context.Context, report *dbmysql.Report) error {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(report).Error
	if err != nil {
		return fmt.Errorf("failed to create report: %w", err)
	}
	return nil
}

func (r *chatRepo) MarkRead(ctx context.Context, roomID, userID uint64, at time.Time) error {
	marker := &dbmysql.ReadMarker{RoomID: roomID, UserID: userID, LastReadAt: at}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoUpdates: clause.AssignmentColumns([]string{"last_read_at"})}).
		Create(marker).Error
	if err != nil {
		return fmt.Errorf("failed to mark read: %w", err)
	}
	return nil
}

func (r *chatRepo) CreateMediaRef(ctx context.Context, ref *dbmysql.MediaRef) error {
	if err := r.db.WithContext(ctx).Create(ref).Error; err != nil {
		return fmt.Errorf("failed to create media ref: %w", err)
	}
	return nil
}

func (r *chatRepo) GetMediaRef(ctx context.Context, fileID string) (*dbmysql.MediaRef, error) {
	var ref dbmysql.MediaRef
	if err := r.db.WithContext(ctx).Where("file_id = ?", fileID).Take(&ref).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &common.ChatError{Code: common.CodeNotFound, Message: "media not found"}
		}
		return nil, fmt.Errorf("failed to get media ref: %w", err)
	}
	return &ref, nil
}

func findRoom(db *gorm.DB, roomID uint64) (*dbmysql.Room, error) {
	var room dbmysql.Room
	if err := db.Where("id = ?", roomID).Take(&room).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get room: %w", err)
	}
	return &room, nil
}

func findAccount(db *gorm.DB, userID uint64) (*dbmysql.Account, error) {
	var account dbmysql.Account
	if err := db.Where("user_id = ?", userID).Take(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return &account, nil
}

func accountsByIDs(db *gorm.DB, userIDs []uint64) (map[uint64]*dbmysql.Account, error) {
	out := make(map[uint64]*dbmysql.Account, len(userIDs))
	if len(userIDs) == 0 {
		return out, nil
	}
	var accounts []*dbmysql.Account
	if err := db.Where("user_id IN ?", userIDs).Find(&accounts).Error; err != nil {
		return nil, fmt.Errorf("failed to load accounts: %w", err)
	}
	for _, a := range accounts {
		out[a.UserID] = a
	}
	return out, nil
}

func writeChange(tx *gorm.DB, msg *dbmysql.Message, op common.ChangeOp) error {
	change := &dbmysql.MessageChange{
		RoomID:    msg.RoomID,
		MessageID: msg.ID,
		Op:        string(op),
	}
	if err := tx.Create(change).Error; err != nil {
		return fmt.Errorf("failed to write change: %w", err)
	}
	return nil
}
