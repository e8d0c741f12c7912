package dbmysql

import "time"

type Membership struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	RoomID    uint64    `gorm:"column:room_id;not null;uniqueIndex:idx_room_user" json:"room_id"`
	UserID    uint64    `gorm:"column:user_id;not null;uniqueIndex:idx_room_user" json:"user_id"`
	Role      string    `gorm:"column:role;type:enum('member','moderator','admin');default:'member'" json:"role"`
	IsBanned  bool      `gorm:"column:is_banned;default:false" json:"is_banned"`
	JoinedAt  time.Time `gorm:"column:joined_at;autoCreateTime" json:"joined_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Membership) TableName() string {
	return "chat_memberships"
}

// Mute denies admission in a room until ExpiresAt. Expired rows are inert and
// purged by the janitor.
type Mute struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	RoomID    uint64    `gorm:"column:room_id;not null;index:idx_mute_room_user,priority:1" json:"room_id"`
	UserID    uint64    `gorm:"column:user_id;not null;index:idx_mute_room_user,priority:2" json:"user_id"`
	ExpiresAt time.Time `gorm:"column:expires_at;not null;index" json:"expires_at"`
	Reason    string    `gorm:"column:reason;size:255" json:"reason"`
	MutedBy   uint64    `gorm:"column:muted_by" json:"muted_by"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (Mute) TableName() string {
	return "chat_mutes"
}
