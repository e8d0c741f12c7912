package dbmysql

import (
	"time"
)

type Message struct {
	ID          uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	RoomID      uint64    `gorm:"column:room_id;not null;index:idx_room_created,priority:1" json:"room_id"`
	UserID      uint64    `gorm:"column:user_id;not null;index" json:"user_id"`
	Content     string    `gorm:"column:content;type:text" json:"content"`
	ContentType string    `gorm:"column:content_type;type:enum('text','image');default:'text'" json:"content_type"`
	ReplyToID   *uint64   `gorm:"column:reply_to_id" json:"reply_to_id,omitempty"`
	IsPinned    bool      `gorm:"column:is_pinned;default:false" json:"is_pinned"`
	IsDeleted   bool      `gorm:"column:is_deleted;default:false" json:"is_deleted"`
	CreatedAt   time.Time `gorm:"column:created_at;type:datetime(3);index:idx_room_created,priority:2" json:"created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at;type:datetime(3)" json:"updated_at"`
}

func (Message) TableName() string {
	return "chat_messages"
}
