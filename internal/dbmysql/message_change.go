package dbmysql

import "time"

// MessageChange is the outbox row written in the same transaction as every
// message insert or update. The change feed tails this table by ID.
type MessageChange struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	RoomID    uint64    `gorm:"column:room_id;not null" json:"room_id"`
	MessageID uint64    `gorm:"column:message_id;not null" json:"message_id"`
	Op        string    `gorm:"column:op;type:enum('insert','update');not null" json:"op"`
	CreatedAt time.Time `gorm:"column:created_at;index" json:"created_at"`
}

func (MessageChange) TableName() string {
	return "chat_message_changes"
}

type ReadMarker struct {
	RoomID     uint64    `gorm:"primaryKey;column:room_id;autoIncrement:false" json:"room_id"`
	UserID     uint64    `gorm:"primaryKey;column:user_id;autoIncrement:false" json:"user_id"`
	LastReadAt time.Time `gorm:"column:last_read_at;type:datetime(3)" json:"last_read_at"`
}

func (ReadMarker) TableName() string {
	return "chat_read_markers"
}

type Report struct {
	ID         uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	RoomID     uint64    `gorm:"column:room_id;not null;index" json:"room_id"`
	MessageID  uint64    `gorm:"column:message_id;not null;uniqueIndex:idx_report_message_reporter" json:"message_id"`
	ReporterID uint64    `gorm:"column:reporter_id;not null;uniqueIndex:idx_report_message_reporter" json:"reporter_id"`
	Reason     string    `gorm:"column:reason;size:500" json:"reason"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (Report) TableName() string {
	return "chat_reports"
}
