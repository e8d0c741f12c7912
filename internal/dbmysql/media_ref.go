package dbmysql

import (
	"time"
)

// MediaRef records an image uploaded to GridFS so image messages can be
// checked against their uploader.
type MediaRef struct {
	ID          uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	FileID      string    `gorm:"size:24;uniqueIndex" json:"file_id"` // MongoDB ObjectID
	FileName    string    `gorm:"size:255" json:"file_name"`
	ContentType string    `gorm:"size:100" json:"content_type"`
	Size        int64     `json:"size"`
	UploadedBy  uint64    `gorm:"index" json:"uploaded_by"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (MediaRef) TableName() string {
	return "media_refs"
}

type PhoneVerification struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    uint64    `gorm:"column:user_id;not null;index" json:"user_id"`
	Phone     string    `gorm:"column:phone;size:20;not null;index" json:"phone"`
	CodeHash  string    `gorm:"column:code_hash;size:255;not null" json:"-"`
	ExpiresAt time.Time `gorm:"column:expires_at;not null" json:"expires_at"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (PhoneVerification) TableName() string {
	return "phone_verifications"
}
