package dbmysql

import (
	"time"
)

// Account mirrors the portal subscriber row. The chat service only reads it,
// except for the phone verification flag.
type Account struct {
	UserID          uint64     `gorm:"primaryKey;column:user_id;autoIncrement" json:"user_id"`
	Handle          string     `gorm:"column:handle;uniqueIndex;size:50;not null" json:"handle"`
	DisplayName     string     `gorm:"column:display_name;size:100" json:"display_name"`
	AvatarURL       string     `gorm:"column:avatar_url;size:500" json:"avatar_url"`
	CityID          uint64     `gorm:"column:city_id" json:"city_id"`
	DistrictID      uint64     `gorm:"column:district_id" json:"district_id"`
	BuildingID      uint64     `gorm:"column:building_id" json:"building_id"`
	Phone           string     `gorm:"column:phone;size:20;index" json:"phone"`
	PhoneVerifiedAt *time.Time `gorm:"column:phone_verified_at" json:"phone_verified_at,omitempty"`
	Status          string     `gorm:"column:status;type:enum('active','banned','deleted');default:'active'" json:"status"`
	CreatedAt       time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time  `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Account) TableName() string {
	return "accounts"
}

// Name is what other members see.
func (a *Account) Name() string {
	if a.DisplayName != "" {
		return a.DisplayName
	}
	return a.Handle
}
