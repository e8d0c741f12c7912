package dbmysql

import "time"

// Room is a community chat bound to a city, district or building. Rooms are
// created by the provisioning job.
type Room struct {
	ID         uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	Name       string    `gorm:"size:120;not null" json:"name"`
	Scope      string    `gorm:"type:enum('city','district','building');not null" json:"scope"`
	CityID     uint64    `gorm:"column:city_id;index" json:"city_id"`
	DistrictID uint64    `gorm:"column:district_id" json:"district_id"`
	BuildingID uint64    `gorm:"column:building_id" json:"building_id"`
	IsActive   bool      `gorm:"column:is_active;default:true" json:"is_active"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (Room) TableName() string {
	return "chat_rooms"
}
