package models

import (
	"gorm.io/gorm"
)

// Room occupancy is never stored; it is derived from reservations at read time.
type Room struct {
	gorm.Model

	// Nullable so a room without a type doesn't insert FK 0.
	RoomTypeID *uint `json:"room_type_id,omitempty" gorm:"column:room_type_id"`

	Name          string  `json:"name" gorm:"column:name;uniqueIndex;type:varchar(50)"`
	Floor         string  `json:"floor" gorm:"type:varchar(10)"`
	Capacity      int     `json:"capacity" gorm:"column:capacity;default:2"`
	PricePerNight float64 `json:"price_per_night" gorm:"column:price_per_night"`
	IsActive      bool    `json:"is_active" gorm:"column:is_active"`
	Description   string  `json:"description" gorm:"type:text"`

	RoomType *RoomType `json:"room_type,omitempty" gorm:"foreignKey:RoomTypeID"`
}

// RoomOccupancy is the derived Occupied/Vacant label.
type RoomOccupancy string

const (
	RoomOccupied RoomOccupancy = "Occupied"
	RoomVacant   RoomOccupancy = "Vacant"
)
