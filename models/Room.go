package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// RoomType is a bookable category/listing (e.g. "Zen Nest"). Slug is the
// canonical key everything else references; the display name is free to
// change without touching reservations.
type RoomType struct {
	gorm.Model
	Slug         string         `json:"slug" gorm:"uniqueIndex;not null"`
	Name         string         `json:"name" gorm:"not null"`
	Description  string         `json:"description"`
	NightlyPrice float64        `json:"nightlyPrice"`
	Currency     string         `json:"currency" gorm:"default:'USD'"`
	Photos       datatypes.JSON `json:"photos"`
	Amenities    datatypes.JSON `json:"amenities"`

	Units []RoomUnit `json:"units,omitempty" gorm:"foreignKey:RoomTypeID"`
}

// RoomUnit is one physical, bookable instance of a RoomType.
type RoomUnit struct {
	gorm.Model
	RoomTypeID uint   `json:"roomTypeID" gorm:"not null;index"`
	Name       string `json:"name" gorm:"not null"`
	IsActive   bool   `json:"isActive" gorm:"default:true"`

	RoomType *RoomType `json:"roomType,omitempty" gorm:"foreignKey:RoomTypeID"`
}
