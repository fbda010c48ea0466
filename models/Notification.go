package models

import (
	"gorm.io/gorm"
)

type Notification struct {
	gorm.Model
	UserID  uint   `json:"userID" gorm:"index"`
	Type    string `json:"type"`
	Title   string `json:"title"`
	Message string `json:"message"`
	RefType string `json:"refType"`
	RefID   uint   `json:"refID"`
	IsRead  bool   `json:"isRead" gorm:"default:false"`
}
