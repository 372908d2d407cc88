package models

import (
	"time"

	"gorm.io/gorm"
)

// LoginTracking records every successful login. The gamification login-streak
// evaluator walks these rows grouped by calendar day.
type LoginTracking struct {
	gorm.Model
	UserID    uint      `json:"user_id" gorm:"index"`
	IPAddress string    `json:"ip_address"`
	Device    string    `json:"device"`
	Timestamp time.Time `json:"timestamp"`
	IsDeleted bool      `gorm:"default:false"`
}
