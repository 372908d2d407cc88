package gamification

import "gorm.io/gorm"

// Points transaction types
const (
	TxCourseCompletion = "COURSE_COMPLETION"
	TxAssessment       = "ASSESSMENT"
	TxAchievement      = "ACHIEVEMENT"
	TxManual           = "MANUAL"
)

// PointsTransaction is one row in the append-only points ledger. A user's
// total is the sum of their transactions; UserLevel caches that sum.
type PointsTransaction struct {
	gorm.Model
	UserID          uint   `json:"user_id" gorm:"index;not null"`
	Points          int    `json:"points" gorm:"not null"` // signed delta
	TransactionType string `json:"transaction_type" gorm:"not null"`
	ReferenceID     *uint  `json:"reference_id"` // course, content or achievement id
	Description     string `json:"description"`
}
