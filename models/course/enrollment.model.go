package course

import (
	"time"

	"gorm.io/gorm"
)

// Enrollment tracks a user's enrollment in a course with progress
type Enrollment struct {
	gorm.Model
	UserID            uint       `json:"user_id" gorm:"uniqueIndex:idx_user_course_enrollment;not null"`
	CourseID          uint       `json:"course_id" gorm:"uniqueIndex:idx_user_course_enrollment;not null"`
	Status            string     `json:"status" gorm:"default:'ENROLLED'"` // PENDING_PAYMENT, ENROLLED, IN_PROGRESS, COMPLETED, CANCELLED
	Progress          float64    `json:"progress" gorm:"default:0"`        // Completion percentage (0-100)
	CompletedContents int        `json:"completed_contents" gorm:"default:0"`
	TotalContents     int        `json:"total_contents" gorm:"default:0"`
	CompletedAt       *time.Time `json:"completed_at"`
	IsDeleted         bool       `gorm:"default:false"`
}
