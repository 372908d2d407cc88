package course

import "gorm.io/gorm"

// ForumPost is a discussion post attached to a course. Post counts feed the
// forum-participation achievement evaluator.
type ForumPost struct {
	gorm.Model
	UserID    uint   `json:"user_id" gorm:"index;not null"`
	CourseID  uint   `json:"course_id" gorm:"index;not null"`
	ParentID  *uint  `json:"parent_id" gorm:"index"` // nil for top-level posts
	Body      string `json:"body"`
	IsDeleted bool   `gorm:"default:false"`
}
