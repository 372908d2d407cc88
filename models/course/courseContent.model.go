package course

import "gorm.io/gorm"

// CourseContent is a single content item inside a course
type CourseContent struct {
	gorm.Model
	CourseID    uint   `json:"course_id" gorm:"index;not null"`
	Title       string `json:"title"`
	Description string `json:"description"`
	ContentType string `json:"content_type" gorm:"default:'ARTICLE'"` // VIDEO, ARTICLE, MCQ
	ContentURL  string `json:"content_url"`
	Body        string `json:"body"`
	OrderIndex  int    `json:"order_index" gorm:"default:0"`
	IsPublished bool   `json:"is_published" gorm:"default:false"`
	IsDeleted   bool   `gorm:"default:false"`
}

// ContentCompletion marks a content item as completed by a user
type ContentCompletion struct {
	gorm.Model
	UserID          uint   `json:"user_id" gorm:"uniqueIndex:idx_user_content;not null"`
	CourseID        uint   `json:"course_id" gorm:"index;not null"`
	CourseContentID uint   `json:"course_content_id" gorm:"uniqueIndex:idx_user_content;not null"`
	Status          string `json:"status" gorm:"default:'COMPLETED'"`
	IsDeleted       bool   `gorm:"default:false"`
}
