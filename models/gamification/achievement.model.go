package gamification

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Achievement types. CUSTOM and CONTENT_CREATION have no automatic evaluator
// and are granted through the admin endpoint.
const (
	TypeCourseCompletion   = "COURSE_COMPLETION"
	TypeAssessmentScore    = "ASSESSMENT_SCORE"
	TypeLoginStreak        = "LOGIN_STREAK"
	TypeContentCreation    = "CONTENT_CREATION"
	TypeForumParticipation = "FORUM_PARTICIPATION"
	TypeCustom             = "CUSTOM"
)

// Achievement defines an awardable achievement. Criteria shape depends on
// AchievementType: {"courses": n}, {"min_score": n}, {"logins": n} or
// {"streak_days": n}, {"min_posts": n}.
type Achievement struct {
	gorm.Model
	Name            string            `json:"name" gorm:"not null"`
	Description     string            `json:"description"`
	Icon            string            `json:"icon"`
	Points          int               `json:"points" gorm:"default:0"`
	AchievementType string            `json:"achievement_type" gorm:"index;not null"`
	Criteria        datatypes.JSONMap `json:"criteria"`
	IsHidden        bool              `json:"is_hidden" gorm:"default:false"`
	IsDeleted       bool              `gorm:"default:false"`
}

// UserAchievement records a single award. Immutable once created; the
// composite unique index prevents double awards under concurrent checks.
type UserAchievement struct {
	gorm.Model
	UserID        uint              `json:"user_id" gorm:"uniqueIndex:idx_user_achievement;not null"`
	AchievementID uint              `json:"achievement_id" gorm:"uniqueIndex:idx_user_achievement;not null"`
	AchievedAt    time.Time         `json:"achieved_at"`
	Context       datatypes.JSONMap `json:"context"`
}
