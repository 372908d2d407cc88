package gamification

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Level is one entry in the ordered level table. Thresholds are expected to
// increase with LevelNumber.
type Level struct {
	gorm.Model
	LevelNumber    int               `json:"level_number" gorm:"uniqueIndex;not null"`
	Name           string            `json:"name" gorm:"not null"`
	Description    string            `json:"description"`
	PointsRequired int               `json:"points_required" gorm:"default:0"`
	Icon           string            `json:"icon"`
	Benefits       datatypes.JSONMap `json:"benefits"`
	IsDeleted      bool              `gorm:"default:false"`
}

// UserLevel is the per-user level snapshot: one row per user, current level
// plus the cached points total. Created lazily at level 1 / 0 points.
type UserLevel struct {
	gorm.Model
	UserID          uint      `json:"user_id" gorm:"uniqueIndex;not null"`
	LevelID         uint      `json:"level_id" gorm:"index;not null"`
	CurrentPoints   int       `json:"current_points" gorm:"default:0"`
	LevelAchievedAt time.Time `json:"level_achieved_at"`
}
