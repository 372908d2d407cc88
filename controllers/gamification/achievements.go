package gamificationController

import (
	"log"
	"time"

	"lms/database"
	"lms/models"
	courseModels "lms/models/course"
	gamificationModels "lms/models/gamification"
	"lms/utils"

	"gorm.io/datatypes"
	"gorm.io/gorm/clause"
)

// criteriaInt reads a numeric criteria value; JSON numbers arrive as float64.
func criteriaInt(criteria datatypes.JSONMap, key string) (int, bool) {
	raw, ok := criteria[key]
	if !ok {
		return 0, false
	}
	switch v := raw.(type) {
	case float64:
		return int(v), true
	case int:
		return v, true
	default:
		return 0, false
	}
}

// AwardAchievement grants an achievement to a user once. The unique index on
// (user_id, achievement_id) plus the conflict-ignore insert make concurrent
// duplicate awards impossible; when the insert is a no-op, no points are added.
func AwardAchievement(userID uint, achievement *gamificationModels.Achievement, context map[string]interface{}) (*gamificationModels.UserAchievement, bool, error) {
	var existing gamificationModels.UserAchievement
	if err := database.Database.Db.Where("user_id = ? AND achievement_id = ?", userID, achievement.ID).First(&existing).Error; err == nil {
		return &existing, false, nil
	}

	award := gamificationModels.UserAchievement{
		UserID:        userID,
		AchievementID: achievement.ID,
		AchievedAt:    time.Now(),
		Context:       context,
	}

	result := database.Database.Db.Clauses(clause.OnConflict{DoNothing: true}).Create(&award)
	if result.Error != nil {
		return nil, false, result.Error
	}
	if result.RowsAffected == 0 {
		// Lost the race; the winning insert already added the points
		database.Database.Db.Where("user_id = ? AND achievement_id = ?", userID, achievement.ID).First(&award)
		return &award, false, nil
	}

	achievementID := achievement.ID
	if _, err := AddPoints(userID, achievement.Points, gamificationModels.TxAchievement, &achievementID, "Achievement: "+achievement.Name); err != nil {
		log.Printf("Error adding points for achievement %d to user %d: %v", achievement.ID, userID, err)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err == nil && user.Email != "" {
		go utils.SendAchievementEmail(user.Email, user.Name, achievement.Name, achievement.Points)
	}
	go utils.NotifyEvent("achievement.awarded", map[string]interface{}{
		"user_id":        userID,
		"achievement_id": achievement.ID,
		"name":           achievement.Name,
		"points":         achievement.Points,
	})

	return &award, true, nil
}

// CheckCourseCompletionAchievements awards COURSE_COMPLETION achievements
// whose completed-course threshold the user now meets.
func CheckCourseCompletionAchievements(userID uint) {
	var completedCount int64
	database.Database.Db.Model(&courseModels.Enrollment{}).
		Where("user_id = ? AND status = ? AND is_deleted = ?", userID, "COMPLETED", false).
		Count(&completedCount)

	var achievements []gamificationModels.Achievement
	database.Database.Db.Where("achievement_type = ? AND is_deleted = ?", gamificationModels.TypeCourseCompletion, false).Find(&achievements)

	for i := range achievements {
		required, ok := criteriaInt(achievements[i].Criteria, "courses")
		if !ok || int64(required) > completedCount {
			continue
		}
		if _, _, err := AwardAchievement(userID, &achievements[i], map[string]interface{}{
			"completed_courses": completedCount,
		}); err != nil {
			log.Printf("Error awarding course completion achievement %d: %v", achievements[i].ID, err)
		}
	}
}

// LoginStats holds the aggregates the login-streak evaluator works from.
type LoginStats struct {
	TotalLogins int
	StreakDays  int
}

// ComputeLoginStats counts a user's logins and their consecutive-day streak:
// distinct login days walked newest-first, counting adjacent deltas of
// exactly one day and stopping at the first gap.
func ComputeLoginStats(userID uint) LoginStats {
	var logins []models.LoginTracking
	database.Database.Db.Where("user_id = ? AND is_deleted = ?", userID, false).
		Order("timestamp desc").Find(&logins)

	stats := LoginStats{TotalLogins: len(logins)}
	if len(logins) == 0 {
		return stats
	}

	// Collapse to distinct calendar days, preserving descending order
	var days []time.Time
	seen := make(map[string]bool)
	for _, l := range logins {
		day := l.Timestamp.Format("2006-01-02")
		if !seen[day] {
			seen[day] = true
			days = append(days, l.Timestamp.Truncate(24*time.Hour))
		}
	}

	stats.StreakDays = 1
	for i := 1; i < len(days); i++ {
		delta := days[i-1].Sub(days[i])
		if delta != 24*time.Hour {
			break
		}
		stats.StreakDays++
	}

	return stats
}

// CheckLoginAchievements awards LOGIN_STREAK achievements by raw login count
// or consecutive-day streak length.
func CheckLoginAchievements(userID uint) {
	stats := ComputeLoginStats(userID)

	var achievements []gamificationModels.Achievement
	database.Database.Db.Where("achievement_type = ? AND is_deleted = ?", gamificationModels.TypeLoginStreak, false).Find(&achievements)

	for i := range achievements {
		qualified := false
		if required, ok := criteriaInt(achievements[i].Criteria, "logins"); ok && stats.TotalLogins >= required {
			qualified = true
		}
		if required, ok := criteriaInt(achievements[i].Criteria, "streak_days"); ok && stats.StreakDays >= required {
			qualified = true
		}
		if !qualified {
			continue
		}
		if _, _, err := AwardAchievement(userID, &achievements[i], map[string]interface{}{
			"total_logins": stats.TotalLogins,
			"streak_days":  stats.StreakDays,
		}); err != nil {
			log.Printf("Error awarding login achievement %d: %v", achievements[i].ID, err)
		}
	}
}

// CheckAssessmentScoreAchievements awards ASSESSMENT_SCORE achievements whose
// min_score criteria the given score meets.
func CheckAssessmentScoreAchievements(userID uint, contentID uint, scorePercent float64) {
	var achievements []gamificationModels.Achievement
	database.Database.Db.Where("achievement_type = ? AND is_deleted = ?", gamificationModels.TypeAssessmentScore, false).Find(&achievements)

	for i := range achievements {
		required, ok := criteriaInt(achievements[i].Criteria, "min_score")
		if !ok || scorePercent < float64(required) {
			continue
		}
		if _, _, err := AwardAchievement(userID, &achievements[i], map[string]interface{}{
			"content_id": contentID,
			"score":      scorePercent,
		}); err != nil {
			log.Printf("Error awarding assessment achievement %d: %v", achievements[i].ID, err)
		}
	}
}

// CheckForumParticipationAchievements awards FORUM_PARTICIPATION achievements
// by total post count.
func CheckForumParticipationAchievements(userID uint) {
	var postCount int64
	database.Database.Db.Model(&courseModels.ForumPost{}).
		Where("user_id = ? AND is_deleted = ?", userID, false).
		Count(&postCount)

	var achievements []gamificationModels.Achievement
	database.Database.Db.Where("achievement_type = ? AND is_deleted = ?", gamificationModels.TypeForumParticipation, false).Find(&achievements)

	for i := range achievements {
		required, ok := criteriaInt(achievements[i].Criteria, "min_posts")
		if !ok || int64(required) > postCount {
			continue
		}
		if _, _, err := AwardAchievement(userID, &achievements[i], map[string]interface{}{
			"forum_posts": postCount,
		}); err != nil {
			log.Printf("Error awarding forum achievement %d: %v", achievements[i].ID, err)
		}
	}
}

// HandleCourseCompletion is the gamification entry point fired when an
// enrollment reaches 100%: a fixed 100-point transaction, then the
// course-completion evaluation.
func HandleCourseCompletion(userID uint, courseID uint) {
	refID := courseID
	if _, err := AddPoints(userID, 100, gamificationModels.TxCourseCompletion, &refID, "Completed course"); err != nil {
		log.Printf("Error adding course completion points for user %d: %v", userID, err)
	}
	CheckCourseCompletionAchievements(userID)
}

// HandleAssessmentCompletion fires after an MCQ attempt: 50 points on a pass,
// 10 on a fail, then the score evaluation.
func HandleAssessmentCompletion(userID uint, contentID uint, scorePercent float64, passed bool) {
	points := 10
	if passed {
		points = 50
	}
	refID := contentID
	if _, err := AddPoints(userID, points, gamificationModels.TxAssessment, &refID, "Assessment attempt"); err != nil {
		log.Printf("Error adding assessment points for user %d: %v", userID, err)
	}
	CheckAssessmentScoreAchievements(userID, contentID, scorePercent)
}
