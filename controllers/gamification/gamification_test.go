package gamificationController

import (
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"lms/config"
	"lms/database"
	"lms/models"
	courseModels "lms/models/course"
	gamificationModels "lms/models/gamification"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	database.Database = database.DbInstance{Db: db}
	config.LoadConfig()
	return db
}

func seedLevels(t *testing.T, db *gorm.DB) []gamificationModels.Level {
	t.Helper()

	levels := []gamificationModels.Level{
		{LevelNumber: 1, Name: "Bronze", PointsRequired: 0},
		{LevelNumber: 2, Name: "Silver", PointsRequired: 200},
		{LevelNumber: 3, Name: "Gold", PointsRequired: 500},
	}
	for i := range levels {
		require.NoError(t, db.Create(&levels[i]).Error)
	}
	return levels
}

func TestAddPointsSumsLedger(t *testing.T) {
	db := setupTestDB(t)
	seedLevels(t, db)

	_, err := AddPoints(1, 100, gamificationModels.TxCourseCompletion, nil, "Completed course")
	require.NoError(t, err)
	_, err = AddPoints(1, 50, gamificationModels.TxAssessment, nil, "Assessment attempt")
	require.NoError(t, err)
	_, err = AddPoints(1, -30, gamificationModels.TxManual, nil, "Correction")
	require.NoError(t, err)

	total, err := GetUserPointsTotal(1)
	require.NoError(t, err)
	assert.Equal(t, 120, total)

	var count int64
	db.Model(&gamificationModels.PointsTransaction{}).Where("user_id = ?", 1).Count(&count)
	assert.EqualValues(t, 3, count)
}

func TestLevelResolution(t *testing.T) {
	db := setupTestDB(t)
	levels := seedLevels(t, db)

	// 250 points sits between Silver (200) and Gold (500)
	_, err := AddPoints(1, 250, gamificationModels.TxManual, nil, "Seed")
	require.NoError(t, err)

	var userLevel gamificationModels.UserLevel
	require.NoError(t, db.Where("user_id = ?", 1).First(&userLevel).Error)
	assert.Equal(t, levels[1].ID, userLevel.LevelID)
	assert.Equal(t, 250, userLevel.CurrentPoints)

	// Crossing the next threshold moves the level up
	_, err = AddPoints(1, 300, gamificationModels.TxManual, nil, "Seed")
	require.NoError(t, err)

	require.NoError(t, db.Where("user_id = ?", 1).First(&userLevel).Error)
	assert.Equal(t, levels[2].ID, userLevel.LevelID)
	assert.Equal(t, 550, userLevel.CurrentPoints)
}

func TestLevelResolutionNeverDropsBelowFloor(t *testing.T) {
	db := setupTestDB(t)
	levels := seedLevels(t, db)

	_, err := AddPoints(1, -50, gamificationModels.TxManual, nil, "Penalty")
	require.NoError(t, err)

	// Negative totals still resolve to the lowest level
	var userLevel gamificationModels.UserLevel
	require.NoError(t, db.Where("user_id = ?", 1).First(&userLevel).Error)
	assert.Equal(t, levels[0].ID, userLevel.LevelID)
	assert.Equal(t, -50, userLevel.CurrentPoints)
}

func TestUpdateUserLevelEmptyLevelTable(t *testing.T) {
	db := setupTestDB(t)

	// No levels configured: points still accumulate, no snapshot row appears
	_, err := AddPoints(1, 100, gamificationModels.TxManual, nil, "Seed")
	require.NoError(t, err)

	var count int64
	db.Model(&gamificationModels.UserLevel{}).Count(&count)
	assert.EqualValues(t, 0, count)

	total, err := GetUserPointsTotal(1)
	require.NoError(t, err)
	assert.Equal(t, 100, total)
}

func TestInitializeUserLevel(t *testing.T) {
	db := setupTestDB(t)
	levels := seedLevels(t, db)

	userLevel, err := InitializeUserLevel(7)
	require.NoError(t, err)
	assert.Equal(t, levels[0].ID, userLevel.LevelID)
	assert.Equal(t, 0, userLevel.CurrentPoints)

	// Second call returns the existing row instead of creating another
	again, err := InitializeUserLevel(7)
	require.NoError(t, err)
	assert.Equal(t, userLevel.ID, again.ID)

	var count int64
	db.Model(&gamificationModels.UserLevel{}).Where("user_id = ?", 7).Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestGetMyLevelHandler(t *testing.T) {
	db := setupTestDB(t)
	seedLevels(t, db)

	_, err := AddPoints(1, 250, gamificationModels.TxManual, nil, "Seed")
	require.NoError(t, err)

	app := fiber.New()
	app.Get("/gamification/level", func(c *fiber.Ctx) error {
		c.Locals("userId", uint(1))
		return c.Next()
	}, GetMyLevel)

	resp, err := app.Test(httptest.NewRequest("GET", "/gamification/level", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body struct {
		Status bool `json:"status"`
		Data   struct {
			Level struct {
				LevelNumber int    `json:"level_number"`
				Name        string `json:"name"`
			} `json:"level"`
			CurrentPoints int `json:"current_points"`
			PointsToNext  int `json:"points_to_next"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))

	assert.True(t, body.Status)
	assert.Equal(t, 2, body.Data.Level.LevelNumber)
	assert.Equal(t, "Silver", body.Data.Level.Name)
	assert.Equal(t, 250, body.Data.CurrentPoints)
	assert.Equal(t, 250, body.Data.PointsToNext)
}

func TestAwardAchievementIdempotent(t *testing.T) {
	db := setupTestDB(t)
	seedLevels(t, db)

	achievement := gamificationModels.Achievement{
		Name:            "First Steps",
		Points:          50,
		AchievementType: gamificationModels.TypeCustom,
	}
	require.NoError(t, db.Create(&achievement).Error)

	_, created, err := AwardAchievement(1, &achievement, nil)
	require.NoError(t, err)
	assert.True(t, created)

	_, created, err = AwardAchievement(1, &achievement, nil)
	require.NoError(t, err)
	assert.False(t, created)

	var count int64
	db.Model(&gamificationModels.UserAchievement{}).Where("user_id = ?", 1).Count(&count)
	assert.EqualValues(t, 1, count)

	// Points were granted exactly once
	total, err := GetUserPointsTotal(1)
	require.NoError(t, err)
	assert.Equal(t, 50, total)
}

func TestCheckCourseCompletionAchievements(t *testing.T) {
	db := setupTestDB(t)
	seedLevels(t, db)

	achievement := gamificationModels.Achievement{
		Name:            "Course Collector",
		Points:          75,
		AchievementType: gamificationModels.TypeCourseCompletion,
		Criteria:        datatypes.JSONMap{"courses": 2},
	}
	require.NoError(t, db.Create(&achievement).Error)

	require.NoError(t, db.Create(&courseModels.Enrollment{UserID: 1, CourseID: 1, Status: "COMPLETED", Progress: 100}).Error)

	// One completed course is below the threshold
	CheckCourseCompletionAchievements(1)

	var count int64
	db.Model(&gamificationModels.UserAchievement{}).Where("user_id = ?", 1).Count(&count)
	assert.EqualValues(t, 0, count)

	require.NoError(t, db.Create(&courseModels.Enrollment{UserID: 1, CourseID: 2, Status: "COMPLETED", Progress: 100}).Error)

	CheckCourseCompletionAchievements(1)

	db.Model(&gamificationModels.UserAchievement{}).Where("user_id = ?", 1).Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestComputeLoginStats(t *testing.T) {
	db := setupTestDB(t)

	base := time.Now().Add(-time.Hour)
	timestamps := []time.Time{
		base,
		base.Add(-24 * time.Hour),
		base.Add(-48 * time.Hour),
		// Gap: this one is four days back, breaking the streak
		base.Add(-96 * time.Hour),
	}
	for _, ts := range timestamps {
		require.NoError(t, db.Create(&models.LoginTracking{UserID: 1, Timestamp: ts}).Error)
	}

	stats := ComputeLoginStats(1)
	assert.Equal(t, 4, stats.TotalLogins)
	assert.Equal(t, 3, stats.StreakDays)
}

func TestComputeLoginStatsNoLogins(t *testing.T) {
	setupTestDB(t)

	stats := ComputeLoginStats(99)
	assert.Equal(t, 0, stats.TotalLogins)
	assert.Equal(t, 0, stats.StreakDays)
}

func TestCheckLoginAchievements(t *testing.T) {
	db := setupTestDB(t)
	seedLevels(t, db)

	achievement := gamificationModels.Achievement{
		Name:            "Regular",
		Points:          20,
		AchievementType: gamificationModels.TypeLoginStreak,
		Criteria:        datatypes.JSONMap{"streak_days": 3},
	}
	require.NoError(t, db.Create(&achievement).Error)

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 3; i++ {
		require.NoError(t, db.Create(&models.LoginTracking{
			UserID:    1,
			Timestamp: base.Add(time.Duration(-i) * 24 * time.Hour),
		}).Error)
	}

	CheckLoginAchievements(1)

	var count int64
	db.Model(&gamificationModels.UserAchievement{}).Where("user_id = ? AND achievement_id = ?", 1, achievement.ID).Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestHandleCourseCompletion(t *testing.T) {
	db := setupTestDB(t)
	seedLevels(t, db)

	HandleCourseCompletion(1, 42)

	total, err := GetUserPointsTotal(1)
	require.NoError(t, err)
	assert.Equal(t, 100, total)

	var tx gamificationModels.PointsTransaction
	require.NoError(t, db.Where("user_id = ?", 1).First(&tx).Error)
	assert.Equal(t, gamificationModels.TxCourseCompletion, tx.TransactionType)
	require.NotNil(t, tx.ReferenceID)
	assert.EqualValues(t, 42, *tx.ReferenceID)
}

func TestHandleAssessmentCompletion(t *testing.T) {
	db := setupTestDB(t)
	seedLevels(t, db)

	achievement := gamificationModels.Achievement{
		Name:            "Sharp Shooter",
		Points:          30,
		AchievementType: gamificationModels.TypeAssessmentScore,
		Criteria:        datatypes.JSONMap{"min_score": 90},
	}
	require.NoError(t, db.Create(&achievement).Error)

	// Failed attempt: 10 points, score below threshold
	HandleAssessmentCompletion(1, 5, 40, false)

	total, err := GetUserPointsTotal(1)
	require.NoError(t, err)
	assert.Equal(t, 10, total)

	// Passing attempt with a qualifying score: 50 points plus the award
	HandleAssessmentCompletion(1, 5, 95, true)

	total, err = GetUserPointsTotal(1)
	require.NoError(t, err)
	assert.Equal(t, 10+50+30, total)

	var count int64
	db.Model(&gamificationModels.UserAchievement{}).Where("user_id = ?", 1).Count(&count)
	assert.EqualValues(t, 1, count)
}
