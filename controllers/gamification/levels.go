package gamificationController

import (
	"time"

	"lms/database"
	"lms/middleware"
	gamificationModels "lms/models/gamification"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm/clause"
)

// UpdateUserLevel recomputes the user's ledger total and resolves the highest
// level whose threshold it satisfies. The cached points are updated on every
// call; the level id and achieved-at timestamp only change when the resolved
// level differs from the stored one. An empty level table makes this a no-op.
func UpdateUserLevel(userID uint) error {
	total, err := sumLedger(userID)
	if err != nil {
		return err
	}

	var levels []gamificationModels.Level
	if err := database.Database.Db.Where("is_deleted = ?", false).
		Order("level_number asc").Find(&levels).Error; err != nil {
		return err
	}
	if len(levels) == 0 {
		return nil
	}

	// Last level satisfying points_required <= total; the first level is the floor.
	resolved := levels[0]
	for _, lvl := range levels {
		if lvl.PointsRequired > total {
			break
		}
		resolved = lvl
	}

	userLevel, err := InitializeUserLevel(userID)
	if err != nil {
		return err
	}

	userLevel.CurrentPoints = total
	if userLevel.LevelID != resolved.ID {
		userLevel.LevelID = resolved.ID
		userLevel.LevelAchievedAt = time.Now()
	}

	return database.Database.Db.Save(userLevel).Error
}

// InitializeUserLevel fetches the user's level row, lazily creating it at the
// lowest level with 0 points on first access.
func InitializeUserLevel(userID uint) (*gamificationModels.UserLevel, error) {
	var userLevel gamificationModels.UserLevel
	if err := database.Database.Db.Where("user_id = ?", userID).First(&userLevel).Error; err == nil {
		return &userLevel, nil
	}

	var firstLevel gamificationModels.Level
	if err := database.Database.Db.Where("is_deleted = ?", false).
		Order("level_number asc").First(&firstLevel).Error; err != nil {
		return nil, err
	}

	userLevel = gamificationModels.UserLevel{
		UserID:          userID,
		LevelID:         firstLevel.ID,
		CurrentPoints:   0,
		LevelAchievedAt: time.Now(),
	}

	// Conflict-ignore so two concurrent first reads cannot create two rows
	if err := database.Database.Db.Clauses(clause.OnConflict{DoNothing: true}).Create(&userLevel).Error; err != nil {
		return nil, err
	}
	if err := database.Database.Db.Where("user_id = ?", userID).First(&userLevel).Error; err != nil {
		return nil, err
	}

	return &userLevel, nil
}

// GetMyLevel returns the current user's level, cached points and the distance
// to the next level
func GetMyLevel(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	userLevel, err := InitializeUserLevel(userID)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "No levels configured!", nil)
	}

	var level gamificationModels.Level
	if err := database.Database.Db.Where("id = ?", userLevel.LevelID).First(&level).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch level!", nil)
	}

	// Points remaining until the next threshold, 0 when already at the top
	var nextLevel gamificationModels.Level
	pointsToNext := 0
	err = database.Database.Db.Where("level_number > ? AND is_deleted = ?", level.LevelNumber, false).
		Order("level_number asc").First(&nextLevel).Error
	if err == nil && nextLevel.PointsRequired > userLevel.CurrentPoints {
		pointsToNext = nextLevel.PointsRequired - userLevel.CurrentPoints
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Level fetched successfully!", fiber.Map{
		"level":             level,
		"current_points":    userLevel.CurrentPoints,
		"level_achieved_at": userLevel.LevelAchievedAt,
		"points_to_next":    pointsToNext,
	})
}

// GetLeaderboard returns the top users by cached points
func GetLeaderboard(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 10)
	if limit < 1 || limit > 100 {
		limit = 10
	}

	type LeaderboardEntry struct {
		UserID        uint   `json:"user_id"`
		Name          string `json:"name"`
		CurrentPoints int    `json:"current_points"`
		LevelNumber   int    `json:"level_number"`
		LevelName     string `json:"level_name"`
	}

	var entries []LeaderboardEntry
	err := database.Database.Db.Model(&gamificationModels.UserLevel{}).
		Select("user_levels.user_id, users.name, user_levels.current_points, levels.level_number, levels.name as level_name").
		Joins("JOIN users ON users.id = user_levels.user_id AND users.is_deleted = ?", false).
		Joins("JOIN levels ON levels.id = user_levels.level_id").
		Order("user_levels.current_points desc").
		Limit(limit).
		Scan(&entries).Error
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch leaderboard!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Leaderboard fetched successfully!", fiber.Map{
		"leaderboard": entries,
	})
}

// GetLevels returns the ordered level table
func GetLevels(c *fiber.Ctx) error {
	var levels []gamificationModels.Level
	if err := database.Database.Db.Where("is_deleted = ?", false).
		Order("level_number asc").Find(&levels).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch levels!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Levels fetched successfully!", fiber.Map{
		"levels": levels,
	})
}

// AdminCreateLevel creates a level table entry
func AdminCreateLevel(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedLevel").(*gamificationModels.Level)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	var existing gamificationModels.Level
	if err := database.Database.Db.Where("level_number = ? AND is_deleted = ?", reqData.LevelNumber, false).First(&existing).Error; err == nil {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Level number already exists!", nil)
	}

	if err := database.Database.Db.Create(reqData).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create level!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Level created successfully!", reqData)
}

// AdminUpdateLevel updates a level table entry
func AdminUpdateLevel(c *fiber.Ctx) error {
	levelID := c.Locals("levelID").(int)

	var level gamificationModels.Level
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", levelID, false).First(&level).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Level not found!", nil)
	}

	reqData, ok := c.Locals("validatedLevel").(*gamificationModels.Level)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	level.LevelNumber = reqData.LevelNumber
	level.Name = reqData.Name
	level.Description = reqData.Description
	level.PointsRequired = reqData.PointsRequired
	level.Icon = reqData.Icon
	level.Benefits = reqData.Benefits

	if err := database.Database.Db.Save(&level).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update level!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Level updated successfully!", level)
}
