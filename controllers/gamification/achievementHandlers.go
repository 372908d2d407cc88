package gamificationController

import (
	"lms/database"
	"lms/middleware"
	gamificationModels "lms/models/gamification"

	"github.com/gofiber/fiber/v2"
)

// GetAchievements lists all visible achievements
func GetAchievements(c *fiber.Ctx) error {
	var achievements []gamificationModels.Achievement
	if err := database.Database.Db.Where("is_deleted = ? AND is_hidden = ?", false, false).
		Order("points asc").Find(&achievements).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch achievements!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Achievements fetched successfully!", fiber.Map{
		"achievements": achievements,
	})
}

// GetMyAchievements lists the current user's earned achievements, including
// hidden ones they have unlocked
func GetMyAchievements(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	type EarnedAchievement struct {
		gamificationModels.UserAchievement
		Name        string `json:"name"`
		Description string `json:"description"`
		Icon        string `json:"icon"`
		Points      int    `json:"points"`
	}

	var earned []EarnedAchievement
	err := database.Database.Db.Model(&gamificationModels.UserAchievement{}).
		Select("user_achievements.*, achievements.name, achievements.description, achievements.icon, achievements.points").
		Joins("JOIN achievements ON achievements.id = user_achievements.achievement_id").
		Where("user_achievements.user_id = ?", userID).
		Order("user_achievements.achieved_at desc").
		Scan(&earned).Error
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch achievements!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Achievements fetched successfully!", fiber.Map{
		"achievements": earned,
		"total":        len(earned),
	})
}

// AdminCreateAchievement creates an achievement definition
func AdminCreateAchievement(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedAchievement").(*gamificationModels.Achievement)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	if err := database.Database.Db.Create(reqData).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create achievement!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Achievement created successfully!", reqData)
}

// AdminUpdateAchievement updates an achievement definition
func AdminUpdateAchievement(c *fiber.Ctx) error {
	achievementID := c.Locals("achievementID").(int)

	var achievement gamificationModels.Achievement
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", achievementID, false).First(&achievement).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Achievement not found!", nil)
	}

	reqData, ok := c.Locals("validatedAchievement").(*gamificationModels.Achievement)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	achievement.Name = reqData.Name
	achievement.Description = reqData.Description
	achievement.Icon = reqData.Icon
	achievement.Points = reqData.Points
	achievement.AchievementType = reqData.AchievementType
	achievement.Criteria = reqData.Criteria
	achievement.IsHidden = reqData.IsHidden

	if err := database.Database.Db.Save(&achievement).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update achievement!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Achievement updated successfully!", achievement)
}

// AdminDeleteAchievement soft-deletes an achievement definition
func AdminDeleteAchievement(c *fiber.Ctx) error {
	achievementID := c.Locals("achievementID").(int)

	var achievement gamificationModels.Achievement
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", achievementID, false).First(&achievement).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Achievement not found!", nil)
	}

	achievement.IsDeleted = true
	if err := database.Database.Db.Save(&achievement).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete achievement!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Achievement deleted successfully!", nil)
}

// AdminGrantAchievement manually grants an achievement to a user. This is the
// award path for CUSTOM and CONTENT_CREATION types, which have no automatic
// evaluator.
func AdminGrantAchievement(c *fiber.Ctx) error {
	achievementID := c.Locals("achievementID").(int)

	reqData, ok := c.Locals("validatedGrant").(*struct {
		UserID uint   `json:"user_id"`
		Reason string `json:"reason"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	var achievement gamificationModels.Achievement
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", achievementID, false).First(&achievement).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Achievement not found!", nil)
	}

	award, created, err := AwardAchievement(reqData.UserID, &achievement, map[string]interface{}{
		"granted": true,
		"reason":  reqData.Reason,
	})
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to grant achievement!", nil)
	}
	if !created {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "User already has this achievement!", award)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Achievement granted successfully!", award)
}
