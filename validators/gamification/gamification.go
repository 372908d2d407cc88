package gamificationValidator

import (
	"strconv"
	"strings"

	"lms/middleware"
	gamificationModels "lms/models/gamification"

	"github.com/gofiber/fiber/v2"
)

// AchievementID validates the :id route param and stores it in locals
func AchievementID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		achievementIDStr := strings.TrimSpace(c.Params("id"))
		if achievementIDStr == "" {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Achievement ID is required!", nil)
		}

		achievementID, err := strconv.Atoi(achievementIDStr)
		if err != nil || achievementID <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Achievement ID!", nil)
		}

		c.Locals("achievementID", achievementID)
		return c.Next()
	}
}

// LevelID validates the :id route param and stores it in locals
func LevelID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		levelIDStr := strings.TrimSpace(c.Params("id"))
		if levelIDStr == "" {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Level ID is required!", nil)
		}

		levelID, err := strconv.Atoi(levelIDStr)
		if err != nil || levelID <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Level ID!", nil)
		}

		c.Locals("levelID", levelID)
		return c.Next()
	}
}

// CreateAchievement validates an achievement definition
func CreateAchievement() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(gamificationModels.Achievement)

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		reqData.Name = strings.TrimSpace(reqData.Name)
		reqData.AchievementType = strings.ToUpper(strings.TrimSpace(reqData.AchievementType))

		if reqData.Name == "" {
			errors["name"] = "Name is required!"
		} else if len(reqData.Name) < 3 {
			errors["name"] = "Name must be at least 3 characters long!"
		}

		validTypes := map[string]bool{
			gamificationModels.TypeCourseCompletion:   true,
			gamificationModels.TypeAssessmentScore:    true,
			gamificationModels.TypeLoginStreak:        true,
			gamificationModels.TypeContentCreation:    true,
			gamificationModels.TypeForumParticipation: true,
			gamificationModels.TypeCustom:             true,
		}
		if !validTypes[reqData.AchievementType] {
			errors["achievement_type"] = "Invalid achievement type!"
		}

		if reqData.Points < 0 {
			errors["points"] = "Points must not be negative!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedAchievement", reqData)
		return c.Next()
	}
}

// CreateLevel validates a level definition
func CreateLevel() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(gamificationModels.Level)

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		reqData.Name = strings.TrimSpace(reqData.Name)

		if reqData.LevelNumber < 1 {
			errors["level_number"] = "Level number must be greater than 0!"
		}

		if reqData.Name == "" {
			errors["name"] = "Name is required!"
		}

		if reqData.PointsRequired < 0 {
			errors["points_required"] = "Points required must not be negative!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedLevel", reqData)
		return c.Next()
	}
}

// GrantAchievement validates a manual achievement grant
func GrantAchievement() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			UserID uint   `json:"user_id"`
			Reason string `json:"reason"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if reqData.UserID == 0 {
			errors["user_id"] = "User ID is required!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedGrant", reqData)
		return c.Next()
	}
}

// ManualPoints validates a manual points adjustment
func ManualPoints() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			UserID      uint   `json:"user_id"`
			Points      int    `json:"points"`
			Description string `json:"description"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if reqData.UserID == 0 {
			errors["user_id"] = "User ID is required!"
		}

		if reqData.Points == 0 {
			errors["points"] = "Points must not be zero!"
		}

		if strings.TrimSpace(reqData.Description) == "" {
			errors["description"] = "Description is required!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedManualPoints", reqData)
		return c.Next()
	}
}
