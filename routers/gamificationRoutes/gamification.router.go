package gamificationRoutes

import (
	controllers "lms/controllers/gamification"
	"lms/middleware"
	validators "lms/validators/gamification"

	"github.com/gofiber/fiber/v2"
)

// SetupGamificationRoutes sets up points, levels and achievements for users
func SetupGamificationRoutes(app *fiber.App) {
	userGroup := app.Group("/gamification", middleware.JWTMiddleware)

	// Points
	userGroup.Get("/points", controllers.GetMyPoints)
	userGroup.Get("/points/transactions", controllers.GetMyPointsTransactions)

	// Levels
	userGroup.Get("/level", controllers.GetMyLevel)
	userGroup.Get("/levels", controllers.GetLevels)
	userGroup.Get("/leaderboard", controllers.GetLeaderboard)

	// Achievements
	userGroup.Get("/achievements", controllers.GetAchievements)
	userGroup.Get("/achievements/me", controllers.GetMyAchievements)
}

// SetupAdminGamificationRoutes sets up achievement/level management and
// manual adjustments
func SetupAdminGamificationRoutes(app *fiber.App) {
	adminGroup := app.Group("/admin/gamification", middleware.JWTMiddleware, middleware.RequireRole("ADMIN"))

	// Achievement management
	adminGroup.Post("/achievement", validators.CreateAchievement(), controllers.AdminCreateAchievement)
	adminGroup.Put("/achievement/:id", validators.AchievementID(), validators.CreateAchievement(), controllers.AdminUpdateAchievement)
	adminGroup.Delete("/achievement/:id", validators.AchievementID(), controllers.AdminDeleteAchievement)
	adminGroup.Post("/achievement/:id/grant", validators.AchievementID(), validators.GrantAchievement(), controllers.AdminGrantAchievement)

	// Level management
	adminGroup.Post("/level", validators.CreateLevel(), controllers.AdminCreateLevel)
	adminGroup.Put("/level/:id", validators.LevelID(), validators.CreateLevel(), controllers.AdminUpdateLevel)

	// Manual points adjustment
	adminGroup.Post("/points", validators.ManualPoints(), controllers.AdminAddPoints)
}
