package courseRoutes

import (
	controllers "lms/controllers/course"
	"lms/middleware"
	validators "lms/validators/course"

	"github.com/gofiber/fiber/v2"
)

// SetupAdminCourseRoutes sets up all admin course management routes
func SetupAdminCourseRoutes(app *fiber.App) {
	adminGroup := app.Group("/admin/course", middleware.JWTMiddleware, middleware.RequireRole("ADMIN", "TEACHER"))

	// Course CRUD
	adminGroup.Post("/create", validators.CreateCourseAdmin(), controllers.AdminCreateCourse)
	adminGroup.Put("/:id", validators.CourseID(), validators.CreateCourseAdmin(), controllers.AdminUpdateCourse)
	adminGroup.Delete("/:id", validators.CourseID(), controllers.AdminDeleteCourse)
	adminGroup.Post("/:id/publish", validators.CourseID(), controllers.AdminPublishCourse)

	// Content management
	adminGroup.Post("/:id/content", validators.CourseID(), validators.CreateContentAdmin(), controllers.AdminCreateContent)

	contentGroup := app.Group("/admin/content", middleware.JWTMiddleware, middleware.RequireRole("ADMIN", "TEACHER"))
	contentGroup.Post("/:contentId/publish", validators.ContentID(), controllers.AdminPublishContent)
	contentGroup.Post("/:contentId/mcq", validators.ContentID(), validators.AddMCQOptionAdmin(), controllers.AdminAddMCQOption)

	// Enrollment & progress tracking
	adminGroup.Get("/:id/enrollments", validators.CourseID(), controllers.AdminGetCourseEnrollments)
	adminGroup.Get("/:id/completed", validators.CourseID(), controllers.AdminGetCompletedStudents)
}
