package courseRoutes

import (
	controllers "lms/controllers/course"
	"lms/middleware"
	validators "lms/validators/course"

	"github.com/gofiber/fiber/v2"
)

// SetupCourseRoutes sets up all user-facing course routes
func SetupCourseRoutes(app *fiber.App) {
	userGroup := app.Group("/course")

	// Course listing and details
	userGroup.Get("/list", middleware.JWTMiddleware, validators.CourseList(), controllers.GetAllCourses)
	userGroup.Get("/:id", middleware.JWTMiddleware, validators.CourseID(), controllers.GetCourseDetails)

	// Enrollment
	userGroup.Post("/:id/enroll", middleware.JWTMiddleware, validators.CourseID(), controllers.EnrollInCourse)

	// Content viewing and completion (for enrolled users)
	userGroup.Get("/:id/content", middleware.JWTMiddleware, validators.CourseID(), controllers.GetCourseContent)
	userGroup.Post("/:id/content/:contentId/complete", middleware.JWTMiddleware, validators.CourseID(), validators.ContentID(), controllers.MarkContentComplete)

	// MCQ submission
	userGroup.Post("/:id/content/:contentId/mcq/submit", middleware.JWTMiddleware, validators.CourseID(), validators.ContentID(), controllers.SubmitMCQAnswer)

	// Progress tracking
	userGroup.Get("/:id/progress", middleware.JWTMiddleware, validators.CourseID(), controllers.GetUserProgress)

	// Discussion forum
	userGroup.Get("/:id/forum", middleware.JWTMiddleware, validators.CourseID(), controllers.GetForumPosts)
	userGroup.Post("/:id/forum", middleware.JWTMiddleware, validators.CourseID(), validators.CreateForumPost(), controllers.CreateForumPost)

	// User enrollments
	userEnrollGroup := app.Group("/user")
	userEnrollGroup.Get("/enrollments", middleware.JWTMiddleware, controllers.GetUserEnrollmentsList)
}
