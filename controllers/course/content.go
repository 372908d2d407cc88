package courseController

import (
	"log"
	"time"

	certificateController "lms/controllers/certificate"
	gamificationController "lms/controllers/gamification"
	"lms/database"
	"lms/middleware"
	courseModels "lms/models/course"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm/clause"
)

// GetCourseContent lists published content items for enrolled users
func GetCourseContent(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID := c.Locals("courseID").(int)

	var enrollment courseModels.Enrollment
	if err := database.Database.Db.Where("user_id = ? AND course_id = ? AND is_deleted = ?", userID, courseID, false).First(&enrollment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "User not enrolled in this course!", nil)
	}

	var contents []courseModels.CourseContent
	if err := database.Database.Db.Where("course_id = ? AND is_deleted = ? AND is_published = ?", courseID, false, true).
		Order("order_index asc").Find(&contents).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch course content!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Content fetched successfully!", fiber.Map{
		"contents": contents,
		"total":    len(contents),
	})
}

// MarkContentComplete marks a content item complete and recomputes enrollment
// progress
func MarkContentComplete(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID := c.Locals("courseID").(int)
	contentID := c.Locals("contentID").(int)

	var enrollment courseModels.Enrollment
	if err := database.Database.Db.Where("user_id = ? AND course_id = ? AND is_deleted = ?", userID, courseID, false).First(&enrollment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "User not enrolled in this course!", nil)
	}

	var content courseModels.CourseContent
	if err := database.Database.Db.Where("id = ? AND course_id = ? AND is_deleted = ? AND is_published = ?", contentID, courseID, false, true).First(&content).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Content not found!", nil)
	}

	if content.ContentType == "MCQ" {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "MCQ content is completed by submitting a correct answer!", nil)
	}

	completion := courseModels.ContentCompletion{
		UserID:          userID,
		CourseID:        uint(courseID),
		CourseContentID: uint(contentID),
		Status:          "COMPLETED",
	}

	result := database.Database.Db.Clauses(clause.OnConflict{DoNothing: true}).Create(&completion)
	if result.Error != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to mark content complete!", nil)
	}
	if result.RowsAffected == 0 {
		return middleware.JsonResponse(c, fiber.StatusOK, true, "Content already completed!", nil)
	}

	UpdateEnrollmentProgress(userID, uint(courseID))

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Content marked as complete!", nil)
}

// GetUserProgress gets the user's progress in a course
func GetUserProgress(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID := c.Locals("courseID").(int)

	var enrollment courseModels.Enrollment
	if err := database.Database.Db.Where("user_id = ? AND course_id = ? AND is_deleted = ?", userID, courseID, false).First(&enrollment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "User not enrolled in this course!", nil)
	}

	var completedContents []courseModels.ContentCompletion
	database.Database.Db.Where("user_id = ? AND course_id = ? AND is_deleted = ?", userID, courseID, false).Find(&completedContents)

	completedIDs := make([]uint, len(completedContents))
	for i, cc := range completedContents {
		completedIDs[i] = cc.CourseContentID
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Progress fetched successfully!", fiber.Map{
		"enrollment":    enrollment,
		"completed_ids": completedIDs,
	})
}

// UpdateEnrollmentProgress recomputes enrollment progress after a content
// completion. Crossing 100% fires the completion flow exactly once: the
// status transition to COMPLETED is the guard.
func UpdateEnrollmentProgress(userID uint, courseID uint) {
	var totalContent int64
	var completedContent int64

	database.Database.Db.Model(&courseModels.CourseContent{}).
		Where("course_id = ? AND is_deleted = ? AND is_published = ?", courseID, false, true).Count(&totalContent)
	database.Database.Db.Model(&courseModels.ContentCompletion{}).
		Where("user_id = ? AND course_id = ? AND is_deleted = ?", userID, courseID, false).Count(&completedContent)

	var enrollment courseModels.Enrollment
	if err := database.Database.Db.Where("user_id = ? AND course_id = ? AND is_deleted = ?", userID, courseID, false).First(&enrollment).Error; err != nil {
		return
	}

	enrollment.CompletedContents = int(completedContent)
	enrollment.TotalContents = int(totalContent)

	if totalContent > 0 {
		enrollment.Progress = float64(completedContent) / float64(totalContent) * 100
	}

	justCompleted := false
	if enrollment.Progress >= 100 && enrollment.Status != "COMPLETED" {
		enrollment.Status = "COMPLETED"
		now := time.Now()
		enrollment.CompletedAt = &now
		justCompleted = true
	} else if enrollment.Progress > 0 && enrollment.Status == "ENROLLED" {
		enrollment.Status = "IN_PROGRESS"
	}

	if err := database.Database.Db.Save(&enrollment).Error; err != nil {
		log.Printf("Error saving enrollment progress for user %d course %d: %v", userID, courseID, err)
		return
	}

	if justCompleted {
		gamificationController.HandleCourseCompletion(userID, courseID)

		// Best effort: issuance still works later through the certificate
		// endpoint if no template is configured yet
		if _, _, err := certificateController.IssueCertificate(userID, courseID, nil); err != nil {
			log.Printf("Certificate not auto-issued for user %d course %d: %v", userID, courseID, err)
		}
	}
}
