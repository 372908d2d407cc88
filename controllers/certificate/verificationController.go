package certificateController

import (
	"log"

	"lms/database"
	"lms/middleware"
	"lms/models"
	certModels "lms/models/certificate"
	courseModels "lms/models/course"

	"github.com/gofiber/fiber/v2"
)

// VerifyCertificate is the public, unauthenticated verification endpoint.
// Every attempt writes exactly one VerificationLog row, valid or not; an
// unmatched hash is a 200 with is_valid false, not an error.
func VerifyCertificate(c *fiber.Ctx) error {
	hash := c.Query("hash")
	if hash == "" {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Verification hash is required!", nil)
	}

	db := database.Database.Db

	var certificate certModels.Certificate
	found := db.Where("verification_hash = ? AND is_deleted = ?", hash, false).First(&certificate).Error == nil

	logEntry := certModels.VerificationLog{
		VerificationHash: hash,
		IsValid:          found,
		IPAddress:        c.IP(),
		UserAgent:        c.Get("User-Agent"),
	}
	if found {
		logEntry.CertificateID = &certificate.ID
	}
	if verifierID, ok := c.Locals("userId").(uint); ok {
		logEntry.VerifiedBy = &verifierID
	}
	if err := db.Create(&logEntry).Error; err != nil {
		log.Printf("Error writing verification log for hash %s: %v", hash, err)
	}

	if !found {
		return middleware.JsonResponse(c, fiber.StatusOK, true, "Certificate verification completed.", fiber.Map{
			"is_valid": false,
		})
	}

	var student models.User
	var course courseModels.Course
	db.Where("id = ?", certificate.UserID).First(&student)
	db.Where("id = ?", certificate.CourseID).First(&course)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Certificate verification completed.", fiber.Map{
		"is_valid":    true,
		"certificate": certificate,
		"student":     student.Name,
		"course":      course.Title,
	})
}

// AdminGetVerificationLogs lists verification attempts, newest first
func AdminGetVerificationLogs(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 50)
	if limit < 1 || limit > 200 {
		limit = 50
	}

	var logs []certModels.VerificationLog
	if err := database.Database.Db.Order("created_at desc").Limit(limit).Find(&logs).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch verification logs!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Verification logs fetched successfully!", fiber.Map{
		"logs":  logs,
		"total": len(logs),
	})
}
