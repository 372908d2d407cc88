package certificateController

import (
	"errors"
	"time"

	"lms/database"
	"lms/middleware"
	"lms/models"
	certModels "lms/models/certificate"
	courseModels "lms/models/course"
	"lms/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm/clause"
)

// Issuance precondition failures, mapped to HTTP statuses by the handlers.
var (
	ErrNotEnrolled  = errors.New("user not enrolled in course")
	ErrNotCompleted = errors.New("course not completed")
	ErrNoTemplate   = errors.New("no certificate template available")
)

// IssueCertificate issues a certificate for a completed course. Idempotent:
// an existing certificate for the (user, course) pair is returned as-is. The
// returned bool reports whether a new row was created. Preconditions: the
// enrollment exists and its progress is 100%.
func IssueCertificate(userID, courseID uint, templateID *uint) (*certModels.Certificate, bool, error) {
	db := database.Database.Db

	var existing certModels.Certificate
	if err := db.Where("user_id = ? AND course_id = ? AND is_deleted = ?", userID, courseID, false).First(&existing).Error; err == nil {
		return &existing, false, nil
	}

	var enrollment courseModels.Enrollment
	if err := db.Where("user_id = ? AND course_id = ? AND is_deleted = ?", userID, courseID, false).First(&enrollment).Error; err != nil {
		return nil, false, ErrNotEnrolled
	}
	if enrollment.Progress < 100 {
		return nil, false, ErrNotCompleted
	}

	// Explicit template or the single default
	var template certModels.CertificateTemplate
	if templateID != nil {
		if err := db.Where("id = ? AND is_deleted = ?", *templateID, false).First(&template).Error; err != nil {
			return nil, false, ErrNoTemplate
		}
	} else {
		if err := db.Where("is_default = ? AND is_deleted = ?", true, false).First(&template).Error; err != nil {
			return nil, false, ErrNoTemplate
		}
	}

	issuedAt := time.Now()
	certificate := certModels.Certificate{
		UserID:            userID,
		CourseID:          courseID,
		TemplateID:        template.ID,
		CertificateNumber: utils.GenerateCertificateNumber(issuedAt),
		IssuedAt:          issuedAt,
	}
	certificate.VerificationHash = utils.GenerateVerificationHash(userID, courseID, certificate.CertificateNumber, issuedAt)

	// The (user_id, course_id) unique index settles concurrent duplicate
	// submissions; on conflict the winner's row is returned.
	result := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&certificate)
	if result.Error != nil {
		return nil, false, result.Error
	}
	if result.RowsAffected == 0 {
		if err := db.Where("user_id = ? AND course_id = ? AND is_deleted = ?", userID, courseID, false).First(&certificate).Error; err != nil {
			return nil, false, err
		}
		return &certificate, false, nil
	}

	var user models.User
	var course courseModels.Course
	db.Where("id = ?", userID).First(&user)
	db.Where("id = ?", courseID).First(&course)

	if user.Email != "" {
		go utils.SendCertificateEmail(user.Email, user.Name, course.Title, certificate.CertificateNumber, utils.VerificationURL(certificate.VerificationHash))
	}
	go utils.NotifyEvent("certificate.issued", map[string]interface{}{
		"user_id":            userID,
		"course_id":          courseID,
		"certificate_number": certificate.CertificateNumber,
	})

	return &certificate, true, nil
}

// RequestCertificate issues a certificate for the current user on a completed
// course
func RequestCertificate(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	courseID := c.Locals("courseID").(int)

	var templateID *uint
	if validated, ok := c.Locals("templateID").(uint); ok && validated > 0 {
		templateID = &validated
	}

	certificate, created, err := IssueCertificate(userID, uint(courseID), templateID)
	if err != nil {
		switch err {
		case ErrNotEnrolled:
			return middleware.JsonResponse(c, fiber.StatusForbidden, false, "User not enrolled in this course!", nil)
		case ErrNotCompleted:
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Please complete the course before requesting a certificate!", nil)
		case ErrNoTemplate:
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "No certificate template available!", nil)
		default:
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to issue certificate!", nil)
		}
	}

	if !created {
		return middleware.JsonResponse(c, fiber.StatusOK, true, "Certificate already issued!", certificate)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Certificate issued successfully!", certificate)
}

// GetUserCertificates gets all certificates for the current user
func GetUserCertificates(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	type CertificateWithCourse struct {
		certModels.Certificate
		CourseName string `json:"course_name"`
	}

	var certificates []certModels.Certificate
	if err := database.Database.Db.Where("user_id = ? AND is_deleted = ?", userID, false).
		Order("issued_at desc").Find(&certificates).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch certificates!", nil)
	}

	result := make([]CertificateWithCourse, len(certificates))
	for i, cert := range certificates {
		var course courseModels.Course
		database.Database.Db.Where("id = ?", cert.CourseID).First(&course)
		result[i] = CertificateWithCourse{
			Certificate: cert,
			CourseName:  course.Title,
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Certificates fetched successfully!", fiber.Map{
		"certificates": result,
		"total":        len(result),
	})
}

// GetCertificate returns a single certificate. Students can only read their
// own; admins can read any.
func GetCertificate(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	certificateID := c.Locals("certificateID").(int)

	var certificate certModels.Certificate
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", certificateID, false).First(&certificate).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Certificate not found!", nil)
	}

	if certificate.UserID != userID {
		var user models.User
		if err := database.Database.Db.Where("id = ? AND role = ? AND is_deleted = ?", userID, "ADMIN", false).First(&user).Error; err != nil {
			return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You do not have permission to access this certificate!", nil)
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Certificate fetched successfully!", certificate)
}

// RenderCertificate renders the certificate's template with the student,
// course and metadata values substituted
func RenderCertificate(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	certificateID := c.Locals("certificateID").(int)
	db := database.Database.Db

	var certificate certModels.Certificate
	if err := db.Where("id = ? AND is_deleted = ?", certificateID, false).First(&certificate).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Certificate not found!", nil)
	}

	if certificate.UserID != userID {
		var admin models.User
		if err := db.Where("id = ? AND role = ? AND is_deleted = ?", userID, "ADMIN", false).First(&admin).Error; err != nil {
			return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You do not have permission to access this certificate!", nil)
		}
	}

	var template certModels.CertificateTemplate
	var student models.User
	var course courseModels.Course
	if err := db.Where("id = ?", certificate.TemplateID).First(&template).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Certificate template not found!", nil)
	}
	if err := db.Where("id = ?", certificate.UserID).First(&student).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Student not found!", nil)
	}
	if err := db.Where("id = ?", certificate.CourseID).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	rendered, err := utils.RenderCertificate(&template, &certificate, &student, &course)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to render certificate!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Certificate rendered successfully!", rendered)
}
