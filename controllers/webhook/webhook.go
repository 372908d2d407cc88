package webhookController

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log"
	"time"

	"lms/config"
	certificateController "lms/controllers/certificate"
	gamificationController "lms/controllers/gamification"
	"lms/database"
	"lms/middleware"
	"lms/models"
	courseModels "lms/models/course"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm/clause"
)

const (
	ProviderPayment    = "PAYMENT"
	ProviderEnrollment = "ENROLLMENT"
)

// webhookPayload is the common envelope both providers deliver.
type webhookPayload struct {
	EventID string `json:"event_id"`
	Event   string `json:"event"`
	Data    struct {
		UserID    uint    `json:"user_id"`
		CourseID  uint    `json:"course_id"`
		PaymentID string  `json:"payment_id"`
		Progress  float64 `json:"progress"`
		Reason    string  `json:"reason"`
	} `json:"data"`
}

// VerifySignature checks the hex-encoded HMAC-SHA256 of the raw body against
// the shared secret using a constant-time compare. An empty secret rejects
// everything.
func VerifySignature(body []byte, signature, secret string) bool {
	if secret == "" || signature == "" {
		return false
	}
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

// recordEvent stores the delivery with conflict-ignore on (provider,
// event_id). Returns the stored row and whether this delivery is the first.
func recordEvent(provider string, payload *webhookPayload, rawBody []byte) (*models.WebhookEvent, bool, error) {
	event := models.WebhookEvent{
		Provider:  provider,
		EventID:   payload.EventID,
		ReceiptID: uuid.NewString(),
		EventType: payload.Event,
		Payload:   string(rawBody),
	}

	result := database.Database.Db.Clauses(clause.OnConflict{DoNothing: true}).Create(&event)
	if result.Error != nil {
		return nil, false, result.Error
	}
	if result.RowsAffected == 0 {
		var existing models.WebhookEvent
		if err := database.Database.Db.Where("provider = ? AND event_id = ?", provider, payload.EventID).First(&existing).Error; err != nil {
			return nil, false, err
		}
		return &existing, false, nil
	}

	return &event, true, nil
}

func receiveWebhook(c *fiber.Ctx, provider, secret string) error {
	body := c.Body()

	if !VerifySignature(body, c.Get("X-Webhook-Signature"), secret) {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Invalid webhook signature!", nil)
	}

	var payload webhookPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}
	if payload.EventID == "" || payload.Event == "" {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Missing event or event_id!", nil)
	}

	event, first, err := recordEvent(provider, &payload, body)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to record webhook event!", nil)
	}
	if !first {
		return middleware.JsonResponse(c, fiber.StatusOK, true, "Event already processed.", fiber.Map{
			"receipt_id": event.ReceiptID,
		})
	}

	if err := processEvent(provider, &payload); err != nil {
		log.Printf("Error processing %s webhook %s (%s): %v", provider, payload.EventID, payload.Event, err)
		database.Database.Db.Model(event).Updates(map[string]interface{}{
			"status": "FAILED",
			"error":  err.Error(),
		})
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to process webhook event!", fiber.Map{
			"receipt_id": event.ReceiptID,
		})
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Webhook processed successfully!", fiber.Map{
		"receipt_id": event.ReceiptID,
	})
}

func paymentSecret() string    { return config.AppConfig.PaymentWebhookSecret }
func enrollmentSecret() string { return config.AppConfig.EnrollmentWebhookSecret }

// PaymentWebhook receives payment provider deliveries
func PaymentWebhook(c *fiber.Ctx) error {
	return receiveWebhook(c, ProviderPayment, paymentSecret())
}

// EnrollmentWebhook receives enrollment provider deliveries
func EnrollmentWebhook(c *fiber.Ctx) error {
	return receiveWebhook(c, ProviderEnrollment, enrollmentSecret())
}

func processEvent(provider string, payload *webhookPayload) error {
	switch provider {
	case ProviderPayment:
		return processPaymentEvent(payload)
	case ProviderEnrollment:
		return processEnrollmentEvent(payload)
	}
	return nil
}

func processPaymentEvent(payload *webhookPayload) error {
	db := database.Database.Db
	userID := payload.Data.UserID
	courseID := payload.Data.CourseID

	switch payload.Event {
	case "payment.completed":
		var enrollment courseModels.Enrollment
		err := db.Where("user_id = ? AND course_id = ? AND is_deleted = ?", userID, courseID, false).First(&enrollment).Error
		if err != nil {
			enrollment = courseModels.Enrollment{
				UserID:   userID,
				CourseID: courseID,
				Status:   "ENROLLED",
			}
			return db.Clauses(clause.OnConflict{DoNothing: true}).Create(&enrollment).Error
		}
		if enrollment.Status == "PENDING_PAYMENT" {
			enrollment.Status = "ENROLLED"
			return db.Save(&enrollment).Error
		}
		return nil

	case "payment.failed":
		// Recorded in the event log; the enrollment stays pending
		return nil

	case "payment.refunded":
		var enrollment courseModels.Enrollment
		if err := db.Where("user_id = ? AND course_id = ? AND is_deleted = ?", userID, courseID, false).First(&enrollment).Error; err != nil {
			return nil
		}
		if enrollment.Status != "COMPLETED" {
			enrollment.Status = "CANCELLED"
			return db.Save(&enrollment).Error
		}
		return nil
	}

	return nil
}

func processEnrollmentEvent(payload *webhookPayload) error {
	db := database.Database.Db
	userID := payload.Data.UserID
	courseID := payload.Data.CourseID

	var enrollment courseModels.Enrollment
	if err := db.Where("user_id = ? AND course_id = ? AND is_deleted = ?", userID, courseID, false).First(&enrollment).Error; err != nil {
		return err
	}

	switch payload.Event {
	case "enrollment.updated":
		if payload.Data.Progress > enrollment.Progress && payload.Data.Progress < 100 {
			enrollment.Progress = payload.Data.Progress
			if enrollment.Status == "ENROLLED" {
				enrollment.Status = "IN_PROGRESS"
			}
			return db.Save(&enrollment).Error
		}
		return nil

	case "enrollment.completed":
		if enrollment.Status == "COMPLETED" {
			return nil
		}
		enrollment.Progress = 100
		enrollment.Status = "COMPLETED"
		now := time.Now()
		enrollment.CompletedAt = &now
		if err := db.Save(&enrollment).Error; err != nil {
			return err
		}

		gamificationController.HandleCourseCompletion(userID, courseID)
		if _, _, err := certificateController.IssueCertificate(userID, courseID, nil); err != nil {
			log.Printf("Certificate not auto-issued for user %d course %d: %v", userID, courseID, err)
		}
		return nil

	case "enrollment.cancelled":
		if enrollment.Status != "COMPLETED" {
			enrollment.Status = "CANCELLED"
			return db.Save(&enrollment).Error
		}
		return nil
	}

	return nil
}
