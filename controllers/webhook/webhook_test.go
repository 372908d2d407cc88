package webhookController

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"lms/config"
	"lms/database"
	"lms/models"
	courseModels "lms/models/course"
	gamificationModels "lms/models/gamification"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const testSecret = "webhook-test-secret"

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	database.Database = database.DbInstance{Db: db}
	config.LoadConfig()
	config.AppConfig.PaymentWebhookSecret = testSecret
	config.AppConfig.EnrollmentWebhookSecret = testSecret
	return db
}

func webhookApp() *fiber.App {
	app := fiber.New()
	app.Post("/webhook/payment", PaymentWebhook)
	app.Post("/webhook/enrollment", EnrollmentWebhook)
	return app
}

func sign(body []byte) string {
	mac := hmac.New(sha256.New, []byte(testSecret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

type webhookResult struct {
	Code int
	Body string
}

func postWebhook(t *testing.T, app *fiber.App, path string, payload map[string]interface{}, signature string) webhookResult {
	t.Helper()

	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest("POST", path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if signature == "" {
		signature = sign(body)
	}
	req.Header.Set("X-Webhook-Signature", signature)

	resp, err := app.Test(req)
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return webhookResult{Code: resp.StatusCode, Body: string(raw)}
}

func TestVerifySignature(t *testing.T) {
	body := []byte(`{"event":"payment.completed"}`)

	assert.True(t, VerifySignature(body, sign(body), testSecret))
	assert.False(t, VerifySignature(body, "bad-signature", testSecret))
	assert.False(t, VerifySignature(body, sign(body), "other-secret"))
	assert.False(t, VerifySignature(body, "", testSecret))

	// An empty secret rejects everything, even an "empty-keyed" signature
	mac := hmac.New(sha256.New, nil)
	mac.Write(body)
	assert.False(t, VerifySignature(body, hex.EncodeToString(mac.Sum(nil)), ""))
}

func TestPaymentWebhookRejectsBadSignature(t *testing.T) {
	db := setupTestDB(t)
	app := webhookApp()

	rec := postWebhook(t, app, "/webhook/payment", map[string]interface{}{
		"event_id": "evt-1",
		"event":    "payment.completed",
		"data":     map[string]interface{}{"user_id": 1, "course_id": 1},
	}, "forged")

	assert.Equal(t, fiber.StatusUnauthorized, rec.Code)

	// A rejected delivery leaves no trace
	var count int64
	db.Model(&models.WebhookEvent{}).Count(&count)
	assert.EqualValues(t, 0, count)
}

func TestPaymentWebhookCreatesEnrollment(t *testing.T) {
	db := setupTestDB(t)
	app := webhookApp()

	rec := postWebhook(t, app, "/webhook/payment", map[string]interface{}{
		"event_id": "evt-2",
		"event":    "payment.completed",
		"data":     map[string]interface{}{"user_id": 1, "course_id": 10, "payment_id": "pay-77"},
	}, "")

	assert.Equal(t, fiber.StatusOK, rec.Code)

	var enrollment courseModels.Enrollment
	require.NoError(t, db.Where("user_id = ? AND course_id = ?", 1, 10).First(&enrollment).Error)
	assert.Equal(t, "ENROLLED", enrollment.Status)

	var event models.WebhookEvent
	require.NoError(t, db.Where("provider = ? AND event_id = ?", ProviderPayment, "evt-2").First(&event).Error)
	assert.Equal(t, "PROCESSED", event.Status)
	assert.NotEmpty(t, event.ReceiptID)
}

func TestPaymentWebhookActivatesPendingEnrollment(t *testing.T) {
	db := setupTestDB(t)
	app := webhookApp()

	require.NoError(t, db.Create(&courseModels.Enrollment{UserID: 2, CourseID: 10, Status: "PENDING_PAYMENT"}).Error)

	rec := postWebhook(t, app, "/webhook/payment", map[string]interface{}{
		"event_id": "evt-3",
		"event":    "payment.completed",
		"data":     map[string]interface{}{"user_id": 2, "course_id": 10},
	}, "")

	assert.Equal(t, fiber.StatusOK, rec.Code)

	var enrollment courseModels.Enrollment
	require.NoError(t, db.Where("user_id = ? AND course_id = ?", 2, 10).First(&enrollment).Error)
	assert.Equal(t, "ENROLLED", enrollment.Status)
}

func TestWebhookDuplicateDelivery(t *testing.T) {
	db := setupTestDB(t)
	app := webhookApp()

	payload := map[string]interface{}{
		"event_id": "evt-dup",
		"event":    "payment.completed",
		"data":     map[string]interface{}{"user_id": 3, "course_id": 10},
	}

	first := postWebhook(t, app, "/webhook/payment", payload, "")
	assert.Equal(t, fiber.StatusOK, first.Code)

	second := postWebhook(t, app, "/webhook/payment", payload, "")
	assert.Equal(t, fiber.StatusOK, second.Code)
	assert.Contains(t, second.Body, "already processed")

	// One stored event, one enrollment, no double processing
	var eventCount int64
	db.Model(&models.WebhookEvent{}).Where("event_id = ?", "evt-dup").Count(&eventCount)
	assert.EqualValues(t, 1, eventCount)

	var enrollmentCount int64
	db.Model(&courseModels.Enrollment{}).Where("user_id = ? AND course_id = ?", 3, 10).Count(&enrollmentCount)
	assert.EqualValues(t, 1, enrollmentCount)
}

func TestWebhookMissingEventFields(t *testing.T) {
	setupTestDB(t)
	app := webhookApp()

	rec := postWebhook(t, app, "/webhook/payment", map[string]interface{}{
		"event": "payment.completed",
	}, "")

	assert.Equal(t, fiber.StatusBadRequest, rec.Code)
}

func TestPaymentWebhookRefund(t *testing.T) {
	db := setupTestDB(t)
	app := webhookApp()

	require.NoError(t, db.Create(&courseModels.Enrollment{UserID: 4, CourseID: 10, Status: "IN_PROGRESS", Progress: 30}).Error)

	rec := postWebhook(t, app, "/webhook/payment", map[string]interface{}{
		"event_id": "evt-refund",
		"event":    "payment.refunded",
		"data":     map[string]interface{}{"user_id": 4, "course_id": 10},
	}, "")

	assert.Equal(t, fiber.StatusOK, rec.Code)

	var enrollment courseModels.Enrollment
	require.NoError(t, db.Where("user_id = ? AND course_id = ?", 4, 10).First(&enrollment).Error)
	assert.Equal(t, "CANCELLED", enrollment.Status)
}

func TestEnrollmentWebhookProgressIsForwardOnly(t *testing.T) {
	db := setupTestDB(t)
	app := webhookApp()

	require.NoError(t, db.Create(&courseModels.Enrollment{UserID: 5, CourseID: 10, Status: "IN_PROGRESS", Progress: 50}).Error)

	rec := postWebhook(t, app, "/webhook/enrollment", map[string]interface{}{
		"event_id": "evt-back",
		"event":    "enrollment.updated",
		"data":     map[string]interface{}{"user_id": 5, "course_id": 10, "progress": 20},
	}, "")

	assert.Equal(t, fiber.StatusOK, rec.Code)

	// A lower reported progress never rewinds the stored one
	var enrollment courseModels.Enrollment
	require.NoError(t, db.Where("user_id = ? AND course_id = ?", 5, 10).First(&enrollment).Error)
	assert.Equal(t, float64(50), enrollment.Progress)
}

func TestEnrollmentWebhookCompletion(t *testing.T) {
	db := setupTestDB(t)
	app := webhookApp()

	user := models.User{Name: "Sam", Email: "sam@example.com"}
	require.NoError(t, db.Create(&user).Error)
	require.NoError(t, db.Create(&courseModels.Enrollment{UserID: user.ID, CourseID: 10, Status: "IN_PROGRESS", Progress: 80}).Error)

	rec := postWebhook(t, app, "/webhook/enrollment", map[string]interface{}{
		"event_id": "evt-complete",
		"event":    "enrollment.completed",
		"data":     map[string]interface{}{"user_id": user.ID, "course_id": 10},
	}, "")

	assert.Equal(t, fiber.StatusOK, rec.Code)

	var enrollment courseModels.Enrollment
	require.NoError(t, db.Where("user_id = ? AND course_id = ?", user.ID, 10).First(&enrollment).Error)
	assert.Equal(t, "COMPLETED", enrollment.Status)
	assert.Equal(t, float64(100), enrollment.Progress)
	assert.NotNil(t, enrollment.CompletedAt)

	// Completion points landed on the ledger
	var total int64
	db.Model(&gamificationModels.PointsTransaction{}).
		Where("user_id = ?", user.ID).
		Select("COALESCE(SUM(points), 0)").
		Scan(&total)
	assert.EqualValues(t, 100, total)
}

func TestEnrollmentWebhookUnknownEnrollmentFails(t *testing.T) {
	db := setupTestDB(t)
	app := webhookApp()

	rec := postWebhook(t, app, "/webhook/enrollment", map[string]interface{}{
		"event_id": "evt-missing",
		"event":    "enrollment.updated",
		"data":     map[string]interface{}{"user_id": 77, "course_id": 77, "progress": 10},
	}, "")

	assert.Equal(t, fiber.StatusInternalServerError, rec.Code)

	// The delivery is kept with its failure recorded
	var event models.WebhookEvent
	require.NoError(t, db.Where("event_id = ?", "evt-missing").First(&event).Error)
	assert.Equal(t, "FAILED", event.Status)
	assert.NotEmpty(t, event.Error)
}
