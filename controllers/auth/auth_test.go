package authController

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"lms/config"
	"lms/database"
	"lms/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	database.Database = database.DbInstance{Db: db}
	config.LoadConfig()
	return db
}

func authApp() *fiber.App {
	app := fiber.New()
	app.Post("/auth/signup", Signup)
	app.Post("/auth/login", Login)
	return app
}

func postJSON(t *testing.T, app *fiber.App, path string, payload map[string]interface{}) int {
	t.Helper()

	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest("POST", path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp.StatusCode
}

func TestSignupAndLogin(t *testing.T) {
	db := setupTestDB(t)
	app := authApp()

	code := postJSON(t, app, "/auth/signup", map[string]interface{}{
		"name":     "Jane Doe",
		"email":    "jane@example.com",
		"password": "secret123",
	})
	assert.Equal(t, fiber.StatusCreated, code)

	// The stored password is hashed, the default role is STUDENT
	var user models.User
	require.NoError(t, db.Where("email = ?", "jane@example.com").First(&user).Error)
	assert.NotEqual(t, "secret123", user.Password)
	assert.Equal(t, "STUDENT", user.Role)

	code = postJSON(t, app, "/auth/login", map[string]interface{}{
		"email":    "jane@example.com",
		"password": "secret123",
	})
	assert.Equal(t, fiber.StatusOK, code)

	// A successful login is tracked for the streak evaluator
	var loginCount int64
	db.Model(&models.LoginTracking{}).Where("user_id = ?", user.ID).Count(&loginCount)
	assert.EqualValues(t, 1, loginCount)
}

func TestSignupDuplicateEmail(t *testing.T) {
	setupTestDB(t)
	app := authApp()

	payload := map[string]interface{}{
		"name":     "Jane Doe",
		"email":    "jane@example.com",
		"password": "secret123",
	}

	assert.Equal(t, fiber.StatusCreated, postJSON(t, app, "/auth/signup", payload))
	assert.Equal(t, fiber.StatusConflict, postJSON(t, app, "/auth/signup", payload))
}

func TestLoginBlocksAfterFailedAttempts(t *testing.T) {
	db := setupTestDB(t)
	app := authApp()

	require.Equal(t, fiber.StatusCreated, postJSON(t, app, "/auth/signup", map[string]interface{}{
		"name":     "Jane Doe",
		"email":    "jane@example.com",
		"password": "secret123",
	}))

	for i := 0; i < 5; i++ {
		code := postJSON(t, app, "/auth/login", map[string]interface{}{
			"email":    "jane@example.com",
			"password": "wrong-password",
		})
		assert.Equal(t, fiber.StatusUnauthorized, code)
	}

	var user models.User
	require.NoError(t, db.Where("email = ?", "jane@example.com").First(&user).Error)
	assert.True(t, user.IsBlocked)
	require.NotNil(t, user.BlockedUntil)

	// Even the right password is rejected while the block window is open
	code := postJSON(t, app, "/auth/login", map[string]interface{}{
		"email":    "jane@example.com",
		"password": "secret123",
	})
	assert.Equal(t, fiber.StatusForbidden, code)
}
