package courseController

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"strconv"
	"testing"

	"lms/config"
	"lms/database"
	"lms/models"
	certModels "lms/models/certificate"
	courseModels "lms/models/course"
	gamificationModels "lms/models/gamification"

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

// seedCourseWithContents creates an enrolled user and a published course with
// the given number of published article contents.
func seedCourseWithContents(t *testing.T, db *gorm.DB, contentCount int) (models.User, courseModels.Course, []courseModels.CourseContent) {
	t.Helper()

	user := models.User{Name: "Jane Doe", Email: "jane@example.com"}
	require.NoError(t, db.Create(&user).Error)

	course := courseModels.Course{Title: "Go Fundamentals", Status: "ACTIVE", IsPublished: true, Duration: 10}
	require.NoError(t, db.Create(&course).Error)

	contents := make([]courseModels.CourseContent, contentCount)
	for i := 0; i < contentCount; i++ {
		contents[i] = courseModels.CourseContent{
			CourseID:    course.ID,
			Title:       "Lesson",
			ContentType: "ARTICLE",
			OrderIndex:  i,
			IsPublished: true,
		}
		require.NoError(t, db.Create(&contents[i]).Error)
	}

	enrollment := courseModels.Enrollment{UserID: user.ID, CourseID: course.ID, Status: "ENROLLED"}
	require.NoError(t, db.Create(&enrollment).Error)

	return user, course, contents
}

func completeContent(t *testing.T, db *gorm.DB, userID uint, course courseModels.Course, content courseModels.CourseContent) {
	t.Helper()

	require.NoError(t, db.Create(&courseModels.ContentCompletion{
		UserID:          userID,
		CourseID:        course.ID,
		CourseContentID: content.ID,
		Status:          "COMPLETED",
	}).Error)
	UpdateEnrollmentProgress(userID, course.ID)
}

func TestUpdateEnrollmentProgress(t *testing.T) {
	db := setupTestDB(t)
	user, course, contents := seedCourseWithContents(t, db, 4)

	completeContent(t, db, user.ID, course, contents[0])

	var enrollment courseModels.Enrollment
	require.NoError(t, db.Where("user_id = ? AND course_id = ?", user.ID, course.ID).First(&enrollment).Error)
	assert.Equal(t, float64(25), enrollment.Progress)
	assert.Equal(t, 1, enrollment.CompletedContents)
	assert.Equal(t, 4, enrollment.TotalContents)
	assert.Equal(t, "IN_PROGRESS", enrollment.Status)
}

func TestCourseCompletionFlow(t *testing.T) {
	db := setupTestDB(t)
	user, course, contents := seedCourseWithContents(t, db, 2)

	require.NoError(t, db.Create(&gamificationModels.Level{LevelNumber: 1, Name: "Bronze", PointsRequired: 0}).Error)
	require.NoError(t, db.Create(&certModels.CertificateTemplate{Name: "Default", HTMLBody: "<h1>{{student_name}}</h1>", IsDefault: true}).Error)

	completeContent(t, db, user.ID, course, contents[0])
	completeContent(t, db, user.ID, course, contents[1])

	var enrollment courseModels.Enrollment
	require.NoError(t, db.Where("user_id = ? AND course_id = ?", user.ID, course.ID).First(&enrollment).Error)
	assert.Equal(t, "COMPLETED", enrollment.Status)
	assert.Equal(t, float64(100), enrollment.Progress)
	assert.NotNil(t, enrollment.CompletedAt)

	// Completion points were granted once
	var total int64
	db.Model(&gamificationModels.PointsTransaction{}).
		Where("user_id = ? AND transaction_type = ?", user.ID, gamificationModels.TxCourseCompletion).
		Select("COALESCE(SUM(points), 0)").
		Scan(&total)
	assert.EqualValues(t, 100, total)

	// A certificate was auto-issued against the default template
	var certCount int64
	db.Model(&certModels.Certificate{}).Where("user_id = ? AND course_id = ?", user.ID, course.ID).Count(&certCount)
	assert.EqualValues(t, 1, certCount)

	// Re-running the recompute must not fire the completion flow again
	UpdateEnrollmentProgress(user.ID, course.ID)

	db.Model(&gamificationModels.PointsTransaction{}).
		Where("user_id = ? AND transaction_type = ?", user.ID, gamificationModels.TxCourseCompletion).
		Select("COALESCE(SUM(points), 0)").
		Scan(&total)
	assert.EqualValues(t, 100, total)
}

func testApp(userID uint) *fiber.App {
	app := fiber.New()
	withUser := func(c *fiber.Ctx) error {
		c.Locals("userId", userID)
		return c.Next()
	}
	withIDs := func(c *fiber.Ctx) error {
		if id, err := c.ParamsInt("id"); err == nil {
			c.Locals("courseID", id)
		}
		if id, err := c.ParamsInt("contentId"); err == nil {
			c.Locals("contentID", id)
		}
		return c.Next()
	}

	app.Post("/course/:id/content/:contentId/complete", withUser, withIDs, MarkContentComplete)
	app.Post("/course/:id/content/:contentId/mcq/submit", withUser, withIDs, SubmitMCQAnswer)
	return app
}

func TestMarkContentCompleteIsIdempotent(t *testing.T) {
	db := setupTestDB(t)
	user, course, contents := seedCourseWithContents(t, db, 3)

	app := testApp(user.ID)
	url := "/course/" + itoa(course.ID) + "/content/" + itoa(contents[0].ID) + "/complete"

	resp, err := app.Test(httptest.NewRequest("POST", url, nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	// Second completion of the same item is a no-op
	resp, err = app.Test(httptest.NewRequest("POST", url, nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var count int64
	db.Model(&courseModels.ContentCompletion{}).
		Where("user_id = ? AND course_content_id = ?", user.ID, contents[0].ID).Count(&count)
	assert.EqualValues(t, 1, count)

	var enrollment courseModels.Enrollment
	require.NoError(t, db.Where("user_id = ? AND course_id = ?", user.ID, course.ID).First(&enrollment).Error)
	assert.Equal(t, 1, enrollment.CompletedContents)
}

func TestMarkContentCompleteRejectsMCQ(t *testing.T) {
	db := setupTestDB(t)
	user, course, _ := seedCourseWithContents(t, db, 1)

	mcq := courseModels.CourseContent{CourseID: course.ID, Title: "Quiz", ContentType: "MCQ", IsPublished: true}
	require.NoError(t, db.Create(&mcq).Error)

	app := testApp(user.ID)
	url := "/course/" + itoa(course.ID) + "/content/" + itoa(mcq.ID) + "/complete"

	resp, err := app.Test(httptest.NewRequest("POST", url, nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestSubmitMCQAnswer(t *testing.T) {
	db := setupTestDB(t)
	user, course, _ := seedCourseWithContents(t, db, 1)

	mcq := courseModels.CourseContent{CourseID: course.ID, Title: "Quiz", ContentType: "MCQ", IsPublished: true}
	require.NoError(t, db.Create(&mcq).Error)

	right := courseModels.MCQOption{ContentID: mcq.ID, OptionText: "Right", IsCorrect: true}
	wrong := courseModels.MCQOption{ContentID: mcq.ID, OptionText: "Wrong"}
	require.NoError(t, db.Create(&right).Error)
	require.NoError(t, db.Create(&wrong).Error)

	app := testApp(user.ID)
	url := "/course/" + itoa(course.ID) + "/content/" + itoa(mcq.ID) + "/mcq/submit"

	submit := func(optionIDs []uint) (int, map[string]interface{}) {
		body, err := json.Marshal(map[string]interface{}{"selected_option_ids": optionIDs})
		require.NoError(t, err)
		req := httptest.NewRequest("POST", url, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		resp, err := app.Test(req)
		require.NoError(t, err)
		var parsed struct {
			Data map[string]interface{} `json:"data"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&parsed))
		return resp.StatusCode, parsed.Data
	}

	// Wrong selection records an attempt but no completion
	code, data := submit([]uint{wrong.ID})
	assert.Equal(t, fiber.StatusOK, code)
	assert.Equal(t, false, data["is_correct"])

	var completions int64
	db.Model(&courseModels.ContentCompletion{}).Where("user_id = ?", user.ID).Count(&completions)
	assert.EqualValues(t, 0, completions)

	// Correct selection completes the content
	code, data = submit([]uint{right.ID})
	assert.Equal(t, fiber.StatusOK, code)
	assert.Equal(t, true, data["is_correct"])

	db.Model(&courseModels.ContentCompletion{}).
		Where("user_id = ? AND course_content_id = ?", user.ID, mcq.ID).Count(&completions)
	assert.EqualValues(t, 1, completions)

	var attempts []courseModels.MCQAttempt
	require.NoError(t, db.Where("user_id = ? AND content_id = ?", user.ID, mcq.ID).Order("attempt_number asc").Find(&attempts).Error)
	require.Len(t, attempts, 2)
	assert.Equal(t, 1, attempts[0].AttemptNumber)
	assert.Equal(t, 2, attempts[1].AttemptNumber)

	// Assessment points: 10 for the failed attempt, 50 for the pass
	var total int64
	db.Model(&gamificationModels.PointsTransaction{}).
		Where("user_id = ? AND transaction_type = ?", user.ID, gamificationModels.TxAssessment).
		Select("COALESCE(SUM(points), 0)").
		Scan(&total)
	assert.EqualValues(t, 60, total)
}

func itoa(v uint) string {
	return strconv.FormatUint(uint64(v), 10)
}
