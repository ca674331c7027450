package controllers_test

import (
	"fmt"
	"testing"

	"github.com/KerlosDev/HossamBackk/backend/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

func TestTrackViewEndpoint(t *testing.T) {
	app, db, cfg := setupTestApp(t)
	course := seedCatalog(t, db)
	student := createUser(t, db, "Ahmed", "ahmed@example.com", "user")
	token := tokenFor(t, cfg, student.ID)
	chapter := course.Chapters[0]

	body := map[string]interface{}{
		"courseId":     course.ID,
		"chapterId":    chapter.ID,
		"lessonId":     chapter.Lessons[0].ID,
		"viewDuration": 30,
	}

	resp, result := doJSON(t, app, "POST", "/api/views/track", token, body)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, true, result["success"])
	assert.Equal(t, "تم تسجيل المشاهدة بنجاح", result["message"])

	data := result["data"].(map[string]interface{})
	assert.Equal(t, 30.0, data["viewDuration"])
	assert.Equal(t, "Kinematics", data["lessonTitle"])

	// replay with a shorter duration but completed
	body["viewDuration"] = 20
	body["isCompleted"] = true
	resp, result = doJSON(t, app, "POST", "/api/views/track", token, body)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	data = result["data"].(map[string]interface{})
	assert.Equal(t, 30.0, data["viewDuration"])
	assert.Equal(t, true, data["isCompleted"])

	var count int64
	db.Model(&models.LessonView{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestTrackViewUnknownCourse(t *testing.T) {
	app, db, cfg := setupTestApp(t)
	course := seedCatalog(t, db)
	student := createUser(t, db, "Sara", "sara@example.com", "user")
	token := tokenFor(t, cfg, student.ID)

	body := map[string]interface{}{
		"courseId":  9999,
		"chapterId": course.Chapters[0].ID,
		"lessonId":  course.Chapters[0].Lessons[0].ID,
	}

	resp, result := doJSON(t, app, "POST", "/api/views/track", token, body)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Equal(t, false, result["success"])
	assert.Equal(t, "الكورس غير موجود", result["message"])
}

func TestTrackViewMissingFields(t *testing.T) {
	app, db, cfg := setupTestApp(t)
	student := createUser(t, db, "Omar", "omar@example.com", "user")
	token := tokenFor(t, cfg, student.ID)

	resp, result := doJSON(t, app, "POST", "/api/views/track", token, map[string]interface{}{
		"courseId": 1,
	})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, false, result["success"])
}

func TestTrackViewRequiresAuth(t *testing.T) {
	app, _, _ := setupTestApp(t)

	resp, _ := doJSON(t, app, "POST", "/api/views/track", "", map[string]interface{}{})
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestLessonViewsAdminGate(t *testing.T) {
	app, db, cfg := setupTestApp(t)
	course := seedCatalog(t, db)
	student := createUser(t, db, "Ahmed", "ahmed@example.com", "user")
	admin := createUser(t, db, "Admin", "admin@example.com", "admin")
	chapter := course.Chapters[0]

	doJSON(t, app, "POST", "/api/views/track", tokenFor(t, cfg, student.ID), map[string]interface{}{
		"courseId":     course.ID,
		"chapterId":    chapter.ID,
		"lessonId":     chapter.Lessons[0].ID,
		"viewDuration": 30,
		"isCompleted":  true,
	})

	path := fmt.Sprintf("/api/views/lesson/%d/%d/%d", course.ID, chapter.ID, chapter.Lessons[0].ID)

	resp, _ := doJSON(t, app, "GET", path, tokenFor(t, cfg, student.ID), nil)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp, result := doJSON(t, app, "GET", path, tokenFor(t, cfg, admin.ID), nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	data := result["data"].(map[string]interface{})
	analytics := data["analytics"].(map[string]interface{})
	assert.Equal(t, 1.0, analytics["totalViews"])
	assert.Equal(t, 100.0, analytics["completionRate"])

	views := data["views"].([]interface{})
	first := views[0].(map[string]interface{})
	assert.Equal(t, "Ahmed", first["studentName"])
}

func TestCourseAnalyticsEndpoint(t *testing.T) {
	app, db, cfg := setupTestApp(t)
	course := seedCatalog(t, db)
	student := createUser(t, db, "Ahmed", "ahmed@example.com", "user")
	token := tokenFor(t, cfg, student.ID)
	chapter := course.Chapters[0]

	for _, lessonID := range []uint{chapter.Lessons[0].ID, chapter.Lessons[1].ID} {
		doJSON(t, app, "POST", "/api/views/track", token, map[string]interface{}{
			"courseId":  course.ID,
			"chapterId": chapter.ID,
			"lessonId":  lessonID,
		})
	}

	resp, result := doJSON(t, app, "GET", fmt.Sprintf("/api/views/course/%d/analytics", course.ID), token, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	data := result["data"].(map[string]interface{})
	info := data["course"].(map[string]interface{})
	assert.Equal(t, 2.0, info["chaptersCount"])
	assert.Equal(t, 3.0, info["totalLessons"])

	overall := data["overallAnalytics"].(map[string]interface{})
	assert.Equal(t, 2.0, overall["totalViews"])

	chapters := data["chapters"].([]interface{})
	assert.Len(t, chapters, 2)
	waves := chapters[1].(map[string]interface{})
	assert.Equal(t, 0.0, waves["totalViews"])

	resp, _ = doJSON(t, app, "GET", "/api/views/course/9999/analytics", token, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestChapterAnalyticsEndpoint(t *testing.T) {
	app, db, cfg := setupTestApp(t)
	course := seedCatalog(t, db)
	student := createUser(t, db, "Ahmed", "ahmed@example.com", "user")
	token := tokenFor(t, cfg, student.ID)
	chapter := course.Chapters[0]

	resp, result := doJSON(t, app, "GET", fmt.Sprintf("/api/views/chapter/%d/analytics", chapter.ID), token, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	data := result["data"].(map[string]interface{})
	assert.Equal(t, "Mechanics", data["chapterTitle"])
	assert.Equal(t, 2.0, data["lessonsCount"])

	lessons := data["lessons"].([]interface{})
	assert.Len(t, lessons, 2)
	for _, raw := range lessons {
		lesson := raw.(map[string]interface{})
		assert.Equal(t, 0.0, lesson["totalViews"])
		assert.Equal(t, 0.0, lesson["completionRate"])
	}

	resp, _ = doJSON(t, app, "GET", "/api/views/chapter/9999/analytics", token, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestUserHistoryAccessControl(t *testing.T) {
	app, db, cfg := setupTestApp(t)
	course := seedCatalog(t, db)
	owner := createUser(t, db, "Ahmed", "ahmed@example.com", "user")
	other := createUser(t, db, "Sara", "sara@example.com", "user")
	admin := createUser(t, db, "Admin", "admin@example.com", "admin")
	chapter := course.Chapters[0]

	doJSON(t, app, "POST", "/api/views/track", tokenFor(t, cfg, owner.ID), map[string]interface{}{
		"courseId":     course.ID,
		"chapterId":    chapter.ID,
		"lessonId":     chapter.Lessons[0].ID,
		"viewDuration": 60,
	})

	path := fmt.Sprintf("/api/views/user/%d/history", owner.ID)

	// another non-admin student gets nothing
	resp, result := doJSON(t, app, "GET", path, tokenFor(t, cfg, other.ID), nil)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	assert.Equal(t, false, result["success"])
	assert.Nil(t, result["data"])

	// the owner sees their own history
	resp, result = doJSON(t, app, "GET", path, tokenFor(t, cfg, owner.ID), nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	data := result["data"].(map[string]interface{})
	analytics := data["analytics"].(map[string]interface{})
	assert.Equal(t, 1.0, analytics["totalViews"])
	assert.Equal(t, 60.0, analytics["totalWatchTime"])

	// an admin sees anyone's
	resp, _ = doJSON(t, app, "GET", path, tokenFor(t, cfg, admin.ID), nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}
