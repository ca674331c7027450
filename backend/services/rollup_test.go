package services

import (
	"testing"

	"github.com/KerlosDev/HossamBackk/backend/models"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func view(studentID, lessonID, chapterID uint, duration int, completed bool) models.LessonView {
	return models.LessonView{
		StudentID:    studentID,
		CourseID:     1,
		ChapterID:    chapterID,
		LessonID:     lessonID,
		ViewDuration: duration,
		WatchedCount: 1,
		IsCompleted:  completed,
	}
}

func TestSummarizeViewsEmpty(t *testing.T) {
	summary := SummarizeViews(nil)

	assert.Equal(t, 0, summary.TotalViews)
	assert.Equal(t, 0, summary.UniqueViewers)
	assert.Equal(t, 0, summary.CompletedViews)
	assert.Equal(t, 0.0, summary.CompletionRate)
	assert.Equal(t, 0, summary.TotalDuration)
	assert.Equal(t, 0.0, summary.AvgDuration)
}

func TestSummarizeViews(t *testing.T) {
	views := []models.LessonView{
		view(1, 10, 100, 30, true),
		view(2, 10, 100, 60, false),
		view(1, 11, 100, 10, true),
	}

	summary := SummarizeViews(views)

	assert.Equal(t, 3, summary.TotalViews)
	assert.Equal(t, 2, summary.UniqueViewers)
	assert.Equal(t, 2, summary.CompletedViews)
	assert.Equal(t, 66.67, summary.CompletionRate)
	assert.Equal(t, 100, summary.TotalDuration)
	assert.Equal(t, 33.33, summary.AvgDuration)
}

func chapterFixture(id uint, title string, order int, lessonIDs ...uint) models.Chapter {
	chapter := models.Chapter{
		Model:         gorm.Model{ID: id},
		Title:         title,
		SequenceOrder: order,
	}
	for i, lessonID := range lessonIDs {
		chapter.Lessons = append(chapter.Lessons, models.Lesson{
			Model:         gorm.Model{ID: lessonID},
			Title:         title,
			SequenceOrder: i + 1,
		})
	}
	return chapter
}

func TestBuildChapterAnalyticsEnumeratesCatalog(t *testing.T) {
	chapter := chapterFixture(100, "Mechanics", 1, 10, 11)
	views := []models.LessonView{
		view(1, 10, 100, 30, true),
		view(2, 10, 100, 45, false),
	}

	analytics := BuildChapterAnalytics(chapter, views)

	assert.Equal(t, 2, analytics.LessonsCount)
	assert.Len(t, analytics.Lessons, 2)

	// catalog order, including the unwatched lesson with all-zero metrics
	assert.Equal(t, uint(10), analytics.Lessons[0].LessonID)
	assert.Equal(t, uint(11), analytics.Lessons[1].LessonID)
	assert.Equal(t, 0, analytics.Lessons[1].TotalViews)
	assert.Equal(t, 0.0, analytics.Lessons[1].CompletionRate)

	assert.Equal(t, 2, analytics.TotalViews)
	assert.Equal(t, 50.0, analytics.CompletionRate)
}

func TestBuildCourseAnalytics(t *testing.T) {
	course := models.Course{
		Model: gorm.Model{ID: 1},
		Name:  "Physics 101",
		Chapters: []models.Chapter{
			chapterFixture(100, "Mechanics", 1, 10, 11),
			chapterFixture(200, "Waves", 2, 20),
		},
	}

	// three views of one lesson, the other two lessons unwatched
	views := []models.LessonView{
		view(1, 10, 100, 30, true),
		view(2, 10, 100, 20, false),
		view(3, 10, 100, 10, false),
	}

	analytics := BuildCourseAnalytics(course, views)

	assert.Equal(t, 2, analytics.Course.ChaptersCount)
	assert.Equal(t, 3, analytics.Course.TotalLessons)
	assert.Equal(t, 3, analytics.OverallAnalytics.TotalViews)

	// chapter with no views still appears with zero metrics
	waves := analytics.Chapters[1]
	assert.Equal(t, uint(200), waves.ChapterID)
	assert.Equal(t, 0, waves.TotalViews)
	assert.Len(t, waves.Lessons, 1)
	assert.Equal(t, 0, waves.Lessons[0].TotalViews)
	assert.Equal(t, 0.0, waves.Lessons[0].CompletionRate)
}

func TestRollupConsistency(t *testing.T) {
	course := models.Course{
		Model: gorm.Model{ID: 1},
		Chapters: []models.Chapter{
			chapterFixture(100, "A", 1, 10, 11),
			chapterFixture(200, "B", 2, 20, 21),
		},
	}

	views := []models.LessonView{
		view(1, 10, 100, 30, true),
		view(2, 11, 100, 15, false),
		view(1, 20, 200, 5, true),
		view(3, 21, 200, 50, false),
		view(2, 21, 200, 25, true),
	}

	analytics := BuildCourseAnalytics(course, views)

	chapterTotal := 0
	lessonTotal := 0
	for _, chapter := range analytics.Chapters {
		chapterTotal += chapter.TotalViews
		for _, lesson := range chapter.Lessons {
			lessonTotal += lesson.TotalViews
		}
	}

	assert.Equal(t, analytics.OverallAnalytics.TotalViews, chapterTotal)
	assert.Equal(t, analytics.OverallAnalytics.TotalViews, lessonTotal)
}
