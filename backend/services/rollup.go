package services

import (
	"math"
	"sort"

	"github.com/KerlosDev/HossamBackk/backend/models"
)

// ViewSummary are the five engagement metrics computed over any set of
// view records, at lesson, chapter or course granularity.
type ViewSummary struct {
	TotalViews     int     `json:"totalViews"`
	UniqueViewers  int     `json:"uniqueViewers"`
	CompletedViews int     `json:"completedViews"`
	CompletionRate float64 `json:"completionRate"`
	TotalDuration  int     `json:"totalDuration"`
	AvgDuration    float64 `json:"avgDuration"`
}

type LessonViewAnalytics struct {
	LessonID    uint   `json:"lessonId"`
	LessonTitle string `json:"lessonTitle"`
	IsFree      bool   `json:"isFree"`
	ViewSummary
}

type ChapterViewAnalytics struct {
	ChapterID    uint   `json:"chapterId"`
	ChapterTitle string `json:"chapterTitle"`
	LessonsCount int    `json:"lessonsCount"`
	ViewSummary
	Lessons []LessonViewAnalytics `json:"lessons"`
}

type CourseInfo struct {
	ID            uint   `json:"id"`
	Name          string `json:"name"`
	ChaptersCount int    `json:"chaptersCount"`
	TotalLessons  int    `json:"totalLessons"`
}

type CourseViewAnalytics struct {
	Course           CourseInfo             `json:"course"`
	OverallAnalytics ViewSummary            `json:"overallAnalytics"`
	Chapters         []ChapterViewAnalytics `json:"chapters"`
}

// SummarizeViews computes the metrics for one set of records. Ratios are
// defined as 0 over an empty set, never NaN.
func SummarizeViews(views []models.LessonView) ViewSummary {
	summary := ViewSummary{TotalViews: len(views)}

	seen := make(map[uint]struct{}, len(views))
	for _, v := range views {
		seen[v.StudentID] = struct{}{}
		if v.IsCompleted {
			summary.CompletedViews++
		}
		summary.TotalDuration += v.ViewDuration
	}
	summary.UniqueViewers = len(seen)

	if summary.TotalViews > 0 {
		summary.CompletionRate = round2(float64(summary.CompletedViews) / float64(summary.TotalViews) * 100)
		summary.AvgDuration = round2(float64(summary.TotalDuration) / float64(summary.TotalViews))
	}

	return summary
}

// BuildChapterAnalytics rolls up one chapter. Every lesson the catalog
// declares is emitted in sequence order, including lessons nobody has
// watched yet (all-zero metrics).
func BuildChapterAnalytics(chapter models.Chapter, views []models.LessonView) ChapterViewAnalytics {
	lessons := orderedLessons(chapter.Lessons)

	byLesson := make(map[uint][]models.LessonView)
	for _, v := range views {
		byLesson[v.LessonID] = append(byLesson[v.LessonID], v)
	}

	result := ChapterViewAnalytics{
		ChapterID:    chapter.ID,
		ChapterTitle: chapter.Title,
		LessonsCount: len(lessons),
		ViewSummary:  SummarizeViews(views),
		Lessons:      make([]LessonViewAnalytics, 0, len(lessons)),
	}

	for _, lesson := range lessons {
		result.Lessons = append(result.Lessons, LessonViewAnalytics{
			LessonID:    lesson.ID,
			LessonTitle: lesson.Title,
			IsFree:      lesson.IsFree,
			ViewSummary: SummarizeViews(byLesson[lesson.ID]),
		})
	}

	return result
}

// BuildCourseAnalytics rolls up a whole course: per-chapter analytics in
// catalog order plus the same metrics over the unpartitioned union.
// Chapter and lesson counts come from the catalog, not from the views.
func BuildCourseAnalytics(course models.Course, views []models.LessonView) CourseViewAnalytics {
	chapters := orderedChapters(course.Chapters)

	byChapter := make(map[uint][]models.LessonView)
	for _, v := range views {
		byChapter[v.ChapterID] = append(byChapter[v.ChapterID], v)
	}

	totalLessons := 0
	chaptersAnalytics := make([]ChapterViewAnalytics, 0, len(chapters))
	for _, chapter := range chapters {
		totalLessons += len(chapter.Lessons)
		chaptersAnalytics = append(chaptersAnalytics, BuildChapterAnalytics(chapter, byChapter[chapter.ID]))
	}

	return CourseViewAnalytics{
		Course: CourseInfo{
			ID:            course.ID,
			Name:          course.Name,
			ChaptersCount: len(chapters),
			TotalLessons:  totalLessons,
		},
		OverallAnalytics: SummarizeViews(views),
		Chapters:         chaptersAnalytics,
	}
}

func orderedChapters(chapters []models.Chapter) []models.Chapter {
	out := make([]models.Chapter, len(chapters))
	copy(out, chapters)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].SequenceOrder < out[j].SequenceOrder
	})
	return out
}

func orderedLessons(lessons []models.Lesson) []models.Lesson {
	out := make([]models.Lesson, len(lessons))
	copy(out, lessons)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].SequenceOrder < out[j].SequenceOrder
	})
	return out
}

func round2(value float64) float64 {
	return math.Round(value*100) / 100
}
