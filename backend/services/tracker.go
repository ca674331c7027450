package services

import (
	"errors"
	"time"

	"github.com/KerlosDev/HossamBackk/backend/models"

	"gorm.io/gorm"
)

// Sentinel errors carry the user-facing message directly; the handler
// maps them to 404.
var (
	ErrCourseNotFound  = errors.New("الكورس غير موجود")
	ErrChapterNotFound = errors.New("الفصل غير موجود")
	ErrLessonNotFound  = errors.New("الدرس غير موجود")
)

type TrackViewInput struct {
	CourseID     uint   `json:"courseId" validate:"required"`
	ChapterID    uint   `json:"chapterId" validate:"required"`
	LessonID     uint   `json:"lessonId" validate:"required"`
	LessonTitle  string `json:"lessonTitle"`
	ViewDuration int    `json:"viewDuration" validate:"gte=0"`
	IsCompleted  bool   `json:"isCompleted"`
}

// RequestMeta is supplied by the transport layer, never by the client.
type RequestMeta struct {
	IPAddress string
	UserAgent string
}

type ViewTracker struct {
	DB *gorm.DB
}

func NewViewTracker(db *gorm.DB) *ViewTracker {
	return &ViewTracker{DB: db}
}

// TrackView validates the event against the catalog and merges it into
// the view record for the (student, course, chapter, lesson) key.
// Replaying the same event is a no-op on duration and completion; only
// the watch counter and timestamp move.
func (t *ViewTracker) TrackView(studentID uint, input TrackViewInput, meta RequestMeta) (*models.LessonView, error) {
	var course models.Course
	if err := t.DB.First(&course, input.CourseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, err
	}

	var chapter models.Chapter
	if err := t.DB.First(&chapter, input.ChapterID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrChapterNotFound
		}
		return nil, err
	}

	var lesson models.Lesson
	if err := t.DB.Where("chapter_id = ? AND id = ?", input.ChapterID, input.LessonID).
		First(&lesson).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLessonNotFound
		}
		return nil, err
	}

	var existing models.LessonView
	err := t.DB.Where("student_id = ? AND course_id = ? AND chapter_id = ? AND lesson_id = ?",
		studentID, input.CourseID, input.ChapterID, input.LessonID).
		First(&existing).Error

	switch {
	case err == nil:
		return t.mergeView(&existing, input)

	case errors.Is(err, gorm.ErrRecordNotFound):
		title := input.LessonTitle
		if title == "" {
			title = lesson.Title
		}

		view := models.LessonView{
			StudentID:    studentID,
			CourseID:     input.CourseID,
			ChapterID:    input.ChapterID,
			LessonID:     input.LessonID,
			LessonTitle:  title,
			ViewDuration: input.ViewDuration,
			WatchedCount: 1,
			IsCompleted:  input.IsCompleted,
			IPAddress:    meta.IPAddress,
			UserAgent:    meta.UserAgent,
			LastViewedAt: time.Now(),
		}

		if createErr := t.DB.Create(&view).Error; createErr != nil {
			// A concurrent event for the same key won the create race.
			// The unique index keeps the invariant; retry as an update.
			var raced models.LessonView
			if t.DB.Where("student_id = ? AND course_id = ? AND chapter_id = ? AND lesson_id = ?",
				studentID, input.CourseID, input.ChapterID, input.LessonID).
				First(&raced).Error == nil {
				return t.mergeView(&raced, input)
			}
			return nil, createErr
		}
		return &view, nil

	default:
		return nil, err
	}
}

// mergeView folds one more event into an existing record. Duration is
// raised to the max and completion is sticky, so the merge is commutative
// and any interleaving of concurrent events converges.
func (t *ViewTracker) mergeView(view *models.LessonView, input TrackViewInput) (*models.LessonView, error) {
	if input.ViewDuration > view.ViewDuration {
		view.ViewDuration = input.ViewDuration
	}
	view.IsCompleted = view.IsCompleted || input.IsCompleted
	view.WatchedCount++
	view.LastViewedAt = time.Now()

	if err := t.DB.Save(view).Error; err != nil {
		return nil, err
	}
	return view, nil
}
