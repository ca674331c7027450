package models

import (
	"time"

	"gorm.io/gorm"
)

// LessonView holds one student's cumulative engagement with one lesson.
// The four-part key is unique: repeated watch events merge into the same
// row (duration raised to the max, completion OR-ed in, watch counter
// incremented) instead of creating new ones.
type LessonView struct {
	gorm.Model
	StudentID    uint      `gorm:"not null;uniqueIndex:idx_view_key" json:"studentId"`
	CourseID     uint      `gorm:"not null;uniqueIndex:idx_view_key" json:"courseId"`
	ChapterID    uint      `gorm:"not null;uniqueIndex:idx_view_key" json:"chapterId"`
	LessonID     uint      `gorm:"not null;uniqueIndex:idx_view_key" json:"lessonId"`
	LessonTitle  string    `gorm:"not null" json:"lessonTitle"`
	ViewDuration int       `gorm:"default:0" json:"viewDuration"` // seconds
	WatchedCount int       `gorm:"default:0" json:"watchedCount"`
	IsCompleted  bool      `gorm:"default:false" json:"isCompleted"`
	IPAddress    string    `json:"ipAddress,omitempty"`
	UserAgent    string    `json:"userAgent,omitempty"`
	LastViewedAt time.Time `gorm:"index" json:"lastViewedAt"`
}
