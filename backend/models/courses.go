package models

import "gorm.io/gorm"

// Catalog reference data. Owned by the course management side of the
// platform; the analytics layer only ever reads it.

type Course struct {
	gorm.Model
	Name     string    `gorm:"not null" json:"name"`
	ImageURL string    `json:"imageUrl"`
	Level    string    `json:"level"`
	Chapters []Chapter `json:"chapters,omitempty"`
}

type Chapter struct {
	gorm.Model
	CourseID      uint     `gorm:"index" json:"courseId"`
	Title         string   `gorm:"not null" json:"title"`
	SequenceOrder int      `json:"sequenceOrder"`
	Lessons       []Lesson `json:"lessons,omitempty"`
}

// A lesson id is only meaningful within its parent chapter; there is no
// standalone lesson endpoint.
type Lesson struct {
	gorm.Model
	ChapterID     uint   `gorm:"index" json:"chapterId"`
	Title         string `gorm:"not null" json:"title"`
	VideoURL      string `json:"videoUrl"`
	IsFree        bool   `gorm:"default:false" json:"isFree"`
	SequenceOrder int    `json:"sequenceOrder"`
}
