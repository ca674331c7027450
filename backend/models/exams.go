package models

import (
	"time"

	"gorm.io/gorm"
)

// ExamResult is one exam attempt. A student with no rows simply has not
// taken any exams yet; aggregators treat that as a valid state.
type ExamResult struct {
	gorm.Model
	StudentID      uint      `gorm:"index;not null" json:"studentId"`
	CorrectAnswers int       `json:"correctAnswers"`
	TotalQuestions int       `json:"totalQuestions"`
	ExamDate       time.Time `json:"examDate"`
}
