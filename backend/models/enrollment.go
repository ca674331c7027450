package models

import "gorm.io/gorm"

type Enrollment struct {
	gorm.Model
	StudentID     uint    `gorm:"index;not null" json:"studentId"`
	CourseID      uint    `gorm:"index;not null" json:"courseId"`
	Price         float64 `json:"price"`
	PaymentStatus string  `gorm:"default:pending" json:"paymentStatus"` // pending, paid
}
