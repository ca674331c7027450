package models

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	Name         string `gorm:"not null" json:"name"`
	Email        string `gorm:"unique;not null" json:"email"`
	PasswordHash string `gorm:"not null" json:"-"`
	Role         string `gorm:"default:user" json:"role"` // user, admin
	IsBanned     bool   `gorm:"default:false" json:"isBanned"`
	Government   string `json:"government"`
	Level        string `json:"level"`
	LastActive   time.Time `json:"lastActive"`
}
