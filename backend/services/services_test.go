package services

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/KerlosDev/HossamBackk/backend/models"
	"github.com/KerlosDev/HossamBackk/backend/utils"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}

	if err := utils.Migrate(db); err != nil {
		t.Fatalf("migrating test database: %v", err)
	}

	return db
}

func createStudent(t *testing.T, db *gorm.DB, name, email string) models.User {
	t.Helper()

	user := models.User{
		Name:         name,
		Email:        email,
		PasswordHash: "hash",
		Role:         "user",
		LastActive:   time.Now(),
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("creating student: %v", err)
	}
	return user
}

// seedCatalog creates one course with two chapters: the first has two
// lessons, the second has one.
func seedCatalog(t *testing.T, db *gorm.DB) models.Course {
	t.Helper()

	course := models.Course{
		Name: "Physics 101",
		Chapters: []models.Chapter{
			{
				Title:         "Mechanics",
				SequenceOrder: 1,
				Lessons: []models.Lesson{
					{Title: "Kinematics", SequenceOrder: 1, IsFree: true},
					{Title: "Dynamics", SequenceOrder: 2},
				},
			},
			{
				Title:         "Waves",
				SequenceOrder: 2,
				Lessons: []models.Lesson{
					{Title: "Oscillations", SequenceOrder: 1},
				},
			},
		},
	}
	if err := db.Create(&course).Error; err != nil {
		t.Fatalf("creating catalog: %v", err)
	}
	return course
}
