package controllers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"path/filepath"
	"testing"
	"time"

	"github.com/KerlosDev/HossamBackk/backend/config"
	"github.com/KerlosDev/HossamBackk/backend/models"
	"github.com/KerlosDev/HossamBackk/backend/routes"
	"github.com/KerlosDev/HossamBackk/backend/utils"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestApp(t *testing.T) (*fiber.App, *gorm.DB, *config.Config) {
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

	cfg := &config.Config{JWTSecret: "testsecret", ServerPort: "8080"}

	app := fiber.New()
	routes.SetupRoutes(app, db, cfg)

	return app, db, cfg
}

func createUser(t *testing.T, db *gorm.DB, name, email, role string) models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hashing password: %v", err)
	}

	user := models.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		LastActive:   time.Now(),
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("creating user: %v", err)
	}
	return user
}

func tokenFor(t *testing.T, cfg *config.Config, userID uint) string {
	t.Helper()

	token, err := utils.GenerateJWTToken(userID, cfg)
	if err != nil {
		t.Fatalf("generating token: %v", err)
	}
	return token
}

// seedCatalog creates one course with two chapters (two lessons and one
// lesson respectively).
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

func doJSON(t *testing.T, app *fiber.App, method, path, token string, body interface{}) (*http.Response, map[string]interface{}) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshaling body: %v", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, path, reader)
	if err != nil {
		t.Fatalf("building request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", token)
	}

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("executing request: %v", err)
	}

	var result map[string]interface{}
	json.NewDecoder(resp.Body).Decode(&result)
	return resp, result
}
