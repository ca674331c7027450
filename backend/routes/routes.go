package routes

import (
	"github.com/KerlosDev/HossamBackk/backend/config"
	"github.com/KerlosDev/HossamBackk/backend/controllers"
	"github.com/KerlosDev/HossamBackk/backend/middleware"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupRoutes(app *fiber.App, db *gorm.DB, cfg *config.Config) {
	// Auth routes
	authController := controllers.NewAuthController(db, cfg)
	app.Post("/api/auth/register", authController.Register)
	app.Post("/api/auth/login", authController.Login)

	// Middleware
	authMiddleware := middleware.AuthMiddleware(db, cfg)
	adminMiddleware := middleware.AdminMiddleware()

	// Lesson view routes
	viewsController := controllers.NewViewsController(db, cfg)
	views := app.Group("/api/views", authMiddleware)
	views.Post("/track", viewsController.TrackView)
	views.Get("/lesson/:courseId/:chapterId/:lessonId", adminMiddleware, viewsController.GetLessonViews)
	views.Get("/course/:courseId/analytics", viewsController.GetCourseAnalytics)
	views.Get("/chapter/:chapterId/analytics", viewsController.GetChapterAnalytics)
	views.Get("/user/:userId/history", viewsController.GetUserHistory)

	// Analytics routes
	analyticsController := controllers.NewAnalyticsController(db, cfg)
	analytics := app.Group("/api/analytics", authMiddleware)
	analytics.Get("/student", analyticsController.GetStudentProgress)
	analytics.Get("/student/:studentId", analyticsController.GetStudentProgress)
	analytics.Get("/students", adminMiddleware, analyticsController.GetAllStudentsProgress)
	analytics.Get("/students/stats", adminMiddleware, analyticsController.GetStudentsAnalytics)
	analytics.Get("/views", adminMiddleware, analyticsController.GetViewsStatistics)
	analytics.Get("/dashboard", adminMiddleware, analyticsController.GetDashboard)

	// Settings routes
	settingsController := controllers.NewSettingsController(db, cfg)
	settings := app.Group("/api/settings", authMiddleware)
	settings.Get("/wallets", settingsController.GetWalletSettings)
	settings.Post("/wallets", adminMiddleware, settingsController.UpdateWalletSettings)
}
