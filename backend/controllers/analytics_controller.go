package controllers

import (
	"github.com/KerlosDev/HossamBackk/backend/config"
	"github.com/KerlosDev/HossamBackk/backend/middleware"
	"github.com/KerlosDev/HossamBackk/backend/services"
	"github.com/KerlosDev/HossamBackk/backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type AnalyticsController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewAnalyticsController(db *gorm.DB, cfg *config.Config) *AnalyticsController {
	return &AnalyticsController{DB: db, Cfg: cfg}
}

// GetStudentProgress возвращает прогресс одного студента
func (ac *AnalyticsController) GetStudentProgress(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	studentID := user.ID
	if param := c.Params("studentId"); param != "" {
		id, err := c.ParamsInt("studentId")
		if err != nil {
			return utils.BadRequest(c, "Invalid student ID")
		}
		studentID = uint(id)
	}

	if studentID != user.ID && user.Role != "admin" {
		return utils.Forbidden(c, "غير مصرح لك بالوصول لهذه البيانات")
	}

	progress, err := services.GetStudentProgress(ac.DB, studentID)
	if err != nil {
		return utils.InternalServerError(c, "حدث خطأ أثناء جلب تقدم الطالب", err)
	}

	return utils.Success(c, progress)
}

// GetAllStudentsProgress возвращает сводку по всем студентам (только админ)
func (ac *AnalyticsController) GetAllStudentsProgress(c *fiber.Ctx) error {
	progress, err := services.GetAllStudentsProgress(ac.DB)
	if err != nil {
		return utils.InternalServerError(c, "حدث خطأ أثناء جلب تقدم الطلاب", err)
	}

	return utils.Success(c, progress)
}

// GetViewsStatistics возвращает глобальную статистику просмотров
func (ac *AnalyticsController) GetViewsStatistics(c *fiber.Ctx) error {
	stats, err := services.GetViewsStatistics(ac.DB)
	if err != nil {
		return utils.InternalServerError(c, "Error fetching views statistics", err)
	}

	return utils.Success(c, stats)
}

// GetStudentsAnalytics возвращает когортную аналитику по студентам
func (ac *AnalyticsController) GetStudentsAnalytics(c *fiber.Ctx) error {
	analytics, err := services.GetStudentsAnalytics(ac.DB)
	if err != nil {
		return utils.InternalServerError(c, "Error getting students analytics", err)
	}

	return utils.Success(c, analytics)
}

// GetDashboard собирает сводную панель администратора. Вспомогательные
// агрегаторы пробрасывают ошибки сюда — это их общий catch boundary.
func (ac *AnalyticsController) GetDashboard(c *fiber.Ctx) error {
	newStudents, err := services.NewStudentsCount(ac.DB, 7)
	if err != nil {
		return utils.InternalServerError(c, "Error building dashboard", err)
	}

	signups, err := services.GetStudentSignupsByDay(ac.DB, 30)
	if err != nil {
		return utils.InternalServerError(c, "Error building dashboard", err)
	}

	revenue, err := services.CalculateTotalRevenue(ac.DB)
	if err != nil {
		return utils.InternalServerError(c, "Error building dashboard", err)
	}

	pending, err := services.GetPendingEnrollments(ac.DB)
	if err != nil {
		return utils.InternalServerError(c, "Error building dashboard", err)
	}

	students, err := services.GetStudentsAnalytics(ac.DB)
	if err != nil {
		return utils.InternalServerError(c, "Error building dashboard", err)
	}

	views, err := services.GetViewsStatistics(ac.DB)
	if err != nil {
		return utils.InternalServerError(c, "Error building dashboard", err)
	}

	return utils.Success(c, fiber.Map{
		"newStudents":        newStudents,
		"signupsByDay":       signups,
		"totalRevenue":       revenue,
		"pendingEnrollments": pending,
		"students":           students,
		"views":              views,
	})
}
