package controllers

import (
	"errors"

	"github.com/KerlosDev/HossamBackk/backend/config"
	"github.com/KerlosDev/HossamBackk/backend/middleware"
	"github.com/KerlosDev/HossamBackk/backend/models"
	"github.com/KerlosDev/HossamBackk/backend/services"
	"github.com/KerlosDev/HossamBackk/backend/utils"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

var validate = validator.New()

type ViewsController struct {
	DB      *gorm.DB
	Cfg     *config.Config
	Tracker *services.ViewTracker
}

func NewViewsController(db *gorm.DB, cfg *config.Config) *ViewsController {
	return &ViewsController{DB: db, Cfg: cfg, Tracker: services.NewViewTracker(db)}
}

// TrackView регистрирует событие просмотра урока
func (vc *ViewsController) TrackView(c *fiber.Ctx) error {
	var input services.TrackViewInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "بيانات التتبع غير صالحة")
	}
	if err := validate.Struct(input); err != nil {
		return utils.BadRequest(c, "بيانات التتبع غير مكتملة")
	}

	user := middleware.CurrentUser(c)
	meta := services.RequestMeta{
		IPAddress: c.IP(),
		UserAgent: c.Get("User-Agent"),
	}

	view, err := vc.Tracker.TrackView(user.ID, input, meta)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrCourseNotFound),
			errors.Is(err, services.ErrChapterNotFound),
			errors.Is(err, services.ErrLessonNotFound):
			return utils.NotFound(c, err.Error())
		default:
			return utils.InternalServerError(c, "خطأ في تسجيل المشاهدة", err)
		}
	}

	return utils.SuccessMessage(c, "تم تسجيل المشاهدة بنجاح", view)
}

// lessonViewEntry дополняет запись просмотра данными студента
type lessonViewEntry struct {
	models.LessonView
	StudentName  string `json:"studentName"`
	StudentEmail string `json:"studentEmail"`
}

// GetLessonViews возвращает список просмотров урока и его аналитику
func (vc *ViewsController) GetLessonViews(c *fiber.Ctx) error {
	courseID, err1 := c.ParamsInt("courseId")
	chapterID, err2 := c.ParamsInt("chapterId")
	lessonID, err3 := c.ParamsInt("lessonId")
	if err1 != nil || err2 != nil || err3 != nil {
		return utils.BadRequest(c, "Invalid lesson reference")
	}

	var entries []lessonViewEntry
	err := vc.DB.Model(&models.LessonView{}).
		Select("lesson_views.*, users.name AS student_name, users.email AS student_email").
		Joins("LEFT JOIN users ON users.id = lesson_views.student_id").
		Where("lesson_views.course_id = ? AND lesson_views.chapter_id = ? AND lesson_views.lesson_id = ?",
			courseID, chapterID, lessonID).
		Order("lesson_views.created_at DESC").
		Scan(&entries).Error
	if err != nil {
		return utils.InternalServerError(c, "خطأ في جلب مشاهدات الدرس", err)
	}

	views := make([]models.LessonView, 0, len(entries))
	for _, entry := range entries {
		views = append(views, entry.LessonView)
	}

	return utils.Success(c, fiber.Map{
		"views":     entries,
		"analytics": services.SummarizeViews(views),
	})
}

// GetCourseAnalytics возвращает полный свод по курсу
func (vc *ViewsController) GetCourseAnalytics(c *fiber.Ctx) error {
	courseID, err := c.ParamsInt("courseId")
	if err != nil {
		return utils.BadRequest(c, "Invalid course ID")
	}

	var course models.Course
	err = vc.DB.Preload("Chapters", func(db *gorm.DB) *gorm.DB {
		return db.Order("chapters.sequence_order ASC")
	}).Preload("Chapters.Lessons", func(db *gorm.DB) *gorm.DB {
		return db.Order("lessons.sequence_order ASC")
	}).First(&course, courseID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "الكورس غير موجود")
		}
		return utils.InternalServerError(c, "خطأ في جلب تحليل مشاهدات الكورس", err)
	}

	var views []models.LessonView
	if err := vc.DB.Where("course_id = ?", courseID).Find(&views).Error; err != nil {
		return utils.InternalServerError(c, "خطأ في جلب تحليل مشاهدات الكورس", err)
	}

	return utils.Success(c, services.BuildCourseAnalytics(course, views))
}

// GetChapterAnalytics возвращает свод по одному разделу
func (vc *ViewsController) GetChapterAnalytics(c *fiber.Ctx) error {
	chapterID, err := c.ParamsInt("chapterId")
	if err != nil {
		return utils.BadRequest(c, "Invalid chapter ID")
	}

	var chapter models.Chapter
	err = vc.DB.Preload("Lessons", func(db *gorm.DB) *gorm.DB {
		return db.Order("lessons.sequence_order ASC")
	}).First(&chapter, chapterID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "الفصل غير موجود")
		}
		return utils.InternalServerError(c, "خطأ في جلب تحليل مشاهدات الفصل", err)
	}

	var views []models.LessonView
	if err := vc.DB.Where("chapter_id = ?", chapterID).Find(&views).Error; err != nil {
		return utils.InternalServerError(c, "خطأ في جلب تحليل مشاهدات الفصل", err)
	}

	return utils.Success(c, services.BuildChapterAnalytics(chapter, views))
}

// GetUserHistory возвращает историю просмотров студента (не более 100 записей)
func (vc *ViewsController) GetUserHistory(c *fiber.Ctx) error {
	userID, err := c.ParamsInt("userId")
	if err != nil {
		return utils.BadRequest(c, "Invalid user ID")
	}

	user := middleware.CurrentUser(c)
	if uint(userID) != user.ID && user.Role != "admin" {
		return utils.Forbidden(c, "غير مصرح لك بالوصول لهذه البيانات")
	}

	history, err := services.GetUserViewHistory(vc.DB, uint(userID), 100)
	if err != nil {
		return utils.InternalServerError(c, "خطأ في جلب تاريخ المشاهدة", err)
	}

	return utils.Success(c, history)
}
