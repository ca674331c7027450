package services

import (
	"database/sql"
	"math"
	"time"

	"github.com/KerlosDev/HossamBackk/backend/models"

	"gorm.io/gorm"
)

type MostActiveStudent struct {
	ID         uint   `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	TotalViews int    `json:"totalViews"`
}

type MostViewedLesson struct {
	LessonID     uint   `json:"lessonId"`
	LessonTitle  string `json:"lessonTitle"`
	CourseName   string `json:"courseName"`
	ChapterTitle string `json:"chapterTitle"`
	TotalViews   int    `json:"totalViews"`
}

type ViewsStatistics struct {
	TotalViews        int                `json:"totalViews"`
	Last24Hours       int                `json:"last24Hours"`
	LastWeek          int                `json:"lastWeek"`
	LastMonth         int                `json:"lastMonth"`
	MostActiveStudent *MostActiveStudent `json:"mostActiveStudent"`
	MostViewedLesson  *MostViewedLesson  `json:"mostViewedLesson"`
}

// GetViewsStatistics computes the time-windowed watch totals plus the
// single most active student and most viewed lesson. Both "most" values
// are nil while the platform has no view records at all.
func GetViewsStatistics(db *gorm.DB) (*ViewsStatistics, error) {
	now := time.Now()
	stats := &ViewsStatistics{}

	windows := []struct {
		dest  *int
		since time.Time
	}{
		{&stats.TotalViews, time.Time{}},
		{&stats.Last24Hours, now.Add(-24 * time.Hour)},
		{&stats.LastWeek, now.AddDate(0, 0, -7)},
		{&stats.LastMonth, now.AddDate(0, 0, -30)},
	}

	for _, w := range windows {
		query := db.Model(&models.LessonView{}).
			Select("COALESCE(SUM(watched_count), 0)")
		if !w.since.IsZero() {
			query = query.Where("last_viewed_at >= ?", w.since)
		}
		if err := query.Scan(w.dest).Error; err != nil {
			return nil, err
		}
	}

	var activeRows []struct {
		StudentID  uint
		Name       string
		Email      string
		TotalViews int
	}
	err := db.Model(&models.LessonView{}).
		Select("lesson_views.student_id, users.name, users.email, SUM(lesson_views.watched_count) AS total_views").
		Joins("JOIN users ON users.id = lesson_views.student_id").
		Group("lesson_views.student_id, users.name, users.email").
		Order("total_views DESC, lesson_views.student_id ASC").
		Limit(1).
		Scan(&activeRows).Error
	if err != nil {
		return nil, err
	}
	if len(activeRows) > 0 {
		stats.MostActiveStudent = &MostActiveStudent{
			ID:         activeRows[0].StudentID,
			Name:       activeRows[0].Name,
			Email:      activeRows[0].Email,
			TotalViews: activeRows[0].TotalViews,
		}
	}

	var lessonRows []struct {
		LessonID    uint
		LessonTitle string
		TotalViews  int
		CourseID    uint
		ChapterID   uint
	}
	err = db.Model(&models.LessonView{}).
		Select(`lesson_id, lesson_title,
			SUM(watched_count) AS total_views,
			MIN(course_id) AS course_id,
			MIN(chapter_id) AS chapter_id`).
		Group("lesson_id, lesson_title").
		Order("total_views DESC, lesson_id ASC").
		Limit(1).
		Scan(&lessonRows).Error
	if err != nil {
		return nil, err
	}
	if len(lessonRows) > 0 {
		top := lessonRows[0]
		mostViewed := &MostViewedLesson{
			LessonID:    top.LessonID,
			LessonTitle: top.LessonTitle,
			TotalViews:  top.TotalViews,
		}

		var course models.Course
		if db.First(&course, top.CourseID).Error == nil {
			mostViewed.CourseName = course.Name
		}
		var chapter models.Chapter
		if db.First(&chapter, top.ChapterID).Error == nil {
			mostViewed.ChapterTitle = chapter.Title
		}

		stats.MostViewedLesson = mostViewed
	}

	return stats, nil
}

type Distribution struct {
	ID    string `json:"id"`
	Value int64  `json:"value"`
}

type StudentsAnalytics struct {
	TotalStudents          int64          `json:"totalStudents"`
	ActiveStudents         int64          `json:"activeStudents"`
	BannedStudents         int64          `json:"bannedStudents"`
	LastWeekActive         int64          `json:"lastWeekActive"`
	MonthlyActiveUsers     int64          `json:"monthlyActiveUsers"`
	HighEngagement         int64          `json:"highEngagement"`
	AverageExamScore       int            `json:"averageExamScore"`
	GovernmentDistribution []Distribution `json:"governmentDistribution"`
	LevelDistribution      []Distribution `json:"levelDistribution"`
}

// GetStudentsAnalytics computes the platform-wide cohort counts. An empty
// student population yields zeros and empty distributions.
func GetStudentsAnalytics(db *gorm.DB) (*StudentsAnalytics, error) {
	oneWeekAgo := time.Now().AddDate(0, 0, -7)
	oneMonthAgo := time.Now().AddDate(0, 0, -30)

	analytics := &StudentsAnalytics{
		GovernmentDistribution: []Distribution{},
		LevelDistribution:      []Distribution{},
	}

	students := func() *gorm.DB {
		return db.Model(&models.User{}).Where("role = ?", "user")
	}

	if err := students().Count(&analytics.TotalStudents).Error; err != nil {
		return nil, err
	}
	if err := students().Where("is_banned = ?", true).Count(&analytics.BannedStudents).Error; err != nil {
		return nil, err
	}
	if err := students().Where("is_banned = ?", false).Count(&analytics.ActiveStudents).Error; err != nil {
		return nil, err
	}
	if err := students().Where("last_active >= ?", oneWeekAgo).Count(&analytics.LastWeekActive).Error; err != nil {
		return nil, err
	}
	if err := students().Where("last_active >= ?", oneMonthAgo).Count(&analytics.MonthlyActiveUsers).Error; err != nil {
		return nil, err
	}

	err := db.Raw(`SELECT COUNT(*) FROM (
			SELECT student_id FROM lesson_views
			GROUP BY student_id
			HAVING SUM(watched_count) > 10
		) engaged`).Scan(&analytics.HighEngagement).Error
	if err != nil {
		return nil, err
	}

	var avgScore sql.NullFloat64
	err = db.Model(&models.ExamResult{}).
		Select(`AVG(CASE WHEN total_questions > 0
			THEN correct_answers * 100.0 / total_questions
			ELSE 0 END)`).
		Scan(&avgScore).Error
	if err != nil {
		return nil, err
	}
	if avgScore.Valid {
		analytics.AverageExamScore = int(math.Round(avgScore.Float64))
	}

	if analytics.GovernmentDistribution, err = distributionBy(db, "government"); err != nil {
		return nil, err
	}
	if analytics.LevelDistribution, err = distributionBy(db, "level"); err != nil {
		return nil, err
	}

	return analytics, nil
}

func distributionBy(db *gorm.DB, column string) ([]Distribution, error) {
	rows := []Distribution{}
	err := db.Model(&models.User{}).
		Select(column+" AS id, COUNT(*) AS value").
		Where("role = ?", "user").
		Group(column).
		Order("value DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// Dashboard helpers. These propagate errors upward; the dashboard handler
// owns the catch boundary.

func NewStudentsCount(db *gorm.DB, days int) (int64, error) {
	since := time.Now().AddDate(0, 0, -days)

	var count int64
	err := db.Model(&models.User{}).
		Where("role = ? AND created_at >= ?", "user", since).
		Count(&count).Error
	return count, err
}

type SignupDay struct {
	Date  string `json:"date"`
	Count int64  `json:"count"`
}

func GetStudentSignupsByDay(db *gorm.DB, days int) ([]SignupDay, error) {
	since := time.Now().AddDate(0, 0, -days)
	since = time.Date(since.Year(), since.Month(), since.Day(), 0, 0, 0, 0, since.Location())

	signups := []SignupDay{}
	err := db.Model(&models.User{}).
		Select("DATE(created_at) AS date, COUNT(*) AS count").
		Where("role = ? AND created_at >= ?", "user", since).
		Group("DATE(created_at)").
		Order("date ASC").
		Scan(&signups).Error
	return signups, err
}

func CalculateTotalRevenue(db *gorm.DB) (float64, error) {
	var total float64
	err := db.Model(&models.Enrollment{}).
		Select("COALESCE(SUM(price), 0)").
		Where("payment_status = ?", "paid").
		Scan(&total).Error
	return total, err
}

func GetPendingEnrollments(db *gorm.DB) (int64, error) {
	var count int64
	err := db.Model(&models.Enrollment{}).
		Where("payment_status = ?", "pending").
		Count(&count).Error
	return count, err
}
