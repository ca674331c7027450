package services

import (
	"time"

	"github.com/KerlosDev/HossamBackk/backend/models"

	"gorm.io/gorm"
)

// ViewHistoryEntry is a view record joined with its denormalized course
// and chapter titles.
type ViewHistoryEntry struct {
	models.LessonView
	CourseName   string `json:"courseName"`
	ChapterTitle string `json:"chapterTitle"`
}

type WatchedLesson struct {
	LessonID      uint      `json:"lessonId"`
	LessonTitle   string    `json:"lessonTitle"`
	WatchedCount  int       `json:"watchedCount"`
	LastWatchedAt time.Time `json:"lastWatchedAt"`
}

type ChapterGroup struct {
	ChapterID    uint            `json:"chapterId"`
	ChapterTitle string          `json:"chapterTitle"`
	CourseID     uint            `json:"courseId"`
	CourseName   string          `json:"courseName"`
	Lessons      []WatchedLesson `json:"lessons"`
}

type ExamStats struct {
	TotalExams   int        `json:"totalExams"`
	AverageScore float64    `json:"averageScore"`
	LastExamDate *time.Time `json:"lastExamDate,omitempty"`
}

type StudentStats struct {
	TotalViews    int        `json:"totalViews"`
	UniqueLessons int        `json:"uniqueLessons"`
	LastActivity  *time.Time `json:"lastActivity"`
	ExamStats     *ExamStats `json:"examStats"`
}

type StudentProgress struct {
	WatchHistory   []ViewHistoryEntry  `json:"watchHistory"`
	GroupedLessons []ChapterGroup      `json:"groupedLessons"`
	ExamResults    []models.ExamResult `json:"examResults"`
	Stats          StudentStats        `json:"stats"`
}

// GetStudentProgress joins a student's view records with exam results.
// A student with no exam rows gets examStats == nil, which is a valid
// state, not an error.
func GetStudentProgress(db *gorm.DB, studentID uint) (*StudentProgress, error) {
	history, err := fetchViewHistory(db, studentID, 0)
	if err != nil {
		return nil, err
	}

	var exams []models.ExamResult
	if err := db.Where("student_id = ?", studentID).
		Order("exam_date ASC").Find(&exams).Error; err != nil {
		return nil, err
	}

	progress := &StudentProgress{
		WatchHistory:   history,
		GroupedLessons: groupByChapter(history),
		ExamResults:    exams,
		Stats: StudentStats{
			UniqueLessons: countUniqueLessons(history),
			ExamStats:     summarizeExams(exams),
		},
	}

	for _, entry := range history {
		progress.Stats.TotalViews += entry.WatchedCount
	}
	if len(history) > 0 {
		// history is sorted by last_viewed_at desc
		progress.Stats.LastActivity = &history[0].LastViewedAt
	}

	return progress, nil
}

// groupByChapter buckets the history per chapter, deduplicating lessons
// (first seen wins; the unique view key should make duplicates impossible).
func groupByChapter(history []ViewHistoryEntry) []ChapterGroup {
	groups := make([]ChapterGroup, 0)
	index := make(map[uint]int)

	for _, entry := range history {
		i, ok := index[entry.ChapterID]
		if !ok {
			groups = append(groups, ChapterGroup{
				ChapterID:    entry.ChapterID,
				ChapterTitle: entry.ChapterTitle,
				CourseID:     entry.CourseID,
				CourseName:   entry.CourseName,
			})
			i = len(groups) - 1
			index[entry.ChapterID] = i
		}

		duplicate := false
		for _, l := range groups[i].Lessons {
			if l.LessonID == entry.LessonID {
				duplicate = true
				break
			}
		}
		if duplicate {
			continue
		}

		groups[i].Lessons = append(groups[i].Lessons, WatchedLesson{
			LessonID:      entry.LessonID,
			LessonTitle:   entry.LessonTitle,
			WatchedCount:  entry.WatchedCount,
			LastWatchedAt: entry.LastViewedAt,
		})
	}

	return groups
}

func countUniqueLessons(history []ViewHistoryEntry) int {
	seen := make(map[uint]struct{}, len(history))
	for _, entry := range history {
		seen[entry.LessonID] = struct{}{}
	}
	return len(seen)
}

func summarizeExams(exams []models.ExamResult) *ExamStats {
	if len(exams) == 0 {
		return nil
	}

	total := 0.0
	for _, exam := range exams {
		if exam.TotalQuestions > 0 {
			total += float64(exam.CorrectAnswers) / float64(exam.TotalQuestions)
		}
	}

	last := exams[len(exams)-1].ExamDate
	return &ExamStats{
		TotalExams:   len(exams),
		AverageScore: total / float64(len(exams)),
		LastExamDate: &last,
	}
}

func fetchViewHistory(db *gorm.DB, studentID uint, limit int) ([]ViewHistoryEntry, error) {
	query := db.Model(&models.LessonView{}).
		Select("lesson_views.*, courses.name AS course_name, chapters.title AS chapter_title").
		Joins("LEFT JOIN courses ON courses.id = lesson_views.course_id").
		Joins("LEFT JOIN chapters ON chapters.id = lesson_views.chapter_id").
		Where("lesson_views.student_id = ?", studentID).
		Order("lesson_views.last_viewed_at DESC")

	if limit > 0 {
		query = query.Limit(limit)
	}

	var history []ViewHistoryEntry
	if err := query.Scan(&history).Error; err != nil {
		return nil, err
	}
	return history, nil
}

// HistorySummary accompanies the paginated view history endpoint.
type HistorySummary struct {
	TotalViews       int `json:"totalViews"`
	CompletedLessons int `json:"completedLessons"`
	TotalWatchTime   int `json:"totalWatchTime"`
	CoursesViewed    int `json:"coursesViewed"`
}

type ViewHistory struct {
	ViewHistory []ViewHistoryEntry `json:"viewHistory"`
	Analytics   HistorySummary     `json:"analytics"`
}

// GetUserViewHistory returns the most recent view records for a student,
// capped at limit, plus a small summary over that window.
func GetUserViewHistory(db *gorm.DB, studentID uint, limit int) (*ViewHistory, error) {
	history, err := fetchViewHistory(db, studentID, limit)
	if err != nil {
		return nil, err
	}

	summary := HistorySummary{TotalViews: len(history)}
	courses := make(map[uint]struct{})
	for _, entry := range history {
		if entry.IsCompleted {
			summary.CompletedLessons++
		}
		summary.TotalWatchTime += entry.ViewDuration
		courses[entry.CourseID] = struct{}{}
	}
	summary.CoursesViewed = len(courses)

	return &ViewHistory{ViewHistory: history, Analytics: summary}, nil
}

type StudentInfo struct {
	ID         uint      `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	LastActive time.Time `json:"lastActive"`
}

type AllStudentsStats struct {
	TotalViews    int        `json:"totalViews"`
	UniqueLessons int        `json:"uniqueLessons"`
	LastActivity  *time.Time `json:"lastActivity"`
	ExamsTaken    int        `json:"examsTaken"`
	AverageScore  float64    `json:"averageScore"`
}

type StudentProgressRow struct {
	Student  StudentInfo      `json:"student"`
	Stats    AllStudentsStats `json:"stats"`
	Progress int              `json:"progress"`
}

// GetAllStudentsProgress computes the per-student summary for every
// student with at least one view record, in two grouped queries instead
// of one query per student.
func GetAllStudentsProgress(db *gorm.DB) ([]StudentProgressRow, error) {
	var viewRows []struct {
		StudentID     uint
		Name          string
		Email         string
		LastActive    time.Time
		TotalViews    int
		UniqueLessons int
		LastActivity  time.Time
	}
	err := db.Model(&models.LessonView{}).
		Select(`lesson_views.student_id,
			users.name, users.email, users.last_active,
			SUM(lesson_views.watched_count) AS total_views,
			COUNT(DISTINCT lesson_views.lesson_id) AS unique_lessons,
			MAX(lesson_views.last_viewed_at) AS last_activity`).
		Joins("JOIN users ON users.id = lesson_views.student_id").
		Group("lesson_views.student_id, users.name, users.email, users.last_active").
		Scan(&viewRows).Error
	if err != nil {
		return nil, err
	}

	var examRows []struct {
		StudentID  uint
		ExamsTaken int
		TotalScore float64
	}
	err = db.Model(&models.ExamResult{}).
		Select(`student_id,
			COUNT(*) AS exams_taken,
			SUM(CASE WHEN total_questions > 0
				THEN correct_answers * 1.0 / total_questions
				ELSE 0 END) AS total_score`).
		Group("student_id").
		Scan(&examRows).Error
	if err != nil {
		return nil, err
	}

	examsByStudent := make(map[uint]struct {
		taken int
		avg   float64
	}, len(examRows))
	for _, row := range examRows {
		avg := 0.0
		if row.ExamsTaken > 0 {
			avg = row.TotalScore / float64(row.ExamsTaken)
		}
		examsByStudent[row.StudentID] = struct {
			taken int
			avg   float64
		}{row.ExamsTaken, avg}
	}

	result := make([]StudentProgressRow, 0, len(viewRows))
	for _, row := range viewRows {
		lastActivity := row.LastActivity
		exams := examsByStudent[row.StudentID]

		result = append(result, StudentProgressRow{
			Student: StudentInfo{
				ID:         row.StudentID,
				Name:       row.Name,
				Email:      row.Email,
				LastActive: row.LastActive,
			},
			Stats: AllStudentsStats{
				TotalViews:    row.TotalViews,
				UniqueLessons: row.UniqueLessons,
				LastActivity:  &lastActivity,
				ExamsTaken:    exams.taken,
				AverageScore:  exams.avg,
			},
			// TODO: replace with a real calculation (watched lessons over
			// the course's catalog lesson count)
			Progress: 100,
		})
	}

	return result, nil
}
