// Package progress maintains per-student, per-course completion state. The
// completed-lesson set is the source of truth; counts and status are caches
// recomputed on every write, never drifted incrementally.
package progress

import (
	"errors"
	"time"

	courseModels "lms/models/course"
	"lms/services/wallet"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrCourseNotFound = errors.New("course not found")
	ErrLessonNotFound = errors.New("lesson not found in course")
	ErrNotFound       = errors.New("progress not found")
)

// CompleteLesson records that the student finished a lesson. The progress
// row is created lazily on the first completion event, seeded with the
// course's current lesson count. Completing an already-completed lesson is
// a no-op with no observable state change.
func CompleteLesson(db *gorm.DB, studentID, courseID, lessonID uint) (*courseModels.LearningProgress, error) {
	var lesson courseModels.Lesson
	err := db.Where("id = ? AND course_id = ? AND is_deleted = false", lessonID, courseID).
		First(&lesson).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLessonNotFound
		}
		return nil, err
	}

	return mutate(db, studentID, courseID, func(ids []uint) ([]uint, bool) {
		for _, id := range ids {
			if id == lessonID {
				return ids, false
			}
		}
		return append(ids, lessonID), true
	})
}

// UncompleteLesson is the true inverse of CompleteLesson: it removes the
// lesson from the set if present, otherwise does nothing. Complete followed
// by uncomplete restores the row to its prior set, counts and status.
func UncompleteLesson(db *gorm.DB, studentID, courseID, lessonID uint) (*courseModels.LearningProgress, error) {
	return mutate(db, studentID, courseID, func(ids []uint) ([]uint, bool) {
		for i, id := range ids {
			if id == lessonID {
				return append(ids[:i], ids[i+1:]...), true
			}
		}
		return ids, false
	})
}

// mutate runs a load-or-create, set-edit, recompute, save cycle in one
// transaction. The row lock serializes concurrent updates for the same
// (student, course) pair so no completion is lost.
func mutate(db *gorm.DB, studentID, courseID uint, edit func([]uint) ([]uint, bool)) (*courseModels.LearningProgress, error) {
	var result courseModels.LearningProgress

	err := db.Transaction(func(tx *gorm.DB) error {
		progress, err := getOrCreate(tx, studentID, courseID)
		if err != nil {
			return err
		}

		ids, changed := edit(progress.CompletedIDs())
		if changed {
			progress.LastAccessedAt = time.Now()
		}

		// Lessons can be added after a student starts; a zero total while
		// the course has lessons is stale and must be refreshed before the
		// status is derived.
		if progress.TotalLessons == 0 {
			total, err := lessonCount(tx, courseID)
			if err != nil {
				return err
			}
			progress.TotalLessons = total
		}

		progress.SetCompletedIDs(ids)

		if err := tx.Save(progress).Error; err != nil {
			return err
		}

		result = *progress
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &result, nil
}

// getOrCreate loads the locked progress row for the pair, creating it with
// the authoritative lesson count if it does not exist yet. A concurrent
// creation loses on the unique (student, course) index and falls back to
// loading the winner's row.
func getOrCreate(tx *gorm.DB, studentID, courseID uint) (*courseModels.LearningProgress, error) {
	var progress courseModels.LearningProgress
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("student_id = ? AND course_id = ?", studentID, courseID).
		First(&progress).Error
	if err == nil {
		return &progress, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	var course courseModels.Course
	if err := tx.Where("id = ? AND is_deleted = false", courseID).First(&course).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, err
	}

	total, err := lessonCount(tx, courseID)
	if err != nil {
		return nil, err
	}

	progress = courseModels.LearningProgress{
		StudentID:      studentID,
		CourseID:       courseID,
		TotalLessons:   total,
		Status:         courseModels.ProgressInProgress,
		LastAccessedAt: time.Now(),
	}
	if err := tx.Create(&progress).Error; err != nil {
		if wallet.IsUniqueViolation(err) {
			err = tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				Where("student_id = ? AND course_id = ?", studentID, courseID).
				First(&progress).Error
		}
		if err != nil {
			return nil, err
		}
	}
	return &progress, nil
}

func lessonCount(tx *gorm.DB, courseID uint) (int, error) {
	var count int64
	err := tx.Model(&courseModels.Lesson{}).
		Where("course_id = ? AND is_deleted = false", courseID).
		Count(&count).Error
	return int(count), err
}

// ForStudent returns all progress rows of a student
func ForStudent(db *gorm.DB, studentID uint) ([]courseModels.LearningProgress, error) {
	var rows []courseModels.LearningProgress
	err := db.Where("student_id = ?", studentID).
		Order("last_accessed_at DESC").
		Find(&rows).Error
	return rows, err
}

// Summary returns the progress row for one (student, course) pair
func Summary(db *gorm.DB, studentID, courseID uint) (*courseModels.LearningProgress, error) {
	var progress courseModels.LearningProgress
	err := db.Where("student_id = ? AND course_id = ?", studentID, courseID).
		First(&progress).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &progress, nil
}

// LessonState is the per-lesson completion view of a course
type LessonState struct {
	LessonID    uint   `json:"lessonId"`
	Title       string `json:"title"`
	LessonOrder int    `json:"lessonOrder"`
	Completed   bool   `json:"completed"`
}

// LessonStates maps every lesson of the course to whether the student has
// completed it, in lesson order. Computed on read, never stored.
func LessonStates(db *gorm.DB, studentID, courseID uint) ([]LessonState, error) {
	var lessons []courseModels.Lesson
	err := db.Where("course_id = ? AND is_deleted = false", courseID).
		Order("lesson_order asc, id asc").
		Find(&lessons).Error
	if err != nil {
		return nil, err
	}

	completed := map[uint]bool{}
	var progress courseModels.LearningProgress
	err = db.Where("student_id = ? AND course_id = ?", studentID, courseID).First(&progress).Error
	if err == nil {
		for _, id := range progress.CompletedIDs() {
			completed[id] = true
		}
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	states := make([]LessonState, len(lessons))
	for i, lesson := range lessons {
		states[i] = LessonState{
			LessonID:    lesson.ID,
			Title:       lesson.Title,
			LessonOrder: lesson.LessonOrder,
			Completed:   completed[lesson.ID],
		}
	}
	return states, nil
}
