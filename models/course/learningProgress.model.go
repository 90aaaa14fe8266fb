package course

import (
	"encoding/json"
	"sort"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ProgressStatus of a student within a course
type ProgressStatus string

const (
	ProgressInProgress ProgressStatus = "IN_PROGRESS"
	ProgressCompleted  ProgressStatus = "COMPLETED"
)

// LearningProgress tracks which lessons a student has completed in a course.
// One row per (student, course) pair, created lazily on the first completion
// event. The completed set is stored as a JSON array of lesson ids;
// CompletedLessons and Status are caches recomputed from it on every write.
type LearningProgress struct {
	gorm.Model
	StudentID          uint           `json:"student_id" gorm:"not null;uniqueIndex:idx_student_course"`
	CourseID           uint           `json:"course_id" gorm:"not null;uniqueIndex:idx_student_course"`
	CompletedLessonIDs datatypes.JSON `json:"completed_lesson_ids" gorm:"type:text"`
	CompletedLessons   int            `json:"completed_lessons" gorm:"default:0"`
	TotalLessons       int            `json:"total_lessons" gorm:"default:0"`
	Status             ProgressStatus `json:"status" gorm:"type:varchar(20);default:'IN_PROGRESS'"`
	LastAccessedAt     time.Time      `json:"last_accessed_at"`
}

func (LearningProgress) TableName() string {
	return "learning_progress"
}

// CompletedIDs decodes the stored completed-lesson set
func (p *LearningProgress) CompletedIDs() []uint {
	if len(p.CompletedLessonIDs) == 0 {
		return nil
	}
	var ids []uint
	if err := json.Unmarshal(p.CompletedLessonIDs, &ids); err != nil {
		return nil
	}
	return ids
}

// HasCompleted reports whether the lesson is in the completed set
func (p *LearningProgress) HasCompleted(lessonID uint) bool {
	for _, id := range p.CompletedIDs() {
		if id == lessonID {
			return true
		}
	}
	return false
}

// SetCompletedIDs stores the completed set and recomputes the cached count
// and status. CompletedLessons always equals the set size; status flips to
// COMPLETED only when every known lesson is done.
func (p *LearningProgress) SetCompletedIDs(ids []uint) {
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	encoded, _ := json.Marshal(ids)
	p.CompletedLessonIDs = datatypes.JSON(encoded)
	p.CompletedLessons = len(ids)
	if p.TotalLessons > 0 && p.CompletedLessons >= p.TotalLessons {
		p.Status = ProgressCompleted
	} else {
		p.Status = ProgressInProgress
	}
}

// Percent returns the completion percentage, 0 when no lessons are known
func (p *LearningProgress) Percent() int {
	if p.TotalLessons <= 0 {
		return 0
	}
	return int(float64(p.CompletedLessons)*100/float64(p.TotalLessons) + 0.5)
}
