package course

import "gorm.io/gorm"

// Lesson belongs to exactly one course. LessonOrder is set explicitly by
// the teacher, not derived from insertion order.
type Lesson struct {
	gorm.Model
	CourseID       uint   `json:"course_id" gorm:"index;not null"`
	Title          string `json:"title" gorm:"not null"`
	YoutubeVideoID string `json:"youtube_video_id"`
	LessonOrder    int    `json:"lesson_order" gorm:"default:0"`

	// Lesson content steps
	RecallQuestion string `json:"recall_question" gorm:"type:text"`
	Material       string `json:"material" gorm:"type:text"`
	ShortAnswer    string `json:"short_answer" gorm:"type:text"`
	MultipleChoice string `json:"multiple_choice" gorm:"type:text"`
	Summary        string `json:"summary" gorm:"type:text"`

	IsDeleted bool `gorm:"default:false" json:"-"`
}
