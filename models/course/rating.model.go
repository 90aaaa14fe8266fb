package course

import "gorm.io/gorm"

// Rating is a student's 1-5 score for a purchased course. One row per
// (student, course) pair; re-rating updates the existing row.
type Rating struct {
	gorm.Model
	CourseID  uint `json:"course_id" gorm:"not null;uniqueIndex:idx_student_course_rating"`
	StudentID uint `json:"student_id" gorm:"not null;uniqueIndex:idx_student_course_rating"`
	Value     int  `json:"value" gorm:"not null"`
}
