package course

import "gorm.io/gorm"

// Comment is a discussion entry under a course. A nil ParentID marks a
// top-level comment; replies point at their parent.
type Comment struct {
	gorm.Model
	CourseID uint   `json:"course_id" gorm:"not null;index"`
	AuthorID uint   `json:"author_id" gorm:"not null;index"`
	ParentID *uint  `json:"parent_id,omitempty" gorm:"index"`
	Content  string `json:"content" gorm:"type:text;not null"`
}
