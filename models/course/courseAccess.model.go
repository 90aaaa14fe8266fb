package course

import "gorm.io/gorm"

// AccessType defines how a user got access to a course
type AccessType string

const (
	AccessCreated   AccessType = "CREATED"
	AccessPurchased AccessType = "PURCHASED"
)

// CourseAccess records that a user may view a course, either as its creator
// or as a buyer. The unique index makes a second concurrent purchase of the
// same course fail at the storage layer.
type CourseAccess struct {
	gorm.Model
	UserID     uint       `json:"user_id" gorm:"not null;uniqueIndex:idx_user_course_access"`
	CourseID   uint       `json:"course_id" gorm:"not null;uniqueIndex:idx_user_course_access"`
	AccessType AccessType `json:"access_type" gorm:"type:varchar(20);not null;uniqueIndex:idx_user_course_access"`
}

func (CourseAccess) TableName() string {
	return "course_access"
}
