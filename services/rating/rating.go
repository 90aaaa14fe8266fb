// Package rating maintains 1-5 course ratings. Only buyers may rate, one
// rating per (student, course) pair; rating again overwrites the score.
package rating

import (
	"errors"

	courseModels "lms/models/course"
	"lms/services/wallet"

	"gorm.io/gorm"
)

var (
	ErrCourseNotFound = errors.New("course not found")
	ErrNotPurchased   = errors.New("course not purchased")
	ErrInvalidScore   = errors.New("score must be between 1 and 5")
	ErrNotFound       = errors.New("rating not found")
)

// Rate records or updates the student's score for a purchased course
func Rate(db *gorm.DB, studentID, courseID uint, value int) (*courseModels.Rating, error) {
	if value < 1 || value > 5 {
		return nil, ErrInvalidScore
	}

	var course courseModels.Course
	if err := db.Where("id = ? AND is_deleted = false", courseID).First(&course).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, err
	}

	var purchased int64
	err := db.Model(&courseModels.CourseAccess{}).
		Where("user_id = ? AND course_id = ? AND access_type = ?",
			studentID, courseID, courseModels.AccessPurchased).
		Count(&purchased).Error
	if err != nil {
		return nil, err
	}
	if purchased == 0 {
		return nil, ErrNotPurchased
	}

	var entry courseModels.Rating
	err = db.Where("course_id = ? AND student_id = ?", courseID, studentID).First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		entry = courseModels.Rating{
			CourseID:  courseID,
			StudentID: studentID,
			Value:     value,
		}
		err = db.Create(&entry).Error
		// A concurrent first rating loses on the unique index; fall back
		// to updating the winner's row.
		if err != nil && wallet.IsUniqueViolation(err) {
			err = db.Where("course_id = ? AND student_id = ?", courseID, studentID).First(&entry).Error
		} else if err == nil {
			return &entry, nil
		}
	}
	if err != nil {
		return nil, err
	}

	entry.Value = value
	if err := db.Save(&entry).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}

// Average returns the course's mean score and the number of ratings.
// A course with no ratings averages zero over a zero count.
func Average(db *gorm.DB, courseID uint) (float64, int64, error) {
	var ratings []courseModels.Rating
	if err := db.Where("course_id = ?", courseID).Find(&ratings).Error; err != nil {
		return 0, 0, err
	}
	if len(ratings) == 0 {
		return 0, 0, nil
	}

	sum := 0
	for _, r := range ratings {
		sum += r.Value
	}
	return float64(sum) / float64(len(ratings)), int64(len(ratings)), nil
}

// ForStudent returns the student's own rating for a course
func ForStudent(db *gorm.DB, studentID, courseID uint) (*courseModels.Rating, error) {
	var entry courseModels.Rating
	err := db.Where("course_id = ? AND student_id = ?", courseID, studentID).First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &entry, nil
}
