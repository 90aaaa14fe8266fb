package controllers

import (
	"errors"

	"lms/database"
	"lms/middleware"
	courseModels "lms/models/course"
	"lms/services/progress"

	"github.com/gofiber/fiber/v2"
)

// CompleteLesson marks a lesson as completed for the calling student
func CompleteLesson(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)
	courseID := c.Locals("courseID").(uint)
	lessonID := c.Locals("lessonID").(uint)

	db := database.Database.Db

	var access courseModels.CourseAccess
	if err := db.Where("user_id = ? AND course_id = ? AND access_type = ?",
		userId, courseID, courseModels.AccessPurchased).First(&access).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You do not have access to this course!", nil)
	}

	result, err := progress.CompleteLesson(db, userId, courseID, lessonID)
	if err != nil {
		switch {
		case errors.Is(err, progress.ErrLessonNotFound):
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Lesson not found!", nil)
		case errors.Is(err, progress.ErrCourseNotFound):
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
		default:
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update progress!", nil)
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Lesson marked as completed!", progressView(result))
}

// UncompleteLesson removes a lesson from the student's completed set
func UncompleteLesson(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)
	courseID := c.Locals("courseID").(uint)
	lessonID := c.Locals("lessonID").(uint)

	db := database.Database.Db

	var access courseModels.CourseAccess
	if err := db.Where("user_id = ? AND course_id = ? AND access_type = ?",
		userId, courseID, courseModels.AccessPurchased).First(&access).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You do not have access to this course!", nil)
	}

	result, err := progress.UncompleteLesson(db, userId, courseID, lessonID)
	if err != nil {
		if errors.Is(err, progress.ErrCourseNotFound) {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update progress!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Lesson marked as not completed!", progressView(result))
}

// GetCourseProgress returns the student's progress summary for one course
func GetCourseProgress(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)
	courseID := c.Locals("courseID").(uint)

	summary, err := progress.Summary(database.Database.Db, userId, courseID)
	if err != nil {
		if errors.Is(err, progress.ErrNotFound) {
			return middleware.JsonResponse(c, fiber.StatusOK, true, "No progress yet.", fiber.Map{
				"completedLessons": 0,
				"totalLessons":     0,
				"percent":          0,
				"status":           courseModels.ProgressInProgress,
			})
		}
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch progress!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Progress fetched successfully!", progressView(summary))
}

// GetLessonStates returns every lesson of the course with its completion
// flag for the calling student
func GetLessonStates(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)
	courseID := c.Locals("courseID").(uint)

	states, err := progress.LessonStates(database.Database.Db, userId, courseID)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch lesson progress!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Lesson progress fetched!", fiber.Map{
		"lessons": states,
	})
}

// GetMyProgress lists the calling student's progress across all courses
func GetMyProgress(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)

	rows, err := progress.ForStudent(database.Database.Db, userId)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch progress!", nil)
	}

	views := make([]fiber.Map, len(rows))
	for i := range rows {
		views[i] = progressView(&rows[i])
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Progress fetched successfully!", fiber.Map{
		"progress": views,
	})
}

func progressView(p *courseModels.LearningProgress) fiber.Map {
	return fiber.Map{
		"courseId":         p.CourseID,
		"completedLessons": p.CompletedLessons,
		"totalLessons":     p.TotalLessons,
		"percent":          p.Percent(),
		"status":           p.Status,
		"lastAccessedAt":   p.LastAccessedAt,
	}
}
