package controllers

import (
	"lms/database"
	"lms/middleware"
	courseModels "lms/models/course"

	"github.com/gofiber/fiber/v2"
)

type lessonPayload = struct {
	Title          string `json:"title" validate:"required"`
	YoutubeVideoID string `json:"youtubeVideoId"`
	LessonOrder    int    `json:"lessonOrder" validate:"gte=0"`
	RecallQuestion string `json:"recallQuestion"`
	Material       string `json:"material"`
	ShortAnswer    string `json:"shortAnswer"`
	MultipleChoice string `json:"multipleChoice"`
	Summary        string `json:"summary"`
}

// CreateLesson adds a lesson to a course (owner only)
func CreateLesson(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)
	courseID := c.Locals("courseID").(uint)

	reqData, ok := c.Locals("validatedLesson").(*lessonPayload)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	var course courseModels.Course
	if err := db.Where("id = ? AND is_deleted = false", courseID).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}
	if course.CreatorID != userId {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You do not own this course!", nil)
	}

	lesson := courseModels.Lesson{
		CourseID:       courseID,
		Title:          reqData.Title,
		YoutubeVideoID: reqData.YoutubeVideoID,
		LessonOrder:    reqData.LessonOrder,
		RecallQuestion: reqData.RecallQuestion,
		Material:       reqData.Material,
		ShortAnswer:    reqData.ShortAnswer,
		MultipleChoice: reqData.MultipleChoice,
		Summary:        reqData.Summary,
	}

	if err := db.Create(&lesson).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create lesson!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Lesson created successfully!", lesson)
}

// UpdateLesson updates a lesson, including its explicit order (owner only)
func UpdateLesson(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)
	courseID := c.Locals("courseID").(uint)
	lessonID := c.Locals("lessonID").(uint)

	reqData, ok := c.Locals("validatedLesson").(*lessonPayload)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	var course courseModels.Course
	if err := db.Where("id = ? AND is_deleted = false", courseID).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}
	if course.CreatorID != userId {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You do not own this course!", nil)
	}

	var lesson courseModels.Lesson
	if err := db.Where("id = ? AND course_id = ? AND is_deleted = false", lessonID, courseID).First(&lesson).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Lesson not found!", nil)
	}

	lesson.Title = reqData.Title
	lesson.YoutubeVideoID = reqData.YoutubeVideoID
	lesson.LessonOrder = reqData.LessonOrder
	lesson.RecallQuestion = reqData.RecallQuestion
	lesson.Material = reqData.Material
	lesson.ShortAnswer = reqData.ShortAnswer
	lesson.MultipleChoice = reqData.MultipleChoice
	lesson.Summary = reqData.Summary

	if err := db.Save(&lesson).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update lesson!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Lesson updated successfully!", lesson)
}

// DeleteLesson soft-deletes a lesson (owner only). Progress caches are not
// rewritten here: totals refresh on the next progress write.
func DeleteLesson(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)
	courseID := c.Locals("courseID").(uint)
	lessonID := c.Locals("lessonID").(uint)

	db := database.Database.Db

	var course courseModels.Course
	if err := db.Where("id = ? AND is_deleted = false", courseID).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}
	if course.CreatorID != userId {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You do not own this course!", nil)
	}

	result := db.Model(&courseModels.Lesson{}).
		Where("id = ? AND course_id = ?", lessonID, courseID).
		Update("is_deleted", true)
	if result.Error != nil || result.RowsAffected == 0 {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Lesson not found!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Lesson deleted successfully!", nil)
}

// GetCourseLessons lists a course's lessons in lesson order. Requires an
// access row (creator or buyer).
func GetCourseLessons(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)
	courseID := c.Locals("courseID").(uint)

	db := database.Database.Db

	var course courseModels.Course
	if err := db.Where("id = ? AND is_deleted = false", courseID).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	var access courseModels.CourseAccess
	if err := db.Where("user_id = ? AND course_id = ?", userId, courseID).First(&access).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You do not have access to this course!", nil)
	}

	var lessons []courseModels.Lesson
	if err := db.Where("course_id = ? AND is_deleted = false", courseID).
		Order("lesson_order asc, id asc").
		Find(&lessons).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch lessons!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Lessons fetched successfully!", fiber.Map{
		"lessons": lessons,
		"total":   len(lessons),
	})
}
