package controllers

import (
	"errors"

	"lms/database"
	"lms/middleware"
	"lms/services/rating"

	"github.com/gofiber/fiber/v2"
)

// RateCourse records or updates the caller's 1-5 score for a purchased
// course
func RateCourse(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)
	courseID := c.Locals("courseID").(uint)

	reqData, ok := c.Locals("validatedRating").(*struct {
		Value int `json:"value" validate:"required,gte=1,lte=5"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	entry, err := rating.Rate(database.Database.Db, userId, courseID, reqData.Value)
	if err != nil {
		switch {
		case errors.Is(err, rating.ErrCourseNotFound):
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
		case errors.Is(err, rating.ErrNotPurchased):
			return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You can only rate courses you purchased!", nil)
		case errors.Is(err, rating.ErrInvalidScore):
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Rating must be between 1 and 5!", nil)
		default:
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to save rating!", nil)
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Rating saved!", entry)
}

// GetCourseRating returns the course's average score and rating count
func GetCourseRating(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(uint)

	average, count, err := rating.Average(database.Database.Db, courseID)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch rating!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Rating fetched!", fiber.Map{
		"average": average,
		"count":   count,
	})
}

// GetMyRating returns the caller's own rating for the course
func GetMyRating(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)
	courseID := c.Locals("courseID").(uint)

	entry, err := rating.ForStudent(database.Database.Db, userId, courseID)
	if err != nil {
		if errors.Is(err, rating.ErrNotFound) {
			return middleware.JsonResponse(c, fiber.StatusOK, true, "No rating yet.", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch rating!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Rating fetched!", entry)
}
