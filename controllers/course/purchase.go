package controllers

import (
	"errors"
	"log"

	"lms/database"
	"lms/middleware"
	"lms/services/purchase"

	"github.com/gofiber/fiber/v2"
)

// PurchaseCourse settles a course purchase for the calling student. The
// failure reasons are business outcomes, each mapped to a distinct response
// so a client can tell them apart without seeing internals.
func PurchaseCourse(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)
	courseID := c.Locals("courseID").(uint)

	result, err := purchase.Purchase(database.Database.Db, userId, courseID)
	if err != nil {
		switch {
		case errors.Is(err, purchase.ErrCourseNotFound):
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
		case errors.Is(err, purchase.ErrCourseUnavailable):
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "This course is not available for purchase.", nil)
		case errors.Is(err, purchase.ErrAlreadyOwned):
			return middleware.JsonResponse(c, fiber.StatusConflict, false, "Course already purchased.", nil)
		case errors.Is(err, purchase.ErrInsufficientFunds):
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Insufficient wallet balance.", nil)
		default:
			log.Printf("[PURCHASE] Settlement failed for user %d, course %d: %v", userId, courseID, err)
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to purchase course!", nil)
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course purchased successfully!", result)
}
