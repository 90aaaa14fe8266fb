package controllers

import (
	"errors"

	"lms/database"
	"lms/middleware"
	"lms/services/comment"

	"github.com/gofiber/fiber/v2"
)

// AddComment posts a comment or reply under a course. Buyers and the
// course's creator may comment; everyone may read.
func AddComment(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)
	courseID := c.Locals("courseID").(uint)

	reqData, ok := c.Locals("validatedComment").(*struct {
		Content  string `json:"content"`
		ParentID *uint  `json:"parentId"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	created, err := comment.Add(database.Database.Db, userId, courseID, reqData.Content, reqData.ParentID)
	if err != nil {
		switch {
		case errors.Is(err, comment.ErrCourseNotFound):
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
		case errors.Is(err, comment.ErrParentNotFound):
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Parent comment not found!", nil)
		case errors.Is(err, comment.ErrNotAllowed):
			return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You cannot comment on this course!", nil)
		default:
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to add comment!", nil)
		}
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Comment added!", created)
}

// GetCourseComments returns the course's discussion thread
func GetCourseComments(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(uint)

	thread, err := comment.Thread(database.Database.Db, courseID)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch comments!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Comments fetched!", fiber.Map{
		"comments": thread,
	})
}

// UpdateComment edits the caller's own comment
func UpdateComment(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)
	commentID := c.Locals("commentID").(uint)

	reqData, ok := c.Locals("validatedComment").(*struct {
		Content  string `json:"content"`
		ParentID *uint  `json:"parentId"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	updated, err := comment.Update(database.Database.Db, userId, commentID, reqData.Content)
	if err != nil {
		switch {
		case errors.Is(err, comment.ErrCommentNotFound):
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Comment not found!", nil)
		case errors.Is(err, comment.ErrNotAllowed):
			return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You can only edit your own comments!", nil)
		default:
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update comment!", nil)
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Comment updated!", updated)
}

// DeleteComment removes the caller's own comment
func DeleteComment(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)
	commentID := c.Locals("commentID").(uint)

	err := comment.Delete(database.Database.Db, userId, commentID)
	if err != nil {
		switch {
		case errors.Is(err, comment.ErrCommentNotFound):
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Comment not found!", nil)
		case errors.Is(err, comment.ErrNotAllowed):
			return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You can only delete your own comments!", nil)
		default:
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete comment!", nil)
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Comment deleted!", nil)
}
