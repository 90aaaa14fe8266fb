package courseValidator

import (
	"strconv"
	"strings"

	"lms/middleware"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

var validate = validator.New()

// CourseID validates the :id path parameter and stores it as uint
func CourseID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := strconv.ParseUint(c.Params("id"), 10, 64)
		if err != nil || id == 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid course ID!", nil)
		}
		c.Locals("courseID", uint(id))
		return c.Next()
	}
}

// LessonID validates the :lesson_id path parameter and stores it as uint
func LessonID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := strconv.ParseUint(c.Params("lesson_id"), 10, 64)
		if err != nil || id == 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid lesson ID!", nil)
		}
		c.Locals("lessonID", uint(id))
		return c.Next()
	}
}

// CommentID validates the :comment_id path parameter and stores it as uint
func CommentID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := strconv.ParseUint(c.Params("comment_id"), 10, 64)
		if err != nil || id == 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid comment ID!", nil)
		}
		c.Locals("commentID", uint(id))
		return c.Next()
	}
}

// Comment validates an add/update comment body
func Comment() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Content  string `json:"content"`
			ParentID *uint  `json:"parentId"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		reqData.Content = strings.TrimSpace(reqData.Content)
		if reqData.Content == "" {
			return middleware.ValidationErrorResponse(c, map[string]string{
				"content": "Content must not be empty!",
			})
		}

		c.Locals("validatedComment", reqData)
		return c.Next()
	}
}

// Rating validates a rate-course body
func Rating() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Value int `json:"value" validate:"required,gte=1,lte=5"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if err := validate.Struct(reqData); err != nil {
			return middleware.ValidationErrorResponse(c, map[string]string{
				"value": "Rating must be between 1 and 5!",
			})
		}

		c.Locals("validatedRating", reqData)
		return c.Next()
	}
}

// Course validates a create/update course body
func Course() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Title       string          `json:"title"`
			Description string          `json:"description"`
			Category    string          `json:"category"`
			Price       decimal.Decimal `json:"price"`
			ImageURL    string          `json:"imageUrl"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if reqData.Title == "" {
			errors["title"] = "Title is required!"
		}
		if reqData.Price.IsNegative() {
			errors["price"] = "Price cannot be negative!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedCourse", reqData)
		return c.Next()
	}
}

// Lesson validates a create/update lesson body
func Lesson() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Title          string `json:"title" validate:"required"`
			YoutubeVideoID string `json:"youtubeVideoId"`
			LessonOrder    int    `json:"lessonOrder" validate:"gte=0"`
			RecallQuestion string `json:"recallQuestion"`
			Material       string `json:"material"`
			ShortAnswer    string `json:"shortAnswer"`
			MultipleChoice string `json:"multipleChoice"`
			Summary        string `json:"summary"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if err := validate.Struct(reqData); err != nil {
			errors := make(map[string]string)
			for _, fieldErr := range err.(validator.ValidationErrors) {
				switch fieldErr.Field() {
				case "Title":
					errors["title"] = "Title is required!"
				case "LessonOrder":
					errors["lessonOrder"] = "Lesson order cannot be negative!"
				}
			}
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedLesson", reqData)
		return c.Next()
	}
}
