package walletValidator

import (
	"lms/middleware"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

var validate = validator.New()

// TopUpSession validates a checkout-session request
func TopUpSession() fiber.Handler {
	return func(c *fiber.Ctx) error {
		body := new(struct {
			Amount   decimal.Decimal `json:"amount"`
			Currency string          `json:"currency" validate:"required,len=3,alpha"`
		})

		if err := c.BodyParser(body); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if err := validate.Struct(body); err != nil {
			errors["currency"] = "Currency must be a 3-letter code!"
		}
		if !body.Amount.IsPositive() {
			errors["amount"] = "Amount must be greater than 0!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedTopUp", body)
		return c.Next()
	}
}
