package paymentRoutes

import (
	paymentController "lms/controllers/payment"

	"github.com/gofiber/fiber/v2"
)

func SetupPaymentRoutes(app *fiber.App) {
	paymentGroup := app.Group("/payment")

	// Webhook is authenticated by its signature header, not by JWT
	paymentGroup.Post("/stripe-webhook", paymentController.StripeWebhook)
}
