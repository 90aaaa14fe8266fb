package paymentController

import (
	"errors"
	"log"

	"lms/config"
	"lms/database"
	"lms/services/payment"

	"github.com/gofiber/fiber/v2"
)

// StripeWebhook receives asynchronous payment confirmations from the
// provider. The caller is a machine: responses are plain status codes.
// 2xx acknowledges (including replays and events we don't consume),
// 4xx is a permanent rejection the provider must not retry, and 5xx asks
// for a retry.
func StripeWebhook(c *fiber.Ctx) error {
	payload := c.Body()
	sigHeader := c.Get("Stripe-Signature")

	err := payment.HandleProviderEvent(
		database.Database.Db,
		payload,
		sigHeader,
		config.AppConfig.StripeWebhookSecret,
	)

	switch {
	case err == nil:
		return c.SendStatus(fiber.StatusOK)
	case errors.Is(err, payment.ErrInvalidSignature):
		log.Printf("[WEBHOOK] Invalid signature: %v", err)
		return c.Status(fiber.StatusBadRequest).SendString("Invalid signature")
	case errors.Is(err, payment.ErrMalformedEvent):
		log.Printf("[WEBHOOK] Malformed event: %v", err)
		return c.Status(fiber.StatusBadRequest).SendString("Malformed event")
	default:
		log.Printf("[WEBHOOK] Processing error: %v", err)
		return c.Status(fiber.StatusInternalServerError).SendString("Webhook handling error")
	}
}
