package notificationRoutes

import (
	notificationController "lms/controllers/notification"
	"lms/middleware"

	"github.com/gofiber/fiber/v2"
)

func SetupNotificationRoutes(app *fiber.App) {
	notificationGroup := app.Group("/notifications")

	notificationGroup.Get("/", middleware.JWTMiddleware, notificationController.GetNotifications)
	notificationGroup.Patch("/:id/read", middleware.JWTMiddleware, notificationController.MarkNotificationRead)
}
