package adminRoutes

import (
	adminController "lms/controllers/admin"
	"lms/middleware"
	"lms/models"
	adminValidator "lms/validators/admin"

	"github.com/gofiber/fiber/v2"
)

// SetupAdminRoutes sets up the platform administration routes
func SetupAdminRoutes(app *fiber.App) {
	adminGroup := app.Group("/admin", middleware.JWTMiddleware, middleware.RequireRole(models.RoleAdmin))

	adminGroup.Get("/dashboard", adminController.GetAdminDashboard)
	adminGroup.Get("/users", adminController.ListUsers)
	adminGroup.Post("/users", adminValidator.CreateUser(), adminController.CreateUser)
	adminGroup.Put("/users/:id", adminValidator.UserID(), adminValidator.UpdateUser(), adminController.UpdateUser)
}
