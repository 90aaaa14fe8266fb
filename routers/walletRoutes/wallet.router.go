package walletRoutes

import (
	walletController "lms/controllers/wallet"
	"lms/middleware"
	"lms/models"
	walletValidator "lms/validators/wallet"

	"github.com/gofiber/fiber/v2"
)

func SetupWalletRoutes(app *fiber.App) {
	walletGroup := app.Group("/wallet")

	// User routes
	walletGroup.Get("/balance", middleware.JWTMiddleware, walletController.GetWalletBalance)
	walletGroup.Get("/history", middleware.JWTMiddleware, walletController.GetWalletHistory)
	walletGroup.Post("/top-up/session", walletValidator.TopUpSession(), middleware.JWTMiddleware, walletController.CreateTopUpSession)

	// Admin routes
	adminGroup := walletGroup.Group("/admin", middleware.JWTMiddleware, middleware.RequireRole(models.RoleAdmin))
	adminGroup.Get("/user-balance", walletController.GetUserBalance)
	adminGroup.Get("/user-history", walletController.GetUserWalletHistory)
}
