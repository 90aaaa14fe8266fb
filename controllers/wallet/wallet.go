package walletController

import (
	"log"

	"lms/database"
	"lms/middleware"
	"lms/models"
	"lms/services/payment"
	"lms/services/wallet"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

// GetWalletBalance returns user's current wallet balance
func GetWalletBalance(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)

	balance, err := wallet.BalanceOf(database.Database.Db, userId)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Access Denied!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Wallet balance fetched!", fiber.Map{
		"balance": balance,
	})
}

// GetWalletHistory returns user's ledger entries
func GetWalletHistory(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)

	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 10)
	entryType := c.Query("type") // TOP_UP, PURCHASE, EARNING

	db := database.Database.Db

	balance, err := wallet.BalanceOf(db, userId)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Access Denied!", nil)
	}

	entries, total, err := wallet.History(db, userId, page, limit, entryType)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch history!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Wallet history fetched!", fiber.Map{
		"transactions":   entries,
		"currentBalance": balance,
		"pagination": fiber.Map{
			"total": total,
			"page":  page,
			"limit": limit,
		},
	})
}

// CreateTopUpSession opens a provider checkout session for a wallet top-up.
// The wallet is credited later by the webhook, never here.
func CreateTopUpSession(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)

	reqData, ok := c.Locals("validatedTopUp").(*struct {
		Amount   decimal.Decimal `json:"amount"`
		Currency string          `json:"currency" validate:"required,len=3,alpha"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	client := payment.NewClient()
	checkoutURL, err := client.CreateCheckoutSession(database.Database.Db, userId, reqData.Amount, reqData.Currency)
	if err != nil {
		log.Printf("[WALLET] Failed to create checkout session for user %d: %v", userId, err)
		return middleware.JsonResponse(c, fiber.StatusBadGateway, false, "Failed to create payment session!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Checkout session created!", fiber.Map{
		"checkoutUrl": checkoutURL,
	})
}

// GetUserBalance returns a specific user's balance (Admin only)
func GetUserBalance(c *fiber.Ctx) error {
	targetUserId := c.QueryInt("userId", 0)
	if targetUserId == 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "userId is required!", nil)
	}

	db := database.Database.Db

	var targetUser models.User
	if err := db.Where("id = ? AND is_deleted = false", targetUserId).First(&targetUser).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "User balance fetched!", fiber.Map{
		"userId":  targetUser.ID,
		"name":    targetUser.Name,
		"email":   targetUser.Email,
		"balance": targetUser.Balance,
	})
}

// GetUserWalletHistory returns a specific user's ledger history (Admin only)
func GetUserWalletHistory(c *fiber.Ctx) error {
	targetUserId := c.QueryInt("userId", 0)
	if targetUserId == 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "userId is required!", nil)
	}

	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 10)
	entryType := c.Query("type")

	db := database.Database.Db

	var targetUser models.User
	if err := db.Where("id = ? AND is_deleted = false", targetUserId).First(&targetUser).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found!", nil)
	}

	entries, total, err := wallet.History(db, targetUser.ID, page, limit, entryType)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch history!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "User wallet history fetched!", fiber.Map{
		"user": fiber.Map{
			"id":      targetUser.ID,
			"name":    targetUser.Name,
			"email":   targetUser.Email,
			"balance": targetUser.Balance,
		},
		"transactions": entries,
		"pagination": fiber.Map{
			"total": total,
			"page":  page,
			"limit": limit,
		},
	})
}
