package controllers

import (
	"lms/database"
	"lms/middleware"
	"lms/models"
	courseModels "lms/models/course"

	"github.com/gofiber/fiber/v2"
	"github.com/jinzhu/now"
	"github.com/shopspring/decimal"
)

// GetTeacherDashboard returns earnings and sales figures for the calling
// teacher: lifetime and month-to-date EARNING totals from the ledger plus
// course and buyer counts
func GetTeacherDashboard(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)

	db := database.Database.Db

	var entries []models.LedgerEntry
	if err := db.Where("user_id = ? AND type = ?", userId, models.LedgerTypeEarning).
		Find(&entries).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch dashboard!", nil)
	}

	monthStart := now.BeginningOfMonth()
	totalEarnings := decimal.Zero
	monthEarnings := decimal.Zero
	for _, entry := range entries {
		totalEarnings = totalEarnings.Add(entry.Amount)
		if entry.TransactionDate.After(monthStart) {
			monthEarnings = monthEarnings.Add(entry.Amount)
		}
	}

	var courseCount int64
	db.Model(&courseModels.Course{}).
		Where("creator_id = ? AND is_deleted = false", userId).
		Count(&courseCount)

	var buyerCount int64
	db.Model(&courseModels.CourseAccess{}).
		Where("access_type = ? AND course_id IN (?)", courseModels.AccessPurchased,
			db.Model(&courseModels.Course{}).Select("id").Where("creator_id = ?", userId)).
		Count(&buyerCount)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Dashboard fetched successfully!", fiber.Map{
		"totalEarnings": totalEarnings,
		"monthEarnings": monthEarnings,
		"totalSales":    len(entries),
		"courseCount":   courseCount,
		"buyerCount":    buyerCount,
	})
}
