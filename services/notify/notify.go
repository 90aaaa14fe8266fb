// Package notify persists in-app notifications and hands them to an optional
// push transport. Delivery is fire-and-forget: callers never see an error,
// so a dead push channel cannot roll back a purchase or a progress update.
package notify

import (
	"log"
	"time"

	"lms/models"

	"gorm.io/gorm"
)

// PushFunc delivers a stored notification over a live channel
type PushFunc func(recipientID uint, notification models.Notification)

var pushHook PushFunc

// SetPushHook installs the live-delivery transport. Called once at startup.
func SetPushHook(fn PushFunc) {
	pushHook = fn
}

// Send persists a notification for the recipient and pushes it if a
// transport is installed
func Send(db *gorm.DB, recipientID uint, message, notificationType string) {
	notification := models.Notification{
		RecipientID: recipientID,
		Message:     message,
		Type:        notificationType,
	}

	if err := db.Create(&notification).Error; err != nil {
		log.Printf("[NOTIFY] Failed to persist notification for user %d: %v", recipientID, err)
		return
	}

	if pushHook != nil {
		pushHook(recipientID, notification)
	}
}

// ForUser returns the recipient's notifications, newest first
func ForUser(db *gorm.DB, recipientID uint, page, limit int) ([]models.Notification, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	offset := (page - 1) * limit

	query := db.Model(&models.Notification{}).Where("recipient_id = ?", recipientID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var notifications []models.Notification
	if err := query.
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&notifications).Error; err != nil {
		return nil, 0, err
	}

	return notifications, total, nil
}

// MarkRead marks one of the recipient's notifications as read
func MarkRead(db *gorm.DB, recipientID, notificationID uint) error {
	return db.Model(&models.Notification{}).
		Where("id = ? AND recipient_id = ?", notificationID, recipientID).
		Update("is_read", true).Error
}

// DeleteOldRead removes read notifications older than the retention window.
// Run from the nightly sweeper.
func DeleteOldRead(db *gorm.DB, retention time.Duration) (int64, error) {
	cutoff := time.Now().Add(-retention)
	result := db.Unscoped().
		Where("is_read = ? AND created_at < ?", true, cutoff).
		Delete(&models.Notification{})
	return result.RowsAffected, result.Error
}
