package utils

import (
	"log"
	"time"

	"lms/config"
	"lms/database"
	"lms/services/notify"

	"github.com/robfig/cron/v3"
)

// InitializeNotificationSweeper schedules the nightly cleanup of old read
// notifications
func InitializeNotificationSweeper() {
	log.Println("[NOTIFICATION-SWEEPER] Initializing notification sweeper...")

	c := cron.New()

	// Run daily at 3 AM
	c.AddFunc("0 3 * * *", func() {
		SweepOldNotifications()
	})

	c.Start()
	log.Println("[NOTIFICATION-SWEEPER] Notification sweeper started - runs daily at 3 AM")
}

// SweepOldNotifications deletes read notifications past the retention window
func SweepOldNotifications() {
	retention := time.Duration(config.AppConfig.NotificationRetentionDays) * 24 * time.Hour

	deleted, err := notify.DeleteOldRead(database.Database.Db, retention)
	if err != nil {
		log.Printf("[NOTIFICATION-SWEEPER] Error deleting old notifications: %v", err)
		return
	}

	log.Printf("[NOTIFICATION-SWEEPER] Deleted %d old notifications", deleted)
}
