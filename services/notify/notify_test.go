package notify_test

import (
	"testing"
	"time"

	"lms/database"
	"lms/models"
	"lms/services/notify"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.RunMigrations(db))
	return db
}

func TestSendPersistsAndPushes(t *testing.T) {
	db := setupTestDB(t)

	var pushed []models.Notification
	notify.SetPushHook(func(recipientID uint, n models.Notification) {
		pushed = append(pushed, n)
	})
	defer notify.SetPushHook(nil)

	notify.Send(db, 7, "Your course was purchased.", models.NotificationTypeSale)

	var stored models.Notification
	require.NoError(t, db.First(&stored).Error)
	assert.EqualValues(t, 7, stored.RecipientID)
	assert.Equal(t, models.NotificationTypeSale, stored.Type)
	assert.False(t, stored.IsRead)

	require.Len(t, pushed, 1)
	assert.Equal(t, stored.ID, pushed[0].ID)
}

func TestForUserPaginatesNewestFirst(t *testing.T) {
	db := setupTestDB(t)

	for i := 0; i < 5; i++ {
		notify.Send(db, 1, "message", models.NotificationTypeSystem)
	}
	notify.Send(db, 2, "someone else's", models.NotificationTypeSystem)

	rows, total, err := notify.ForUser(db, 1, 1, 3)
	require.NoError(t, err)
	assert.EqualValues(t, 5, total)
	assert.Len(t, rows, 3)

	rows, _, err = notify.ForUser(db, 1, 2, 3)
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestMarkReadScopedToRecipient(t *testing.T) {
	db := setupTestDB(t)

	notify.Send(db, 1, "mine", models.NotificationTypeSystem)
	var mine models.Notification
	require.NoError(t, db.First(&mine).Error)

	// Another user cannot mark it read
	require.NoError(t, notify.MarkRead(db, 2, mine.ID))
	require.NoError(t, db.First(&mine, mine.ID).Error)
	assert.False(t, mine.IsRead)

	require.NoError(t, notify.MarkRead(db, 1, mine.ID))
	require.NoError(t, db.First(&mine, mine.ID).Error)
	assert.True(t, mine.IsRead)
}

func TestDeleteOldReadKeepsUnread(t *testing.T) {
	db := setupTestDB(t)

	old := time.Now().Add(-48 * time.Hour)
	seed := []models.Notification{
		{RecipientID: 1, Message: "old read", IsRead: true},
		{RecipientID: 1, Message: "old unread", IsRead: false},
		{RecipientID: 1, Message: "fresh read", IsRead: true},
	}
	require.NoError(t, db.Create(&seed).Error)
	require.NoError(t, db.Model(&models.Notification{}).
		Where("message LIKE ?", "old%").
		Update("created_at", old).Error)

	deleted, err := notify.DeleteOldRead(db, 24*time.Hour)
	require.NoError(t, err)
	assert.EqualValues(t, 1, deleted)

	var remaining []models.Notification
	require.NoError(t, db.Find(&remaining).Error)
	assert.Len(t, remaining, 2)
	for _, n := range remaining {
		assert.NotEqual(t, "old read", n.Message)
	}
}
