package wallet_test

import (
	"testing"

	"lms/database"
	"lms/models"
	"lms/services/wallet"

	"github.com/shopspring/decimal"
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

func createUser(t *testing.T, db *gorm.DB, email, role string, balance int64) models.User {
	t.Helper()

	user := models.User{
		Name:     "Test User",
		Email:    email,
		Role:     role,
		Password: "hashed",
		Balance:  decimal.NewFromInt(balance),
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func TestAdjustBalanceCreditAndDebit(t *testing.T) {
	db := setupTestDB(t)
	user := createUser(t, db, "a@test.com", models.RoleStudent, 1000)

	newBalance, err := wallet.AdjustBalance(db, user.ID, decimal.NewFromInt(500))
	require.NoError(t, err)
	assert.True(t, newBalance.Equal(decimal.NewFromInt(1500)))

	newBalance, err = wallet.AdjustBalance(db, user.ID, decimal.NewFromInt(-300))
	require.NoError(t, err)
	assert.True(t, newBalance.Equal(decimal.NewFromInt(1200)))

	stored, err := wallet.BalanceOf(db, user.ID)
	require.NoError(t, err)
	assert.True(t, stored.Equal(decimal.NewFromInt(1200)))
}

func TestAdjustBalanceZeroAmount(t *testing.T) {
	db := setupTestDB(t)
	user := createUser(t, db, "a@test.com", models.RoleStudent, 1000)

	_, err := wallet.AdjustBalance(db, user.ID, decimal.Zero)
	assert.ErrorIs(t, err, wallet.ErrInvalidAmount)

	// Balance untouched
	balance, err := wallet.BalanceOf(db, user.ID)
	require.NoError(t, err)
	assert.True(t, balance.Equal(decimal.NewFromInt(1000)))
}

func TestAdjustBalanceUnknownUser(t *testing.T) {
	db := setupTestDB(t)

	_, err := wallet.AdjustBalance(db, 999, decimal.NewFromInt(100))
	assert.ErrorIs(t, err, wallet.ErrNotFound)
}

func TestTopUpWritesLedgerEntry(t *testing.T) {
	db := setupTestDB(t)
	user := createUser(t, db, "a@test.com", models.RoleStudent, 0)

	newBalance, err := wallet.TopUp(db, user.ID, decimal.NewFromInt(500), "Wallet top-up", nil)
	require.NoError(t, err)
	assert.True(t, newBalance.Equal(decimal.NewFromInt(500)))

	var entries []models.LedgerEntry
	require.NoError(t, db.Where("user_id = ?", user.ID).Find(&entries).Error)
	require.Len(t, entries, 1)
	assert.Equal(t, models.LedgerTypeTopUp, entries[0].Type)
	assert.True(t, entries[0].Amount.Equal(decimal.NewFromInt(500)))
}

func TestTopUpRejectsNonPositiveAmount(t *testing.T) {
	db := setupTestDB(t)
	user := createUser(t, db, "a@test.com", models.RoleStudent, 0)

	_, err := wallet.TopUp(db, user.ID, decimal.NewFromInt(-5), "bad", nil)
	assert.ErrorIs(t, err, wallet.ErrInvalidAmount)

	_, err = wallet.TopUp(db, user.ID, decimal.Zero, "bad", nil)
	assert.ErrorIs(t, err, wallet.ErrInvalidAmount)
}

func TestTopUpDuplicateSessionID(t *testing.T) {
	db := setupTestDB(t)
	user := createUser(t, db, "a@test.com", models.RoleStudent, 0)

	sessionID := "cs_test_123"
	_, err := wallet.TopUp(db, user.ID, decimal.NewFromInt(500), "Top-up", &sessionID)
	require.NoError(t, err)

	_, err = wallet.TopUp(db, user.ID, decimal.NewFromInt(500), "Top-up", &sessionID)
	assert.ErrorIs(t, err, wallet.ErrDuplicateEvent)

	// Credited exactly once
	balance, err := wallet.BalanceOf(db, user.ID)
	require.NoError(t, err)
	assert.True(t, balance.Equal(decimal.NewFromInt(500)))

	var count int64
	db.Model(&models.LedgerEntry{}).Where("user_id = ?", user.ID).Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestLedgerBalanceInvariant(t *testing.T) {
	db := setupTestDB(t)
	user := createUser(t, db, "a@test.com", models.RoleStudent, 0)

	// A sequence of ledger-backed mutations keeps the ledger and the
	// balance in agreement: balance == TOP_UP + EARNING - PURCHASE.
	_, err := wallet.TopUp(db, user.ID, decimal.NewFromInt(1000), "Top-up", nil)
	require.NoError(t, err)

	err = db.Transaction(func(tx *gorm.DB) error {
		if _, err := wallet.AdjustBalance(tx, user.ID, decimal.NewFromInt(-400)); err != nil {
			return err
		}
		return tx.Create(&models.LedgerEntry{
			UserID: user.ID,
			Type:   models.LedgerTypePurchase,
			Amount: decimal.NewFromInt(400),
		}).Error
	})
	require.NoError(t, err)

	err = db.Transaction(func(tx *gorm.DB) error {
		if _, err := wallet.AdjustBalance(tx, user.ID, decimal.NewFromInt(150)); err != nil {
			return err
		}
		return tx.Create(&models.LedgerEntry{
			UserID: user.ID,
			Type:   models.LedgerTypeEarning,
			Amount: decimal.NewFromInt(150),
		}).Error
	})
	require.NoError(t, err)

	balance, err := wallet.BalanceOf(db, user.ID)
	require.NoError(t, err)
	ledger, err := wallet.LedgerBalance(db, user.ID)
	require.NoError(t, err)

	assert.True(t, balance.Equal(decimal.NewFromInt(750)))
	assert.True(t, ledger.Equal(balance))
}

func TestHistoryFiltersByType(t *testing.T) {
	db := setupTestDB(t)
	user := createUser(t, db, "a@test.com", models.RoleStudent, 0)

	_, err := wallet.TopUp(db, user.ID, decimal.NewFromInt(100), "first", nil)
	require.NoError(t, err)
	_, err = wallet.TopUp(db, user.ID, decimal.NewFromInt(200), "second", nil)
	require.NoError(t, err)
	require.NoError(t, db.Create(&models.LedgerEntry{
		UserID: user.ID,
		Type:   models.LedgerTypePurchase,
		Amount: decimal.NewFromInt(50),
	}).Error)

	entries, total, err := wallet.History(db, user.ID, 1, 10, "TOP_UP")
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	require.Len(t, entries, 2)
	for _, entry := range entries {
		assert.Equal(t, models.LedgerTypeTopUp, entry.Type)
	}

	_, total, err = wallet.History(db, user.ID, 1, 10, "")
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
}
