package payment_test

import (
	"fmt"
	"testing"
	"time"

	"lms/database"
	"lms/models"
	"lms/services/payment"
	"lms/services/wallet"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const webhookSecret = "whsec_test_secret"

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

func createUser(t *testing.T, db *gorm.DB, email string) models.User {
	t.Helper()

	user := models.User{
		Name:     "Test User",
		Email:    email,
		Role:     models.RoleStudent,
		Password: "hashed",
		Balance:  decimal.Zero,
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func checkoutCompletedPayload(sessionID string, userID uint, status, currency string, amountTotal int64) []byte {
	return []byte(fmt.Sprintf(`{
		"type": "checkout.session.completed",
		"data": {
			"object": {
				"id": %q,
				"payment_status": %q,
				"currency": %q,
				"amount_total": %d,
				"metadata": {"userId": "%d"}
			}
		}
	}`, sessionID, status, currency, amountTotal, userID))
}

func deliver(db *gorm.DB, payload []byte) error {
	header := payment.SignPayload(payload, webhookSecret, time.Now())
	return payment.HandleProviderEvent(db, payload, header, webhookSecret)
}

func TestWebhookCreditsWallet(t *testing.T) {
	db := setupTestDB(t)
	user := createUser(t, db, "student@test.com")

	payload := checkoutCompletedPayload("cs_test_001", user.ID, "paid", "usd", 2550)
	require.NoError(t, deliver(db, payload))

	balance, err := wallet.BalanceOf(db, user.ID)
	require.NoError(t, err)
	assert.True(t, balance.Equal(decimal.NewFromFloat(25.50)), "got %s", balance)

	var entry models.LedgerEntry
	require.NoError(t, db.Where("user_id = ?", user.ID).First(&entry).Error)
	assert.Equal(t, models.LedgerTypeTopUp, entry.Type)
	require.NotNil(t, entry.StripeSessionID)
	assert.Equal(t, "cs_test_001", *entry.StripeSessionID)
}

func TestWebhookZeroDecimalCurrency(t *testing.T) {
	db := setupTestDB(t)
	user := createUser(t, db, "student@test.com")

	// vnd has no minor unit: 500000 is already the major-unit amount
	payload := checkoutCompletedPayload("cs_test_vnd", user.ID, "paid", "vnd", 500000)
	require.NoError(t, deliver(db, payload))

	balance, err := wallet.BalanceOf(db, user.ID)
	require.NoError(t, err)
	assert.True(t, balance.Equal(decimal.NewFromInt(500000)), "got %s", balance)
}

func TestWebhookRedeliveryCreditsOnce(t *testing.T) {
	db := setupTestDB(t)
	user := createUser(t, db, "student@test.com")

	payload := checkoutCompletedPayload("cs_test_replay", user.ID, "paid", "vnd", 500000)
	require.NoError(t, deliver(db, payload))

	// The provider redelivers until it gets a 2xx; the second delivery
	// must be acknowledged without a second credit.
	require.NoError(t, deliver(db, payload))
	require.NoError(t, deliver(db, payload))

	balance, err := wallet.BalanceOf(db, user.ID)
	require.NoError(t, err)
	assert.True(t, balance.Equal(decimal.NewFromInt(500000)), "got %s", balance)

	var entries int64
	db.Model(&models.LedgerEntry{}).Where("user_id = ?", user.ID).Count(&entries)
	assert.EqualValues(t, 1, entries)
}

func TestWebhookRejectsBadSignature(t *testing.T) {
	db := setupTestDB(t)
	user := createUser(t, db, "student@test.com")

	payload := checkoutCompletedPayload("cs_test_bad", user.ID, "paid", "usd", 1000)

	header := payment.SignPayload(payload, "whsec_wrong_secret", time.Now())
	err := payment.HandleProviderEvent(db, payload, header, webhookSecret)
	assert.ErrorIs(t, err, payment.ErrInvalidSignature)

	err = payment.HandleProviderEvent(db, payload, "", webhookSecret)
	assert.ErrorIs(t, err, payment.ErrInvalidSignature)

	// Nothing was credited
	balance, err := wallet.BalanceOf(db, user.ID)
	require.NoError(t, err)
	assert.True(t, balance.IsZero())

	var entries int64
	db.Model(&models.LedgerEntry{}).Count(&entries)
	assert.EqualValues(t, 0, entries)
}

func TestWebhookRejectsStaleTimestamp(t *testing.T) {
	db := setupTestDB(t)
	user := createUser(t, db, "student@test.com")

	payload := checkoutCompletedPayload("cs_test_stale", user.ID, "paid", "usd", 1000)
	header := payment.SignPayload(payload, webhookSecret, time.Now().Add(-time.Hour))

	err := payment.HandleProviderEvent(db, payload, header, webhookSecret)
	assert.ErrorIs(t, err, payment.ErrInvalidSignature)
}

func TestWebhookIgnoresUnrelatedEvents(t *testing.T) {
	db := setupTestDB(t)
	createUser(t, db, "student@test.com")

	payload := []byte(`{"type": "invoice.finalized", "data": {"object": {}}}`)
	require.NoError(t, deliver(db, payload))

	var entries int64
	db.Model(&models.LedgerEntry{}).Count(&entries)
	assert.EqualValues(t, 0, entries)
}

func TestWebhookIgnoresUnpaidSession(t *testing.T) {
	db := setupTestDB(t)
	user := createUser(t, db, "student@test.com")

	payload := checkoutCompletedPayload("cs_test_unpaid", user.ID, "unpaid", "usd", 1000)
	require.NoError(t, deliver(db, payload))

	balance, err := wallet.BalanceOf(db, user.ID)
	require.NoError(t, err)
	assert.True(t, balance.IsZero())
}

func TestWebhookRejectsMalformedEvents(t *testing.T) {
	db := setupTestDB(t)
	user := createUser(t, db, "student@test.com")

	cases := map[string][]byte{
		"invalid json": []byte(`{not json`),
		"missing session id": []byte(`{
			"type": "checkout.session.completed",
			"data": {"object": {"payment_status": "paid", "currency": "usd", "amount_total": 1000, "metadata": {"userId": "1"}}}
		}`),
		"missing userId": []byte(`{
			"type": "checkout.session.completed",
			"data": {"object": {"id": "cs_x", "payment_status": "paid", "currency": "usd", "amount_total": 1000, "metadata": {}}}
		}`),
		"non-numeric userId": []byte(`{
			"type": "checkout.session.completed",
			"data": {"object": {"id": "cs_y", "payment_status": "paid", "currency": "usd", "amount_total": 1000, "metadata": {"userId": "abc"}}}
		}`),
		"zero amount": checkoutCompletedPayload("cs_zero", user.ID, "paid", "usd", 0),
		"negative amount": checkoutCompletedPayload("cs_neg", user.ID, "paid", "usd", -500),
	}

	for name, payload := range cases {
		t.Run(name, func(t *testing.T) {
			err := deliver(db, payload)
			assert.ErrorIs(t, err, payment.ErrMalformedEvent)
		})
	}

	// A paid session referencing a user that does not exist is also
	// permanent: retrying can never succeed.
	payload := checkoutCompletedPayload("cs_ghost", 99999, "paid", "usd", 1000)
	assert.ErrorIs(t, deliver(db, payload), payment.ErrMalformedEvent)

	var entries int64
	db.Model(&models.LedgerEntry{}).Count(&entries)
	assert.EqualValues(t, 0, entries)
}
