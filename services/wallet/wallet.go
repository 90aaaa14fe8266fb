// Package wallet is the single code path through which user balances change.
// Every mutation happens inside a transaction together with the ledger entry
// that explains it, so the ledger always adds up to the current balance.
package wallet

import (
	"errors"
	"strings"
	"time"

	"lms/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrNotFound       = errors.New("user not found")
	ErrInvalidAmount  = errors.New("amount must not be zero")
	ErrDuplicateEvent = errors.New("provider event already processed")
)

// AdjustBalance applies a signed amount to the user's balance and returns the
// new balance. The user row is locked for the duration of the surrounding
// transaction, so concurrent adjustments are serialized at the storage layer.
//
// Callers must write the ledger entry explaining the adjustment in the same
// transaction. Negative-balance checks are the caller's concern: top-ups and
// earnings never need one, purchases check funds before debiting.
func AdjustBalance(tx *gorm.DB, userID uint, amount decimal.Decimal) (decimal.Decimal, error) {
	if amount.IsZero() {
		return decimal.Zero, ErrInvalidAmount
	}

	var user models.User
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ? AND is_deleted = false", userID).
		First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return decimal.Zero, ErrNotFound
		}
		return decimal.Zero, err
	}

	newBalance := user.Balance.Add(amount)
	if err := tx.Model(&user).Update("balance", newBalance).Error; err != nil {
		return decimal.Zero, err
	}

	return newBalance, nil
}

// TopUp credits the user and writes the matching TOP_UP ledger entry in one
// transaction. When sessionID is set, the unique index on the ledger makes a
// redelivered provider event fail here instead of double-crediting; the
// pre-check keeps the common replay path off the error log.
func TopUp(db *gorm.DB, userID uint, amount decimal.Decimal, description string, sessionID *string) (decimal.Decimal, error) {
	if !amount.IsPositive() {
		return decimal.Zero, ErrInvalidAmount
	}

	var newBalance decimal.Decimal
	err := db.Transaction(func(tx *gorm.DB) error {
		if sessionID != nil {
			var count int64
			if err := tx.Model(&models.LedgerEntry{}).
				Where("stripe_session_id = ?", *sessionID).
				Count(&count).Error; err != nil {
				return err
			}
			if count > 0 {
				return ErrDuplicateEvent
			}
		}

		balance, err := AdjustBalance(tx, userID, amount)
		if err != nil {
			return err
		}

		entry := models.LedgerEntry{
			UserID:          userID,
			Type:            models.LedgerTypeTopUp,
			Amount:          amount,
			Description:     description,
			StripeSessionID: sessionID,
			TransactionDate: time.Now(),
		}
		if err := tx.Create(&entry).Error; err != nil {
			if IsUniqueViolation(err) {
				return ErrDuplicateEvent
			}
			return err
		}

		newBalance = balance
		return nil
	})
	if err != nil {
		return decimal.Zero, err
	}

	return newBalance, nil
}

// BalanceOf returns the user's current balance
func BalanceOf(db *gorm.DB, userID uint) (decimal.Decimal, error) {
	var user models.User
	if err := db.Where("id = ? AND is_deleted = false", userID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return decimal.Zero, ErrNotFound
		}
		return decimal.Zero, err
	}
	return user.Balance, nil
}

// History returns the user's ledger entries, newest first, optionally
// filtered by type
func History(db *gorm.DB, userID uint, page, limit int, ledgerType string) ([]models.LedgerEntry, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	offset := (page - 1) * limit

	query := db.Model(&models.LedgerEntry{}).Where("user_id = ?", userID)
	if ledgerType != "" {
		query = query.Where("type = ?", ledgerType)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var entries []models.LedgerEntry
	if err := query.
		Order("transaction_date DESC").
		Offset(offset).
		Limit(limit).
		Find(&entries).Error; err != nil {
		return nil, 0, err
	}

	return entries, total, nil
}

// LedgerBalance recomputes the balance from the ledger:
// sum(TOP_UP) + sum(EARNING) - sum(PURCHASE)
func LedgerBalance(db *gorm.DB, userID uint) (decimal.Decimal, error) {
	var entries []models.LedgerEntry
	if err := db.Where("user_id = ?", userID).Find(&entries).Error; err != nil {
		return decimal.Zero, err
	}

	sum := decimal.Zero
	for _, e := range entries {
		switch e.Type {
		case models.LedgerTypePurchase:
			sum = sum.Sub(e.Amount)
		default:
			sum = sum.Add(e.Amount)
		}
	}
	return sum, nil
}

// IsUniqueViolation reports whether err is a unique-constraint failure from
// postgres or sqlite
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "unique constraint")
}
