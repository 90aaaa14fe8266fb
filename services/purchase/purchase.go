// Package purchase implements course purchase settlement: moving the price
// from the buyer's wallet to the course owner's wallet, recording both sides
// in the ledger and granting access, all in one transaction.
package purchase

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"lms/models"
	courseModels "lms/models/course"
	"lms/services/notify"
	"lms/services/wallet"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrCourseNotFound    = errors.New("course not found")
	ErrCourseUnavailable = errors.New("course is not available for purchase")
	ErrAlreadyOwned      = errors.New("course already purchased")
	ErrInsufficientFunds = errors.New("insufficient wallet balance")
)

// maxRetries bounds re-execution on storage contention
const maxRetries = 3

// Result is returned on a successful purchase
type Result struct {
	CourseID    uint            `json:"courseId"`
	NewBalance  decimal.Decimal `json:"newBalance"`
	PurchasedAt time.Time       `json:"purchasedAt"`
}

// Purchase settles a course purchase for a student. The whole settlement is
// one transaction: an error after the debit rolls the debit back, so a
// partial money movement is never observable. On conflict with a concurrent
// purchase of the same course, the unique index on course_access decides the
// winner and the loser sees ErrAlreadyOwned.
func Purchase(db *gorm.DB, studentID, courseID uint) (*Result, error) {
	var result *Result
	var err error

	for attempt := 0; attempt < maxRetries; attempt++ {
		result, err = settle(db, studentID, courseID)
		if err == nil || !isRetryable(err) {
			break
		}
	}
	if err != nil {
		return nil, err
	}

	notifyParties(db, studentID, courseID)
	return result, nil
}

func settle(db *gorm.DB, studentID, courseID uint) (*Result, error) {
	var result Result

	err := db.Transaction(func(tx *gorm.DB) error {
		var course courseModels.Course
		if err := tx.Where("id = ? AND is_deleted = false", courseID).First(&course).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCourseNotFound
			}
			return err
		}

		// Hidden courses cannot be purchased, not even by their creator.
		// Existing buyers keep access; this only blocks new purchases.
		if !course.Visible {
			return ErrCourseUnavailable
		}

		// Ownership check runs before any balance mutation so a client
		// retry of a completed purchase has no ledger side effects.
		var existing courseModels.CourseAccess
		err := tx.Where("user_id = ? AND course_id = ? AND access_type = ?",
			studentID, courseID, courseModels.AccessPurchased).First(&existing).Error
		if err == nil {
			return ErrAlreadyOwned
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		if course.Price.IsPositive() {
			if err := moveFunds(tx, studentID, course); err != nil {
				return err
			}
		}
		// Free enrollment is not a financial event: no ledger entries.

		access := courseModels.CourseAccess{
			UserID:     studentID,
			CourseID:   courseID,
			AccessType: courseModels.AccessPurchased,
		}
		if err := tx.Create(&access).Error; err != nil {
			if wallet.IsUniqueViolation(err) {
				return ErrAlreadyOwned
			}
			return err
		}

		balance, err := wallet.BalanceOf(tx, studentID)
		if err != nil {
			return err
		}

		result = Result{
			CourseID:    courseID,
			NewBalance:  balance,
			PurchasedAt: access.CreatedAt,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &result, nil
}

// moveFunds debits the buyer and credits the course owner, writing the
// PURCHASE and EARNING ledger rows that explain both adjustments
func moveFunds(tx *gorm.DB, studentID uint, course courseModels.Course) error {
	var buyer models.User
	if err := tx.Where("id = ? AND is_deleted = false", studentID).First(&buyer).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return wallet.ErrNotFound
		}
		return err
	}

	if buyer.Balance.LessThan(course.Price) {
		return ErrInsufficientFunds
	}

	// Lock the two wallet rows in id order so two purchases touching the
	// same pair of users cannot deadlock.
	first, second := studentID, course.CreatorID
	debitFirst := true
	if course.CreatorID < studentID {
		first, second = course.CreatorID, studentID
		debitFirst = false
	}

	adjust := func(userID uint, debit bool) error {
		amount := course.Price
		if debit {
			amount = amount.Neg()
		}
		newBalance, err := wallet.AdjustBalance(tx, userID, amount)
		if err != nil {
			return err
		}
		// The funds check above ran on an unlocked read; re-check under
		// the row lock so a concurrent debit cannot push us negative.
		if debit && newBalance.IsNegative() {
			return ErrInsufficientFunds
		}
		return nil
	}

	if err := adjust(first, debitFirst); err != nil {
		return err
	}
	if err := adjust(second, !debitFirst); err != nil {
		return err
	}

	now := time.Now()
	entries := []models.LedgerEntry{
		{
			UserID:            studentID,
			Type:              models.LedgerTypePurchase,
			Amount:            course.Price,
			Description:       fmt.Sprintf("Purchased course: %s", course.Title),
			ReferenceCourseID: course.ID,
			TransactionDate:   now,
		},
		{
			UserID:            course.CreatorID,
			Type:              models.LedgerTypeEarning,
			Amount:            course.Price,
			Description:       fmt.Sprintf("Course sold: %s", course.Title),
			ReferenceCourseID: course.ID,
			TransactionDate:   now,
		},
	}
	return tx.Create(&entries).Error
}

// notifyParties sends fire-and-forget confirmations. A notification failure
// must never undo a settled purchase, so errors stay inside notify.
func notifyParties(db *gorm.DB, studentID, courseID uint) {
	var course courseModels.Course
	if err := db.First(&course, courseID).Error; err != nil {
		return
	}
	notify.Send(db, studentID, fmt.Sprintf("You now have access to %q.", course.Title), models.NotificationTypePurchase)
	notify.Send(db, course.CreatorID, fmt.Sprintf("Your course %q was purchased.", course.Title), models.NotificationTypeSale)
}

func isRetryable(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "deadlock") ||
		strings.Contains(msg, "could not serialize") ||
		strings.Contains(msg, "database is locked")
}
