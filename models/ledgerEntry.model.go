package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// LedgerType defines the kind of balance-affecting event
type LedgerType string

const (
	LedgerTypeTopUp    LedgerType = "TOP_UP"
	LedgerTypePurchase LedgerType = "PURCHASE"
	LedgerTypeEarning  LedgerType = "EARNING"
)

// LedgerEntry is an immutable record of a balance-affecting event.
// Rows are write-once: never updated or deleted. A user's balance must
// always equal sum(TOP_UP) + sum(EARNING) - sum(PURCHASE).
type LedgerEntry struct {
	gorm.Model
	UserID      uint            `gorm:"not null;index" json:"userId"`
	Type        LedgerType      `gorm:"type:varchar(20);not null" json:"type"`
	Amount      decimal.Decimal `gorm:"type:decimal(20,2);not null" json:"amount"`
	Description string          `gorm:"type:text" json:"description"`

	// Reference details (for purchases and earnings)
	ReferenceCourseID uint `gorm:"default:0;index" json:"referenceCourseId"`

	// Payment provider session that produced this entry (for top-ups).
	// The unique index is what makes webhook redelivery a no-op.
	StripeSessionID *string `gorm:"type:varchar(255);uniqueIndex" json:"stripeSessionId,omitempty"`

	TransactionDate time.Time `gorm:"not null" json:"transactionDate"`

	// Relations - omit in JSON by default (only load when needed)
	User User `gorm:"foreignKey:UserID" json:"-"`
}

func (LedgerEntry) TableName() string {
	return "ledger_entries"
}
