package models

import "gorm.io/gorm"

const (
	NotificationTypePurchase = "PURCHASE"
	NotificationTypeSale     = "SALE"
	NotificationTypeProgress = "PROGRESS"
	NotificationTypeSystem   = "SYSTEM"
)

// Notification is a persisted in-app message for a user
type Notification struct {
	gorm.Model
	RecipientID uint   `gorm:"not null;index" json:"recipientId"`
	Message     string `gorm:"type:text" json:"message"`
	Type        string `gorm:"type:varchar(30);default:'SYSTEM'" json:"type"`
	IsRead      bool   `gorm:"default:false" json:"isRead"`
}
