package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	RoleStudent = "STUDENT"
	RoleTeacher = "TEACHER"
	RoleAdmin   = "ADMIN"
)

type User struct {
	gorm.Model
	Name             string          `gorm:"default:''" json:"name"`
	Email            string          `gorm:"unique;not null" json:"email"`
	Role             string          `gorm:"default:'STUDENT'" json:"role"` // STUDENT, TEACHER, ADMIN
	Password         string          `gorm:"not null" json:"-"`
	Balance          decimal.Decimal `gorm:"type:decimal(20,2);default:0" json:"balance"`
	StripeCustomerID string          `gorm:"default:''" json:"-"`
	LastLogin        time.Time       `gorm:"default:NULL" json:"lastLogin"`
	IsDeleted        bool            `gorm:"default:false" json:"-"`
}
