package course

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Course represents a sellable course created by a teacher
type Course struct {
	gorm.Model
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Price       decimal.Decimal `json:"price" gorm:"type:decimal(20,2);default:0"` // zero means free
	CreatorID   uint            `json:"creator_id" gorm:"index;not null"`
	Visible     bool            `json:"visible" gorm:"default:false"` // hidden courses cannot be purchased
	ImageURL    string          `json:"image_url"`
	IsDeleted   bool            `gorm:"default:false" json:"-"`
}
