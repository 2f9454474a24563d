package models

import (
	"time"

	"gorm.io/gorm"
)

// Product is a farm product listing.
type Product struct {
	ID          uint           `gorm:"primarykey" json:"id"`
	Name        string         `gorm:"not null;index" json:"name"`
	Description string         `gorm:"default:''" json:"description"`
	Price       Money          `gorm:"type:decimal(20,2);not null;default:0" json:"price"`
	Category    string         `gorm:"type:varchar(50);index" json:"category"`
	Image       string         `gorm:"default:''" json:"image,omitempty"`
	Unit        string         `gorm:"type:varchar(20);not null;default:'kg'" json:"unit"` // sale unit (kg, bunch, dozen)
	Stock       int            `gorm:"not null;default:0" json:"stock"`
	Available   bool           `gorm:"not null;default:false;index" json:"available"` // derived: stock > 0, kept in sync on every stock write
	FarmID      uint           `gorm:"index" json:"farmId"`                           // owning farmer user id, 0 when unassigned
	CreatedAt   time.Time      `gorm:"index" json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	Farm *User `gorm:"foreignKey:FarmID" json:"farm,omitempty"`
}

// TableName sets the table name.
func (Product) TableName() string {
	return "products"
}
