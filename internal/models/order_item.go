package models

import (
	"time"

	"gorm.io/gorm"
)

// OrderItem is a line item with product snapshots taken at order time.
// Immutable after creation.
type OrderItem struct {
	ID          uint           `gorm:"primarykey" json:"id"`
	OrderID     uint           `gorm:"index;not null" json:"orderId"`
	ProductID   uint           `gorm:"index;not null" json:"productId"`
	Name        string         `gorm:"not null" json:"name"`        // product name snapshot
	Description string         `gorm:"default:''" json:"description"`
	Image       string         `gorm:"default:''" json:"image,omitempty"`
	Category    string         `gorm:"type:varchar(50)" json:"category,omitempty"`
	FarmID      uint           `gorm:"index" json:"farmId"`
	Unit        string         `gorm:"type:varchar(20)" json:"unit,omitempty"`
	UnitPrice   Money          `gorm:"type:decimal(20,2);not null;default:0" json:"unitPrice"`
	Quantity    int            `gorm:"not null" json:"quantity"`
	TotalPrice  Money          `gorm:"type:decimal(20,2);not null;default:0" json:"totalPrice"`
	CreatedAt   time.Time      `gorm:"index" json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName sets the table name.
func (OrderItem) TableName() string {
	return "order_items"
}
