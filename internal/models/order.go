package models

import (
	"time"

	"gorm.io/gorm"
)

// ShippingAddress is the delivery address snapshot on an order.
type ShippingAddress struct {
	Street  string `gorm:"column:ship_street" json:"street,omitempty"`
	City    string `gorm:"column:ship_city" json:"city,omitempty"`
	State   string `gorm:"column:ship_state" json:"state,omitempty"`
	Zip     string `gorm:"column:ship_zip" json:"zip,omitempty"`
	Country string `gorm:"column:ship_country" json:"country,omitempty"`
}

// Order groups line items of exactly one farm. A checkout spanning
// several farms produces one order per farm.
type Order struct {
	ID              uint            `gorm:"primarykey" json:"id"`
	OrderNo         string          `gorm:"uniqueIndex;not null" json:"orderNo"`
	UserID          uint            `gorm:"index;not null" json:"userId"` // buyer
	FarmID          uint            `gorm:"index" json:"farmId"`          // selling farm, 0 for unassigned products
	Status          string          `gorm:"index;not null" json:"status"` // pending / confirmed / shipped / delivered / cancelled
	TotalAmount     Money           `gorm:"type:decimal(20,2);not null;default:0" json:"totalAmount"`
	ShippingAddress ShippingAddress `gorm:"embedded" json:"shippingAddress"`
	CreatedAt       time.Time       `gorm:"index" json:"createdAt"`
	UpdatedAt       time.Time       `gorm:"index" json:"updatedAt"`
	DeletedAt       gorm.DeletedAt  `gorm:"index" json:"-"`

	Items []OrderItem `gorm:"foreignKey:OrderID" json:"items,omitempty"`
}

// TableName sets the table name.
func (Order) TableName() string {
	return "orders"
}
