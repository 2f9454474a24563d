package models

import (
	"time"

	"gorm.io/gorm"
)

// FarmInfo is the farm profile embedded on farmer accounts.
type FarmInfo struct {
	FarmName               string `gorm:"column:farm_name" json:"farmName,omitempty"`
	FarmAddress            string `gorm:"column:farm_address" json:"address,omitempty"`
	FarmPhone              string `gorm:"column:farm_phone" json:"phone,omitempty"`
	FarmEmail              string `gorm:"column:farm_email" json:"email,omitempty"`
	FarmHours              string `gorm:"column:farm_hours" json:"hours,omitempty"`
	FarmPickupInstructions string `gorm:"column:farm_pickup_instructions" json:"pickupInstructions,omitempty"`
	FarmDescription        string `gorm:"column:farm_description" json:"farmDescription,omitempty"`
	FarmImage              string `gorm:"column:farm_image" json:"image,omitempty"`
}

// User is an account record. Farmers carry the embedded farm profile,
// customers leave it empty.
type User struct {
	ID           uint           `gorm:"primarykey" json:"id"`
	Name         string         `gorm:"not null" json:"name"`                                    // display name
	Username     string         `gorm:"uniqueIndex;not null" json:"username"`                    // login identifier
	PasswordHash string         `gorm:"not null" json:"-"`                                       // bcrypt hash, never serialized
	Role         string         `gorm:"type:varchar(20);not null;default:'customer'" json:"role"` // customer / farmer / admin
	Location     string         `gorm:"default:''" json:"location,omitempty"`
	Description  string         `gorm:"default:''" json:"description,omitempty"`
	FarmInfo     FarmInfo       `gorm:"embedded" json:"farmInfo"`
	TokenVersion uint64         `gorm:"not null;default:0" json:"-"` // bump to invalidate issued tokens
	LastLoginAt  *time.Time     `json:"lastLoginAt,omitempty"`
	CreatedAt    time.Time      `gorm:"index" json:"createdAt"`
	UpdatedAt    time.Time      `gorm:"index" json:"updatedAt"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName sets the table name.
func (User) TableName() string {
	return "users"
}

// IsFarmer reports whether the account may own products and receive orders.
func (u *User) IsFarmer() bool {
	return u.Role == "farmer"
}

// IsAdmin reports whether the account has admin privileges.
func (u *User) IsAdmin() bool {
	return u.Role == "admin"
}
