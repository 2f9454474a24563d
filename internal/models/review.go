package models

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

// ErrReviewTarget is returned when a review does not point at exactly one
// of a product or a farm.
var ErrReviewTarget = errors.New("review must target exactly one of product or farm")

// ErrReviewRating is returned when a rating falls outside 1..5.
var ErrReviewRating = errors.New("rating must be between 1 and 5")

// Review is a rating left by a user on either a product or a farm,
// never both. Reviews are immutable once written.
type Review struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	UserID    uint           `gorm:"index;not null" json:"userId"`
	ProductID *uint          `gorm:"index" json:"productId,omitempty"` // exclusive with FarmID
	FarmID    *uint          `gorm:"index" json:"farmId,omitempty"`    // exclusive with ProductID
	Rating    int            `gorm:"not null" json:"rating"`           // 1..5
	Comment   string         `gorm:"default:''" json:"comment"`
	CreatedAt time.Time      `gorm:"index" json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// TableName sets the table name.
func (Review) TableName() string {
	return "reviews"
}

// NewProductReview builds a validated product review.
func NewProductReview(userID, productID uint, rating int, comment string) (*Review, error) {
	r := &Review{UserID: userID, ProductID: &productID, Rating: rating, Comment: comment}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return r, nil
}

// NewFarmReview builds a validated farm review.
func NewFarmReview(userID, farmID uint, rating int, comment string) (*Review, error) {
	r := &Review{UserID: userID, FarmID: &farmID, Rating: rating, Comment: comment}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return r, nil
}

// Validate enforces the target exclusivity and rating range invariants.
func (r *Review) Validate() error {
	hasProduct := r.ProductID != nil && *r.ProductID != 0
	hasFarm := r.FarmID != nil && *r.FarmID != 0
	if hasProduct == hasFarm {
		return ErrReviewTarget
	}
	if r.Rating < 1 || r.Rating > 5 {
		return ErrReviewRating
	}
	return nil
}

// BeforeCreate re-checks the invariants at write time.
func (r *Review) BeforeCreate(tx *gorm.DB) error {
	return r.Validate()
}
