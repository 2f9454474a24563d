package repository

import (
	"errors"

	"github.com/malcolmm20/farmlink/internal/models"

	"gorm.io/gorm"
)

// ReviewRepository is the review data access interface.
type ReviewRepository interface {
	Create(review *models.Review) error
	GetByID(id uint) (*models.Review, error)
	Update(review *models.Review) error
	Delete(id uint) (int64, error)
	List(filter ReviewListFilter) ([]models.Review, int64, error)
	ListForProduct(productID uint) ([]models.Review, error)
	ListForFarm(farmID uint) ([]models.Review, error)
	WithTx(tx *gorm.DB) ReviewRepository
}

// GormReviewRepository is the GORM implementation.
type GormReviewRepository struct {
	db *gorm.DB
}

// NewReviewRepository creates the review repository.
func NewReviewRepository(db *gorm.DB) *GormReviewRepository {
	return &GormReviewRepository{db: db}
}

// WithTx binds the repository to a transaction.
func (r *GormReviewRepository) WithTx(tx *gorm.DB) ReviewRepository {
	if tx == nil {
		return r
	}
	return &GormReviewRepository{db: tx}
}

// Create inserts a review.
func (r *GormReviewRepository) Create(review *models.Review) error {
	return r.db.Create(review).Error
}

// GetByID looks a review up by id. Returns nil when absent.
func (r *GormReviewRepository) GetByID(id uint) (*models.Review, error) {
	var review models.Review
	if err := r.db.First(&review, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &review, nil
}

// Update saves a review.
func (r *GormReviewRepository) Update(review *models.Review) error {
	return r.db.Save(review).Error
}

// Delete soft-deletes a review, reporting affected rows.
func (r *GormReviewRepository) Delete(id uint) (int64, error) {
	result := r.db.Delete(&models.Review{}, id)
	return result.RowsAffected, result.Error
}

// List returns reviews matching the filter plus the unpaginated total.
func (r *GormReviewRepository) List(filter ReviewListFilter) ([]models.Review, int64, error) {
	query := r.db.Model(&models.Review{})

	if filter.UserID != 0 {
		query = query.Where("user_id = ?", filter.UserID)
	}
	if filter.ProductID != 0 {
		query = query.Where("product_id = ?", filter.ProductID)
	}
	if filter.FarmID != 0 {
		query = query.Where("farm_id = ?", filter.FarmID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.WithUser {
		query = query.Preload("User")
	}
	query = applyPagination(query, filter.Page, filter.PageSize)

	var reviews []models.Review
	if err := query.Order("created_at DESC").Find(&reviews).Error; err != nil {
		return nil, 0, err
	}
	return reviews, total, nil
}

// ListForProduct returns every review of one product, newest first.
func (r *GormReviewRepository) ListForProduct(productID uint) ([]models.Review, error) {
	var reviews []models.Review
	if err := r.db.Where("product_id = ?", productID).
		Preload("User").
		Order("created_at DESC").
		Find(&reviews).Error; err != nil {
		return nil, err
	}
	return reviews, nil
}

// ListForFarm returns every review of one farm, newest first.
func (r *GormReviewRepository) ListForFarm(farmID uint) ([]models.Review, error) {
	var reviews []models.Review
	if err := r.db.Where("farm_id = ?", farmID).
		Preload("User").
		Order("created_at DESC").
		Find(&reviews).Error; err != nil {
		return nil, err
	}
	return reviews, nil
}
