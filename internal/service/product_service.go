package service

import (
	"strings"

	"github.com/malcolmm20/farmlink/internal/constants"
	"github.com/malcolmm20/farmlink/internal/logger"
	"github.com/malcolmm20/farmlink/internal/models"
	"github.com/malcolmm20/farmlink/internal/repository"
)

// ProductService manages the product catalog.
type ProductService struct {
	productRepo repository.ProductRepository
	userRepo    repository.UserRepository
}

// NewProductService creates the product service.
func NewProductService(productRepo repository.ProductRepository, userRepo repository.UserRepository) *ProductService {
	return &ProductService{productRepo: productRepo, userRepo: userRepo}
}

// CreateProductInput is the product creation payload.
type CreateProductInput struct {
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description"`
	Price       float64 `json:"price" binding:"required,gt=0"`
	Category    string  `json:"category"`
	Image       string  `json:"image"`
	Unit        string  `json:"unit"`
	Stock       int     `json:"stock" binding:"gte=0"`
	FarmID      uint    `json:"farmId"`
}

// UpdateProductInput is a partial patch. Nil fields are left untouched.
type UpdateProductInput struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"`
	Category    *string  `json:"category"`
	Image       *string  `json:"image"`
	Unit        *string  `json:"unit"`
	Stock       *int     `json:"stock"`
}

// List returns products matching the filter.
func (s *ProductService) List(filter repository.ProductListFilter) ([]models.Product, int64, error) {
	return s.productRepo.List(filter)
}

// ListByFarm returns one farm's products.
func (s *ProductService) ListByFarm(farmID uint) ([]models.Product, error) {
	farm, err := s.userRepo.GetByID(farmID)
	if err != nil {
		return nil, err
	}
	if farm == nil || !farm.IsFarmer() {
		return nil, ErrFarmNotFound
	}
	products, _, err := s.productRepo.List(repository.ProductListFilter{FarmID: farmID})
	return products, err
}

// Get fetches one product.
func (s *ProductService) Get(id uint) (*models.Product, error) {
	product, err := s.productRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	return product, nil
}

// Create inserts a product. A nonzero farm id must belong to a farmer.
func (s *ProductService) Create(input CreateProductInput) (*models.Product, error) {
	if input.FarmID != 0 {
		farm, err := s.userRepo.GetByID(input.FarmID)
		if err != nil {
			return nil, err
		}
		if farm == nil || !farm.IsFarmer() {
			return nil, ErrFarmNotFound
		}
	}
	unit := strings.TrimSpace(input.Unit)
	if unit == "" {
		unit = constants.DefaultProductUnit
	}
	product := &models.Product{
		Name:        strings.TrimSpace(input.Name),
		Description: input.Description,
		Price:       models.NewMoneyFromFloat(input.Price),
		Category:    strings.TrimSpace(input.Category),
		Image:       input.Image,
		Unit:        unit,
		Stock:       input.Stock,
		FarmID:      input.FarmID,
	}
	if err := s.productRepo.Create(product); err != nil {
		return nil, err
	}
	logger.Infow("product_created", "product_id", product.ID, "farm_id", product.FarmID)
	return product, nil
}

// Update applies a partial patch with re-validation.
func (s *ProductService) Update(id uint, input UpdateProductInput) (*models.Product, error) {
	product, err := s.productRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, ErrValidation
		}
		product.Name = name
	}
	if input.Description != nil {
		product.Description = *input.Description
	}
	if input.Price != nil {
		if *input.Price <= 0 {
			return nil, ErrValidation
		}
		product.Price = models.NewMoneyFromFloat(*input.Price)
	}
	if input.Category != nil {
		product.Category = strings.TrimSpace(*input.Category)
	}
	if input.Image != nil {
		product.Image = *input.Image
	}
	if input.Unit != nil {
		unit := strings.TrimSpace(*input.Unit)
		if unit == "" {
			return nil, ErrValidation
		}
		product.Unit = unit
	}
	if input.Stock != nil {
		if *input.Stock < 0 {
			return nil, ErrValidation
		}
		product.Stock = *input.Stock
	}

	if err := s.productRepo.Update(product); err != nil {
		return nil, err
	}
	return product, nil
}

// Delete removes a product. A second delete reports not found.
func (s *ProductService) Delete(id uint) error {
	affected, err := s.productRepo.Delete(id)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrProductNotFound
	}
	logger.Infow("product_deleted", "product_id", id)
	return nil
}
