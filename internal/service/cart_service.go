package service

import (
	"github.com/malcolmm20/farmlink/internal/models"
	"github.com/malcolmm20/farmlink/internal/repository"
)

// CartService manages the server-side cart.
type CartService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
}

// NewCartService creates the cart service.
func NewCartService(cartRepo repository.CartRepository, productRepo repository.ProductRepository) *CartService {
	return &CartService{cartRepo: cartRepo, productRepo: productRepo}
}

// UpsertCartInput sets one cart line. Quantity 0 removes the line.
type UpsertCartInput struct {
	ProductID uint `json:"productId" binding:"required"`
	Quantity  int  `json:"quantity" binding:"gte=0"`
}

// List returns the user's cart with product details.
func (s *CartService) List(userID uint) ([]models.CartItem, error) {
	return s.cartRepo.ListByUser(userID)
}

// Upsert sets the quantity for one product in the user's cart.
func (s *CartService) Upsert(userID uint, input UpsertCartInput) error {
	if input.Quantity == 0 {
		return s.Remove(userID, input.ProductID)
	}
	product, err := s.productRepo.GetByID(input.ProductID)
	if err != nil {
		return err
	}
	if product == nil {
		return ErrProductNotFound
	}
	item := &models.CartItem{
		UserID:    userID,
		ProductID: input.ProductID,
		Quantity:  input.Quantity,
	}
	return s.cartRepo.Upsert(item)
}

// Remove deletes one product from the user's cart.
func (s *CartService) Remove(userID, productID uint) error {
	return s.cartRepo.DeleteByUserAndProduct(userID, productID)
}

// Clear empties the user's cart.
func (s *CartService) Clear(userID uint) error {
	return s.cartRepo.ClearByUser(userID)
}
