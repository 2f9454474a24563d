package repository

import (
	"fmt"
	"testing"
	"time"

	"github.com/malcolmm20/farmlink/internal/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupProductRepositoryTest(t *testing.T) (*GormProductRepository, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:product_repository_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Product{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	return NewProductRepository(db), db
}

func seedProduct(t *testing.T, db *gorm.DB, id uint, stock int) {
	t.Helper()
	product := models.Product{
		ID:        id,
		Name:      fmt.Sprintf("Product %d", id),
		Price:     models.NewMoneyFromFloat(5),
		Unit:      "kg",
		Stock:     stock,
		Available: stock > 0,
	}
	if err := db.Create(&product).Error; err != nil {
		t.Fatalf("seed product failed: %v", err)
	}
}

func TestDecrementStockConditional(t *testing.T) {
	repo, db := setupProductRepositoryTest(t)
	seedProduct(t, db, 1, 5)

	affected, err := repo.DecrementStock(1, 4)
	if err != nil {
		t.Fatalf("decrement error: %v", err)
	}
	if affected != 1 {
		t.Fatalf("expected 1 row affected, got %d", affected)
	}

	var product models.Product
	if err := db.First(&product, 1).Error; err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if product.Stock != 1 || !product.Available {
		t.Fatalf("expected stock 1 still available, got stock=%d available=%v", product.Stock, product.Available)
	}

	affected, err = repo.DecrementStock(1, 4)
	if err != nil {
		t.Fatalf("decrement error: %v", err)
	}
	if affected != 0 {
		t.Fatalf("expected oversell to affect 0 rows, got %d", affected)
	}
	if err := db.First(&product, 1).Error; err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if product.Stock != 1 {
		t.Fatalf("expected stock untouched at 1, got %d", product.Stock)
	}
}

func TestDecrementStockToZeroFlipsAvailability(t *testing.T) {
	repo, db := setupProductRepositoryTest(t)
	seedProduct(t, db, 1, 3)

	affected, err := repo.DecrementStock(1, 3)
	if err != nil {
		t.Fatalf("decrement error: %v", err)
	}
	if affected != 1 {
		t.Fatalf("expected 1 row affected, got %d", affected)
	}

	var product models.Product
	if err := db.First(&product, 1).Error; err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if product.Stock != 0 || product.Available {
		t.Fatalf("expected stock 0 and unavailable, got stock=%d available=%v", product.Stock, product.Available)
	}
}

func TestRestoreStock(t *testing.T) {
	repo, db := setupProductRepositoryTest(t)
	seedProduct(t, db, 1, 3)
	if _, err := repo.DecrementStock(1, 3); err != nil {
		t.Fatalf("decrement error: %v", err)
	}

	affected, err := repo.RestoreStock(1, 3)
	if err != nil {
		t.Fatalf("restore error: %v", err)
	}
	if affected != 1 {
		t.Fatalf("expected 1 row affected, got %d", affected)
	}

	var product models.Product
	if err := db.First(&product, 1).Error; err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if product.Stock != 3 || !product.Available {
		t.Fatalf("expected stock 3 available again, got stock=%d available=%v", product.Stock, product.Available)
	}
}

func TestListFiltersAvailability(t *testing.T) {
	repo, db := setupProductRepositoryTest(t)
	seedProduct(t, db, 1, 5)
	seedProduct(t, db, 2, 0)

	products, total, err := repo.List(ProductListFilter{OnlyAvailable: true})
	if err != nil {
		t.Fatalf("list error: %v", err)
	}
	if total != 1 || len(products) != 1 || products[0].ID != 1 {
		t.Fatalf("expected only the in-stock product, got total=%d products=%+v", total, products)
	}
}

func TestListPagination(t *testing.T) {
	repo, db := setupProductRepositoryTest(t)
	for i := uint(1); i <= 5; i++ {
		seedProduct(t, db, i, 10)
	}

	products, total, err := repo.List(ProductListFilter{Page: 2, PageSize: 2})
	if err != nil {
		t.Fatalf("list error: %v", err)
	}
	if total != 5 {
		t.Fatalf("expected total 5, got %d", total)
	}
	if len(products) != 2 {
		t.Fatalf("expected 2 products on page 2, got %d", len(products))
	}

	all, total, err := repo.List(ProductListFilter{})
	if err != nil {
		t.Fatalf("list error: %v", err)
	}
	if total != 5 || len(all) != 5 {
		t.Fatalf("expected unpaginated list of 5, got total=%d len=%d", total, len(all))
	}
}
