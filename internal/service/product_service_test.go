package service

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/malcolmm20/farmlink/internal/models"
	"github.com/malcolmm20/farmlink/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupProductServiceTest(t *testing.T) (*ProductService, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:product_service_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Product{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	models.DB = db
	return NewProductService(repository.NewProductRepository(db), repository.NewUserRepository(db)), db
}

func TestCreateProductValidatesFarm(t *testing.T) {
	svc, db := setupProductServiceTest(t)
	if _, err := svc.Create(CreateProductInput{Name: "Tomatoes", Price: 4.5, Stock: 10, FarmID: 999}); !errors.Is(err, ErrFarmNotFound) {
		t.Fatalf("expected farm not found, got: %v", err)
	}

	createTestFarmer(t, db, 1, "Green Acres")
	product, err := svc.Create(CreateProductInput{Name: "Tomatoes", Price: 4.5, Stock: 10, FarmID: 1})
	if err != nil {
		t.Fatalf("create error: %v", err)
	}
	if !product.Available {
		t.Fatalf("expected product with stock to be available")
	}
	if product.Unit != "kg" {
		t.Fatalf("expected default unit kg, got %q", product.Unit)
	}
}

func TestCreateProductZeroStockUnavailable(t *testing.T) {
	svc, db := setupProductServiceTest(t)
	createTestFarmer(t, db, 1, "Green Acres")
	product, err := svc.Create(CreateProductInput{Name: "Chard", Price: 3, Stock: 0, FarmID: 1})
	if err != nil {
		t.Fatalf("create error: %v", err)
	}
	if product.Available {
		t.Fatalf("expected zero-stock product to be unavailable")
	}
}

func TestUpdateMissingProductCreatesNothing(t *testing.T) {
	svc, db := setupProductServiceTest(t)
	name := "Ghost"
	if _, err := svc.Update(999, UpdateProductInput{Name: &name}); !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("expected not found, got: %v", err)
	}
	var count int64
	if err := db.Model(&models.Product{}).Count(&count).Error; err != nil {
		t.Fatalf("count products failed: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected no products after failed update, got %d", count)
	}
}

func TestUpdateProductRecomputesAvailability(t *testing.T) {
	svc, db := setupProductServiceTest(t)
	createTestFarmer(t, db, 1, "Green Acres")
	product, err := svc.Create(CreateProductInput{Name: "Eggs", Price: 7, Stock: 5, FarmID: 1})
	if err != nil {
		t.Fatalf("create error: %v", err)
	}

	zero := 0
	updated, err := svc.Update(product.ID, UpdateProductInput{Stock: &zero})
	if err != nil {
		t.Fatalf("update error: %v", err)
	}
	if updated.Available {
		t.Fatalf("expected product to turn unavailable at zero stock")
	}

	ten := 10
	updated, err = svc.Update(product.ID, UpdateProductInput{Stock: &ten})
	if err != nil {
		t.Fatalf("update error: %v", err)
	}
	if !updated.Available {
		t.Fatalf("expected product to turn available with stock")
	}
}

func TestUpdateProductRejectsInvalidPatch(t *testing.T) {
	svc, db := setupProductServiceTest(t)
	createTestFarmer(t, db, 1, "Green Acres")
	product, err := svc.Create(CreateProductInput{Name: "Cheese", Price: 12.5, Stock: 5, FarmID: 1})
	if err != nil {
		t.Fatalf("create error: %v", err)
	}

	empty := "  "
	if _, err := svc.Update(product.ID, UpdateProductInput{Name: &empty}); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error for blank name, got: %v", err)
	}
	negative := -1.0
	if _, err := svc.Update(product.ID, UpdateProductInput{Price: &negative}); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error for negative price, got: %v", err)
	}
	badStock := -5
	if _, err := svc.Update(product.ID, UpdateProductInput{Stock: &badStock}); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error for negative stock, got: %v", err)
	}
}

func TestDeleteProductTwice(t *testing.T) {
	svc, db := setupProductServiceTest(t)
	createTestFarmer(t, db, 1, "Green Acres")
	product, err := svc.Create(CreateProductInput{Name: "Chard", Price: 3, Stock: 5, FarmID: 1})
	if err != nil {
		t.Fatalf("create error: %v", err)
	}
	if err := svc.Delete(product.ID); err != nil {
		t.Fatalf("first delete error: %v", err)
	}
	if err := svc.Delete(product.ID); !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("expected not found on second delete, got: %v", err)
	}
}

func TestListByFarmRejectsNonFarmer(t *testing.T) {
	svc, db := setupProductServiceTest(t)
	customer := models.User{ID: 5, Name: "Jamie", Username: "jamiep", PasswordHash: "x", Role: "customer"}
	if err := db.Create(&customer).Error; err != nil {
		t.Fatalf("create customer failed: %v", err)
	}
	if _, err := svc.ListByFarm(5); !errors.Is(err, ErrFarmNotFound) {
		t.Fatalf("expected farm not found, got: %v", err)
	}
}
