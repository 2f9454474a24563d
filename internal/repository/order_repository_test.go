package repository

import (
	"fmt"
	"testing"
	"time"

	"github.com/malcolmm20/farmlink/internal/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupOrderRepositoryTest(t *testing.T) (*GormOrderRepository, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:order_repository_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Product{}, &models.Order{}, &models.OrderItem{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	return NewOrderRepository(db), db
}

func seedOrder(t *testing.T, db *gorm.DB, id uint, orderNo, status string) {
	t.Helper()
	order := models.Order{
		ID:          id,
		OrderNo:     orderNo,
		UserID:      100,
		FarmID:      1,
		Status:      status,
		TotalAmount: models.NewMoneyFromFloat(10),
	}
	if err := db.Create(&order).Error; err != nil {
		t.Fatalf("seed order failed: %v", err)
	}
}

func TestGetByOrderNo(t *testing.T) {
	repo, db := setupOrderRepositoryTest(t)
	seedOrder(t, db, 1, "FL20260901000001", "pending")

	order, err := repo.GetByOrderNo("FL20260901000001")
	if err != nil {
		t.Fatalf("get by order no error: %v", err)
	}
	if order == nil || order.ID != 1 {
		t.Fatalf("expected order 1, got %+v", order)
	}

	missing, err := repo.GetByOrderNo("FL00000000000000")
	if err != nil {
		t.Fatalf("get by order no error: %v", err)
	}
	if missing != nil {
		t.Fatalf("expected nil for unknown order no, got %+v", missing)
	}
}

func TestUpdateStatus(t *testing.T) {
	repo, db := setupOrderRepositoryTest(t)
	seedOrder(t, db, 1, "FL20260901000002", "pending")

	affected, err := repo.UpdateStatus(1, "confirmed")
	if err != nil {
		t.Fatalf("update status error: %v", err)
	}
	if affected != 1 {
		t.Fatalf("expected 1 row affected, got %d", affected)
	}

	var order models.Order
	if err := db.First(&order, 1).Error; err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if order.Status != "confirmed" {
		t.Fatalf("expected confirmed, got %q", order.Status)
	}

	affected, err = repo.UpdateStatus(999, "confirmed")
	if err != nil {
		t.Fatalf("update status error: %v", err)
	}
	if affected != 0 {
		t.Fatalf("expected 0 rows for unknown order, got %d", affected)
	}
}
