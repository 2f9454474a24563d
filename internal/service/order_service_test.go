package service

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/malcolmm20/farmlink/internal/constants"
	"github.com/malcolmm20/farmlink/internal/models"
	"github.com/malcolmm20/farmlink/internal/queue"
	"github.com/malcolmm20/farmlink/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func setupOrderServiceTest(t *testing.T) (*OrderService, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:order_service_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.Order{},
		&models.OrderItem{},
		&models.CartItem{},
	); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	models.DB = db
	orderRepo := repository.NewOrderRepository(db)
	productRepo := repository.NewProductRepository(db)
	cartRepo := repository.NewCartRepository(db)
	queueClient, err := queue.NewClient(nil)
	if err != nil {
		t.Fatalf("queue client failed: %v", err)
	}
	return NewOrderService(orderRepo, productRepo, cartRepo, queueClient), db
}

func createTestFarmer(t *testing.T, db *gorm.DB, id uint, farmName string) {
	t.Helper()
	user := models.User{
		ID:           id,
		Name:         fmt.Sprintf("Farmer %d", id),
		Username:     fmt.Sprintf("farmer%d", id),
		PasswordHash: "x",
		Role:         constants.RoleFarmer,
		FarmInfo:     models.FarmInfo{FarmName: farmName},
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("create farmer failed: %v", err)
	}
}

func createTestProduct(t *testing.T, db *gorm.DB, id, farmID uint, price float64, stock int) {
	t.Helper()
	product := models.Product{
		ID:        id,
		Name:      fmt.Sprintf("Product %d", id),
		Price:     models.NewMoneyFromFloat(price),
		Unit:      "kg",
		Stock:     stock,
		Available: stock > 0,
		FarmID:    farmID,
	}
	if err := db.Create(&product).Error; err != nil {
		t.Fatalf("create product failed: %v", err)
	}
}

func TestCheckoutSplitsOrdersByFarm(t *testing.T) {
	svc, db := setupOrderServiceTest(t)
	createTestFarmer(t, db, 1, "Green Acres")
	createTestFarmer(t, db, 2, "Hilltop")
	createTestProduct(t, db, 10, 1, 5, 20)
	createTestProduct(t, db, 11, 1, 3, 20)
	createTestProduct(t, db, 12, 2, 10, 20)

	orders, err := svc.Checkout(100, CheckoutInput{
		Items: []CheckoutItemInput{
			{ProductID: 10, Quantity: 2},
			{ProductID: 11, Quantity: 1},
			{ProductID: 12, Quantity: 1},
		},
	})
	if err != nil {
		t.Fatalf("checkout error: %v", err)
	}
	if len(orders) != 2 {
		t.Fatalf("expected 2 orders, got %d", len(orders))
	}
	if orders[0].FarmID != 1 || orders[1].FarmID != 2 {
		t.Fatalf("expected farm order [1 2], got [%d %d]", orders[0].FarmID, orders[1].FarmID)
	}
	if !orders[0].TotalAmount.Decimal.Equal(decimal.NewFromInt(13)) {
		t.Fatalf("expected first order total 13, got %s", orders[0].TotalAmount.String())
	}
	if !orders[1].TotalAmount.Decimal.Equal(decimal.NewFromInt(10)) {
		t.Fatalf("expected second order total 10, got %s", orders[1].TotalAmount.String())
	}
	if len(orders[0].Items) != 2 || len(orders[1].Items) != 1 {
		t.Fatalf("unexpected item split: %d and %d", len(orders[0].Items), len(orders[1].Items))
	}
	for _, order := range orders {
		if order.Status != constants.OrderStatusPending {
			t.Fatalf("expected pending status, got %s", order.Status)
		}
		if order.OrderNo == "" {
			t.Fatalf("expected order number to be set")
		}
	}

	var stock int
	if err := db.Model(&models.Product{}).Where("id = ?", 10).Select("stock").Scan(&stock).Error; err != nil {
		t.Fatalf("read stock failed: %v", err)
	}
	if stock != 18 {
		t.Fatalf("expected stock 18 after checkout, got %d", stock)
	}
}

func TestCheckoutInsufficientStock(t *testing.T) {
	svc, db := setupOrderServiceTest(t)
	createTestFarmer(t, db, 1, "Green Acres")
	createTestProduct(t, db, 10, 1, 5, 5)

	if _, err := svc.Checkout(100, CheckoutInput{
		Items: []CheckoutItemInput{{ProductID: 10, Quantity: 4}},
	}); err != nil {
		t.Fatalf("first checkout error: %v", err)
	}

	orders, err := svc.Checkout(101, CheckoutInput{
		Items: []CheckoutItemInput{{ProductID: 10, Quantity: 4}},
	})
	if !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("expected insufficient stock, got: %v", err)
	}
	if len(orders) != 0 {
		t.Fatalf("expected no orders from failed checkout, got %d", len(orders))
	}

	var count int64
	if err := db.Model(&models.Order{}).Count(&count).Error; err != nil {
		t.Fatalf("count orders failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 order in total, got %d", count)
	}
	var stock int
	if err := db.Model(&models.Product{}).Where("id = ?", 10).Select("stock").Scan(&stock).Error; err != nil {
		t.Fatalf("read stock failed: %v", err)
	}
	if stock != 1 {
		t.Fatalf("expected stock 1 after failed checkout, got %d", stock)
	}
}

func TestCheckoutPartialGroupFailureKeepsCommittedOrders(t *testing.T) {
	svc, db := setupOrderServiceTest(t)
	createTestFarmer(t, db, 1, "Green Acres")
	createTestFarmer(t, db, 2, "Hilltop")
	createTestProduct(t, db, 10, 1, 5, 10)
	createTestProduct(t, db, 11, 2, 10, 1)

	orders, err := svc.Checkout(100, CheckoutInput{
		Items: []CheckoutItemInput{
			{ProductID: 10, Quantity: 2},
			{ProductID: 11, Quantity: 3},
		},
	})
	if !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("expected insufficient stock, got: %v", err)
	}
	if len(orders) != 1 || orders[0].FarmID != 1 {
		t.Fatalf("expected the first farm order to survive, got %+v", orders)
	}
	var stock int
	if err := db.Model(&models.Product{}).Where("id = ?", 11).Select("stock").Scan(&stock).Error; err != nil {
		t.Fatalf("read stock failed: %v", err)
	}
	if stock != 1 {
		t.Fatalf("expected untouched stock for failed group, got %d", stock)
	}
}

func TestCheckoutFromCartClearsCart(t *testing.T) {
	svc, db := setupOrderServiceTest(t)
	createTestFarmer(t, db, 1, "Green Acres")
	createTestProduct(t, db, 10, 1, 5, 10)
	if err := db.Create(&models.CartItem{UserID: 100, ProductID: 10, Quantity: 2}).Error; err != nil {
		t.Fatalf("seed cart failed: %v", err)
	}

	orders, err := svc.Checkout(100, CheckoutInput{})
	if err != nil {
		t.Fatalf("checkout error: %v", err)
	}
	if len(orders) != 1 {
		t.Fatalf("expected 1 order, got %d", len(orders))
	}

	var count int64
	if err := db.Model(&models.CartItem{}).Where("user_id = ?", 100).Count(&count).Error; err != nil {
		t.Fatalf("count cart failed: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected empty cart after checkout, got %d items", count)
	}
}

func TestGetOrderByOrderNo(t *testing.T) {
	svc, db := setupOrderServiceTest(t)
	createTestFarmer(t, db, 1, "Green Acres")
	createTestProduct(t, db, 10, 1, 5, 10)

	orders, err := svc.Checkout(100, CheckoutInput{Items: []CheckoutItemInput{{ProductID: 10, Quantity: 1}}})
	if err != nil {
		t.Fatalf("checkout error: %v", err)
	}

	found, err := svc.GetByOrderNo(orders[0].OrderNo)
	if err != nil {
		t.Fatalf("get by order no error: %v", err)
	}
	if found.ID != orders[0].ID {
		t.Fatalf("expected order %d, got %d", orders[0].ID, found.ID)
	}

	if _, err := svc.GetByOrderNo("FL00000000000000"); !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("expected not found, got: %v", err)
	}
}

func TestCartReAddAfterCheckout(t *testing.T) {
	svc, db := setupOrderServiceTest(t)
	createTestFarmer(t, db, 1, "Green Acres")
	createTestProduct(t, db, 10, 1, 5, 10)
	cartSvc := NewCartService(repository.NewCartRepository(db), repository.NewProductRepository(db))

	if err := cartSvc.Upsert(100, UpsertCartInput{ProductID: 10, Quantity: 2}); err != nil {
		t.Fatalf("upsert error: %v", err)
	}
	if _, err := svc.Checkout(100, CheckoutInput{}); err != nil {
		t.Fatalf("checkout error: %v", err)
	}
	if err := cartSvc.Upsert(100, UpsertCartInput{ProductID: 10, Quantity: 1}); err != nil {
		t.Fatalf("re-add after checkout error: %v", err)
	}

	items, err := cartSvc.List(100)
	if err != nil {
		t.Fatalf("list error: %v", err)
	}
	if len(items) != 1 || items[0].Quantity != 1 {
		t.Fatalf("expected one fresh cart line, got %+v", items)
	}
}

func TestCheckoutEmpty(t *testing.T) {
	svc, _ := setupOrderServiceTest(t)
	if _, err := svc.Checkout(100, CheckoutInput{}); !errors.Is(err, ErrEmptyCheckout) {
		t.Fatalf("expected empty checkout error, got: %v", err)
	}
}

func TestOrderStatusTransitions(t *testing.T) {
	svc, db := setupOrderServiceTest(t)
	createTestFarmer(t, db, 1, "Green Acres")
	createTestProduct(t, db, 10, 1, 5, 10)
	orders, err := svc.Checkout(100, CheckoutInput{
		Items: []CheckoutItemInput{{ProductID: 10, Quantity: 1}},
	})
	if err != nil {
		t.Fatalf("checkout error: %v", err)
	}
	orderID := orders[0].ID

	shipped := constants.OrderStatusShipped
	if _, err := svc.Update(orderID, UpdateOrderInput{Status: &shipped}); !errors.Is(err, ErrInvalidStatusChange) {
		t.Fatalf("expected invalid transition pending->shipped, got: %v", err)
	}

	confirmed := constants.OrderStatusConfirmed
	if _, err := svc.Update(orderID, UpdateOrderInput{Status: &confirmed}); err != nil {
		t.Fatalf("pending->confirmed error: %v", err)
	}
	if _, err := svc.Update(orderID, UpdateOrderInput{Status: &shipped}); err != nil {
		t.Fatalf("confirmed->shipped error: %v", err)
	}

	cancelled := constants.OrderStatusCancelled
	if _, err := svc.Update(orderID, UpdateOrderInput{Status: &cancelled}); !errors.Is(err, ErrInvalidStatusChange) {
		t.Fatalf("expected shipped->cancelled to be rejected, got: %v", err)
	}

	delivered := constants.OrderStatusDelivered
	if _, err := svc.Update(orderID, UpdateOrderInput{Status: &delivered}); err != nil {
		t.Fatalf("shipped->delivered error: %v", err)
	}
}

func TestCancelRestoresStock(t *testing.T) {
	svc, db := setupOrderServiceTest(t)
	createTestFarmer(t, db, 1, "Green Acres")
	createTestProduct(t, db, 10, 1, 5, 10)
	orders, err := svc.Checkout(100, CheckoutInput{
		Items: []CheckoutItemInput{{ProductID: 10, Quantity: 3}},
	})
	if err != nil {
		t.Fatalf("checkout error: %v", err)
	}

	cancelled := constants.OrderStatusCancelled
	if _, err := svc.Update(orders[0].ID, UpdateOrderInput{Status: &cancelled}); err != nil {
		t.Fatalf("cancel error: %v", err)
	}

	var stock int
	if err := db.Model(&models.Product{}).Where("id = ?", 10).Select("stock").Scan(&stock).Error; err != nil {
		t.Fatalf("read stock failed: %v", err)
	}
	if stock != 10 {
		t.Fatalf("expected stock restored to 10, got %d", stock)
	}
}

func TestUpdateAddressOnlyBeforeShipment(t *testing.T) {
	svc, db := setupOrderServiceTest(t)
	createTestFarmer(t, db, 1, "Green Acres")
	createTestProduct(t, db, 10, 1, 5, 10)
	orders, err := svc.Checkout(100, CheckoutInput{
		Items: []CheckoutItemInput{{ProductID: 10, Quantity: 1}},
	})
	if err != nil {
		t.Fatalf("checkout error: %v", err)
	}
	orderID := orders[0].ID

	addr := models.ShippingAddress{Street: "12 Oak St", City: "Santa Rosa", State: "CA", Zip: "95401"}
	if _, err := svc.Update(orderID, UpdateOrderInput{ShippingAddress: &addr}); err != nil {
		t.Fatalf("address update while pending error: %v", err)
	}

	confirmed := constants.OrderStatusConfirmed
	shipped := constants.OrderStatusShipped
	if _, err := svc.Update(orderID, UpdateOrderInput{Status: &confirmed}); err != nil {
		t.Fatalf("confirm error: %v", err)
	}
	if _, err := svc.Update(orderID, UpdateOrderInput{Status: &shipped}); err != nil {
		t.Fatalf("ship error: %v", err)
	}
	if _, err := svc.Update(orderID, UpdateOrderInput{ShippingAddress: &addr}); !errors.Is(err, ErrOrderNotMutable) {
		t.Fatalf("expected address change after shipment to be rejected, got: %v", err)
	}
}

func TestDeleteOrderTwice(t *testing.T) {
	svc, db := setupOrderServiceTest(t)
	createTestFarmer(t, db, 1, "Green Acres")
	createTestProduct(t, db, 10, 1, 5, 10)
	orders, err := svc.Checkout(100, CheckoutInput{
		Items: []CheckoutItemInput{{ProductID: 10, Quantity: 1}},
	})
	if err != nil {
		t.Fatalf("checkout error: %v", err)
	}

	if err := svc.Delete(orders[0].ID); err != nil {
		t.Fatalf("first delete error: %v", err)
	}
	if err := svc.Delete(orders[0].ID); !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("expected not found on second delete, got: %v", err)
	}
}
