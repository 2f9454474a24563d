package public

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/malcolmm20/farmlink/internal/constants"
	"github.com/malcolmm20/farmlink/internal/models"
	"github.com/malcolmm20/farmlink/internal/provider"
	"github.com/malcolmm20/farmlink/internal/queue"
	"github.com/malcolmm20/farmlink/internal/repository"
	"github.com/malcolmm20/farmlink/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupOrderHandlerTest(t *testing.T) (*Handler, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	dsn := fmt.Sprintf("file:order_handler_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
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
	queueClient, err := queue.NewClient(nil)
	if err != nil {
		t.Fatalf("queue client failed: %v", err)
	}
	orderService := service.NewOrderService(
		repository.NewOrderRepository(db),
		repository.NewProductRepository(db),
		repository.NewCartRepository(db),
		queueClient,
	)
	return New(&provider.Container{OrderService: orderService}), db
}

func seedHandlerFarmer(t *testing.T, db *gorm.DB, id uint, farmName string) {
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
		t.Fatalf("seed farmer failed: %v", err)
	}
}

func seedHandlerProduct(t *testing.T, db *gorm.DB, id, farmID uint, stock int) {
	t.Helper()
	product := models.Product{
		ID:        id,
		Name:      fmt.Sprintf("Product %d", id),
		FarmID:    farmID,
		Price:     models.NewMoneyFromFloat(5),
		Unit:      "kg",
		Stock:     stock,
		Available: stock > 0,
	}
	if err := db.Create(&product).Error; err != nil {
		t.Fatalf("seed product failed: %v", err)
	}
}

func postCheckout(t *testing.T, h *Handler, userID uint, body string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req := httptest.NewRequest(http.MethodPost, "/api/checkout", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Set("user_id", userID)
	h.Checkout(c)
	return w
}

func TestCheckoutPartialFailureReportsCommittedOrders(t *testing.T) {
	h, db := setupOrderHandlerTest(t)
	seedHandlerFarmer(t, db, 1, "Green Acres")
	seedHandlerFarmer(t, db, 2, "Hilltop Dairy")
	seedHandlerProduct(t, db, 10, 1, 10)
	seedHandlerProduct(t, db, 11, 2, 1)

	w := postCheckout(t, h, 100, `{"items":[{"productId":10,"quantity":2},{"productId":11,"quantity":3}]}`)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
	var payload struct {
		Message string `json:"message"`
		Orders  []struct {
			ID     uint `json:"id"`
			FarmID uint `json:"farmId"`
		} `json:"orders"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response failed: %v", err)
	}
	if payload.Message != "insufficient stock" {
		t.Fatalf("expected insufficient stock message, got %q", payload.Message)
	}
	if len(payload.Orders) != 1 || payload.Orders[0].FarmID != 1 {
		t.Fatalf("expected the committed first-farm order in the body, got %+v", payload.Orders)
	}
}

func TestCheckoutFullFailureHasNoOrders(t *testing.T) {
	h, db := setupOrderHandlerTest(t)
	seedHandlerFarmer(t, db, 1, "Green Acres")
	seedHandlerProduct(t, db, 10, 1, 1)

	w := postCheckout(t, h, 100, `{"items":[{"productId":10,"quantity":5}]}`)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
	if strings.Contains(w.Body.String(), `"orders"`) {
		t.Fatalf("expected plain error body, got %s", w.Body.String())
	}
}
