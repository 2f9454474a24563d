package service

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"sort"
	"strings"
	"time"

	"github.com/malcolmm20/farmlink/internal/constants"
	"github.com/malcolmm20/farmlink/internal/logger"
	"github.com/malcolmm20/farmlink/internal/models"
	"github.com/malcolmm20/farmlink/internal/queue"
	"github.com/malcolmm20/farmlink/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OrderService manages checkout and the order lifecycle.
type OrderService struct {
	orderRepo   repository.OrderRepository
	productRepo repository.ProductRepository
	cartRepo    repository.CartRepository
	queueClient *queue.Client
}

// NewOrderService creates the order service.
func NewOrderService(
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
	cartRepo repository.CartRepository,
	queueClient *queue.Client,
) *OrderService {
	return &OrderService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		cartRepo:    cartRepo,
		queueClient: queueClient,
	}
}

// allowedTransitions is the order status state machine. Cancellation is
// only possible before shipment.
var allowedTransitions = map[string][]string{
	constants.OrderStatusPending:   {constants.OrderStatusConfirmed, constants.OrderStatusCancelled},
	constants.OrderStatusConfirmed: {constants.OrderStatusShipped, constants.OrderStatusCancelled},
	constants.OrderStatusShipped:   {constants.OrderStatusDelivered},
	constants.OrderStatusDelivered: {},
	constants.OrderStatusCancelled: {},
}

func canTransition(from, to string) bool {
	for _, next := range allowedTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// CheckoutItemInput is one explicit checkout line.
type CheckoutItemInput struct {
	ProductID uint `json:"productId" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required,gt=0"`
}

// CheckoutInput is the checkout payload. When Items is empty the
// caller's server-side cart is used.
type CheckoutInput struct {
	Items           []CheckoutItemInput    `json:"items"`
	ShippingAddress models.ShippingAddress `json:"shippingAddress"`
}

// checkoutLine is a resolved line item bound to its product.
type checkoutLine struct {
	product  models.Product
	quantity int
}

// Checkout splits the line items by farm and creates one order per
// farm. Each farm group runs in its own transaction covering the stock
// decrement and the order insert; a failing group stops the checkout
// without rolling back groups already committed. The cart is cleared
// only when every group succeeds and the items came from the cart.
func (s *OrderService) Checkout(userID uint, input CheckoutInput) ([]models.Order, error) {
	lines, fromCart, err := s.resolveLines(userID, input.Items)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, ErrEmptyCheckout
	}

	groups := map[uint][]checkoutLine{}
	for _, line := range lines {
		farmID := line.product.FarmID
		if farmID == 0 {
			farmID = constants.UnassignedFarmID
		}
		groups[farmID] = append(groups[farmID], line)
	}

	farmIDs := make([]uint, 0, len(groups))
	for farmID := range groups {
		farmIDs = append(farmIDs, farmID)
	}
	sort.Slice(farmIDs, func(i, j int) bool { return farmIDs[i] < farmIDs[j] })

	created := make([]models.Order, 0, len(farmIDs))
	for _, farmID := range farmIDs {
		order, err := s.createFarmOrder(userID, farmID, groups[farmID], input.ShippingAddress)
		if err != nil {
			logger.Warnw("checkout_group_failed",
				"user_id", userID,
				"farm_id", farmID,
				"orders_created", len(created),
				"error", err,
			)
			return created, err
		}
		created = append(created, *order)
	}

	if fromCart {
		if err := s.cartRepo.ClearByUser(userID); err != nil {
			logger.Warnw("checkout_cart_clear_failed", "user_id", userID, "error", err)
		}
	}
	logger.Infow("checkout_completed", "user_id", userID, "orders", len(created))
	return created, nil
}

// resolveLines loads products for explicit items, or the cart when no
// items were given. The bool reports cart usage.
func (s *OrderService) resolveLines(userID uint, items []CheckoutItemInput) ([]checkoutLine, bool, error) {
	if len(items) == 0 {
		cartItems, err := s.cartRepo.ListByUser(userID)
		if err != nil {
			return nil, false, err
		}
		items = make([]CheckoutItemInput, 0, len(cartItems))
		for _, ci := range cartItems {
			items = append(items, CheckoutItemInput{ProductID: ci.ProductID, Quantity: ci.Quantity})
		}
		lines, err := s.loadLines(items)
		return lines, true, err
	}
	lines, err := s.loadLines(items)
	return lines, false, err
}

func (s *OrderService) loadLines(items []CheckoutItemInput) ([]checkoutLine, error) {
	ids := make([]uint, 0, len(items))
	for _, item := range items {
		if item.ProductID == 0 || item.Quantity <= 0 {
			return nil, ErrInvalidCheckoutItem
		}
		ids = append(ids, item.ProductID)
	}
	products, err := s.productRepo.ListByIDs(ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uint]models.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}
	lines := make([]checkoutLine, 0, len(items))
	for _, item := range items {
		product, ok := byID[item.ProductID]
		if !ok {
			return nil, ErrProductNotFound
		}
		lines = append(lines, checkoutLine{product: product, quantity: item.Quantity})
	}
	return lines, nil
}

// createFarmOrder commits a single farm group: stock decrements plus
// the order insert, all or nothing.
func (s *OrderService) createFarmOrder(userID, farmID uint, lines []checkoutLine, addr models.ShippingAddress) (*models.Order, error) {
	order := &models.Order{
		OrderNo:         generateOrderNo(),
		UserID:          userID,
		FarmID:          farmID,
		Status:          constants.OrderStatusPending,
		ShippingAddress: addr,
	}

	total := decimal.Zero
	for _, line := range lines {
		lineTotal := line.product.Price.Decimal.Mul(decimal.NewFromInt(int64(line.quantity)))
		total = total.Add(lineTotal)
		order.Items = append(order.Items, models.OrderItem{
			ProductID:   line.product.ID,
			Name:        line.product.Name,
			Description: line.product.Description,
			Image:       line.product.Image,
			Category:    line.product.Category,
			FarmID:      line.product.FarmID,
			Unit:        line.product.Unit,
			UnitPrice:   line.product.Price,
			Quantity:    line.quantity,
			TotalPrice:  models.NewMoneyFromDecimal(lineTotal),
		})
	}
	order.TotalAmount = models.NewMoneyFromDecimal(total)

	err := s.productRepo.Transaction(func(tx *gorm.DB) error {
		txProducts := s.productRepo.WithTx(tx)
		for _, line := range lines {
			affected, err := txProducts.DecrementStock(line.product.ID, line.quantity)
			if err != nil {
				return err
			}
			if affected == 0 {
				return ErrInsufficientStock
			}
		}
		return s.orderRepo.WithTx(tx).Create(order)
	})
	if err != nil {
		return nil, err
	}

	if qErr := s.queueClient.EnqueueOrderPlaced(queue.OrderPlacedPayload{OrderID: order.ID, FarmID: farmID}); qErr != nil {
		logger.Warnw("order_placed_enqueue_failed", "order_id", order.ID, "error", qErr)
	}
	logger.Infow("order_created",
		"order_id", order.ID,
		"order_no", order.OrderNo,
		"farm_id", farmID,
		"total", order.TotalAmount.String(),
	)
	return order, nil
}

// UpdateOrderInput is a partial patch on an order. Items are immutable.
type UpdateOrderInput struct {
	Status          *string                 `json:"status"`
	ShippingAddress *models.ShippingAddress `json:"shippingAddress"`
}

// List returns orders matching the filter.
func (s *OrderService) List(filter repository.OrderListFilter) ([]models.Order, int64, error) {
	return s.orderRepo.List(filter)
}

// Get fetches one order with its items.
func (s *OrderService) Get(id uint) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// Update patches an order. Status changes follow the transition table;
// the shipping address may only change before shipment.
func (s *OrderService) Update(id uint, input UpdateOrderInput) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}

	if input.ShippingAddress != nil {
		if order.Status != constants.OrderStatusPending && order.Status != constants.OrderStatusConfirmed {
			return nil, ErrOrderNotMutable
		}
		order.ShippingAddress = *input.ShippingAddress
	}
	if input.Status != nil {
		target := strings.TrimSpace(*input.Status)
		if target != order.Status {
			if !canTransition(order.Status, target) {
				return nil, ErrInvalidStatusChange
			}
			if target == constants.OrderStatusCancelled {
				s.restoreStockForOrder(order)
			}
			order.Status = target
		}
	}

	if input.Status != nil && input.ShippingAddress == nil {
		// Status-only changes go through the narrow column update so a
		// concurrent delete is not resurrected by a full row save.
		affected, err := s.orderRepo.UpdateStatus(order.ID, order.Status)
		if err != nil {
			return nil, err
		}
		if affected == 0 {
			return nil, ErrOrderNotFound
		}
	} else if err := s.orderRepo.Update(order); err != nil {
		return nil, err
	}

	if input.Status != nil {
		if qErr := s.queueClient.EnqueueOrderStatusChanged(queue.OrderStatusChangedPayload{OrderID: order.ID, Status: order.Status}); qErr != nil {
			logger.Warnw("order_status_enqueue_failed", "order_id", order.ID, "error", qErr)
		}
	}
	return order, nil
}

// GetByOrderNo fetches one order by its public order number.
func (s *OrderService) GetByOrderNo(orderNo string) (*models.Order, error) {
	order, err := s.orderRepo.GetByOrderNo(orderNo)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// restoreStockForOrder returns reserved stock when an order is cancelled.
func (s *OrderService) restoreStockForOrder(order *models.Order) {
	for _, item := range order.Items {
		if _, err := s.productRepo.RestoreStock(item.ProductID, item.Quantity); err != nil {
			logger.Warnw("stock_restore_failed",
				"order_id", order.ID,
				"product_id", item.ProductID,
				"error", err,
			)
		}
	}
}

// Delete removes an order. A second delete reports not found.
func (s *OrderService) Delete(id uint) error {
	affected, err := s.orderRepo.Delete(id)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrOrderNotFound
	}
	logger.Infow("order_deleted", "order_id", id)
	return nil
}

func generateOrderNo() string {
	now := time.Now().Format("20060102150405")
	return fmt.Sprintf("FL%s%s", now, randNumeric(6))
}

func randNumeric(length int) string {
	var b strings.Builder
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			b.WriteString("0")
			continue
		}
		b.WriteString(fmt.Sprintf("%d", n.Int64()))
	}
	return b.String()
}
