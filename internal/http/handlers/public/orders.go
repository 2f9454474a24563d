package public

import (
	"github.com/malcolmm20/farmlink/internal/constants"
	"github.com/malcolmm20/farmlink/internal/http/handlers/shared"
	"github.com/malcolmm20/farmlink/internal/http/response"
	"github.com/malcolmm20/farmlink/internal/repository"
	"github.com/malcolmm20/farmlink/internal/service"

	"github.com/gin-gonic/gin"
)

// Checkout splits the caller's items by farm and creates one order per
// farm. Orders committed before a failing group stay committed and are
// reported alongside the error.
func (h *Handler) Checkout(c *gin.Context) {
	uid, ok := shared.CurrentUserID(c)
	if !ok {
		return
	}
	var input service.CheckoutInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, "invalid checkout payload")
		return
	}

	orders, err := h.OrderService.Checkout(uid, input)
	if err != nil {
		if len(orders) > 0 {
			// Some farm groups committed before the failure. Report
			// them so the client knows what was actually ordered.
			status, msg := mapHandlerError(err, commonErrorRules)
			c.JSON(status, gin.H{"message": msg, "orders": orders})
			return
		}
		respondWithMappedError(c, err, commonErrorRules)
		return
	}
	response.Created(c, gin.H{"orders": orders})
}

// ListOrders returns orders. Customers see their own purchases,
// farmers the orders addressed to their farm.
func (h *Handler) ListOrders(c *gin.Context) {
	uid, ok := shared.CurrentUserID(c)
	if !ok {
		return
	}
	filter := repository.OrderListFilter{Status: c.Query("status")}
	switch role := shared.CurrentUserRole(c); {
	case role == constants.RoleAdmin:
		filter.UserID = shared.QueryUint(c, "userId")
		filter.FarmID = shared.QueryUint(c, "farmId")
	case role == constants.RoleFarmer && c.Query("scope") == "farm":
		filter.FarmID = uid
	default:
		filter.UserID = uid
	}

	orders, _, err := h.OrderService.List(filter)
	if err != nil {
		respondWithMappedError(c, err, commonErrorRules)
		return
	}
	response.OK(c, orders)
}

// GetOrder returns one order. Buyer, selling farmer or admin only.
func (h *Handler) GetOrder(c *gin.Context) {
	id, ok := shared.ParamUint(c, "id")
	if !ok {
		return
	}
	order, err := h.OrderService.Get(id)
	if err != nil {
		respondWithMappedError(c, err, commonErrorRules)
		return
	}
	if !h.canViewOrder(c, order.UserID, order.FarmID) {
		return
	}
	response.OK(c, order)
}

// UpdateOrder patches an order's status or shipping address. Status
// moves follow the transition table; only the selling farmer or an
// admin may change status.
func (h *Handler) UpdateOrder(c *gin.Context) {
	id, ok := shared.ParamUint(c, "id")
	if !ok {
		return
	}
	var input service.UpdateOrderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, "invalid order payload")
		return
	}

	if shared.CurrentUserRole(c) == constants.RoleFarmer {
		uid, ok := shared.CurrentUserID(c)
		if !ok {
			return
		}
		order, err := h.OrderService.Get(id)
		if err != nil {
			respondWithMappedError(c, err, commonErrorRules)
			return
		}
		if order.FarmID != uid {
			response.Forbidden(c, "permission denied")
			return
		}
	}

	order, err := h.OrderService.Update(id, input)
	if err != nil {
		respondWithMappedError(c, err, commonErrorRules)
		return
	}
	response.OK(c, order)
}

func (h *Handler) canViewOrder(c *gin.Context, buyerID, farmID uint) bool {
	role := shared.CurrentUserRole(c)
	if role == constants.RoleAdmin {
		return true
	}
	uid, ok := shared.CurrentUserID(c)
	if !ok {
		return false
	}
	if uid == buyerID {
		return true
	}
	if role == constants.RoleFarmer && uid == farmID {
		return true
	}
	response.Forbidden(c, "permission denied")
	return false
}
