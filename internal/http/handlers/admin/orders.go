package admin

import (
	"strings"

	"github.com/malcolmm20/farmlink/internal/http/handlers/shared"
	"github.com/malcolmm20/farmlink/internal/http/response"
	"github.com/malcolmm20/farmlink/internal/models"
	"github.com/malcolmm20/farmlink/internal/repository"

	"github.com/gin-gonic/gin"
)

// ListAllOrders returns every order, filterable by user, farm and
// status. An orderNo query short-circuits to an exact lookup.
func (h *Handler) ListAllOrders(c *gin.Context) {
	if orderNo := strings.TrimSpace(c.Query("orderNo")); orderNo != "" {
		order, err := h.OrderService.GetByOrderNo(orderNo)
		if err != nil {
			respondWithMappedError(c, err, adminErrorRules)
			return
		}
		response.OK(c, []models.Order{*order})
		return
	}

	page, pageSize := shared.NormalizePagination(shared.QueryInt(c, "page", 1), shared.QueryInt(c, "pageSize", 0))
	filter := repository.OrderListFilter{
		Page:     page,
		PageSize: pageSize,
		UserID:   shared.QueryUint(c, "userId"),
		FarmID:   shared.QueryUint(c, "farmId"),
		Status:   c.Query("status"),
	}

	orders, total, err := h.OrderService.List(filter)
	if err != nil {
		respondWithMappedError(c, err, adminErrorRules)
		return
	}
	if pageSize > 0 {
		response.OKWithPage(c, orders, response.Pagination{
			Page:      page,
			PageSize:  pageSize,
			Total:     total,
			TotalPage: (total + int64(pageSize) - 1) / int64(pageSize),
		})
		return
	}
	response.OK(c, orders)
}

// DeleteOrder removes an order. A repeat delete reports not found.
func (h *Handler) DeleteOrder(c *gin.Context) {
	id, ok := shared.ParamUint(c, "id")
	if !ok {
		return
	}
	if err := h.OrderService.Delete(id); err != nil {
		respondWithMappedError(c, err, adminErrorRules)
		return
	}
	response.Message(c, "order deleted")
}
