package public

import (
	"github.com/malcolmm20/farmlink/internal/constants"
	"github.com/malcolmm20/farmlink/internal/http/handlers/shared"
	"github.com/malcolmm20/farmlink/internal/http/response"
	"github.com/malcolmm20/farmlink/internal/repository"
	"github.com/malcolmm20/farmlink/internal/service"

	"github.com/gin-gonic/gin"
)

// ListProducts returns the catalog, filterable by search, category,
// farmId and available. Unpaginated unless pageSize is given.
func (h *Handler) ListProducts(c *gin.Context) {
	page, pageSize := shared.NormalizePagination(shared.QueryInt(c, "page", 1), shared.QueryInt(c, "pageSize", 0))
	filter := repository.ProductListFilter{
		Page:          page,
		PageSize:      pageSize,
		Search:        c.Query("search"),
		Category:      c.Query("category"),
		FarmID:        shared.QueryUint(c, "farmId"),
		OnlyAvailable: c.Query("available") == "true",
	}

	products, total, err := h.ProductService.List(filter)
	if err != nil {
		respondWithMappedError(c, err, commonErrorRules)
		return
	}
	if pageSize > 0 {
		response.OKWithPage(c, products, response.Pagination{
			Page:      page,
			PageSize:  pageSize,
			Total:     total,
			TotalPage: (total + int64(pageSize) - 1) / int64(pageSize),
		})
		return
	}
	response.OK(c, products)
}

// GetProduct returns one product.
func (h *Handler) GetProduct(c *gin.Context) {
	id, ok := shared.ParamUint(c, "id")
	if !ok {
		return
	}
	product, err := h.ProductService.Get(id)
	if err != nil {
		respondWithMappedError(c, err, commonErrorRules)
		return
	}
	response.OK(c, product)
}

// CreateProduct adds a listing. Farmers always list under their own
// farm; admins may set any farm.
func (h *Handler) CreateProduct(c *gin.Context) {
	uid, ok := shared.CurrentUserID(c)
	if !ok {
		return
	}
	var input service.CreateProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, "invalid product payload")
		return
	}
	if shared.CurrentUserRole(c) == constants.RoleFarmer {
		input.FarmID = uid
	}

	product, err := h.ProductService.Create(input)
	if err != nil {
		respondWithMappedError(c, err, commonErrorRules)
		return
	}
	response.Created(c, product)
}

// UpdateProduct patches a listing. Farmers may only touch their own.
func (h *Handler) UpdateProduct(c *gin.Context) {
	id, ok := shared.ParamUint(c, "id")
	if !ok {
		return
	}
	if !h.canManageProduct(c, id) {
		return
	}
	var input service.UpdateProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, "invalid product payload")
		return
	}

	product, err := h.ProductService.Update(id, input)
	if err != nil {
		respondWithMappedError(c, err, commonErrorRules)
		return
	}
	response.OK(c, product)
}

// DeleteProduct removes a listing. A repeat delete reports not found.
func (h *Handler) DeleteProduct(c *gin.Context) {
	id, ok := shared.ParamUint(c, "id")
	if !ok {
		return
	}
	if !h.canManageProduct(c, id) {
		return
	}
	if err := h.ProductService.Delete(id); err != nil {
		respondWithMappedError(c, err, commonErrorRules)
		return
	}
	response.Message(c, "product deleted")
}

// canManageProduct enforces farmer ownership. Missing products fall
// through so the service reports not found.
func (h *Handler) canManageProduct(c *gin.Context, productID uint) bool {
	if shared.CurrentUserRole(c) != constants.RoleFarmer {
		return true
	}
	uid, ok := shared.CurrentUserID(c)
	if !ok {
		return false
	}
	product, err := h.ProductService.Get(productID)
	if err != nil {
		return true
	}
	if product.FarmID != uid {
		response.Forbidden(c, "permission denied")
		return false
	}
	return true
}
