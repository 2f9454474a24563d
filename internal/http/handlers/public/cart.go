package public

import (
	"github.com/malcolmm20/farmlink/internal/http/handlers/shared"
	"github.com/malcolmm20/farmlink/internal/http/response"
	"github.com/malcolmm20/farmlink/internal/service"

	"github.com/gin-gonic/gin"
)

// GetCart returns the caller's cart with product details.
func (h *Handler) GetCart(c *gin.Context) {
	uid, ok := shared.CurrentUserID(c)
	if !ok {
		return
	}
	items, err := h.CartService.List(uid)
	if err != nil {
		respondWithMappedError(c, err, commonErrorRules)
		return
	}
	response.OK(c, items)
}

// UpsertCartItem sets the quantity for one product in the cart.
// Quantity 0 removes the line.
func (h *Handler) UpsertCartItem(c *gin.Context) {
	uid, ok := shared.CurrentUserID(c)
	if !ok {
		return
	}
	var input service.UpsertCartInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, "invalid cart payload")
		return
	}
	if err := h.CartService.Upsert(uid, input); err != nil {
		respondWithMappedError(c, err, commonErrorRules)
		return
	}
	response.Message(c, "cart updated")
}

// RemoveCartItem deletes one product from the cart.
func (h *Handler) RemoveCartItem(c *gin.Context) {
	uid, ok := shared.CurrentUserID(c)
	if !ok {
		return
	}
	productID, ok := shared.ParamUint(c, "productId")
	if !ok {
		return
	}
	if err := h.CartService.Remove(uid, productID); err != nil {
		respondWithMappedError(c, err, commonErrorRules)
		return
	}
	response.Message(c, "cart item removed")
}

// ClearCart empties the cart.
func (h *Handler) ClearCart(c *gin.Context) {
	uid, ok := shared.CurrentUserID(c)
	if !ok {
		return
	}
	if err := h.CartService.Clear(uid); err != nil {
		respondWithMappedError(c, err, commonErrorRules)
		return
	}
	response.Message(c, "cart cleared")
}
