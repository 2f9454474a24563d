package public

import (
	"github.com/malcolmm20/farmlink/internal/http/handlers/shared"
	"github.com/malcolmm20/farmlink/internal/http/response"

	"github.com/gin-gonic/gin"
)

// ListFarms returns every farmer account.
func (h *Handler) ListFarms(c *gin.Context) {
	farms, err := h.UserService.ListFarms()
	if err != nil {
		respondWithMappedError(c, err, commonErrorRules)
		return
	}
	response.OK(c, farms)
}

// GetFarm returns one farm profile.
func (h *Handler) GetFarm(c *gin.Context) {
	id, ok := shared.ParamUint(c, "farmId")
	if !ok {
		return
	}
	farm, err := h.UserService.GetFarm(id)
	if err != nil {
		respondWithMappedError(c, err, commonErrorRules)
		return
	}
	response.OK(c, farm)
}

// ListFarmProducts returns one farm's products.
func (h *Handler) ListFarmProducts(c *gin.Context) {
	id, ok := shared.ParamUint(c, "farmId")
	if !ok {
		return
	}
	products, err := h.ProductService.ListByFarm(id)
	if err != nil {
		respondWithMappedError(c, err, commonErrorRules)
		return
	}
	response.OK(c, products)
}
