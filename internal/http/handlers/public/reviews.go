package public

import (
	"github.com/malcolmm20/farmlink/internal/http/handlers/shared"
	"github.com/malcolmm20/farmlink/internal/http/response"
	"github.com/malcolmm20/farmlink/internal/repository"
	"github.com/malcolmm20/farmlink/internal/service"

	"github.com/gin-gonic/gin"
)

// ListReviews returns reviews, filterable by userId, productId, farmId.
func (h *Handler) ListReviews(c *gin.Context) {
	filter := repository.ReviewListFilter{
		UserID:    shared.QueryUint(c, "userId"),
		ProductID: shared.QueryUint(c, "productId"),
		FarmID:    shared.QueryUint(c, "farmId"),
		WithUser:  true,
	}
	reviews, _, err := h.ReviewService.List(filter)
	if err != nil {
		respondWithMappedError(c, err, commonErrorRules)
		return
	}
	response.OK(c, reviews)
}

// GetReview returns one review.
func (h *Handler) GetReview(c *gin.Context) {
	id, ok := shared.ParamUint(c, "id")
	if !ok {
		return
	}
	review, err := h.ReviewService.Get(id)
	if err != nil {
		respondWithMappedError(c, err, commonErrorRules)
		return
	}
	response.OK(c, review)
}

// CreateReview writes a review targeting a product or a farm.
func (h *Handler) CreateReview(c *gin.Context) {
	uid, ok := shared.CurrentUserID(c)
	if !ok {
		return
	}
	var input service.CreateReviewInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, "invalid review payload")
		return
	}

	review, err := h.ReviewService.Create(uid, input)
	if err != nil {
		respondWithMappedError(c, err, commonErrorRules)
		return
	}
	response.Created(c, review)
}

// CreateFarmReview writes a farm review, target taken from the path.
func (h *Handler) CreateFarmReview(c *gin.Context) {
	uid, ok := shared.CurrentUserID(c)
	if !ok {
		return
	}
	farmID, ok := shared.ParamUint(c, "farmId")
	if !ok {
		return
	}
	var input service.CreateReviewInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, "invalid review payload")
		return
	}
	input.FarmID = farmID
	input.ProductID = 0

	review, err := h.ReviewService.Create(uid, input)
	if err != nil {
		respondWithMappedError(c, err, commonErrorRules)
		return
	}
	response.Created(c, review)
}

// UpdateReview patches a review's rating or comment. Author or admin only.
func (h *Handler) UpdateReview(c *gin.Context) {
	uid, ok := shared.CurrentUserID(c)
	if !ok {
		return
	}
	id, ok := shared.ParamUint(c, "id")
	if !ok {
		return
	}
	var input service.UpdateReviewInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, "invalid review payload")
		return
	}

	review, err := h.ReviewService.Update(id, uid, shared.CurrentUserRole(c), input)
	if err != nil {
		respondWithMappedError(c, err, commonErrorRules)
		return
	}
	response.OK(c, review)
}

// DeleteReview removes a review. Author or admin only.
func (h *Handler) DeleteReview(c *gin.Context) {
	uid, ok := shared.CurrentUserID(c)
	if !ok {
		return
	}
	id, ok := shared.ParamUint(c, "id")
	if !ok {
		return
	}
	if err := h.ReviewService.Delete(id, uid, shared.CurrentUserRole(c)); err != nil {
		respondWithMappedError(c, err, commonErrorRules)
		return
	}
	response.Message(c, "review deleted")
}

// GetProductReviews returns a product's reviews with the rating summary.
func (h *Handler) GetProductReviews(c *gin.Context) {
	productID, ok := shared.ParamUint(c, "id")
	if !ok {
		return
	}
	result, err := h.ReviewService.AggregateForProduct(c.Request.Context(), productID)
	if err != nil {
		respondWithMappedError(c, err, commonErrorRules)
		return
	}
	response.OK(c, result)
}

// GetFarmReviews returns a farm's reviews with the rating summary.
func (h *Handler) GetFarmReviews(c *gin.Context) {
	farmID, ok := shared.ParamUint(c, "farmId")
	if !ok {
		return
	}
	result, err := h.ReviewService.AggregateForFarm(c.Request.Context(), farmID)
	if err != nil {
		respondWithMappedError(c, err, commonErrorRules)
		return
	}
	response.OK(c, result)
}
