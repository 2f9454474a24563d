package public

import (
	"errors"
	"net/http"

	"github.com/malcolmm20/farmlink/internal/http/handlers/shared"
	"github.com/malcolmm20/farmlink/internal/models"
	"github.com/malcolmm20/farmlink/internal/service"

	"github.com/gin-gonic/gin"
)

// mappedHandlerError binds one service sentinel to an HTTP status.
type mappedHandlerError struct {
	target error
	status int
	msg    string
}

func respondWithMappedError(c *gin.Context, err error, rules []mappedHandlerError) {
	status, msg := mapHandlerError(err, rules)
	if status == http.StatusInternalServerError {
		shared.RespondError(c, status, msg, err)
		return
	}
	shared.RespondError(c, status, msg, nil)
}

// mapHandlerError resolves an error to its HTTP status and client
// message, defaulting to an internal server error.
func mapHandlerError(err error, rules []mappedHandlerError) (int, string) {
	for _, rule := range rules {
		if errors.Is(err, rule.target) {
			return rule.status, rule.msg
		}
	}
	return http.StatusInternalServerError, "internal server error"
}

var notFoundErrorRules = []mappedHandlerError{
	{target: service.ErrUserNotFound, status: http.StatusNotFound, msg: "user not found"},
	{target: service.ErrProductNotFound, status: http.StatusNotFound, msg: "product not found"},
	{target: service.ErrFarmNotFound, status: http.StatusNotFound, msg: "farm not found"},
	{target: service.ErrOrderNotFound, status: http.StatusNotFound, msg: "order not found"},
	{target: service.ErrReviewNotFound, status: http.StatusNotFound, msg: "review not found"},
	{target: service.ErrCartItemNotFound, status: http.StatusNotFound, msg: "cart item not found"},
}

var validationErrorRules = []mappedHandlerError{
	{target: service.ErrValidation, status: http.StatusBadRequest, msg: "validation failed"},
	{target: service.ErrUsernameTaken, status: http.StatusBadRequest, msg: "username already taken"},
	{target: service.ErrNotFarmer, status: http.StatusBadRequest, msg: "account is not a farmer"},
	{target: service.ErrInvalidStatusChange, status: http.StatusBadRequest, msg: "invalid order status transition"},
	{target: service.ErrOrderNotMutable, status: http.StatusBadRequest, msg: "order cannot be modified"},
	{target: service.ErrInsufficientStock, status: http.StatusBadRequest, msg: "insufficient stock"},
	{target: service.ErrEmptyCheckout, status: http.StatusBadRequest, msg: "no items to check out"},
	{target: service.ErrInvalidCheckoutItem, status: http.StatusBadRequest, msg: "invalid checkout item"},
	{target: models.ErrReviewTarget, status: http.StatusBadRequest, msg: "review must target exactly one of product or farm"},
	{target: models.ErrReviewRating, status: http.StatusBadRequest, msg: "rating must be between 1 and 5"},
	{target: service.ErrPermissionDenied, status: http.StatusForbidden, msg: "permission denied"},
}

func concatMappedHandlerErrors(groups ...[]mappedHandlerError) []mappedHandlerError {
	total := 0
	for _, group := range groups {
		total += len(group)
	}
	result := make([]mappedHandlerError, 0, total)
	for _, group := range groups {
		result = append(result, group...)
	}
	return result
}

// commonErrorRules covers the shared not-found and validation sets.
var commonErrorRules = concatMappedHandlerErrors(notFoundErrorRules, validationErrorRules)
