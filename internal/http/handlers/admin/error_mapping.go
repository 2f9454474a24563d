package admin

import (
	"errors"
	"net/http"

	"github.com/malcolmm20/farmlink/internal/http/handlers/shared"
	"github.com/malcolmm20/farmlink/internal/service"

	"github.com/gin-gonic/gin"
)

type mappedHandlerError struct {
	target error
	status int
	msg    string
}

func respondWithMappedError(c *gin.Context, err error, rules []mappedHandlerError) {
	for _, rule := range rules {
		if errors.Is(err, rule.target) {
			shared.RespondError(c, rule.status, rule.msg, nil)
			return
		}
	}
	shared.RespondError(c, http.StatusInternalServerError, "internal server error", err)
}

var adminErrorRules = []mappedHandlerError{
	{target: service.ErrUserNotFound, status: http.StatusNotFound, msg: "user not found"},
	{target: service.ErrOrderNotFound, status: http.StatusNotFound, msg: "order not found"},
	{target: service.ErrUsernameTaken, status: http.StatusBadRequest, msg: "username already taken"},
	{target: service.ErrNotFarmer, status: http.StatusBadRequest, msg: "account is not a farmer"},
	{target: service.ErrValidation, status: http.StatusBadRequest, msg: "validation failed"},
	{target: service.ErrInvalidStatusChange, status: http.StatusBadRequest, msg: "invalid order status transition"},
	{target: service.ErrOrderNotMutable, status: http.StatusBadRequest, msg: "order cannot be modified"},
}
