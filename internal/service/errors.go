package service

import "errors"

// Sentinel errors returned by services and mapped to HTTP responses in
// the handlers.
var (
	ErrUserNotFound      = errors.New("user not found")
	ErrUsernameTaken     = errors.New("username already taken")
	ErrInvalidCredential = errors.New("invalid username or password")
	ErrLoginRateLimited  = errors.New("too many login attempts")
	ErrNotFarmer         = errors.New("account is not a farmer")

	ErrProductNotFound = errors.New("product not found")
	ErrFarmNotFound    = errors.New("farm not found")

	ErrOrderNotFound       = errors.New("order not found")
	ErrOrderNotMutable     = errors.New("order cannot be modified")
	ErrInvalidStatusChange = errors.New("invalid order status transition")
	ErrInsufficientStock   = errors.New("insufficient stock")
	ErrEmptyCheckout       = errors.New("no items to check out")
	ErrInvalidCheckoutItem = errors.New("invalid checkout item")

	ErrReviewNotFound   = errors.New("review not found")
	ErrCartItemNotFound = errors.New("cart item not found")

	ErrPermissionDenied = errors.New("permission denied")
	ErrValidation       = errors.New("validation failed")
)
