package constants

// User role constants
const (
	RoleCustomer = "customer"
	RoleFarmer   = "farmer"
	RoleAdmin    = "admin"
)

// Order status constants
const (
	OrderStatusPending   = "pending"
	OrderStatusConfirmed = "confirmed"
	OrderStatusShipped   = "shipped"
	OrderStatusDelivered = "delivered"
	OrderStatusCancelled = "cancelled"
)

// Review target type constants
const (
	ReviewTargetProduct = "product"
	ReviewTargetFarm    = "farm"
)

// UnassignedFarmID groups checkout line items whose product carries no farm
// reference. Such items still produce an order instead of being rejected.
const UnassignedFarmID = uint(0)

// Default product unit when the client omits one.
const DefaultProductUnit = "kg"

// Queue name constants
const (
	QueueDefault = "default"
)

// Async task type constants
const (
	TaskOrderPlaced         = "order:placed"
	TaskReviewAggregateSync = "review:aggregate_sync"
	TaskOrderStatusChanged  = "order:status_changed"
)
