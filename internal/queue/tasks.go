package queue

import (
	"encoding/json"

	"github.com/malcolmm20/farmlink/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskOrderPlaced notifies the selling farm about a new order.
	TaskOrderPlaced = constants.TaskOrderPlaced
	// TaskOrderStatusChanged notifies the buyer about a status change.
	TaskOrderStatusChanged = constants.TaskOrderStatusChanged
	// TaskReviewAggregateSync refreshes a cached review summary.
	TaskReviewAggregateSync = constants.TaskReviewAggregateSync
)

// OrderPlacedPayload carries the new-order notification task.
type OrderPlacedPayload struct {
	OrderID uint `json:"order_id"`
	FarmID  uint `json:"farm_id"`
}

// OrderStatusChangedPayload carries the status-change notification task.
type OrderStatusChangedPayload struct {
	OrderID uint   `json:"order_id"`
	Status  string `json:"status"`
}

// ReviewAggregateSyncPayload carries the aggregate refresh task.
// Target is "product" or "farm".
type ReviewAggregateSyncPayload struct {
	Target   string `json:"target"`
	TargetID uint   `json:"target_id"`
}

// NewOrderPlacedTask builds the new-order task.
func NewOrderPlacedTask(payload OrderPlacedPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskOrderPlaced, body), nil
}

// NewOrderStatusChangedTask builds the status-change task.
func NewOrderStatusChangedTask(payload OrderStatusChangedPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskOrderStatusChanged, body), nil
}

// NewReviewAggregateSyncTask builds the aggregate refresh task.
func NewReviewAggregateSyncTask(payload ReviewAggregateSyncPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskReviewAggregateSync, body), nil
}
