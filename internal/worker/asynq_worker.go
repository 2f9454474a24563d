package worker

import (
	"context"
	"encoding/json"

	"github.com/malcolmm20/farmlink/internal/logger"
	"github.com/malcolmm20/farmlink/internal/provider"
	"github.com/malcolmm20/farmlink/internal/queue"

	"github.com/hibiken/asynq"
)

// Consumer handles background tasks.
type Consumer struct {
	*provider.Container
}

// NewConsumer creates a consumer.
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
	}
}

// Register wires task handlers into the mux.
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskOrderPlaced, c.handleOrderPlaced)
	mux.HandleFunc(queue.TaskOrderStatusChanged, c.handleOrderStatusChanged)
	mux.HandleFunc(queue.TaskReviewAggregateSync, c.handleReviewAggregateSync)
}

func (c *Consumer) handleOrderPlaced(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_order_placed_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.OrderPlacedPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_order_placed_unmarshal_failed", "error", err)
		return err
	}
	if payload.OrderID == 0 {
		logger.Debugw("worker_order_placed_skip_invalid_payload", "order_id", payload.OrderID)
		return nil
	}
	order, err := c.OrderRepo.GetByID(payload.OrderID)
	if err != nil {
		logger.Warnw("worker_order_placed_fetch_order_failed", "order_id", payload.OrderID, "error", err)
		return err
	}
	if order == nil {
		logger.Debugw("worker_order_placed_skip_order_not_found", "order_id", payload.OrderID)
		return nil
	}
	farmName := ""
	if order.FarmID != 0 {
		farm, err := c.UserRepo.GetByID(order.FarmID)
		if err != nil {
			logger.Warnw("worker_order_placed_fetch_farm_failed", "order_id", order.ID, "farm_id", order.FarmID, "error", err)
			return err
		}
		if farm != nil {
			farmName = farm.FarmInfo.FarmName
		}
	}
	logger.Infow("worker_order_placed_notified",
		"order_id", order.ID,
		"order_no", order.OrderNo,
		"farm_id", order.FarmID,
		"farm_name", farmName,
		"item_count", len(order.Items),
		"total_amount", order.TotalAmount.String(),
	)
	return nil
}

func (c *Consumer) handleOrderStatusChanged(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_order_status_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.OrderStatusChangedPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_order_status_unmarshal_failed", "error", err)
		return err
	}
	if payload.OrderID == 0 {
		logger.Debugw("worker_order_status_skip_invalid_payload", "order_id", payload.OrderID)
		return nil
	}
	order, err := c.OrderRepo.GetByID(payload.OrderID)
	if err != nil {
		logger.Warnw("worker_order_status_fetch_order_failed", "order_id", payload.OrderID, "error", err)
		return err
	}
	if order == nil {
		logger.Debugw("worker_order_status_skip_order_not_found", "order_id", payload.OrderID)
		return nil
	}
	status := payload.Status
	if status == "" {
		status = order.Status
	}
	buyerName := ""
	if order.UserID != 0 {
		buyer, err := c.UserRepo.GetByID(order.UserID)
		if err != nil {
			logger.Warnw("worker_order_status_fetch_user_failed", "order_id", order.ID, "user_id", order.UserID, "error", err)
			return err
		}
		if buyer != nil {
			buyerName = buyer.Name
		}
	}
	logger.Infow("worker_order_status_notified",
		"order_id", order.ID,
		"order_no", order.OrderNo,
		"status", status,
		"user_id", order.UserID,
		"buyer_name", buyerName,
	)
	return nil
}

func (c *Consumer) handleReviewAggregateSync(ctx context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_review_aggregate_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.ReviewAggregateSyncPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_review_aggregate_unmarshal_failed", "error", err)
		return err
	}
	if payload.Target == "" || payload.TargetID == 0 {
		logger.Debugw("worker_review_aggregate_skip_invalid_payload", "target", payload.Target, "target_id", payload.TargetID)
		return nil
	}
	if err := c.ReviewService.RefreshAggregate(ctx, payload.Target, payload.TargetID); err != nil {
		logger.Warnw("worker_review_aggregate_refresh_failed", "target", payload.Target, "target_id", payload.TargetID, "error", err)
		return err
	}
	logger.Debugw("worker_review_aggregate_refreshed", "target", payload.Target, "target_id", payload.TargetID)
	return nil
}
