package cache

import (
	"context"
	"fmt"
	"time"
)

const reviewAggregateCacheTTL = 5 * time.Minute

// ReviewAggregate is the cached rating summary for one review target.
type ReviewAggregate struct {
	AverageRating float64 `json:"averageRating"`
	TotalReviews  int     `json:"totalReviews"`
	UpdatedAt     int64   `json:"updated_at"`
}

func reviewAggregateKey(target string, id uint) string {
	return fmt.Sprintf("reviews:agg:%s:%d", target, id)
}

// GetReviewAggregate reads the cached summary. The bool reports a hit.
func GetReviewAggregate(ctx context.Context, target string, id uint) (*ReviewAggregate, bool, error) {
	if id == 0 {
		return nil, false, nil
	}
	var agg ReviewAggregate
	hit, err := GetJSON(ctx, reviewAggregateKey(target, id), &agg)
	if err != nil || !hit {
		return nil, hit, err
	}
	return &agg, true, nil
}

// SetReviewAggregate stores the summary.
func SetReviewAggregate(ctx context.Context, target string, id uint, agg *ReviewAggregate) error {
	if agg == nil || id == 0 {
		return nil
	}
	agg.UpdatedAt = time.Now().Unix()
	return SetJSON(ctx, reviewAggregateKey(target, id), agg, reviewAggregateCacheTTL)
}

// DelReviewAggregate invalidates the summary after a review write.
func DelReviewAggregate(ctx context.Context, target string, id uint) error {
	if id == 0 {
		return nil
	}
	return Del(ctx, reviewAggregateKey(target, id))
}
