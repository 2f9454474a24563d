package service

import (
	"context"
	"errors"

	"github.com/malcolmm20/farmlink/internal/cache"
	"github.com/malcolmm20/farmlink/internal/constants"
	"github.com/malcolmm20/farmlink/internal/logger"
	"github.com/malcolmm20/farmlink/internal/models"
	"github.com/malcolmm20/farmlink/internal/queue"
	"github.com/malcolmm20/farmlink/internal/repository"
)

// ReviewService manages reviews and their rating aggregates.
type ReviewService struct {
	reviewRepo  repository.ReviewRepository
	productRepo repository.ProductRepository
	userRepo    repository.UserRepository
	queueClient *queue.Client
}

// NewReviewService creates the review service.
func NewReviewService(
	reviewRepo repository.ReviewRepository,
	productRepo repository.ProductRepository,
	userRepo repository.UserRepository,
	queueClient *queue.Client,
) *ReviewService {
	return &ReviewService{
		reviewRepo:  reviewRepo,
		productRepo: productRepo,
		userRepo:    userRepo,
		queueClient: queueClient,
	}
}

// CreateReviewInput targets exactly one of ProductID or FarmID.
type CreateReviewInput struct {
	ProductID uint   `json:"productId"`
	FarmID    uint   `json:"farmId"`
	Rating    int    `json:"rating" binding:"required,min=1,max=5"`
	Comment   string `json:"comment"`
}

// ReviewAggregateResult is the rating summary for one target.
type ReviewAggregateResult struct {
	Reviews       []models.Review `json:"reviews"`
	AverageRating float64         `json:"averageRating"`
	TotalReviews  int             `json:"totalReviews"`
}

// Create validates the target and writes the review. The cached
// aggregate for the target is invalidated and a refresh task queued.
func (s *ReviewService) Create(userID uint, input CreateReviewInput) (*models.Review, error) {
	var review *models.Review
	var err error
	switch {
	case input.ProductID != 0 && input.FarmID == 0:
		product, perr := s.productRepo.GetByID(input.ProductID)
		if perr != nil {
			return nil, perr
		}
		if product == nil {
			return nil, ErrProductNotFound
		}
		review, err = models.NewProductReview(userID, input.ProductID, input.Rating, input.Comment)
	case input.FarmID != 0 && input.ProductID == 0:
		farm, ferr := s.userRepo.GetByID(input.FarmID)
		if ferr != nil {
			return nil, ferr
		}
		if farm == nil || !farm.IsFarmer() {
			return nil, ErrFarmNotFound
		}
		review, err = models.NewFarmReview(userID, input.FarmID, input.Rating, input.Comment)
	default:
		return nil, models.ErrReviewTarget
	}
	if err != nil {
		return nil, err
	}
	if err := s.reviewRepo.Create(review); err != nil {
		return nil, err
	}
	s.invalidateAggregate(review)
	logger.Infow("review_created", "review_id", review.ID, "user_id", userID, "rating", review.Rating)
	return review, nil
}

// Get fetches one review.
func (s *ReviewService) Get(id uint) (*models.Review, error) {
	review, err := s.reviewRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if review == nil {
		return nil, ErrReviewNotFound
	}
	return review, nil
}

// List returns reviews matching the filter.
func (s *ReviewService) List(filter repository.ReviewListFilter) ([]models.Review, int64, error) {
	return s.reviewRepo.List(filter)
}

// UpdateReviewInput is a partial patch on a review. The target is fixed.
type UpdateReviewInput struct {
	Rating  *int    `json:"rating"`
	Comment *string `json:"comment"`
}

// Update patches a review's rating or comment. Only the author or an
// admin may update; the target cannot change.
func (s *ReviewService) Update(id, actorID uint, actorRole string, input UpdateReviewInput) (*models.Review, error) {
	review, err := s.reviewRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if review == nil {
		return nil, ErrReviewNotFound
	}
	if review.UserID != actorID && actorRole != constants.RoleAdmin {
		return nil, ErrPermissionDenied
	}

	if input.Rating != nil {
		review.Rating = *input.Rating
	}
	if input.Comment != nil {
		review.Comment = *input.Comment
	}
	if err := review.Validate(); err != nil {
		return nil, err
	}

	if err := s.reviewRepo.Update(review); err != nil {
		return nil, err
	}
	s.invalidateAggregate(review)
	return review, nil
}

// Delete removes a review. Only the author or an admin may delete.
// A second delete reports not found.
func (s *ReviewService) Delete(id, actorID uint, actorRole string) error {
	review, err := s.reviewRepo.GetByID(id)
	if err != nil {
		return err
	}
	if review == nil {
		return ErrReviewNotFound
	}
	if review.UserID != actorID && actorRole != constants.RoleAdmin {
		return ErrPermissionDenied
	}
	affected, err := s.reviewRepo.Delete(id)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrReviewNotFound
	}
	s.invalidateAggregate(review)
	logger.Infow("review_deleted", "review_id", id, "actor_id", actorID)
	return nil
}

// AggregateForProduct returns the product's reviews newest first with
// averageRating and totalReviews. An empty set yields average 0.
func (s *ReviewService) AggregateForProduct(ctx context.Context, productID uint) (*ReviewAggregateResult, error) {
	product, err := s.productRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	reviews, err := s.reviewRepo.ListForProduct(productID)
	if err != nil {
		return nil, err
	}
	return s.aggregate(ctx, constants.ReviewTargetProduct, productID, reviews), nil
}

// AggregateForFarm returns the farm's reviews newest first with
// averageRating and totalReviews.
func (s *ReviewService) AggregateForFarm(ctx context.Context, farmID uint) (*ReviewAggregateResult, error) {
	farm, err := s.userRepo.GetByID(farmID)
	if err != nil {
		return nil, err
	}
	if farm == nil || !farm.IsFarmer() {
		return nil, ErrFarmNotFound
	}
	reviews, err := s.reviewRepo.ListForFarm(farmID)
	if err != nil {
		return nil, err
	}
	return s.aggregate(ctx, constants.ReviewTargetFarm, farmID, reviews), nil
}

// RefreshAggregate recomputes and caches the summary for one target.
// Used by the queue worker.
func (s *ReviewService) RefreshAggregate(ctx context.Context, target string, targetID uint) error {
	var reviews []models.Review
	var err error
	switch target {
	case constants.ReviewTargetProduct:
		reviews, err = s.reviewRepo.ListForProduct(targetID)
	case constants.ReviewTargetFarm:
		reviews, err = s.reviewRepo.ListForFarm(targetID)
	default:
		return errors.New("unknown review target: " + target)
	}
	if err != nil {
		return err
	}
	avg, total := ComputeAverageRating(reviews)
	return cache.SetReviewAggregate(ctx, target, targetID, &cache.ReviewAggregate{
		AverageRating: avg,
		TotalReviews:  total,
	})
}

// aggregate serves the cached rating summary when one is present and
// falls back to a recompute that repopulates the cache.
func (s *ReviewService) aggregate(ctx context.Context, target string, targetID uint, reviews []models.Review) *ReviewAggregateResult {
	if agg, hit, err := cache.GetReviewAggregate(ctx, target, targetID); err == nil && hit {
		return aggregateResult(reviews, agg.AverageRating, agg.TotalReviews)
	}
	return s.summarize(ctx, target, targetID, reviews)
}

// summarize builds the response and refreshes the cached aggregate.
func (s *ReviewService) summarize(ctx context.Context, target string, targetID uint, reviews []models.Review) *ReviewAggregateResult {
	avg, total := ComputeAverageRating(reviews)
	_ = cache.SetReviewAggregate(ctx, target, targetID, &cache.ReviewAggregate{
		AverageRating: avg,
		TotalReviews:  total,
	})
	return aggregateResult(reviews, avg, total)
}

// aggregateResult pairs a review list with its rating summary. The
// list is never nil so JSON renders an empty array.
func aggregateResult(reviews []models.Review, avg float64, total int) *ReviewAggregateResult {
	if reviews == nil {
		reviews = []models.Review{}
	}
	return &ReviewAggregateResult{
		Reviews:       reviews,
		AverageRating: avg,
		TotalReviews:  total,
	}
}

// invalidateAggregate drops the rating cache for the review's target
// and queues a background recompute.
func (s *ReviewService) invalidateAggregate(review *models.Review) {
	ctx := context.Background()
	var target string
	var targetID uint
	switch {
	case review.ProductID != nil && *review.ProductID != 0:
		target, targetID = constants.ReviewTargetProduct, *review.ProductID
	case review.FarmID != nil && *review.FarmID != 0:
		target, targetID = constants.ReviewTargetFarm, *review.FarmID
	default:
		return
	}
	if err := cache.DelReviewAggregate(ctx, target, targetID); err != nil {
		logger.Warnw("review_aggregate_invalidate_failed", "target", target, "target_id", targetID, "error", err)
	}
	if err := s.queueClient.EnqueueReviewAggregateSync(queue.ReviewAggregateSyncPayload{Target: target, TargetID: targetID}); err != nil {
		logger.Warnw("review_aggregate_enqueue_failed", "target", target, "target_id", targetID, "error", err)
	}
}

// ComputeAverageRating returns the mean rating and count. An empty
// slice yields 0.
func ComputeAverageRating(reviews []models.Review) (float64, int) {
	if len(reviews) == 0 {
		return 0, 0
	}
	sum := 0
	for _, r := range reviews {
		sum += r.Rating
	}
	return float64(sum) / float64(len(reviews)), len(reviews)
}
