package review

import "context"

type ReviewRepository interface {
	GetByID(ctx context.Context, id string) (PerformanceReview, error)
	List(ctx context.Context, filter ReviewFilter) ([]PerformanceReview, int64, error)
	ExistsForPeriod(ctx context.Context, employeeID, reviewerID, period string, excludeID *string) (bool, error)
	// Create fails with ErrReviewExists on a duplicate (employee, reviewer, period).
	Create(ctx context.Context, newReview PerformanceReview) (PerformanceReview, error)
	Update(ctx context.Context, r PerformanceReview) error
	Delete(ctx context.Context, id string) error
}
