package review

import "context"

type ReviewService interface {
	Create(ctx context.Context, req CreateReviewRequest) (ReviewResponse, error)
	GetByID(ctx context.Context, id string) (ReviewResponse, error)
	List(ctx context.Context, filter ReviewFilter) (ListReviewResponse, error)
	Update(ctx context.Context, id string, req UpdateReviewRequest) (ReviewResponse, error)
	Delete(ctx context.Context, id string) error
	MyList(ctx context.Context, filter ReviewFilter) (ListReviewResponse, error)
}
