package review

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/review"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/pagination"
)

type ReviewServiceImpl struct {
	reviewRepo   review.ReviewRepository
	employeeRepo employee.EmployeeRepository
}

func NewReviewService(reviewRepo review.ReviewRepository, employeeRepo employee.EmployeeRepository) *ReviewServiceImpl {
	return &ReviewServiceImpl{
		reviewRepo:   reviewRepo,
		employeeRepo: employeeRepo,
	}
}

// Create implements review.ReviewService. The reviewer defaults to the caller.
func (s *ReviewServiceImpl) Create(ctx context.Context, req review.CreateReviewRequest) (review.ReviewResponse, error) {
	reviewerID := req.ReviewerID
	if reviewerID == "" {
		callerID, err := auth.EmployeeIDFromContext(ctx)
		if err != nil {
			return review.ReviewResponse{}, review.ErrReviewerRequired
		}
		reviewerID = callerID
	}

	if req.EmployeeID == reviewerID {
		return review.ReviewResponse{}, review.ErrSelfReview
	}
	if err := review.ValidateRatings(req.Ratings); err != nil {
		return review.ReviewResponse{}, err
	}

	for _, id := range []string{req.EmployeeID, reviewerID} {
		if _, err := s.employeeRepo.GetByID(ctx, id); err != nil {
			return review.ReviewResponse{}, err
		}
	}

	if err := s.checkDuplicate(ctx, req.EmployeeID, reviewerID, req.ReviewPeriod, nil); err != nil {
		return review.ReviewResponse{}, err
	}

	created, err := s.reviewRepo.Create(ctx, review.PerformanceReview{
		EmployeeID:   req.EmployeeID,
		ReviewerID:   reviewerID,
		ReviewPeriod: req.ReviewPeriod,
		Ratings:      req.Ratings,
		Comments:     req.Comments,
		Goals:        req.Goals,
	})
	if err != nil {
		return review.ReviewResponse{}, err
	}
	return review.ToResponse(created), nil
}

func (s *ReviewServiceImpl) checkDuplicate(ctx context.Context, employeeID, reviewerID, period string, excludeID *string) error {
	exists, err := s.reviewRepo.ExistsForPeriod(ctx, employeeID, reviewerID, period, excludeID)
	if err != nil {
		return fmt.Errorf("failed to check review period: %w", err)
	}
	if exists {
		return review.ErrReviewExists
	}
	return nil
}

// GetByID implements review.ReviewService.
func (s *ReviewServiceImpl) GetByID(ctx context.Context, id string) (review.ReviewResponse, error) {
	r, err := s.reviewRepo.GetByID(ctx, id)
	if err != nil {
		return review.ReviewResponse{}, err
	}
	return review.ToResponse(r), nil
}

// List implements review.ReviewService.
func (s *ReviewServiceImpl) List(ctx context.Context, filter review.ReviewFilter) (review.ListReviewResponse, error) {
	reviews, total, err := s.reviewRepo.List(ctx, filter)
	if err != nil {
		return review.ListReviewResponse{}, err
	}

	responses := make([]review.ReviewResponse, 0, len(reviews))
	for _, r := range reviews {
		responses = append(responses, review.ToResponse(r))
	}

	return review.ListReviewResponse{
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: pagination.TotalPages(total, filter.Limit),
		Showing:    pagination.Showing(filter.Page, filter.Limit, total),
		Reviews:    responses,
	}, nil
}

// Update implements review.ReviewService.
func (s *ReviewServiceImpl) Update(ctx context.Context, id string, req review.UpdateReviewRequest) (review.ReviewResponse, error) {
	current, err := s.reviewRepo.GetByID(ctx, id)
	if err != nil {
		return review.ReviewResponse{}, err
	}

	updated := req.Apply(current)
	if err := review.ValidateRatings(updated.Ratings); err != nil {
		return review.ReviewResponse{}, err
	}
	if updated.ReviewPeriod != current.ReviewPeriod {
		if err := s.checkDuplicate(ctx, updated.EmployeeID, updated.ReviewerID, updated.ReviewPeriod, &updated.ID); err != nil {
			return review.ReviewResponse{}, err
		}
	}

	if err := s.reviewRepo.Update(ctx, updated); err != nil {
		return review.ReviewResponse{}, err
	}
	return s.GetByID(ctx, id)
}

// Delete implements review.ReviewService.
func (s *ReviewServiceImpl) Delete(ctx context.Context, id string) error {
	return s.reviewRepo.Delete(ctx, id)
}

// MyList implements review.ReviewService. It lists reviews about the caller.
func (s *ReviewServiceImpl) MyList(ctx context.Context, filter review.ReviewFilter) (review.ListReviewResponse, error) {
	employeeID, err := auth.EmployeeIDFromContext(ctx)
	if err != nil {
		return review.ListReviewResponse{}, err
	}
	filter.EmployeeID = &employeeID
	filter.ReviewerID = nil
	return s.List(ctx, filter)
}

var _ review.ReviewService = (*ReviewServiceImpl)(nil)
