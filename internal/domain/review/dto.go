package review

import (
	"strings"
	"time"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/pagination"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// ValidateRatings rejects an empty map, blank categories and scores outside 1..5.
func ValidateRatings(r Ratings) error {
	if len(r) == 0 {
		return ErrRatingsRequired
	}
	for category, score := range r {
		if strings.TrimSpace(category) == "" || score < MinRating || score > MaxRating {
			return ErrRatingOutOfRange
		}
	}
	return nil
}

type CreateReviewRequest struct {
	EmployeeID   string  `json:"employee_id" validate:"required,uuid7"`
	ReviewerID   string  `json:"reviewer_id" validate:"omitempty,uuid7"`
	ReviewPeriod string  `json:"review_period" validate:"notblank,max=50"`
	Ratings      Ratings `json:"ratings"`
	Comments     string  `json:"comments" validate:"max=5000"`
	Goals        string  `json:"goals" validate:"max=5000"`
}

func (r *CreateReviewRequest) Validate() error {
	if errs := validator.Struct(r); len(errs) > 0 {
		return errs
	}
	r.ReviewPeriod = strings.TrimSpace(r.ReviewPeriod)
	return ValidateRatings(r.Ratings)
}

type UpdateReviewRequest struct {
	ReviewPeriod *string `json:"review_period,omitempty" validate:"omitempty,notblank,max=50"`
	Ratings      Ratings `json:"ratings,omitempty"`
	Comments     *string `json:"comments,omitempty" validate:"omitempty,max=5000"`
	Goals        *string `json:"goals,omitempty" validate:"omitempty,max=5000"`
}

func (r *UpdateReviewRequest) Validate() error {
	if errs := validator.Struct(r); len(errs) > 0 {
		return errs
	}
	if r.ReviewPeriod != nil {
		trimmed := strings.TrimSpace(*r.ReviewPeriod)
		r.ReviewPeriod = &trimmed
	}
	if r.Ratings != nil {
		return ValidateRatings(r.Ratings)
	}
	return nil
}

// Apply merges the patch into rv.
func (r UpdateReviewRequest) Apply(rv PerformanceReview) PerformanceReview {
	if r.ReviewPeriod != nil {
		rv.ReviewPeriod = *r.ReviewPeriod
	}
	if r.Ratings != nil {
		rv.Ratings = r.Ratings
	}
	if r.Comments != nil {
		rv.Comments = *r.Comments
	}
	if r.Goals != nil {
		rv.Goals = *r.Goals
	}
	return rv
}

type ReviewFilter struct {
	EmployeeID   *string `json:"employee_id,omitempty" validate:"omitempty,uuid7"`
	ReviewerID   *string `json:"reviewer_id,omitempty" validate:"omitempty,uuid7"`
	ReviewPeriod *string `json:"review_period,omitempty"`
	Page         int     `json:"page"`
	Limit        int     `json:"limit"`
}

func (f *ReviewFilter) Validate() error {
	errs := validator.Struct(f)
	f.Page, f.Limit = pagination.Normalize(f.Page, f.Limit)
	return errs.Err()
}

type ReviewResponse struct {
	ID            string            `json:"id"`
	EmployeeID    string            `json:"employee_id"`
	Employee      *employee.Summary `json:"employee,omitempty"`
	ReviewerID    string            `json:"reviewer_id"`
	Reviewer      *employee.Summary `json:"reviewer,omitempty"`
	ReviewPeriod  string            `json:"review_period"`
	Ratings       Ratings           `json:"ratings"`
	AverageRating decimal.Decimal   `json:"average_rating"`
	Comments      string            `json:"comments"`
	Goals         string            `json:"goals"`
	CreatedAt     string            `json:"created_at"`
	UpdatedAt     string            `json:"updated_at"`
}

func ToResponse(r PerformanceReview) ReviewResponse {
	return ReviewResponse{
		ID:            r.ID,
		EmployeeID:    r.EmployeeID,
		Employee:      r.Employee,
		ReviewerID:    r.ReviewerID,
		Reviewer:      r.Reviewer,
		ReviewPeriod:  r.ReviewPeriod,
		Ratings:       r.Ratings,
		AverageRating: r.Ratings.Average(),
		Comments:      r.Comments,
		Goals:         r.Goals,
		CreatedAt:     r.CreatedAt.Format(time.RFC3339),
		UpdatedAt:     r.UpdatedAt.Format(time.RFC3339),
	}
}

type ListReviewResponse struct {
	TotalCount int64            `json:"total_count"`
	Page       int              `json:"page"`
	Limit      int              `json:"limit"`
	TotalPages int              `json:"total_pages"`
	Showing    string           `json:"showing"`
	Reviews    []ReviewResponse `json:"reviews"`
}
