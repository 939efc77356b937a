package review

import (
	"context"
	"testing"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/review"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeReviewRepo struct {
	review.ReviewRepository
	reviews map[string]review.PerformanceReview
}

func (f *fakeReviewRepo) GetByID(_ context.Context, id string) (review.PerformanceReview, error) {
	r, ok := f.reviews[id]
	if !ok {
		return review.PerformanceReview{}, review.ErrReviewNotFound
	}
	return r, nil
}

func (f *fakeReviewRepo) ExistsForPeriod(_ context.Context, employeeID, reviewerID, period string, excludeID *string) (bool, error) {
	for _, r := range f.reviews {
		if excludeID != nil && r.ID == *excludeID {
			continue
		}
		if r.EmployeeID == employeeID && r.ReviewerID == reviewerID && r.ReviewPeriod == period {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeReviewRepo) Create(_ context.Context, r review.PerformanceReview) (review.PerformanceReview, error) {
	r.ID = uuid.Must(uuid.NewV7()).String()
	f.reviews[r.ID] = r
	return r, nil
}

func (f *fakeReviewRepo) Update(_ context.Context, r review.PerformanceReview) error {
	f.reviews[r.ID] = r
	return nil
}

type fakeEmployeeRepo struct {
	employee.EmployeeRepository
	ids map[string]bool
}

func (f *fakeEmployeeRepo) GetByID(_ context.Context, id string) (employee.Employee, error) {
	if !f.ids[id] {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return employee.Employee{ID: id}, nil
}

func TestCreate(t *testing.T) {
	alice := uuid.Must(uuid.NewV7()).String()
	bob := uuid.Must(uuid.NewV7()).String()
	reviews := &fakeReviewRepo{reviews: map[string]review.PerformanceReview{}}
	svc := NewReviewService(reviews, &fakeEmployeeRepo{ids: map[string]bool{alice: true, bob: true}})
	require.Same(t, reviews, svc.reviewRepo)
	ctx := context.Background()

	req := review.CreateReviewRequest{
		EmployeeID:   alice,
		ReviewerID:   bob,
		ReviewPeriod: "2024-H1",
		Ratings:      review.Ratings{"quality": 4, "teamwork": 5},
	}

	resp, err := svc.Create(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, "4.5", resp.AverageRating.String())

	_, err = svc.Create(ctx, req)
	assert.ErrorIs(t, err, review.ErrReviewExists)

	self := req
	self.ReviewerID = alice
	_, err = svc.Create(ctx, self)
	assert.ErrorIs(t, err, review.ErrSelfReview)

	outOfRange := req
	outOfRange.ReviewPeriod = "2024-H2"
	outOfRange.Ratings = review.Ratings{"quality": 6}
	_, err = svc.Create(ctx, outOfRange)
	assert.ErrorIs(t, err, review.ErrRatingOutOfRange)

	unknown := req
	unknown.EmployeeID = uuid.Must(uuid.NewV7()).String()
	_, err = svc.Create(ctx, unknown)
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)

	noReviewer := req
	noReviewer.ReviewerID = ""
	_, err = svc.Create(ctx, noReviewer)
	assert.ErrorIs(t, err, review.ErrReviewerRequired)
}

func TestUpdate_PeriodConflict(t *testing.T) {
	alice := uuid.Must(uuid.NewV7()).String()
	bob := uuid.Must(uuid.NewV7()).String()
	svc := NewReviewService(
		&fakeReviewRepo{reviews: map[string]review.PerformanceReview{}},
		&fakeEmployeeRepo{ids: map[string]bool{alice: true, bob: true}},
	)
	ctx := context.Background()

	_, err := svc.Create(ctx, review.CreateReviewRequest{
		EmployeeID: alice, ReviewerID: bob, ReviewPeriod: "2024-H1", Ratings: review.Ratings{"quality": 3},
	})
	require.NoError(t, err)
	second, err := svc.Create(ctx, review.CreateReviewRequest{
		EmployeeID: alice, ReviewerID: bob, ReviewPeriod: "2024-H2", Ratings: review.Ratings{"quality": 3},
	})
	require.NoError(t, err)

	period := "2024-H1"
	_, err = svc.Update(ctx, second.ID, review.UpdateReviewRequest{ReviewPeriod: &period})
	assert.ErrorIs(t, err, review.ErrReviewExists)

	comments := "steady progress"
	resp, err := svc.Update(ctx, second.ID, review.UpdateReviewRequest{Comments: &comments, Ratings: review.Ratings{"quality": 5}})
	require.NoError(t, err)
	assert.Equal(t, "steady progress", resp.Comments)
	assert.Equal(t, "5", resp.AverageRating.String())
}
