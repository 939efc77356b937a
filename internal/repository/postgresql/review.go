package postgresql

import (
	"context"
	"fmt"
	"strings"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/review"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/pagination"
)

type reviewRepositoryImpl struct {
	db *database.DB
}

func NewReviewRepository(db *database.DB) review.ReviewRepository {
	return &reviewRepositoryImpl{db: db}
}

// The reviewed employee uses the shared summary aliases; the reviewer is
// joined as re/ru/rd.
const reviewColumns = `
	r.id, r.employee_id, r.reviewer_id, r.review_period, r.ratings, r.comments, r.goals,
	r.created_at, r.updated_at, ` + employeeSummaryColumns + `,
	re.id, re.position, ru.id, ru.email, ru.first_name, ru.last_name, ru.role, rd.id, rd.name`

func reviewFrom() string {
	return ` FROM performance_reviews r` + employeeSummaryJoins("r") + `
		JOIN employees re ON re.id = r.reviewer_id
		JOIN users ru ON ru.id = re.user_id
		LEFT JOIN departments rd ON rd.id = re.department_id`
}

func scanReview(row rowScanner) (review.PerformanceReview, error) {
	var (
		pr       review.PerformanceReview
		reviewed summaryRow
		reviewer summaryRow
	)
	dest := []any{
		&pr.ID,
		&pr.EmployeeID,
		&pr.ReviewerID,
		&pr.ReviewPeriod,
		&pr.Ratings,
		&pr.Comments,
		&pr.Goals,
		&pr.CreatedAt,
		&pr.UpdatedAt,
	}
	dest = append(dest, reviewed.dest()...)
	dest = append(dest, reviewer.dest()...)
	if err := row.Scan(dest...); err != nil {
		return review.PerformanceReview{}, err
	}
	pr.Employee = reviewed.summary()
	pr.Reviewer = reviewer.summary()
	return pr, nil
}

func translateReviewError(err error) error {
	if constraint, ok := database.UniqueViolation(err); ok && constraint == "uq_reviews_employee_reviewer_period" {
		return review.ErrReviewExists
	}
	return err
}

// GetByID implements review.ReviewRepository.
func (r *reviewRepositoryImpl) GetByID(ctx context.Context, id string) (review.PerformanceReview, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + reviewColumns + reviewFrom() + ` WHERE r.id = $1`
	found, err := scanReview(q.QueryRow(ctx, query, id))
	if err != nil {
		if database.IsNoRows(err) {
			return review.PerformanceReview{}, review.ErrReviewNotFound
		}
		return review.PerformanceReview{}, fmt.Errorf("failed to get performance review: %w", err)
	}
	return found, nil
}

// List implements review.ReviewRepository.
func (r *reviewRepositoryImpl) List(ctx context.Context, filter review.ReviewFilter) ([]review.PerformanceReview, int64, error) {
	q := GetQuerier(ctx, r.db)

	conditions := []string{"1=1"}
	args := []interface{}{}
	argIdx := 1

	if filter.EmployeeID != nil && *filter.EmployeeID != "" {
		conditions = append(conditions, fmt.Sprintf("r.employee_id = $%d", argIdx))
		args = append(args, *filter.EmployeeID)
		argIdx++
	}
	if filter.ReviewerID != nil && *filter.ReviewerID != "" {
		conditions = append(conditions, fmt.Sprintf("r.reviewer_id = $%d", argIdx))
		args = append(args, *filter.ReviewerID)
		argIdx++
	}
	if filter.ReviewPeriod != nil && *filter.ReviewPeriod != "" {
		conditions = append(conditions, fmt.Sprintf("r.review_period = $%d", argIdx))
		args = append(args, *filter.ReviewPeriod)
		argIdx++
	}
	where := strings.Join(conditions, " AND ")

	var total int64
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM performance_reviews r WHERE `+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count performance reviews: %w", err)
	}

	query := fmt.Sprintf(`SELECT %s %s WHERE %s ORDER BY r.created_at DESC LIMIT $%d OFFSET $%d`,
		reviewColumns, reviewFrom(), where, argIdx, argIdx+1)
	args = append(args, filter.Limit, pagination.Offset(filter.Page, filter.Limit))

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list performance reviews: %w", err)
	}
	defer rows.Close()

	reviews := []review.PerformanceReview{}
	for rows.Next() {
		pr, err := scanReview(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan performance review: %w", err)
		}
		reviews = append(reviews, pr)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return reviews, total, nil
}

// ExistsForPeriod implements review.ReviewRepository.
func (r *reviewRepositoryImpl) ExistsForPeriod(ctx context.Context, employeeID, reviewerID, period string, excludeID *string) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT EXISTS(
			SELECT 1 FROM performance_reviews
			WHERE employee_id = $1 AND reviewer_id = $2 AND review_period = $3
			  AND ($4::uuid IS NULL OR id <> $4::uuid)
		)
	`
	var exists bool
	if err := q.QueryRow(ctx, query, employeeID, reviewerID, period, excludeID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check review period: %w", err)
	}
	return exists, nil
}

// Create implements review.ReviewRepository.
func (r *reviewRepositoryImpl) Create(ctx context.Context, newReview review.PerformanceReview) (review.PerformanceReview, error) {
	q := GetQuerier(ctx, r.db)

	if newReview.ID == "" {
		newReview.ID = newID()
	}

	query := `
		INSERT INTO performance_reviews (id, employee_id, reviewer_id, review_period, ratings, comments, goals)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := q.Exec(ctx, query,
		newReview.ID,
		newReview.EmployeeID,
		newReview.ReviewerID,
		newReview.ReviewPeriod,
		newReview.Ratings,
		newReview.Comments,
		newReview.Goals,
	)
	if err != nil {
		if translated := translateReviewError(err); translated != err {
			return review.PerformanceReview{}, translated
		}
		return review.PerformanceReview{}, fmt.Errorf("failed to create performance review: %w", err)
	}

	return r.GetByID(ctx, newReview.ID)
}

// Update implements review.ReviewRepository.
func (r *reviewRepositoryImpl) Update(ctx context.Context, pr review.PerformanceReview) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE performance_reviews
		SET review_period = $1, ratings = $2, comments = $3, goals = $4, updated_at = NOW()
		WHERE id = $5
	`
	tag, err := q.Exec(ctx, query, pr.ReviewPeriod, pr.Ratings, pr.Comments, pr.Goals, pr.ID)
	if err != nil {
		if translated := translateReviewError(err); translated != err {
			return translated
		}
		return fmt.Errorf("failed to update performance review: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return review.ErrReviewNotFound
	}
	return nil
}

// Delete implements review.ReviewRepository.
func (r *reviewRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM performance_reviews WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete performance review: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return review.ErrReviewNotFound
	}
	return nil
}
