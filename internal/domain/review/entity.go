package review

import (
	"time"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/employee"
	"github.com/shopspring/decimal"
)

const (
	MinRating = 1
	MaxRating = 5
)

// Ratings maps a review category to a score between MinRating and MaxRating.
type Ratings map[string]int

// Average is the mean score rounded to two decimals, zero when empty.
func (r Ratings) Average() decimal.Decimal {
	if len(r) == 0 {
		return decimal.Zero
	}
	var sum int64
	for _, score := range r {
		sum += int64(score)
	}
	return decimal.NewFromInt(sum).Div(decimal.NewFromInt(int64(len(r)))).Round(2)
}

type PerformanceReview struct {
	ID           string
	EmployeeID   string
	ReviewerID   string
	ReviewPeriod string
	Ratings      Ratings
	Comments     string
	Goals        string
	CreatedAt    time.Time
	UpdatedAt    time.Time

	// DTO / Join
	Employee *employee.Summary
	Reviewer *employee.Summary
}
