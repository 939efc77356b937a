package review

import "errors"

var (
	ErrReviewNotFound   = errors.New("performance review not found")
	ErrReviewExists     = errors.New("a review for this employee, reviewer and period already exists")
	ErrSelfReview       = errors.New("an employee cannot review themselves")
	ErrRatingOutOfRange = errors.New("ratings must be between 1 and 5")
	ErrRatingsRequired  = errors.New("at least one rating is required")
	ErrReviewerRequired = errors.New("reviewer_id is required")
)
