package review

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRatingsAverage(t *testing.T) {
	assert.Equal(t, "0", Ratings{}.Average().String())
	assert.Equal(t, "4.5", Ratings{"quality": 4, "teamwork": 5}.Average().String())
	assert.Equal(t, "3.67", Ratings{"a": 3, "b": 4, "c": 4}.Average().String())
}

func TestValidateRatings(t *testing.T) {
	assert.ErrorIs(t, ValidateRatings(nil), ErrRatingsRequired)
	assert.ErrorIs(t, ValidateRatings(Ratings{"quality": 0}), ErrRatingOutOfRange)
	assert.ErrorIs(t, ValidateRatings(Ratings{"quality": 6}), ErrRatingOutOfRange)
	assert.ErrorIs(t, ValidateRatings(Ratings{" ": 3}), ErrRatingOutOfRange)
	assert.NoError(t, ValidateRatings(Ratings{"quality": 1, "delivery": 5}))
}
