package pagination

import (
	"fmt"
	"math"
)

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// Normalize applies the default page and limit and caps the limit.
func Normalize(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return page, limit
}

func Offset(page, limit int) int {
	return (page - 1) * limit
}

func TotalPages(total int64, limit int) int {
	if limit < 1 {
		return 0
	}
	return int(math.Ceil(float64(total) / float64(limit)))
}

// Showing renders the "start-end of total" label of a page.
func Showing(page, limit int, total int64) string {
	if total == 0 {
		return "0 of 0"
	}
	start := (page-1)*limit + 1
	end := min(page*limit, int(total))
	if start > end {
		return fmt.Sprintf("0 of %d", total)
	}
	return fmt.Sprintf("%d-%d of %d", start, end, total)
}
