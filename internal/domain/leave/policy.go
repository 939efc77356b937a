package leave

import (
	"time"

	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/workday"
)

// Allocation is the yearly number of leave days granted per type.
type Allocation map[Type]int

// DefaultAllocation is used when no policy is configured.
var DefaultAllocation = Allocation{
	TypeAnnual:    20,
	TypeSick:      10,
	TypeMaternity: 90,
	TypePaternity: 10,
	TypeUnpaid:    30,
}

// NewAllocation builds an allocation from configuration keys. Unknown types
// are ignored and missing types fall back to zero days.
func NewAllocation(days map[string]int) Allocation {
	if len(days) == 0 {
		return DefaultAllocation
	}
	alloc := make(Allocation, len(Types))
	for key, n := range days {
		if t := Type(key); t.Valid() {
			alloc[t] = n
		}
	}
	return alloc
}

// ComputeBalance sums the weekdays of approved leaves falling in year per
// type and subtracts them from the allocation. Leaves spanning a year
// boundary only count their days inside year.
func ComputeBalance(alloc Allocation, approved []Leave, year int, loc *time.Location) []BalanceItem {
	yearStart, yearEnd := workday.YearBounds(year, loc)

	used := make(map[Type]int, len(Types))
	for _, l := range approved {
		if l.Status != StatusApproved {
			continue
		}
		from, to, ok := workday.Clip(
			workday.StartOfDay(l.StartDate, loc),
			workday.StartOfDay(l.EndDate, loc),
			yearStart, yearEnd,
		)
		if !ok {
			continue
		}
		used[l.Type] += workday.CountWeekdays(from, to)
	}

	items := make([]BalanceItem, 0, len(Types))
	for _, t := range Types {
		items = append(items, BalanceItem{
			Type:      string(t),
			Allocated: alloc[t],
			Used:      used[t],
			Remaining: alloc[t] - used[t],
		})
	}
	return items
}
