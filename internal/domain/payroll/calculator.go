package payroll

import (
	"time"

	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/workday"
	"github.com/shopspring/decimal"
)

// Policy holds the rates applied on top of the base salary.
type Policy struct {
	AllowanceRate decimal.Decimal
	TaxRate       decimal.Decimal
}

var DefaultPolicy = Policy{
	AllowanceRate: decimal.RequireFromString("0.10"),
	TaxRate:       decimal.RequireFromString("0.15"),
}

// Period is one calendar month.
type Period struct {
	Month time.Month
	Year  int
	Start time.Time
	End   time.Time
}

func NewPeriod(month, year int, loc *time.Location) Period {
	start, end := workday.MonthBounds(year, time.Month(month), loc)
	return Period{Month: time.Month(month), Year: year, Start: start, End: end}
}

// Components is the breakdown of one employee's pay for a period.
type Components struct {
	WorkingDays int
	PayableDays int
	DailyRate   decimal.Decimal
	BaseSalary  decimal.Decimal
	Allowances  decimal.Decimal
	Deductions  decimal.Decimal
	Tax         decimal.Decimal
	NetSalary   decimal.Decimal
}

// Calculate derives the pay components of an employee for period. The daily
// rate is salary over the month's weekdays; an employee who joined inside
// the period is paid from the joining date. Every amount is rounded to whole
// units. ok is false when the employee joined after the period ended.
func (p Policy) Calculate(salary decimal.Decimal, joined time.Time, absentDays int, period Period) (Components, bool) {
	if joined.After(period.End) {
		return Components{}, false
	}

	c := Components{WorkingDays: workday.CountWeekdays(period.Start, period.End)}
	if c.WorkingDays == 0 {
		return c, true
	}

	c.PayableDays = c.WorkingDays
	if joined.After(period.Start) {
		c.PayableDays = workday.CountWeekdays(joined, period.End)
	}

	c.DailyRate = salary.Div(decimal.NewFromInt(int64(c.WorkingDays)))
	c.BaseSalary = c.DailyRate.Mul(decimal.NewFromInt(int64(c.PayableDays))).Round(0)
	c.Allowances = c.BaseSalary.Mul(p.AllowanceRate).Round(0)
	c.Deductions = c.DailyRate.Mul(decimal.NewFromInt(int64(absentDays))).Round(0)
	c.Tax = c.BaseSalary.Add(c.Allowances).Mul(p.TaxRate).Round(0)
	c.NetSalary = NetSalary(c.BaseSalary, c.Allowances, c.Deductions, c.Tax)

	return c, true
}
