package payroll

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/payroll"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/email"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

type fakePayrollRepo struct {
	payroll.PayrollRepository
	payrolls  map[string]payroll.Payroll
	employees []employee.Employee
}

// withEmployee attaches the nested employee the way the SQL join does.
func (f *fakePayrollRepo) withEmployee(p payroll.Payroll) payroll.Payroll {
	for _, e := range f.employees {
		if e.ID == p.EmployeeID {
			p.Employee = &employee.Summary{ID: e.ID, Position: e.Position, User: e.User, Department: e.Department}
		}
	}
	return p
}

func (f *fakePayrollRepo) GetByID(_ context.Context, id string) (payroll.Payroll, error) {
	p, ok := f.payrolls[id]
	if !ok {
		return payroll.Payroll{}, payroll.ErrPayrollNotFound
	}
	return f.withEmployee(p), nil
}

func (f *fakePayrollRepo) ExistsForPeriod(_ context.Context, employeeID string, month, year int) (bool, error) {
	for _, p := range f.payrolls {
		if p.EmployeeID == employeeID && p.Month == month && p.Year == year {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakePayrollRepo) ListByPeriod(_ context.Context, month, year int) ([]payroll.Payroll, error) {
	var out []payroll.Payroll
	for _, p := range f.payrolls {
		if p.Month == month && p.Year == year {
			out = append(out, f.withEmployee(p))
		}
	}
	return out, nil
}

func (f *fakePayrollRepo) Create(_ context.Context, p payroll.Payroll) (payroll.Payroll, error) {
	p.ID = uuid.Must(uuid.NewV7()).String()
	f.payrolls[p.ID] = p
	return p, nil
}

func (f *fakePayrollRepo) Update(_ context.Context, p payroll.Payroll) error {
	f.payrolls[p.ID] = p
	return nil
}

func (f *fakePayrollRepo) UpdateStatus(_ context.Context, id string, status payroll.Status, paidAt *time.Time) error {
	p := f.payrolls[id]
	if p.IsPaid() {
		return payroll.ErrPayrollAlreadyPaid
	}
	p.Status = status
	p.PaidAt = paidAt
	f.payrolls[id] = p
	return nil
}

type fakeEmployeeRepo struct {
	employee.EmployeeRepository
	employees []employee.Employee
}

func (f *fakeEmployeeRepo) FindAll(_ context.Context, scope employee.EmployeeScope) ([]employee.Employee, error) {
	var out []employee.Employee
	for _, e := range f.employees {
		if scope.EmployeeID != nil && e.ID != *scope.EmployeeID {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func (f *fakeEmployeeRepo) GetByID(_ context.Context, id string) (employee.Employee, error) {
	for _, e := range f.employees {
		if e.ID == id {
			return e, nil
		}
	}
	return employee.Employee{}, employee.ErrEmployeeNotFound
}

type fakeAttendanceRepo struct {
	attendance.AttendanceRepository
	absent map[string]int
}

func (f *fakeAttendanceRepo) CountByStatus(_ context.Context, employeeID string, _, _ time.Time, status attendance.Status) (int, error) {
	if status != attendance.StatusAbsent {
		return 0, nil
	}
	return f.absent[employeeID], nil
}

type fakeMailer struct {
	payslips []email.Payslip
}

func (f *fakeMailer) SendLeaveDecision(string, email.LeaveDecision) error { return nil }

func (f *fakeMailer) SendPayslip(_ string, data email.Payslip) error {
	f.payslips = append(f.payslips, data)
	return nil
}

func date(s string) time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return d
}

func newEmployee(joined string, salary int64) employee.Employee {
	return employee.Employee{
		ID:            uuid.Must(uuid.NewV7()).String(),
		Position:      "Engineer",
		DateOfJoining: date(joined),
		Salary:        decimal.NewFromInt(salary),
		User:          &employee.UserInfo{Email: "emp@example.com", FirstName: "Emp"},
	}
}

func TestGenerate(t *testing.T) {
	midMonth := newEmployee("2024-08-05", 100000)
	fullMonth := newEmployee("2020-01-01", 220000)
	notYetJoined := newEmployee("2024-09-02", 100000)

	payrolls := &fakePayrollRepo{payrolls: map[string]payroll.Payroll{}}
	svc := NewPayrollService(
		payrolls,
		&fakeEmployeeRepo{employees: []employee.Employee{midMonth, fullMonth, notYetJoined}},
		&fakeAttendanceRepo{absent: map[string]int{fullMonth.ID: 2}},
		payroll.DefaultPolicy,
		&fakeMailer{},
		nil,
	)
	ctx := context.Background()

	resp, err := svc.Generate(ctx, payroll.GeneratePayrollRequest{Month: 8, Year: 2024})
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Created)
	assert.Equal(t, 1, resp.Skipped)

	byEmployee := map[string]payroll.PayrollResponse{}
	for _, p := range resp.Payrolls {
		byEmployee[p.EmployeeID] = p
		assert.Equal(t, "DRAFT", p.Status)
	}

	// 20 of 22 weekdays in August 2024
	mid := byEmployee[midMonth.ID]
	assert.Equal(t, "90909", mid.BaseSalary.String())
	assert.Equal(t, "9091", mid.Allowances.String())
	assert.Equal(t, "0", mid.Deductions.String())
	assert.Equal(t, "15000", mid.Tax.String())
	assert.Equal(t, "85000", mid.NetSalary.String())

	// daily rate 10000, two absences
	full := byEmployee[fullMonth.ID]
	assert.Equal(t, "220000", full.BaseSalary.String())
	assert.Equal(t, "22000", full.Allowances.String())
	assert.Equal(t, "20000", full.Deductions.String())
	assert.Equal(t, "36300", full.Tax.String())
	assert.Equal(t, "185700", full.NetSalary.String())

	again, err := svc.Generate(ctx, payroll.GeneratePayrollRequest{Month: 8, Year: 2024})
	require.NoError(t, err)
	assert.Equal(t, 0, again.Created)
	assert.Equal(t, 3, again.Skipped)
}

func seedPayroll(t *testing.T) (*PayrollServiceImpl, *fakePayrollRepo, *fakeMailer, string) {
	t.Helper()
	emp := newEmployee("2020-01-01", 220000)
	payrolls := &fakePayrollRepo{payrolls: map[string]payroll.Payroll{}, employees: []employee.Employee{emp}}
	mailer := &fakeMailer{}
	svc := NewPayrollService(payrolls, &fakeEmployeeRepo{employees: []employee.Employee{emp}}, &fakeAttendanceRepo{}, payroll.DefaultPolicy, mailer, nil)

	resp, err := svc.Generate(context.Background(), payroll.GeneratePayrollRequest{Month: 8, Year: 2024})
	require.NoError(t, err)
	require.Len(t, resp.Payrolls, 1)
	return svc, payrolls, mailer, resp.Payrolls[0].ID
}

func TestUpdate_RecomputesNet(t *testing.T) {
	svc, _, _, id := seedPayroll(t)

	bonus := decimal.NewFromInt(30000)
	resp, err := svc.Update(context.Background(), id, payroll.UpdatePayrollRequest{Allowances: &bonus})
	require.NoError(t, err)
	// tax is kept as generated: 220000 + 30000 - 0 - 36300
	assert.Equal(t, "213700", resp.NetSalary.String())
}

func TestUpdateStatus_PaidIsTerminal(t *testing.T) {
	svc, _, mailer, id := seedPayroll(t)
	ctx := context.Background()

	resp, err := svc.UpdateStatus(ctx, id, payroll.UpdatePayrollStatusRequest{Status: "PROCESSED"})
	require.NoError(t, err)
	assert.Nil(t, resp.PaidAt)

	resp, err = svc.UpdateStatus(ctx, id, payroll.UpdatePayrollStatusRequest{Status: "PAID"})
	require.NoError(t, err)
	assert.Equal(t, "PAID", resp.Status)
	assert.NotNil(t, resp.PaidAt)
	require.Len(t, mailer.payslips, 1)
	assert.Equal(t, "August 2024", mailer.payslips[0].Period)
	assert.Equal(t, "220000.00", mailer.payslips[0].BaseSalary)

	_, err = svc.UpdateStatus(ctx, id, payroll.UpdatePayrollStatusRequest{Status: "DRAFT"})
	assert.ErrorIs(t, err, payroll.ErrPayrollAlreadyPaid)

	tax := decimal.Zero
	_, err = svc.Update(ctx, id, payroll.UpdatePayrollRequest{Tax: &tax})
	assert.ErrorIs(t, err, payroll.ErrPayrollAlreadyPaid)

	assert.ErrorIs(t, svc.Delete(ctx, id), payroll.ErrPayrollAlreadyPaid)
}

func TestUpdateStatus_UnknownStatus(t *testing.T) {
	svc, _, _, id := seedPayroll(t)
	_, err := svc.UpdateStatus(context.Background(), id, payroll.UpdatePayrollStatusRequest{Status: "VOID"})
	assert.ErrorIs(t, err, payroll.ErrInvalidPayrollStatus)
}

func TestExport(t *testing.T) {
	svc, _, _, _ := seedPayroll(t)

	file, err := svc.Export(context.Background(), payroll.ExportPayrollRequest{Month: 8, Year: 2024})
	require.NoError(t, err)
	assert.Equal(t, "payroll-2024-08.xlsx", file.FileName)
	assert.Equal(t, xlsxContentType, file.ContentType)

	wb, err := excelize.OpenReader(bytes.NewReader(file.Content))
	require.NoError(t, err)
	defer func() { _ = wb.Close() }()

	rows, err := wb.GetRows("Payroll 2024-08")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Employee", rows[0][0])
	assert.Equal(t, "Emp", rows[1][0])
	assert.Equal(t, "emp@example.com", rows[1][1])
	assert.Equal(t, "Engineer", rows[1][3])
	assert.Equal(t, "DRAFT", rows[1][9])
	assert.Equal(t, "Total", rows[2][7])
}
