package payroll

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/payroll"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

var exportHeader = []interface{}{
	"Employee", "Email", "Department", "Position",
	"Base Salary", "Allowances", "Deductions", "Tax", "Net Salary",
	"Status", "Paid At",
}

// Export implements payroll.PayrollService.
func (s *PayrollServiceImpl) Export(ctx context.Context, req payroll.ExportPayrollRequest) (payroll.ExportFile, error) {
	payrolls, err := s.payrollRepo.ListByPeriod(ctx, req.Month, req.Year)
	if err != nil {
		return payroll.ExportFile{}, fmt.Errorf("failed to list payrolls: %w", err)
	}

	content, err := renderWorkbook(fmt.Sprintf("Payroll %04d-%02d", req.Year, req.Month), payrolls)
	if err != nil {
		return payroll.ExportFile{}, err
	}

	return payroll.ExportFile{
		FileName:    fmt.Sprintf("payroll-%04d-%02d.xlsx", req.Year, req.Month),
		ContentType: xlsxContentType,
		Content:     content,
	}, nil
}

func renderWorkbook(sheet string, payrolls []payroll.Payroll) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	if err := f.SetSheetRow(sheet, "A1", &exportHeader); err != nil {
		return nil, fmt.Errorf("failed to write header: %w", err)
	}
	boldStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}
	if err := f.SetRowStyle(sheet, 1, 1, boldStyle); err != nil {
		return nil, fmt.Errorf("failed to style header: %w", err)
	}

	totalNet := decimal.Zero
	for i, p := range payrolls {
		var name, mail, dept, position, paidAt string
		if p.Employee != nil {
			position = p.Employee.Position
			if p.Employee.User != nil {
				name = p.Employee.User.FullName()
				mail = p.Employee.User.Email
			}
			if p.Employee.Department != nil {
				dept = p.Employee.Department.Name
			}
		}
		if p.PaidAt != nil {
			paidAt = p.PaidAt.Format("2006-01-02 15:04")
		}

		row := []interface{}{
			name, mail, dept, position,
			p.BaseSalary.InexactFloat64(),
			p.Allowances.InexactFloat64(),
			p.Deductions.InexactFloat64(),
			p.Tax.InexactFloat64(),
			p.NetSalary.InexactFloat64(),
			string(p.Status), paidAt,
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
		totalNet = totalNet.Add(p.NetSalary)
	}

	totalRow := len(payrolls) + 2
	if err := f.SetCellValue(sheet, fmt.Sprintf("H%d", totalRow), "Total"); err != nil {
		return nil, err
	}
	if err := f.SetCellValue(sheet, fmt.Sprintf("I%d", totalRow), totalNet.InexactFloat64()); err != nil {
		return nil, err
	}
	if err := f.SetRowStyle(sheet, totalRow, totalRow, boldStyle); err != nil {
		return nil, err
	}
	if err := f.SetColWidth(sheet, "A", "D", 24); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to render workbook: %w", err)
	}
	return buf.Bytes(), nil
}
