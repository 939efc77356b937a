package payroll

import "context"

type PayrollService interface {
	Generate(ctx context.Context, req GeneratePayrollRequest) (GeneratePayrollResponse, error)
	GetByID(ctx context.Context, id string) (PayrollResponse, error)
	List(ctx context.Context, filter PayrollFilter) (ListPayrollResponse, error)
	Update(ctx context.Context, id string, req UpdatePayrollRequest) (PayrollResponse, error)
	UpdateStatus(ctx context.Context, id string, req UpdatePayrollStatusRequest) (PayrollResponse, error)
	Delete(ctx context.Context, id string) error
	Export(ctx context.Context, req ExportPayrollRequest) (ExportFile, error)
	MyList(ctx context.Context, filter PayrollFilter) (ListPayrollResponse, error)
}
