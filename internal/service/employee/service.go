package employee

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/department"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/pagination"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/workday"
)

type EmployeeServiceImpl struct {
	employeeRepo   employee.EmployeeRepository
	userRepo       user.UserRepository
	departmentRepo department.DepartmentRepository
}

func NewEmployeeService(
	employeeRepo employee.EmployeeRepository,
	userRepo user.UserRepository,
	departmentRepo department.DepartmentRepository,
) *EmployeeServiceImpl {
	return &EmployeeServiceImpl{
		employeeRepo:   employeeRepo,
		userRepo:       userRepo,
		departmentRepo: departmentRepo,
	}
}

// Create implements employee.EmployeeService.
func (s *EmployeeServiceImpl) Create(ctx context.Context, req employee.CreateEmployeeRequest) (employee.EmployeeResponse, error) {
	if _, err := s.userRepo.GetByID(ctx, req.UserID); err != nil {
		return employee.EmployeeResponse{}, err
	}

	if err := s.checkDepartment(ctx, req.DepartmentID); err != nil {
		return employee.EmployeeResponse{}, err
	}

	joined, err := time.Parse(workday.DateLayout, req.DateOfJoining)
	if err != nil {
		return employee.EmployeeResponse{}, fmt.Errorf("invalid date_of_joining: %w", err)
	}

	created, err := s.employeeRepo.Create(ctx, employee.Employee{
		UserID:        req.UserID,
		DepartmentID:  req.DepartmentID,
		Position:      strings.TrimSpace(req.Position),
		DateOfJoining: joined,
		Salary:        req.Salary,
	})
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	return employee.ToResponse(created), nil
}

func (s *EmployeeServiceImpl) checkDepartment(ctx context.Context, departmentID *string) error {
	if departmentID == nil || *departmentID == "" {
		return nil
	}
	_, err := s.departmentRepo.GetByID(ctx, *departmentID)
	return err
}

// GetByID implements employee.EmployeeService.
func (s *EmployeeServiceImpl) GetByID(ctx context.Context, id string) (employee.EmployeeResponse, error) {
	emp, err := s.employeeRepo.GetByID(ctx, id)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}
	return employee.ToResponse(emp), nil
}

// List implements employee.EmployeeService.
func (s *EmployeeServiceImpl) List(ctx context.Context, filter employee.EmployeeFilter) (employee.ListEmployeeResponse, error) {
	employees, total, err := s.employeeRepo.List(ctx, filter)
	if err != nil {
		return employee.ListEmployeeResponse{}, err
	}

	responses := make([]employee.EmployeeResponse, 0, len(employees))
	for _, emp := range employees {
		responses = append(responses, employee.ToResponse(emp))
	}

	return employee.ListEmployeeResponse{
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: pagination.TotalPages(total, filter.Limit),
		Showing:    pagination.Showing(filter.Page, filter.Limit, total),
		Employees:  responses,
	}, nil
}

// Update implements employee.EmployeeService.
func (s *EmployeeServiceImpl) Update(ctx context.Context, id string, req employee.UpdateEmployeeRequest) (employee.EmployeeResponse, error) {
	if err := s.checkDepartment(ctx, req.DepartmentID); err != nil {
		return employee.EmployeeResponse{}, err
	}

	if err := s.employeeRepo.Update(ctx, id, req); err != nil {
		return employee.EmployeeResponse{}, err
	}

	return s.GetByID(ctx, id)
}

// Delete implements employee.EmployeeService.
func (s *EmployeeServiceImpl) Delete(ctx context.Context, id string) error {
	return s.employeeRepo.Delete(ctx, id)
}

// Me implements employee.EmployeeService.
func (s *EmployeeServiceImpl) Me(ctx context.Context) (employee.EmployeeResponse, error) {
	claims, err := auth.ClaimsFromContext(ctx)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	// The token may predate the profile, so fall back to the user id.
	if claims.EmployeeID != nil {
		return s.GetByID(ctx, *claims.EmployeeID)
	}

	emp, err := s.employeeRepo.GetByUserID(ctx, claims.UserID)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}
	return employee.ToResponse(emp), nil
}

var _ employee.EmployeeService = (*EmployeeServiceImpl)(nil)
