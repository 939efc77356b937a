package department

import (
	"context"
	"strings"
	"testing"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/department"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memoryRepo enforces the unique name the way the database constraint does.
type memoryRepo struct {
	rows  []department.Department
	count map[string]int64
}

func (m *memoryRepo) GetByID(_ context.Context, id string) (department.Department, error) {
	for _, d := range m.rows {
		if d.ID == id {
			d.EmployeeCount = m.count[id]
			return d, nil
		}
	}
	return department.Department{}, department.ErrDepartmentNotFound
}

func (m *memoryRepo) nameTaken(name, exceptID string) bool {
	for _, d := range m.rows {
		if d.ID != exceptID && strings.EqualFold(d.Name, name) {
			return true
		}
	}
	return false
}

func (m *memoryRepo) List(_ context.Context, filter department.DepartmentFilter) ([]department.Department, int64, error) {
	var out []department.Department
	for _, d := range m.rows {
		if filter.Search != nil && !strings.Contains(strings.ToLower(d.Name), strings.ToLower(*filter.Search)) {
			continue
		}
		d.EmployeeCount = m.count[d.ID]
		out = append(out, d)
	}
	return out, int64(len(out)), nil
}

func (m *memoryRepo) Create(_ context.Context, d department.Department) (department.Department, error) {
	if m.nameTaken(d.Name, "") {
		return department.Department{}, department.ErrDepartmentNameExists
	}
	d.ID = "dept-" + strings.ToLower(d.Name)
	m.rows = append(m.rows, d)
	return d, nil
}

func (m *memoryRepo) Update(_ context.Context, id string, req department.UpdateDepartmentRequest) error {
	for i, d := range m.rows {
		if d.ID != id {
			continue
		}
		if req.Name != nil {
			if m.nameTaken(*req.Name, id) {
				return department.ErrDepartmentNameExists
			}
			m.rows[i].Name = *req.Name
		}
		if req.Description != nil {
			m.rows[i].Description = req.Description
		}
		return nil
	}
	return department.ErrDepartmentNotFound
}

func (m *memoryRepo) Delete(_ context.Context, id string) error {
	for i, d := range m.rows {
		if d.ID == id {
			m.rows = append(m.rows[:i], m.rows[i+1:]...)
			return nil
		}
	}
	return department.ErrDepartmentNotFound
}

func TestDepartmentLifecycle(t *testing.T) {
	repo := &memoryRepo{count: map[string]int64{}}
	svc := NewDepartmentService(repo)
	ctx := context.Background()

	eng, err := svc.Create(ctx, department.CreateDepartmentRequest{Name: "Engineering"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, department.CreateDepartmentRequest{Name: "Finance"})
	require.NoError(t, err)

	_, err = svc.Create(ctx, department.CreateDepartmentRequest{Name: "engineering"})
	assert.ErrorIs(t, err, department.ErrDepartmentNameExists)

	repo.count[eng.ID] = 3
	search := "eng"
	list, err := svc.List(ctx, department.DepartmentFilter{Search: &search, Page: 1, Limit: 20})
	require.NoError(t, err)
	require.Len(t, list.Departments, 1)
	assert.Equal(t, int64(3), list.Departments[0].EmployeeCount)
	assert.Equal(t, "1-1 of 1", list.Showing)

	finance := "Finance"
	_, err = svc.Update(ctx, eng.ID, department.UpdateDepartmentRequest{Name: &finance})
	assert.ErrorIs(t, err, department.ErrDepartmentNameExists)

	desc := "Builds the product"
	updated, err := svc.Update(ctx, eng.ID, department.UpdateDepartmentRequest{Description: &desc})
	require.NoError(t, err)
	assert.Equal(t, "Engineering", updated.Name)
	require.NotNil(t, updated.Description)
	assert.Equal(t, desc, *updated.Description)

	require.NoError(t, svc.Delete(ctx, eng.ID))
	_, err = svc.GetByID(ctx, eng.ID)
	assert.ErrorIs(t, err, department.ErrDepartmentNotFound)
}

func TestCreateDepartmentRequest_Validate(t *testing.T) {
	req := department.CreateDepartmentRequest{Name: "   "}
	assert.Error(t, req.Validate())

	req = department.CreateDepartmentRequest{Name: "  Sales "}
	require.NoError(t, req.Validate())
	assert.Equal(t, "Sales", req.Name)
}
