package postgres

import (
	"context"

	"gorm.io/gorm"

	employeeDatamodel "github.com/frahmantamala/payroll-management/internal/core/datamodel/employee"
	"github.com/frahmantamala/payroll-management/internal/payrollrecord"
)

// EmployeeDirectoryAdapter lists active employees with their compensation
// data for the generation batch.
type EmployeeDirectoryAdapter struct {
	db *gorm.DB
}

func NewEmployeeDirectoryAdapter(db *gorm.DB) payrollrecord.EmployeeDirectory {
	return &EmployeeDirectoryAdapter{db: db}
}

func (a *EmployeeDirectoryAdapter) ListActive(ctx context.Context) ([]*payrollrecord.Employee, error) {
	var dms []*employeeDatamodel.Employee
	err := a.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("id ASC").
		Find(&dms).Error
	if err != nil {
		return nil, err
	}

	employees := make([]*payrollrecord.Employee, len(dms))
	for i, dm := range dms {
		employees[i] = &payrollrecord.Employee{
			ID:           dm.ID,
			Name:         dm.Name,
			DepartmentID: dm.DepartmentID,
			BaseSalary:   dm.BaseSalary,
			HourlyRate:   dm.HourlyRate,
		}
	}
	return employees, nil
}
