package postgres

import (
	"context"

	"gorm.io/gorm"

	deductionDatamodel "github.com/frahmantamala/payroll-management/internal/core/datamodel/deduction"
	"github.com/frahmantamala/payroll-management/internal/payrollrecord"
)

// DeductionCatalogAdapter reads active per-employee deduction balances and
// benefit entries. Only rows whose deduction type is still active count.
type DeductionCatalogAdapter struct {
	db *gorm.DB
}

func NewDeductionCatalogAdapter(db *gorm.DB) payrollrecord.DeductionCatalog {
	return &DeductionCatalogAdapter{db: db}
}

func (a *DeductionCatalogAdapter) ActiveDeductions(ctx context.Context, employeeID int64) ([]payrollrecord.Balance, error) {
	var results []payrollrecord.Balance
	err := a.db.WithContext(ctx).
		Model(&deductionDatamodel.EmployeeDeduction{}).
		Select("deduction_types.name AS name, employee_deductions.amount AS amount").
		Joins("JOIN deduction_types ON deduction_types.id = employee_deductions.deduction_type_id").
		Where("employee_deductions.employee_id = ? AND employee_deductions.is_active = ? AND deduction_types.is_active = ?",
			employeeID, true, true).
		Scan(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

func (a *DeductionCatalogAdapter) ActiveBenefits(ctx context.Context, employeeID int64) ([]payrollrecord.Balance, error) {
	var results []payrollrecord.Balance
	err := a.db.WithContext(ctx).
		Model(&deductionDatamodel.EmployeeBenefit{}).
		Select("name, amount").
		Where("employee_id = ? AND is_active = ?", employeeID, true).
		Scan(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}
