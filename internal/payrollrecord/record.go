package payrollrecord

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/frahmantamala/payroll-management/internal"
	payrollDatamodel "github.com/frahmantamala/payroll-management/internal/core/datamodel/payroll"
)

// Record statuses. A record is draft until its department's approval lands,
// processed after, and paid once payout is confirmed.
const (
	StatusDraft     = "draft"
	StatusProcessed = "processed"
	StatusPaid      = "paid"
)

// Domain errors surfaced by the record service.
var (
	ErrRecordNotFound       = internal.NewNotFoundError("payroll record not found", internal.ErrCodeRecordNotFound)
	ErrRecordNotProcessed   = internal.NewInvalidStateError("payroll record is not processed", internal.ErrCodeRecordNotProcessed)
	ErrGenerationInProgress = internal.NewConflictError("record generation already running for this period", internal.ErrCodeGenerationInProgress)
	ErrPeriodNotGeneratable = internal.NewInvalidStateError("payroll period must be in draft to generate records", internal.ErrCodeInvalidPeriodState)
)

type Record struct {
	ID                 int64           `json:"id"`
	PayrollPeriodID    int64           `json:"payroll_period_id"`
	EmployeeID         int64           `json:"employee_id"`
	DepartmentID       int64           `json:"department_id"`
	BaseSalary         decimal.Decimal `json:"base_salary"`
	HourlyRate         decimal.Decimal `json:"hourly_rate"`
	TotalRegularHours  decimal.Decimal `json:"total_regular_hours"`
	TotalOvertimeHours decimal.Decimal `json:"total_overtime_hours"`
	TotalLateHours     decimal.Decimal `json:"total_late_hours"`
	PaidLeaveHours     decimal.Decimal `json:"paid_leave_hours"`
	LateDeductions     decimal.Decimal `json:"late_deductions"`
	GrossPay           decimal.Decimal `json:"gross_pay"`
	TotalDeductions    decimal.Decimal `json:"total_deductions"`
	TotalBenefits      decimal.Decimal `json:"total_benefits"`
	NetPay             decimal.Decimal `json:"net_pay"`
	Status             string          `json:"status"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
}

// HourAggregate is the per-employee hour summary for one period, as produced
// by the attendance subsystem.
type HourAggregate struct {
	RegularHours   decimal.Decimal `json:"regular_hours"`
	OvertimeHours  decimal.Decimal `json:"overtime_hours"`
	LateHours      decimal.Decimal `json:"late_hours"`
	PaidLeaveHours decimal.Decimal `json:"paid_leave_hours"`
}

// Balance is one active deduction or benefit line for an employee.
type Balance struct {
	Name   string          `json:"name"`
	Amount decimal.Decimal `json:"amount"`
}

// Employee carries the compensation data the engine needs. HourlyRate is nil
// when the employee has no explicit rate; it is then derived from base salary
// and the period's expected monthly hours.
type Employee struct {
	ID           int64
	Name         string
	DepartmentID int64
	BaseSalary   decimal.Decimal
	HourlyRate   *decimal.Decimal
}

func ToDataModel(rec *Record) *payrollDatamodel.PayrollRecord {
	return &payrollDatamodel.PayrollRecord{
		ID:                 rec.ID,
		PayrollPeriodID:    rec.PayrollPeriodID,
		EmployeeID:         rec.EmployeeID,
		DepartmentID:       rec.DepartmentID,
		BaseSalary:         rec.BaseSalary,
		HourlyRate:         rec.HourlyRate,
		TotalRegularHours:  rec.TotalRegularHours,
		TotalOvertimeHours: rec.TotalOvertimeHours,
		TotalLateHours:     rec.TotalLateHours,
		PaidLeaveHours:     rec.PaidLeaveHours,
		LateDeductions:     rec.LateDeductions,
		GrossPay:           rec.GrossPay,
		TotalDeductions:    rec.TotalDeductions,
		TotalBenefits:      rec.TotalBenefits,
		NetPay:             rec.NetPay,
		Status:             rec.Status,
		CreatedAt:          rec.CreatedAt,
		UpdatedAt:          rec.UpdatedAt,
	}
}

func FromDataModel(dm *payrollDatamodel.PayrollRecord) *Record {
	return &Record{
		ID:                 dm.ID,
		PayrollPeriodID:    dm.PayrollPeriodID,
		EmployeeID:         dm.EmployeeID,
		DepartmentID:       dm.DepartmentID,
		BaseSalary:         dm.BaseSalary,
		HourlyRate:         dm.HourlyRate,
		TotalRegularHours:  dm.TotalRegularHours,
		TotalOvertimeHours: dm.TotalOvertimeHours,
		TotalLateHours:     dm.TotalLateHours,
		PaidLeaveHours:     dm.PaidLeaveHours,
		LateDeductions:     dm.LateDeductions,
		GrossPay:           dm.GrossPay,
		TotalDeductions:    dm.TotalDeductions,
		TotalBenefits:      dm.TotalBenefits,
		NetPay:             dm.NetPay,
		Status:             dm.Status,
		CreatedAt:          dm.CreatedAt,
		UpdatedAt:          dm.UpdatedAt,
	}
}

func FromDataModelSlice(dms []*payrollDatamodel.PayrollRecord) []*Record {
	result := make([]*Record, len(dms))
	for i, dm := range dms {
		result[i] = FromDataModel(dm)
	}
	return result
}
