package payroll

import (
	"time"

	"github.com/shopspring/decimal"
)

// PayrollPeriod is one pay cycle. Status follows the lifecycle
// draft -> processing -> sent_for_review -> {completed | draft}.
type PayrollPeriod struct {
	ID                   int64           `gorm:"primaryKey"`
	PeriodName           string          `gorm:"column:period_name;not null"`
	StartDate            time.Time       `gorm:"column:start_date;type:date;not null"`
	EndDate              time.Time       `gorm:"column:end_date;type:date;not null"`
	WorkingDays          int             `gorm:"column:working_days;not null"`
	ExpectedMonthlyHours decimal.Decimal `gorm:"column:expected_monthly_hours;type:numeric(6,1);not null"`
	Status               string          `gorm:"column:status;default:draft"`
	CreatedAt            time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt            time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

func (PayrollPeriod) TableName() string {
	return "payroll_periods"
}

// PayrollRecord is the computed pay breakdown for one employee within one
// period. Exactly one row exists per (payroll_period_id, employee_id).
type PayrollRecord struct {
	ID                 int64           `gorm:"primaryKey"`
	PayrollPeriodID    int64           `gorm:"column:payroll_period_id;not null;uniqueIndex:idx_record_period_employee"`
	EmployeeID         int64           `gorm:"column:employee_id;not null;uniqueIndex:idx_record_period_employee"`
	DepartmentID       int64           `gorm:"column:department_id;not null"`
	BaseSalary         decimal.Decimal `gorm:"column:base_salary;type:numeric(14,2);not null"`
	HourlyRate         decimal.Decimal `gorm:"column:hourly_rate;type:numeric(12,2);not null"`
	TotalRegularHours  decimal.Decimal `gorm:"column:total_regular_hours;type:numeric(6,1)"`
	TotalOvertimeHours decimal.Decimal `gorm:"column:total_overtime_hours;type:numeric(6,1)"`
	TotalLateHours     decimal.Decimal `gorm:"column:total_late_hours;type:numeric(6,1)"`
	PaidLeaveHours     decimal.Decimal `gorm:"column:paid_leave_hours;type:numeric(6,1)"`
	LateDeductions     decimal.Decimal `gorm:"column:late_deductions;type:numeric(14,2)"`
	GrossPay           decimal.Decimal `gorm:"column:gross_pay;type:numeric(14,2)"`
	TotalDeductions    decimal.Decimal `gorm:"column:total_deductions;type:numeric(14,2)"`
	TotalBenefits      decimal.Decimal `gorm:"column:total_benefits;type:numeric(14,2)"`
	NetPay             decimal.Decimal `gorm:"column:net_pay;type:numeric(14,2)"`
	Status             string          `gorm:"column:status;default:draft"`
	CreatedAt          time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt          time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

func (PayrollRecord) TableName() string {
	return "payroll_records"
}

// PayrollApproval is one accountable party's decision on a period.
// DepartmentID is null for HR-wide approvers.
type PayrollApproval struct {
	ID              int64      `gorm:"primaryKey"`
	PayrollPeriodID int64      `gorm:"column:payroll_period_id;not null;uniqueIndex:idx_approval_period_approver"`
	ApproverID      int64      `gorm:"column:approver_id;not null;uniqueIndex:idx_approval_period_approver"`
	DepartmentID    *int64     `gorm:"column:department_id"`
	Status          string     `gorm:"column:status;default:pending"`
	Comments        string     `gorm:"column:comments"`
	ApprovedAt      *time.Time `gorm:"column:approved_at"`
	CreatedAt       time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

func (PayrollApproval) TableName() string {
	return "payroll_approvals"
}
