package employee

import (
	"time"

	"github.com/shopspring/decimal"
)

type Employee struct {
	ID           int64            `gorm:"primaryKey"`
	Name         string           `gorm:"column:name;not null"`
	Email        string           `gorm:"column:email;not null"`
	DepartmentID int64            `gorm:"column:department_id;not null;index"`
	BaseSalary   decimal.Decimal  `gorm:"column:base_salary;type:numeric(14,2)"`
	HourlyRate   *decimal.Decimal `gorm:"column:hourly_rate;type:numeric(12,2)"`
	IsActive     bool             `gorm:"column:is_active;default:true"`
	CreatedAt    time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}

func (Employee) TableName() string {
	return "employees"
}

type Department struct {
	ID         int64     `gorm:"primaryKey"`
	Name       string    `gorm:"column:name;not null"`
	HeadUserID *int64    `gorm:"column:head_user_id"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Department) TableName() string {
	return "departments"
}

// AttendanceAggregate is the per-employee per-period hour summary produced by
// the attendance subsystem; the payroll engine consumes it as-is.
type AttendanceAggregate struct {
	ID              int64           `gorm:"primaryKey"`
	PayrollPeriodID int64           `gorm:"column:payroll_period_id;not null;uniqueIndex:idx_aggregate_period_employee"`
	EmployeeID      int64           `gorm:"column:employee_id;not null;uniqueIndex:idx_aggregate_period_employee"`
	RegularHours    decimal.Decimal `gorm:"column:regular_hours;type:numeric(6,1)"`
	OvertimeHours   decimal.Decimal `gorm:"column:overtime_hours;type:numeric(6,1)"`
	LateHours       decimal.Decimal `gorm:"column:late_hours;type:numeric(6,1)"`
	PaidLeaveHours  decimal.Decimal `gorm:"column:paid_leave_hours;type:numeric(6,1)"`
	CreatedAt       time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

func (AttendanceAggregate) TableName() string {
	return "attendance_aggregates"
}
