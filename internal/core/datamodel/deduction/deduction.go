package deduction

import (
	"time"

	"github.com/shopspring/decimal"
)

// DeductionType is reference data consumed, not owned, by the calculation
// engine.
type DeductionType struct {
	ID            int64           `gorm:"primaryKey"`
	Name          string          `gorm:"column:name;not null"`
	DefaultAmount decimal.Decimal `gorm:"column:default_amount;type:numeric(14,2)"`
	IsActive      bool            `gorm:"column:is_active;default:true"`
	CreatedAt     time.Time       `gorm:"column:created_at;autoCreateTime"`
}

func (DeductionType) TableName() string {
	return "deduction_types"
}

// EmployeeDeduction is an active per-employee deduction balance applied each
// period while it remains active.
type EmployeeDeduction struct {
	ID              int64           `gorm:"primaryKey"`
	EmployeeID      int64           `gorm:"column:employee_id;not null;index"`
	DeductionTypeID int64           `gorm:"column:deduction_type_id;not null"`
	Amount          decimal.Decimal `gorm:"column:amount;type:numeric(14,2);not null"`
	IsActive        bool            `gorm:"column:is_active;default:true"`
	CreatedAt       time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

func (EmployeeDeduction) TableName() string {
	return "employee_deductions"
}

// EmployeeBenefit is an active per-employee benefit entry, added after
// deductions when deriving net pay.
type EmployeeBenefit struct {
	ID         int64           `gorm:"primaryKey"`
	EmployeeID int64           `gorm:"column:employee_id;not null;index"`
	Name       string          `gorm:"column:name;not null"`
	Amount     decimal.Decimal `gorm:"column:amount;type:numeric(14,2);not null"`
	IsActive   bool            `gorm:"column:is_active;default:true"`
	CreatedAt  time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

func (EmployeeBenefit) TableName() string {
	return "employee_benefits"
}
