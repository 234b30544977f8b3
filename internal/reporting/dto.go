package reporting

import (
	"github.com/shopspring/decimal"
)

// PeriodSummary aggregates the generated records of one period.
type PeriodSummary struct {
	PeriodID        int64           `db:"period_id" json:"period_id"`
	PeriodName      string          `db:"period_name" json:"period_name"`
	Status          string          `db:"status" json:"status"`
	TotalEmployees  int64           `db:"total_employees" json:"total_employees"`
	TotalGrossPay   decimal.Decimal `db:"total_gross_pay" json:"total_gross_pay"`
	TotalDeductions decimal.Decimal `db:"total_deductions" json:"total_deductions"`
	TotalBenefits   decimal.Decimal `db:"total_benefits" json:"total_benefits"`
	TotalNetPay     decimal.Decimal `db:"total_net_pay" json:"total_net_pay"`
}

// DashboardStats is the operational overview, optionally scoped to one
// department when a department head is asking.
type DashboardStats struct {
	ActiveEmployees    int64           `db:"active_employees" json:"active_employees"`
	DraftPeriods       int64           `db:"draft_periods" json:"draft_periods"`
	InReviewPeriods    int64           `db:"in_review_periods" json:"in_review_periods"`
	CompletedPeriods   int64           `db:"completed_periods" json:"completed_periods"`
	PendingApprovals   int64           `db:"pending_approvals" json:"pending_approvals"`
	CurrentPeriodGross decimal.Decimal `db:"current_period_gross" json:"current_period_gross"`
	DepartmentID       *int64          `db:"-" json:"department_id,omitempty"`
}
