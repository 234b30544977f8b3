package postgres

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/frahmantamala/payroll-management/internal/payrollperiod"
	"github.com/frahmantamala/payroll-management/internal/reporting"
)

// ReportRepository runs the read-side aggregates as raw SQL over sqlx; GORM
// buys nothing for GROUP BY reporting queries.
type ReportRepository struct {
	db *sqlx.DB
}

func NewReportRepository(db *sqlx.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

const periodSummaryQuery = `
SELECT p.id                              AS period_id,
       p.period_name                     AS period_name,
       p.status                          AS status,
       COUNT(r.id)                       AS total_employees,
       COALESCE(SUM(r.gross_pay), 0)     AS total_gross_pay,
       COALESCE(SUM(r.total_deductions), 0) AS total_deductions,
       COALESCE(SUM(r.total_benefits), 0)   AS total_benefits,
       COALESCE(SUM(r.net_pay), 0)       AS total_net_pay
FROM payroll_periods p
LEFT JOIN payroll_records r ON r.payroll_period_id = p.id
WHERE p.id = $1
GROUP BY p.id, p.period_name, p.status`

func (r *ReportRepository) GetPeriodSummary(ctx context.Context, periodID int64) (*reporting.PeriodSummary, error) {
	var summary reporting.PeriodSummary
	if err := r.db.GetContext(ctx, &summary, periodSummaryQuery, periodID); err != nil {
		return nil, err
	}
	return &summary, nil
}

func (r *ReportRepository) GetDashboardStats(ctx context.Context, departmentID *int64) (*reporting.DashboardStats, error) {
	var stats reporting.DashboardStats

	employeeQuery := `SELECT COUNT(*) FROM employees WHERE is_active = true`
	employeeArgs := []interface{}{}
	if departmentID != nil {
		employeeQuery += ` AND department_id = $1`
		employeeArgs = append(employeeArgs, *departmentID)
	}
	if err := r.db.GetContext(ctx, &stats.ActiveEmployees, employeeQuery, employeeArgs...); err != nil {
		return nil, err
	}

	periodCountQuery := `
SELECT COALESCE(SUM(CASE WHEN status = $1 THEN 1 ELSE 0 END), 0) AS draft_periods,
       COALESCE(SUM(CASE WHEN status = $2 THEN 1 ELSE 0 END), 0) AS in_review_periods,
       COALESCE(SUM(CASE WHEN status = $3 THEN 1 ELSE 0 END), 0) AS completed_periods
FROM payroll_periods`
	var periodCounts struct {
		DraftPeriods     int64 `db:"draft_periods"`
		InReviewPeriods  int64 `db:"in_review_periods"`
		CompletedPeriods int64 `db:"completed_periods"`
	}
	err := r.db.GetContext(ctx, &periodCounts, periodCountQuery,
		payrollperiod.StatusDraft, payrollperiod.StatusSentForReview, payrollperiod.StatusCompleted)
	if err != nil {
		return nil, err
	}
	stats.DraftPeriods = periodCounts.DraftPeriods
	stats.InReviewPeriods = periodCounts.InReviewPeriods
	stats.CompletedPeriods = periodCounts.CompletedPeriods

	pendingQuery := `SELECT COUNT(*) FROM payroll_approvals WHERE status = 'pending'`
	pendingArgs := []interface{}{}
	if departmentID != nil {
		pendingQuery += ` AND department_id = $1`
		pendingArgs = append(pendingArgs, *departmentID)
	}
	if err := r.db.GetContext(ctx, &stats.PendingApprovals, pendingQuery, pendingArgs...); err != nil {
		return nil, err
	}

	// Gross of the most recent period's records, scoped when a department is.
	grossQuery := `
SELECT COALESCE(SUM(r.gross_pay), 0)
FROM payroll_records r
WHERE r.payroll_period_id = (
    SELECT id FROM payroll_periods ORDER BY end_date DESC, id DESC LIMIT 1
)`
	grossArgs := []interface{}{}
	if departmentID != nil {
		grossQuery += ` AND r.department_id = $1`
		grossArgs = append(grossArgs, *departmentID)
	}
	if err := r.db.GetContext(ctx, &stats.CurrentPeriodGross, grossQuery, grossArgs...); err != nil {
		return nil, err
	}

	return &stats, nil
}
