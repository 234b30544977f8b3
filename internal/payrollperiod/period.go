package payrollperiod

import (
	"time"

	"github.com/shopspring/decimal"

	payrollDatamodel "github.com/frahmantamala/payroll-management/internal/core/datamodel/payroll"
)

// Period lifecycle states. processing is transient, held only while record
// generation runs for the period.
const (
	StatusDraft         = "draft"
	StatusProcessing    = "processing"
	StatusSentForReview = "sent_for_review"
	StatusCompleted     = "completed"
)

type Period struct {
	ID                   int64           `json:"id"`
	PeriodName           string          `json:"period_name"`
	StartDate            time.Time       `json:"start_date"`
	EndDate              time.Time       `json:"end_date"`
	WorkingDays          int             `json:"working_days"`
	ExpectedMonthlyHours decimal.Decimal `json:"expected_monthly_hours"`
	Status               string          `json:"status"`
	CreatedAt            time.Time       `json:"created_at"`
	UpdatedAt            time.Time       `json:"updated_at"`
}

// validTransitions encodes the state machine. The sent_for_review -> draft
// edge is the rejection rollback; everything else is monotonic.
var validTransitions = map[string][]string{
	StatusDraft:         {StatusProcessing, StatusSentForReview},
	StatusProcessing:    {StatusDraft},
	StatusSentForReview: {StatusCompleted, StatusDraft},
	StatusCompleted:     {},
}

func (p *Period) CanTransitionTo(target string) bool {
	for _, next := range validTransitions[p.Status] {
		if next == target {
			return true
		}
	}
	return false
}

// CanBeDeleted is the draft-only guard; call sites must additionally ensure
// no approval records exist for the period.
func (p *Period) CanBeDeleted() bool {
	return p.Status == StatusDraft
}

func (p *Period) IsEditable() bool {
	return p.Status == StatusDraft
}

func ToDataModel(p *Period) *payrollDatamodel.PayrollPeriod {
	return &payrollDatamodel.PayrollPeriod{
		ID:                   p.ID,
		PeriodName:           p.PeriodName,
		StartDate:            p.StartDate,
		EndDate:              p.EndDate,
		WorkingDays:          p.WorkingDays,
		ExpectedMonthlyHours: p.ExpectedMonthlyHours,
		Status:               p.Status,
		CreatedAt:            p.CreatedAt,
		UpdatedAt:            p.UpdatedAt,
	}
}

func FromDataModel(p *payrollDatamodel.PayrollPeriod) *Period {
	return &Period{
		ID:                   p.ID,
		PeriodName:           p.PeriodName,
		StartDate:            p.StartDate,
		EndDate:              p.EndDate,
		WorkingDays:          p.WorkingDays,
		ExpectedMonthlyHours: p.ExpectedMonthlyHours,
		Status:               p.Status,
		CreatedAt:            p.CreatedAt,
		UpdatedAt:            p.UpdatedAt,
	}
}

func FromDataModelSlice(periods []*payrollDatamodel.PayrollPeriod) []*Period {
	result := make([]*Period, len(periods))
	for i, p := range periods {
		result[i] = FromDataModel(p)
	}
	return result
}
