package payrollperiod

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/frahmantamala/payroll-management/internal"
)

// CreatePeriodDTO is the request payload for creating a payroll period.
type CreatePeriodDTO struct {
	PeriodName           string          `json:"period_name"`
	StartDate            time.Time       `json:"start_date"`
	EndDate              time.Time       `json:"end_date"`
	WorkingDays          int             `json:"working_days"`
	ExpectedMonthlyHours decimal.Decimal `json:"expected_monthly_hours"`
}

func (dto CreatePeriodDTO) Validate() error {
	if dto.PeriodName == "" {
		return internal.NewValidationFieldError("period_name", "period name is required", internal.ErrCodeValidationFailed)
	}
	if dto.StartDate.IsZero() || dto.EndDate.IsZero() {
		return internal.NewValidationFieldError("start_date", "start and end dates are required", internal.ErrCodeInvalidDateRange)
	}
	if !dto.StartDate.Before(dto.EndDate) {
		return internal.NewValidationError("start date must be before end date", internal.ErrCodeInvalidDateRange)
	}
	if dto.WorkingDays <= 0 {
		return internal.NewValidationFieldError("working_days", "working days must be positive", internal.ErrCodeValidationFailed)
	}
	if dto.ExpectedMonthlyHours.LessThanOrEqual(decimal.Zero) {
		return internal.NewValidationFieldError("expected_monthly_hours", "expected monthly hours must be positive", internal.ErrCodeInvalidHours)
	}
	return nil
}

// UpdatePeriodDTO carries optional fields; nil means leave unchanged.
// Structural fields may only change while the period is still draft.
type UpdatePeriodDTO struct {
	PeriodName           *string          `json:"period_name,omitempty"`
	StartDate            *time.Time       `json:"start_date,omitempty"`
	EndDate              *time.Time       `json:"end_date,omitempty"`
	WorkingDays          *int             `json:"working_days,omitempty"`
	ExpectedMonthlyHours *decimal.Decimal `json:"expected_monthly_hours,omitempty"`
}

func (dto UpdatePeriodDTO) Validate() error {
	if dto.PeriodName != nil && *dto.PeriodName == "" {
		return internal.NewValidationFieldError("period_name", "period name cannot be empty", internal.ErrCodeValidationFailed)
	}
	if dto.WorkingDays != nil && *dto.WorkingDays <= 0 {
		return internal.NewValidationFieldError("working_days", "working days must be positive", internal.ErrCodeValidationFailed)
	}
	if dto.ExpectedMonthlyHours != nil && dto.ExpectedMonthlyHours.LessThanOrEqual(decimal.Zero) {
		return internal.NewValidationFieldError("expected_monthly_hours", "expected monthly hours must be positive", internal.ErrCodeInvalidHours)
	}
	if dto.StartDate != nil && dto.EndDate != nil && !dto.StartDate.Before(*dto.EndDate) {
		return internal.NewValidationError("start date must be before end date", internal.ErrCodeInvalidDateRange)
	}
	return nil
}

// ListFilter narrows period listings; zero values mean no filtering.
type ListFilter struct {
	Status    string
	StartFrom *time.Time
	EndUntil  *time.Time
	Limit     int
	Offset    int
}

func (f *ListFilter) Normalize() {
	if f.Limit <= 0 || f.Limit > 100 {
		f.Limit = 20
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
}
