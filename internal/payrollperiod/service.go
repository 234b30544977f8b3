package payrollperiod

import (
	"log/slog"
	"time"

	"github.com/frahmantamala/payroll-management/internal"
)

// Domain errors surfaced by the period service.
var (
	ErrPeriodNotFound = internal.NewNotFoundError("payroll period not found", internal.ErrCodePeriodNotFound)
	ErrPeriodNotDraft = internal.NewInvalidStateError("payroll period is not in draft", internal.ErrCodePeriodNotDraft)
	ErrPeriodHasApprovals = internal.NewInvalidStateError("payroll period has approval records", internal.ErrCodePeriodHasApprovals)
)

// Repository defines the data access methods for payroll periods.
type Repository interface {
	Create(period *Period) error
	GetByID(id int64) (*Period, error)
	List(filter ListFilter) ([]*Period, int64, error)
	Update(period *Period) error
	Delete(id int64) error
	// TransitionStatus conditionally moves the period from one status to
	// another; it reports false without error when the period was no longer
	// in the expected status, so racing callers degrade to a no-op.
	TransitionStatus(id int64, from, to string) (bool, error)
	CountApprovals(periodID int64) (int64, error)
}

// Service owns payroll period CRUD and guards the lifecycle invariants.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

func (s *Service) CreatePeriod(dto CreatePeriodDTO) (*Period, error) {
	if err := dto.Validate(); err != nil {
		s.logger.Error("period validation failed", "error", err, "period_name", dto.PeriodName)
		return nil, err
	}

	now := time.Now()
	period := &Period{
		PeriodName:           dto.PeriodName,
		StartDate:            dto.StartDate,
		EndDate:              dto.EndDate,
		WorkingDays:          dto.WorkingDays,
		ExpectedMonthlyHours: dto.ExpectedMonthlyHours,
		Status:               StatusDraft,
		CreatedAt:            now,
		UpdatedAt:            now,
	}

	if err := s.repo.Create(period); err != nil {
		s.logger.Error("failed to create period", "error", err, "period_name", dto.PeriodName)
		return nil, internal.NewInternalError("failed to create payroll period", err)
	}

	s.logger.Info("payroll period created",
		"period_id", period.ID,
		"period_name", period.PeriodName,
		"start_date", period.StartDate,
		"end_date", period.EndDate)

	return period, nil
}

func (s *Service) GetPeriod(id int64) (*Period, error) {
	period, err := s.repo.GetByID(id)
	if err != nil {
		s.logger.Error("failed to get period", "error", err, "period_id", id)
		return nil, ErrPeriodNotFound
	}
	return period, nil
}

func (s *Service) ListPeriods(filter ListFilter) ([]*Period, int64, error) {
	filter.Normalize()

	periods, total, err := s.repo.List(filter)
	if err != nil {
		s.logger.Error("failed to list periods", "error", err)
		return nil, 0, internal.NewInternalError("failed to list payroll periods", err)
	}
	return periods, total, nil
}

func (s *Service) UpdatePeriod(id int64, dto UpdatePeriodDTO) (*Period, error) {
	if err := dto.Validate(); err != nil {
		s.logger.Error("period update validation failed", "error", err, "period_id", id)
		return nil, err
	}

	period, err := s.repo.GetByID(id)
	if err != nil {
		return nil, ErrPeriodNotFound
	}

	structural := dto.StartDate != nil || dto.EndDate != nil ||
		dto.WorkingDays != nil || dto.ExpectedMonthlyHours != nil
	if structural && !period.IsEditable() {
		s.logger.Warn("structural update rejected for non-draft period",
			"period_id", id, "status", period.Status)
		return nil, ErrPeriodNotDraft
	}

	if dto.PeriodName != nil {
		period.PeriodName = *dto.PeriodName
	}
	if dto.StartDate != nil {
		period.StartDate = *dto.StartDate
	}
	if dto.EndDate != nil {
		period.EndDate = *dto.EndDate
	}
	if !period.StartDate.Before(period.EndDate) {
		return nil, internal.NewValidationError("start date must be before end date", internal.ErrCodeInvalidDateRange)
	}
	if dto.WorkingDays != nil {
		period.WorkingDays = *dto.WorkingDays
	}
	if dto.ExpectedMonthlyHours != nil {
		period.ExpectedMonthlyHours = *dto.ExpectedMonthlyHours
	}
	period.UpdatedAt = time.Now()

	if err := s.repo.Update(period); err != nil {
		s.logger.Error("failed to update period", "error", err, "period_id", id)
		return nil, internal.NewInternalError("failed to update payroll period", err)
	}

	s.logger.Info("payroll period updated", "period_id", id)
	return period, nil
}

// DeletePeriod removes a period that never left draft and has no approval
// fan-out attached; records for the period cascade at the database level.
func (s *Service) DeletePeriod(id int64) error {
	period, err := s.repo.GetByID(id)
	if err != nil {
		return ErrPeriodNotFound
	}

	if !period.CanBeDeleted() {
		s.logger.Warn("cannot delete period in current status",
			"period_id", id, "status", period.Status)
		return ErrPeriodNotDraft
	}

	approvals, err := s.repo.CountApprovals(id)
	if err != nil {
		s.logger.Error("failed to count approvals for period", "error", err, "period_id", id)
		return internal.NewInternalError("failed to check period approvals", err)
	}
	if approvals > 0 {
		s.logger.Warn("cannot delete period with approval records",
			"period_id", id, "approval_count", approvals)
		return ErrPeriodHasApprovals
	}

	if err := s.repo.Delete(id); err != nil {
		s.logger.Error("failed to delete period", "error", err, "period_id", id)
		return internal.NewInternalError("failed to delete payroll period", err)
	}

	s.logger.Info("payroll period deleted", "period_id", id)
	return nil
}
