package payrollrecord

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/frahmantamala/payroll-management/internal"
	"github.com/frahmantamala/payroll-management/internal/core/events"
	"github.com/frahmantamala/payroll-management/internal/payrollperiod"
)

// ErrAggregateNotFound is returned by AttendanceAggregates when no attendance
// exists for the employee in the period; the engine treats it as zero hours.
var ErrAggregateNotFound = errors.New("attendance aggregate not found")

// AttendanceAggregates is the consumed attendance capability.
type AttendanceAggregates interface {
	Get(ctx context.Context, periodID, employeeID int64) (*HourAggregate, error)
}

// DeductionCatalog is the consumed deduction/benefit capability.
type DeductionCatalog interface {
	ActiveDeductions(ctx context.Context, employeeID int64) ([]Balance, error)
	ActiveBenefits(ctx context.Context, employeeID int64) ([]Balance, error)
}

// EmployeeDirectory lists employees eligible for payroll.
type EmployeeDirectory interface {
	ListActive(ctx context.Context) ([]*Employee, error)
}

// Repository defines the data access methods for payroll records.
type Repository interface {
	// ReplaceForPeriod atomically swaps the period's record set so
	// regeneration replaces rather than duplicates.
	ReplaceForPeriod(periodID int64, records []*Record) error
	GetByID(id int64) (*Record, error)
	List(filter ListFilter) ([]*Record, error)
	// UpdateStatus conditionally moves a record between statuses and reports
	// whether a row actually changed.
	UpdateStatus(id int64, from, to string) (bool, error)
}

// PeriodStore is the slice of the period repository the generator needs.
type PeriodStore interface {
	GetByID(id int64) (*payrollperiod.Period, error)
	TransitionStatus(id int64, from, to string) (bool, error)
}

// Service runs the calculation engine over a period's employee roster and
// owns record reads and payout transitions.
type Service struct {
	engine     *Engine
	repo       Repository
	periods    PeriodStore
	attendance AttendanceAggregates
	deductions DeductionCatalog
	employees  EmployeeDirectory
	eventBus   *events.EventBus
	logger     *slog.Logger
}

func NewService(
	engine *Engine,
	repo Repository,
	periods PeriodStore,
	attendance AttendanceAggregates,
	deductions DeductionCatalog,
	employees EmployeeDirectory,
	eventBus *events.EventBus,
	logger *slog.Logger,
) *Service {
	return &Service{
		engine:     engine,
		repo:       repo,
		periods:    periods,
		attendance: attendance,
		deductions: deductions,
		employees:  employees,
		eventBus:   eventBus,
		logger:     logger,
	}
}

// GenerateRecords computes one record per active employee for the period.
// The run is single-writer per period: it claims the transient processing
// state up front and rejects re-entry while another run holds it. Prior
// records for the period are replaced, never duplicated, so re-running with
// unchanged inputs yields an identical set.
func (s *Service) GenerateRecords(ctx context.Context, periodID int64) (*GenerationResult, error) {
	period, err := s.periods.GetByID(periodID)
	if err != nil {
		s.logger.Error("period not found for generation", "error", err, "period_id", periodID)
		return nil, payrollperiod.ErrPeriodNotFound
	}

	claimed, err := s.periods.TransitionStatus(periodID, payrollperiod.StatusDraft, payrollperiod.StatusProcessing)
	if err != nil {
		return nil, internal.NewInternalError("failed to claim period for generation", err)
	}
	if !claimed {
		if period.Status == payrollperiod.StatusProcessing {
			s.logger.Warn("generation already in flight", "period_id", periodID)
			return nil, ErrGenerationInProgress
		}
		s.logger.Warn("period not in draft for generation", "period_id", periodID, "status", period.Status)
		return nil, ErrPeriodNotGeneratable
	}

	result, err := s.generate(ctx, period)

	// Generation is transient: the period returns to draft whether the run
	// succeeded or failed, so a failed batch can be retried.
	if _, releaseErr := s.periods.TransitionStatus(periodID, payrollperiod.StatusProcessing, payrollperiod.StatusDraft); releaseErr != nil {
		s.logger.Error("failed to release processing state", "error", releaseErr, "period_id", periodID)
	}

	if err != nil {
		return nil, err
	}

	s.eventBus.Publish(ctx, events.NewRecordsGeneratedEvent(periodID, len(result.Records), len(result.Skipped)))

	s.logger.Info("payroll records generated",
		"period_id", periodID,
		"records", len(result.Records),
		"skipped", len(result.Skipped),
		"warnings", len(result.Warnings))

	return result, nil
}

func (s *Service) generate(ctx context.Context, period *payrollperiod.Period) (*GenerationResult, error) {
	employees, err := s.employees.ListActive(ctx)
	if err != nil {
		s.logger.Error("failed to list active employees", "error", err, "period_id", period.ID)
		return nil, internal.NewInternalError("failed to list active employees", err)
	}

	result := &GenerationResult{PeriodID: period.ID}

	for _, emp := range employees {
		hours, err := s.attendance.Get(ctx, period.ID, emp.ID)
		if err != nil {
			if !errors.Is(err, ErrAggregateNotFound) {
				return nil, internal.NewInternalError(
					fmt.Sprintf("failed to load attendance for employee %d", emp.ID), err)
			}
			// No attendance recorded: generate with zero worked hours and
			// report it rather than failing the batch.
			hours = &HourAggregate{}
			result.Warnings = append(result.Warnings, GenerationIssue{
				EmployeeID: emp.ID,
				Reason:     "no attendance aggregate for period; generated with zero hours",
			})
		}

		deductions, err := s.deductions.ActiveDeductions(ctx, emp.ID)
		if err != nil {
			return nil, internal.NewInternalError(
				fmt.Sprintf("failed to load deductions for employee %d", emp.ID), err)
		}
		benefits, err := s.deductions.ActiveBenefits(ctx, emp.ID)
		if err != nil {
			return nil, internal.NewInternalError(
				fmt.Sprintf("failed to load benefits for employee %d", emp.ID), err)
		}

		record, clamped, err := s.engine.Calculate(CalcInput{
			PeriodID:             period.ID,
			ExpectedMonthlyHours: period.ExpectedMonthlyHours,
			Employee:             *emp,
			Hours:                *hours,
			Deductions:           deductions,
			Benefits:             benefits,
		})
		if err != nil {
			if errors.Is(err, ErrMissingSalary) {
				s.logger.Warn("skipping employee without salary data",
					"employee_id", emp.ID, "period_id", period.ID)
				result.Skipped = append(result.Skipped, GenerationIssue{
					EmployeeID: emp.ID,
					Reason:     "missing salary data",
				})
				continue
			}
			return nil, internal.NewInternalError(
				fmt.Sprintf("calculation failed for employee %d", emp.ID), err)
		}
		if clamped {
			s.logger.Warn("net pay clamped at zero",
				"employee_id", emp.ID, "period_id", period.ID)
			result.Warnings = append(result.Warnings, GenerationIssue{
				EmployeeID: emp.ID,
				Reason:     "net pay clamped at zero",
			})
		}

		result.Records = append(result.Records, record)
	}

	if err := s.repo.ReplaceForPeriod(period.ID, result.Records); err != nil {
		s.logger.Error("failed to store generated records", "error", err, "period_id", period.ID)
		return nil, internal.NewInternalError("failed to store generated records", err)
	}

	return result, nil
}

func (s *Service) GetRecord(id int64) (*Record, error) {
	record, err := s.repo.GetByID(id)
	if err != nil {
		s.logger.Error("failed to get record", "error", err, "record_id", id)
		return nil, ErrRecordNotFound
	}
	return record, nil
}

func (s *Service) ListRecords(filter ListFilter) ([]*Record, error) {
	filter.Normalize()

	records, err := s.repo.List(filter)
	if err != nil {
		s.logger.Error("failed to list records", "error", err)
		return nil, internal.NewInternalError("failed to list payroll records", err)
	}
	return records, nil
}

// MarkAsPaid moves a processed record to paid. Records still in draft have
// not cleared their department's approval and cannot be paid out.
func (s *Service) MarkAsPaid(id int64) (*Record, error) {
	record, err := s.repo.GetByID(id)
	if err != nil {
		return nil, ErrRecordNotFound
	}

	moved, err := s.repo.UpdateStatus(id, StatusProcessed, StatusPaid)
	if err != nil {
		s.logger.Error("failed to mark record paid", "error", err, "record_id", id)
		return nil, internal.NewInternalError("failed to mark payroll record paid", err)
	}
	if !moved {
		s.logger.Warn("record not in processed state", "record_id", id, "status", record.Status)
		return nil, ErrRecordNotProcessed
	}

	record.Status = StatusPaid
	s.logger.Info("payroll record marked paid", "record_id", id, "employee_id", record.EmployeeID)
	return record, nil
}
