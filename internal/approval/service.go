package approval

import (
	"context"
	"log/slog"
	"time"

	"github.com/frahmantamala/payroll-management/internal"
	"github.com/frahmantamala/payroll-management/internal/core/events"
	"github.com/frahmantamala/payroll-management/internal/payrollperiod"
)

// ApproverDirectory is the consumed capability listing every accountable
// approver for a period: all HR approvers plus each department's head.
type ApproverDirectory interface {
	ListAccountable(ctx context.Context, periodID int64) ([]Accountable, error)
}

// Repository defines the data access the coordinator needs. Decision
// application and the aggregate consistency check run inside one transaction
// via InTx; the repository passed to the callback operates on that
// transaction.
type Repository interface {
	// CreateIfAbsent inserts the approval unless one already exists for the
	// (period, approver) pair; it reports whether a row was created so
	// duplicate fan-out invocations degrade to silent skips.
	CreateIfAbsent(a *Approval) (bool, error)
	GetByID(id int64) (*Approval, error)
	ListByPeriod(periodID int64) ([]*Approval, error)
	ListPendingByApprover(approverID int64) ([]*Approval, error)
	// MarkDecided conditionally resolves a pending approval and reports
	// whether the row actually changed, so a racing duplicate decision
	// surfaces as already-resolved instead of double-applying.
	MarkDecided(id int64, status, comments string, decidedAt time.Time) (bool, error)
	TallyForPeriod(periodID int64) (Tally, error)
	// TransitionPeriod conditionally moves the period's lifecycle state; a
	// false return means another writer got there first and the transition
	// is a no-op.
	TransitionPeriod(periodID int64, from, to string) (bool, error)
	MarkDepartmentRecordsProcessed(periodID, departmentID int64) (int64, error)
	CountRecordsForPeriod(periodID int64) (int64, error)
	GetPeriodStatus(periodID int64) (string, error)
	InTx(fn func(Repository) error) error
}

// Service coordinates the approval fan-out and drives period lifecycle
// transitions from the aggregate decision state.
type Service struct {
	repo      Repository
	directory ApproverDirectory
	eventBus  *events.EventBus
	logger    *slog.Logger
}

func NewService(repo Repository, directory ApproverDirectory, eventBus *events.EventBus, logger *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		directory: directory,
		eventBus:  eventBus,
		logger:    logger,
	}
}

// SendPeriodForReview moves a draft period into review and fans out one
// approval per accountable approver. The transition requires generated
// records; the fan-out itself is re-invokable.
func (s *Service) SendPeriodForReview(ctx context.Context, periodID int64) ([]*Approval, error) {
	count, err := s.repo.CountRecordsForPeriod(periodID)
	if err != nil {
		s.logger.Error("failed to count records for period", "error", err, "period_id", periodID)
		return nil, internal.NewInternalError("failed to check generated records", err)
	}
	if count == 0 {
		s.logger.Warn("period has no generated records", "period_id", periodID)
		return nil, ErrNoRecordsGenerated
	}

	moved, err := s.repo.TransitionPeriod(periodID, payrollperiod.StatusDraft, payrollperiod.StatusSentForReview)
	if err != nil {
		return nil, internal.NewInternalError("failed to transition period for review", err)
	}
	if !moved {
		s.logger.Warn("period not in draft for review", "period_id", periodID)
		return nil, ErrPeriodNotInReview
	}

	created, err := s.CreateApprovalsForPeriod(ctx, periodID)
	if err != nil {
		return nil, err
	}

	s.eventBus.Publish(ctx, events.NewPeriodSentForReviewEvent(periodID, len(created)))

	s.logger.Info("period sent for review",
		"period_id", periodID,
		"approvals_created", len(created))

	return created, nil
}

// CreateApprovalsForPeriod creates the approver fan-out for a period already
// under review. Duplicate (period, approver) pairs are silently skipped, so
// the operation is safe to invoke more than once; an empty create-set for an
// already-initialized period is not an error.
func (s *Service) CreateApprovalsForPeriod(ctx context.Context, periodID int64) ([]*Approval, error) {
	accountable, err := s.directory.ListAccountable(ctx, periodID)
	if err != nil {
		s.logger.Error("failed to list accountable approvers", "error", err, "period_id", periodID)
		return nil, internal.NewInternalError("failed to list accountable approvers", err)
	}

	if len(accountable) == 0 {
		s.logger.Warn("no accountable approvers for period", "period_id", periodID)
	}

	now := time.Now()
	created := make([]*Approval, 0, len(accountable))
	for _, acc := range accountable {
		appr := &Approval{
			PayrollPeriodID: periodID,
			ApproverID:      acc.UserID,
			DepartmentID:    acc.DepartmentID,
			Status:          StatusPending,
			CreatedAt:       now,
			UpdatedAt:       now,
		}

		inserted, err := s.repo.CreateIfAbsent(appr)
		if err != nil {
			s.logger.Error("failed to create approval",
				"error", err, "period_id", periodID, "approver_id", acc.UserID)
			return nil, internal.NewInternalError("failed to create approval", err)
		}
		if !inserted {
			// Already fanned out for this approver; skip silently.
			continue
		}
		created = append(created, appr)
	}

	s.logger.Info("approval fan-out complete",
		"period_id", periodID,
		"accountable", len(accountable),
		"created", len(created))

	return created, nil
}

// Decide applies one approver's decision and runs the aggregate consistency
// check. The acting approver must own the approval and the approval must
// still be pending. The decision write, the tally, the department-record
// side effect, and any period transition share one transaction; the period
// transition is conditional, so racing deciders cannot double-apply it.
func (s *Service) Decide(ctx context.Context, approvalID, approverID int64, dto DecisionDTO) (*Approval, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	appr, err := s.repo.GetByID(approvalID)
	if err != nil {
		s.logger.Error("approval not found", "error", err, "approval_id", approvalID)
		return nil, ErrApprovalNotFound
	}

	if appr.ApproverID != approverID {
		s.logger.Warn("approver mismatch",
			"approval_id", approvalID,
			"approval_approver", appr.ApproverID,
			"acting_approver", approverID)
		return nil, ErrApproverMismatch
	}

	if !appr.IsPending() {
		s.logger.Warn("approval already resolved",
			"approval_id", approvalID, "status", appr.Status)
		return nil, ErrAlreadyResolved
	}

	status := StatusRejected
	if dto.Approved {
		status = StatusApproved
	}
	decidedAt := time.Now()

	var outcome string
	var tally Tally

	err = s.repo.InTx(func(txRepo Repository) error {
		moved, err := txRepo.MarkDecided(approvalID, status, dto.Comments, decidedAt)
		if err != nil {
			return err
		}
		if !moved {
			// Lost the race to another decision on the same approval.
			return ErrAlreadyResolved
		}

		// Department-head approval marks that department's records processed,
		// scoped to the approving department only.
		if dto.Approved && appr.DepartmentID != nil {
			processed, err := txRepo.MarkDepartmentRecordsProcessed(appr.PayrollPeriodID, *appr.DepartmentID)
			if err != nil {
				return err
			}
			s.logger.Info("department records marked processed",
				"period_id", appr.PayrollPeriodID,
				"department_id", *appr.DepartmentID,
				"records", processed)
		}

		tally, err = txRepo.TallyForPeriod(appr.PayrollPeriodID)
		if err != nil {
			return err
		}

		switch {
		case tally.AnyRejected():
			// A single rejection invalidates the whole batch, even when other
			// approvals already landed as approved.
			moved, err := txRepo.TransitionPeriod(appr.PayrollPeriodID,
				payrollperiod.StatusSentForReview, payrollperiod.StatusDraft)
			if err != nil {
				return err
			}
			if moved {
				outcome = payrollperiod.StatusDraft
			}
		case tally.AllApproved():
			moved, err := txRepo.TransitionPeriod(appr.PayrollPeriodID,
				payrollperiod.StatusSentForReview, payrollperiod.StatusCompleted)
			if err != nil {
				return err
			}
			if moved {
				outcome = payrollperiod.StatusCompleted
			}
		}
		return nil
	})
	if err != nil {
		if appErr, ok := internal.IsAppError(err); ok {
			return nil, appErr
		}
		s.logger.Error("failed to apply decision", "error", err, "approval_id", approvalID)
		return nil, internal.NewInternalError("failed to apply approval decision", err)
	}

	appr.Status = status
	appr.Comments = dto.Comments
	appr.ApprovedAt = &decidedAt
	appr.UpdatedAt = decidedAt

	switch outcome {
	case payrollperiod.StatusCompleted:
		s.eventBus.Publish(ctx, events.NewPeriodCompletedEvent(appr.PayrollPeriodID, tally.Approved))
		s.logger.Info("period completed, all approvals landed",
			"period_id", appr.PayrollPeriodID, "approved", tally.Approved)
	case payrollperiod.StatusDraft:
		s.eventBus.Publish(ctx, events.NewPeriodRejectedEvent(appr.PayrollPeriodID, approverID, dto.Comments))
		s.logger.Info("period rolled back to draft after rejection",
			"period_id", appr.PayrollPeriodID, "approver_id", approverID)
	}

	return appr, nil
}

// GetWorkflowStatus is the read-only aggregate view; it never mutates state.
func (s *Service) GetWorkflowStatus(ctx context.Context, periodID int64) (*WorkflowStatus, error) {
	periodStatus, err := s.repo.GetPeriodStatus(periodID)
	if err != nil {
		s.logger.Error("period not found for workflow status", "error", err, "period_id", periodID)
		return nil, payrollperiod.ErrPeriodNotFound
	}

	approvals, err := s.repo.ListByPeriod(periodID)
	if err != nil {
		s.logger.Error("failed to list approvals", "error", err, "period_id", periodID)
		return nil, internal.NewInternalError("failed to list approvals for period", err)
	}

	tally, err := s.repo.TallyForPeriod(periodID)
	if err != nil {
		return nil, internal.NewInternalError("failed to tally approvals for period", err)
	}

	return &WorkflowStatus{
		PeriodID:     periodID,
		PeriodStatus: periodStatus,
		Tally:        tally,
		Approvals:    approvals,
	}, nil
}

func (s *Service) GetPendingApprovalsForApprover(ctx context.Context, approverID int64) ([]*Approval, error) {
	approvals, err := s.repo.ListPendingByApprover(approverID)
	if err != nil {
		s.logger.Error("failed to list pending approvals", "error", err, "approver_id", approverID)
		return nil, internal.NewInternalError("failed to list pending approvals", err)
	}
	return approvals, nil
}
