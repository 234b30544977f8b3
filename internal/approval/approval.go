package approval

import (
	"time"

	"github.com/frahmantamala/payroll-management/internal"
	payrollDatamodel "github.com/frahmantamala/payroll-management/internal/core/datamodel/payroll"
)

// Approval statuses. pending moves to approved or rejected exactly once;
// a decision is only reversible by deleting and recreating the approval.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// Domain errors surfaced by the coordinator.
var (
	ErrApprovalNotFound  = internal.NewNotFoundError("payroll approval not found", internal.ErrCodeApprovalNotFound)
	ErrApproverMismatch  = internal.NewForbiddenError("approval belongs to a different approver", internal.ErrCodeApproverMismatch)
	ErrAlreadyResolved   = internal.NewInvalidStateError("approval has already been resolved", internal.ErrCodeApprovalAlreadyResolved)
	ErrPeriodNotInReview = internal.NewInvalidStateError("payroll period is not under review", internal.ErrCodeInvalidPeriodState)
	ErrNoRecordsGenerated = internal.NewInvalidStateError("payroll period has no generated records", internal.ErrCodeNoRecordsGenerated)
	ErrDuplicateApproval = internal.NewConflictError("approval already exists for this approver and period", internal.ErrCodeDuplicateApproval)
)

// Approval is one accountable party's decision on a period. DepartmentID is
// nil for HR-wide approvers; set for department heads, whose approval also
// marks their department's records processed.
type Approval struct {
	ID              int64      `json:"id"`
	PayrollPeriodID int64      `json:"payroll_period_id"`
	ApproverID      int64      `json:"approver_id"`
	DepartmentID    *int64     `json:"department_id,omitempty"`
	Status          string     `json:"status"`
	Comments        string     `json:"comments,omitempty"`
	ApprovedAt      *time.Time `json:"approved_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

func (a *Approval) IsPending() bool {
	return a.Status == StatusPending
}

// Tally is the aggregate outcome of a period's approval set, recomputed from
// the full set on every decision rather than kept as a counter.
type Tally struct {
	Total    int `json:"total"`
	Pending  int `json:"pending"`
	Approved int `json:"approved"`
	Rejected int `json:"rejected"`
}

func (t Tally) AllApproved() bool {
	return t.Total > 0 && t.Approved == t.Total
}

func (t Tally) AnyRejected() bool {
	return t.Rejected > 0
}

func ToDataModel(a *Approval) *payrollDatamodel.PayrollApproval {
	return &payrollDatamodel.PayrollApproval{
		ID:              a.ID,
		PayrollPeriodID: a.PayrollPeriodID,
		ApproverID:      a.ApproverID,
		DepartmentID:    a.DepartmentID,
		Status:          a.Status,
		Comments:        a.Comments,
		ApprovedAt:      a.ApprovedAt,
		CreatedAt:       a.CreatedAt,
		UpdatedAt:       a.UpdatedAt,
	}
}

func FromDataModel(dm *payrollDatamodel.PayrollApproval) *Approval {
	return &Approval{
		ID:              dm.ID,
		PayrollPeriodID: dm.PayrollPeriodID,
		ApproverID:      dm.ApproverID,
		DepartmentID:    dm.DepartmentID,
		Status:          dm.Status,
		Comments:        dm.Comments,
		ApprovedAt:      dm.ApprovedAt,
		CreatedAt:       dm.CreatedAt,
		UpdatedAt:       dm.UpdatedAt,
	}
}

func FromDataModelSlice(dms []*payrollDatamodel.PayrollApproval) []*Approval {
	result := make([]*Approval, len(dms))
	for i, dm := range dms {
		result[i] = FromDataModel(dm)
	}
	return result
}
