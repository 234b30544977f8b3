package approval

import (
	"github.com/frahmantamala/payroll-management/internal"
)

// DecisionDTO is the request payload for resolving one approval.
type DecisionDTO struct {
	Approved bool   `json:"approved"`
	Comments string `json:"comments,omitempty"`
}

func (dto DecisionDTO) Validate() error {
	if !dto.Approved && dto.Comments == "" {
		return internal.NewValidationFieldError("comments", "comments are required when rejecting", internal.ErrCodeValidationFailed)
	}
	return nil
}

// Accountable is one approver the directory holds accountable for a period:
// HR staff carry a nil DepartmentID, department heads their own department.
type Accountable struct {
	UserID       int64
	DepartmentID *int64
}

// WorkflowStatus is the read-only aggregate view used for reporting.
type WorkflowStatus struct {
	PeriodID     int64       `json:"period_id"`
	PeriodStatus string      `json:"period_status"`
	Tally        Tally       `json:"tally"`
	Approvals    []*Approval `json:"approvals"`
}
