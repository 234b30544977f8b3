package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventTypePeriodSentForReview = "payroll.period.sent_for_review"
	EventTypePeriodCompleted     = "payroll.period.completed"
	EventTypePeriodRejected      = "payroll.period.rejected"
	EventTypeRecordsGenerated    = "payroll.records.generated"
)

type PeriodSentForReviewEvent struct {
	BaseEvent
	PeriodID      int64 `json:"period_id"`
	ApprovalCount int   `json:"approval_count"`
}

func NewPeriodSentForReviewEvent(periodID int64, approvalCount int) *PeriodSentForReviewEvent {
	return &PeriodSentForReviewEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypePeriodSentForReview,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"period_id":      periodID,
				"approval_count": approvalCount,
			},
		},
		PeriodID:      periodID,
		ApprovalCount: approvalCount,
	}
}

type PeriodCompletedEvent struct {
	BaseEvent
	PeriodID      int64 `json:"period_id"`
	ApprovedCount int   `json:"approved_count"`
}

func NewPeriodCompletedEvent(periodID int64, approvedCount int) *PeriodCompletedEvent {
	return &PeriodCompletedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypePeriodCompleted,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"period_id":      periodID,
				"approved_count": approvedCount,
			},
		},
		PeriodID:      periodID,
		ApprovedCount: approvedCount,
	}
}

type PeriodRejectedEvent struct {
	BaseEvent
	PeriodID   int64  `json:"period_id"`
	ApproverID int64  `json:"approver_id"`
	Comments   string `json:"comments"`
}

func NewPeriodRejectedEvent(periodID, approverID int64, comments string) *PeriodRejectedEvent {
	return &PeriodRejectedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypePeriodRejected,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"period_id":   periodID,
				"approver_id": approverID,
				"comments":    comments,
			},
		},
		PeriodID:   periodID,
		ApproverID: approverID,
		Comments:   comments,
	}
}

type RecordsGeneratedEvent struct {
	BaseEvent
	PeriodID     int64 `json:"period_id"`
	RecordCount  int   `json:"record_count"`
	SkippedCount int   `json:"skipped_count"`
}

func NewRecordsGeneratedEvent(periodID int64, recordCount, skippedCount int) *RecordsGeneratedEvent {
	return &RecordsGeneratedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeRecordsGenerated,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"period_id":     periodID,
				"record_count":  recordCount,
				"skipped_count": skippedCount,
			},
		},
		PeriodID:     periodID,
		RecordCount:  recordCount,
		SkippedCount: skippedCount,
	}
}
