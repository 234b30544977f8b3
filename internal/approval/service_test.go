package approval_test

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/payroll-management/internal/approval"
	"github.com/frahmantamala/payroll-management/internal/core/events"
	"github.com/frahmantamala/payroll-management/internal/payrollperiod"
	"github.com/frahmantamala/payroll-management/internal/payrollrecord"
)

func TestApproval(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Approval Suite")
}

type fakeRecord struct {
	departmentID int64
	status       string
}

// Mock repository backing both the approval rows and the period/record state
// they drive.
type mockApprovalRepository struct {
	approvals       map[int64]*approval.Approval
	periodStatus    map[int64]string
	recordsByPeriod map[int64][]*fakeRecord
	nextID          int64
}

func newMockApprovalRepository() *mockApprovalRepository {
	return &mockApprovalRepository{
		approvals:       make(map[int64]*approval.Approval),
		periodStatus:    make(map[int64]string),
		recordsByPeriod: make(map[int64][]*fakeRecord),
		nextID:          1,
	}
}

func (m *mockApprovalRepository) CreateIfAbsent(a *approval.Approval) (bool, error) {
	for _, existing := range m.approvals {
		if existing.PayrollPeriodID == a.PayrollPeriodID && existing.ApproverID == a.ApproverID {
			return false, nil
		}
	}
	a.ID = m.nextID
	m.nextID++
	m.approvals[a.ID] = a
	return true, nil
}

func (m *mockApprovalRepository) GetByID(id int64) (*approval.Approval, error) {
	a, exists := m.approvals[id]
	if !exists {
		return nil, errors.New("approval not found")
	}
	copied := *a
	return &copied, nil
}

func (m *mockApprovalRepository) ListByPeriod(periodID int64) ([]*approval.Approval, error) {
	var result []*approval.Approval
	for _, a := range m.approvals {
		if a.PayrollPeriodID == periodID {
			result = append(result, a)
		}
	}
	return result, nil
}

func (m *mockApprovalRepository) ListPendingByApprover(approverID int64) ([]*approval.Approval, error) {
	var result []*approval.Approval
	for _, a := range m.approvals {
		if a.ApproverID == approverID && a.Status == approval.StatusPending {
			result = append(result, a)
		}
	}
	return result, nil
}

func (m *mockApprovalRepository) MarkDecided(id int64, status, comments string, decidedAt time.Time) (bool, error) {
	a, exists := m.approvals[id]
	if !exists || a.Status != approval.StatusPending {
		return false, nil
	}
	a.Status = status
	a.Comments = comments
	a.ApprovedAt = &decidedAt
	a.UpdatedAt = decidedAt
	return true, nil
}

func (m *mockApprovalRepository) TallyForPeriod(periodID int64) (approval.Tally, error) {
	var tally approval.Tally
	for _, a := range m.approvals {
		if a.PayrollPeriodID != periodID {
			continue
		}
		tally.Total++
		switch a.Status {
		case approval.StatusPending:
			tally.Pending++
		case approval.StatusApproved:
			tally.Approved++
		case approval.StatusRejected:
			tally.Rejected++
		}
	}
	return tally, nil
}

func (m *mockApprovalRepository) TransitionPeriod(periodID int64, from, to string) (bool, error) {
	if m.periodStatus[periodID] != from {
		return false, nil
	}
	m.periodStatus[periodID] = to
	return true, nil
}

func (m *mockApprovalRepository) MarkDepartmentRecordsProcessed(periodID, departmentID int64) (int64, error) {
	var count int64
	for _, r := range m.recordsByPeriod[periodID] {
		if r.departmentID == departmentID && r.status == payrollrecord.StatusDraft {
			r.status = payrollrecord.StatusProcessed
			count++
		}
	}
	return count, nil
}

func (m *mockApprovalRepository) CountRecordsForPeriod(periodID int64) (int64, error) {
	return int64(len(m.recordsByPeriod[periodID])), nil
}

func (m *mockApprovalRepository) GetPeriodStatus(periodID int64) (string, error) {
	status, exists := m.periodStatus[periodID]
	if !exists {
		return "", errors.New("period not found")
	}
	return status, nil
}

func (m *mockApprovalRepository) InTx(fn func(approval.Repository) error) error {
	return fn(m)
}

// Mock approver directory
type mockApproverDirectory struct {
	accountable []approval.Accountable
}

func (m *mockApproverDirectory) ListAccountable(ctx context.Context, periodID int64) ([]approval.Accountable, error) {
	return m.accountable, nil
}

var _ = Describe("ApprovalService", func() {
	var (
		service   *approval.Service
		mockRepo  *mockApprovalRepository
		directory *mockApproverDirectory
		ctx       context.Context
	)

	const (
		periodID  = int64(1)
		hrUserID  = int64(100)
		engHeadID = int64(200)
		finHeadID = int64(300)
		engDeptID = int64(1)
		finDeptID = int64(2)
	)

	deptID := func(id int64) *int64 { return &id }

	BeforeEach(func() {
		ctx = context.Background()
		mockRepo = newMockApprovalRepository()
		directory = &mockApproverDirectory{
			accountable: []approval.Accountable{
				{UserID: hrUserID},
				{UserID: engHeadID, DepartmentID: deptID(engDeptID)},
				{UserID: finHeadID, DepartmentID: deptID(finDeptID)},
			},
		}

		mockRepo.periodStatus[periodID] = payrollperiod.StatusDraft
		mockRepo.recordsByPeriod[periodID] = []*fakeRecord{
			{departmentID: engDeptID, status: payrollrecord.StatusDraft},
			{departmentID: engDeptID, status: payrollrecord.StatusDraft},
			{departmentID: finDeptID, status: payrollrecord.StatusDraft},
		}

		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = approval.NewService(mockRepo, directory, events.NewEventBus(logger), logger)
	})

	Describe("SendPeriodForReview", func() {
		It("moves the period under review and fans out one approval per approver", func() {
			created, err := service.SendPeriodForReview(ctx, periodID)

			Expect(err).ToNot(HaveOccurred())
			Expect(created).To(HaveLen(3))
			Expect(mockRepo.periodStatus[periodID]).To(Equal(payrollperiod.StatusSentForReview))
		})

		It("refuses a period without generated records", func() {
			mockRepo.recordsByPeriod[periodID] = nil

			_, err := service.SendPeriodForReview(ctx, periodID)

			Expect(err).To(MatchError(approval.ErrNoRecordsGenerated))
			Expect(mockRepo.periodStatus[periodID]).To(Equal(payrollperiod.StatusDraft))
		})

		It("refuses a period that already left draft", func() {
			mockRepo.periodStatus[periodID] = payrollperiod.StatusSentForReview

			_, err := service.SendPeriodForReview(ctx, periodID)

			Expect(err).To(MatchError(approval.ErrPeriodNotInReview))
		})
	})

	Describe("CreateApprovalsForPeriod", func() {
		It("silently skips approvers who already have an approval", func() {
			first, err := service.CreateApprovalsForPeriod(ctx, periodID)
			Expect(err).ToNot(HaveOccurred())
			Expect(first).To(HaveLen(3))

			second, err := service.CreateApprovalsForPeriod(ctx, periodID)
			Expect(err).ToNot(HaveOccurred())
			Expect(second).To(BeEmpty())
			Expect(mockRepo.approvals).To(HaveLen(3))
		})
	})

	Describe("Decide", func() {
		var byApprover map[int64]*approval.Approval

		BeforeEach(func() {
			created, err := service.SendPeriodForReview(ctx, periodID)
			Expect(err).ToNot(HaveOccurred())
			byApprover = make(map[int64]*approval.Approval, len(created))
			for _, a := range created {
				byApprover[a.ApproverID] = a
			}
		})

		It("keeps the period under review while approvals are pending", func() {
			resolved, err := service.Decide(ctx, byApprover[hrUserID].ID, hrUserID,
				approval.DecisionDTO{Approved: true})

			Expect(err).ToNot(HaveOccurred())
			Expect(resolved.Status).To(Equal(approval.StatusApproved))
			Expect(mockRepo.periodStatus[periodID]).To(Equal(payrollperiod.StatusSentForReview))
		})

		It("completes the period when every approval lands approved", func() {
			for _, approverID := range []int64{hrUserID, engHeadID, finHeadID} {
				_, err := service.Decide(ctx, byApprover[approverID].ID, approverID,
					approval.DecisionDTO{Approved: true})
				Expect(err).ToNot(HaveOccurred())
			}

			Expect(mockRepo.periodStatus[periodID]).To(Equal(payrollperiod.StatusCompleted))
		})

		It("returns the period to draft on any rejection", func() {
			_, err := service.Decide(ctx, byApprover[hrUserID].ID, hrUserID,
				approval.DecisionDTO{Approved: true})
			Expect(err).ToNot(HaveOccurred())

			_, err = service.Decide(ctx, byApprover[engHeadID].ID, engHeadID,
				approval.DecisionDTO{Approved: false, Comments: "numbers look wrong"})
			Expect(err).ToNot(HaveOccurred())

			Expect(mockRepo.periodStatus[periodID]).To(Equal(payrollperiod.StatusDraft))
		})

		It("marks the department's records processed on a head's approval", func() {
			_, err := service.Decide(ctx, byApprover[engHeadID].ID, engHeadID,
				approval.DecisionDTO{Approved: true})
			Expect(err).ToNot(HaveOccurred())

			for _, r := range mockRepo.recordsByPeriod[periodID] {
				if r.departmentID == engDeptID {
					Expect(r.status).To(Equal(payrollrecord.StatusProcessed))
				} else {
					Expect(r.status).To(Equal(payrollrecord.StatusDraft))
				}
			}
		})

		It("leaves processed records alone when a later rejection lands", func() {
			_, err := service.Decide(ctx, byApprover[engHeadID].ID, engHeadID,
				approval.DecisionDTO{Approved: true})
			Expect(err).ToNot(HaveOccurred())

			_, err = service.Decide(ctx, byApprover[finHeadID].ID, finHeadID,
				approval.DecisionDTO{Approved: false, Comments: "finance totals off"})
			Expect(err).ToNot(HaveOccurred())

			Expect(mockRepo.periodStatus[periodID]).To(Equal(payrollperiod.StatusDraft))
			for _, r := range mockRepo.recordsByPeriod[periodID] {
				if r.departmentID == engDeptID {
					Expect(r.status).To(Equal(payrollrecord.StatusProcessed))
				}
			}
		})

		It("rejects a decision from a different approver", func() {
			_, err := service.Decide(ctx, byApprover[hrUserID].ID, engHeadID,
				approval.DecisionDTO{Approved: true})

			Expect(err).To(MatchError(approval.ErrApproverMismatch))
		})

		It("rejects a decision on an already resolved approval", func() {
			_, err := service.Decide(ctx, byApprover[hrUserID].ID, hrUserID,
				approval.DecisionDTO{Approved: true})
			Expect(err).ToNot(HaveOccurred())

			_, err = service.Decide(ctx, byApprover[hrUserID].ID, hrUserID,
				approval.DecisionDTO{Approved: false, Comments: "changed my mind"})

			Expect(err).To(MatchError(approval.ErrAlreadyResolved))
		})

		It("requires comments when rejecting", func() {
			_, err := service.Decide(ctx, byApprover[hrUserID].ID, hrUserID,
				approval.DecisionDTO{Approved: false})

			Expect(err).To(HaveOccurred())
		})

		It("returns not found for an unknown approval", func() {
			_, err := service.Decide(ctx, 9999, hrUserID, approval.DecisionDTO{Approved: true})

			Expect(err).To(MatchError(approval.ErrApprovalNotFound))
		})
	})

	Describe("GetWorkflowStatus", func() {
		It("reports the tally alongside the period status", func() {
			created, err := service.SendPeriodForReview(ctx, periodID)
			Expect(err).ToNot(HaveOccurred())

			_, err = service.Decide(ctx, created[0].ID, created[0].ApproverID,
				approval.DecisionDTO{Approved: true})
			Expect(err).ToNot(HaveOccurred())

			status, err := service.GetWorkflowStatus(ctx, periodID)

			Expect(err).ToNot(HaveOccurred())
			Expect(status.PeriodStatus).To(Equal(payrollperiod.StatusSentForReview))
			Expect(status.Tally.Total).To(Equal(3))
			Expect(status.Tally.Approved).To(Equal(1))
			Expect(status.Tally.Pending).To(Equal(2))
		})

		It("returns not found for an unknown period", func() {
			_, err := service.GetWorkflowStatus(ctx, 9999)

			Expect(err).To(MatchError(payrollperiod.ErrPeriodNotFound))
		})
	})

	Describe("GetPendingApprovalsForApprover", func() {
		It("lists only the approver's pending approvals", func() {
			created, err := service.SendPeriodForReview(ctx, periodID)
			Expect(err).ToNot(HaveOccurred())

			_, err = service.Decide(ctx, created[0].ID, created[0].ApproverID,
				approval.DecisionDTO{Approved: true})
			Expect(err).ToNot(HaveOccurred())

			pending, err := service.GetPendingApprovalsForApprover(ctx, created[0].ApproverID)
			Expect(err).ToNot(HaveOccurred())
			Expect(pending).To(BeEmpty())

			pending, err = service.GetPendingApprovalsForApprover(ctx, created[1].ApproverID)
			Expect(err).ToNot(HaveOccurred())
			Expect(pending).To(HaveLen(1))
		})
	})
})
