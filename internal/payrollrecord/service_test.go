package payrollrecord_test

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"

	"github.com/frahmantamala/payroll-management/internal/core/events"
	"github.com/frahmantamala/payroll-management/internal/payrollperiod"
	"github.com/frahmantamala/payroll-management/internal/payrollrecord"
)

// Mock record repository for testing
type mockRecordRepository struct {
	recordsByPeriod map[int64][]*payrollrecord.Record
	records         map[int64]*payrollrecord.Record
	replaceError    error
	replaceCalls    int
	nextID          int64
}

func newMockRecordRepository() *mockRecordRepository {
	return &mockRecordRepository{
		recordsByPeriod: make(map[int64][]*payrollrecord.Record),
		records:         make(map[int64]*payrollrecord.Record),
		nextID:          1,
	}
}

func (m *mockRecordRepository) ReplaceForPeriod(periodID int64, records []*payrollrecord.Record) error {
	m.replaceCalls++
	if m.replaceError != nil {
		return m.replaceError
	}
	for _, old := range m.recordsByPeriod[periodID] {
		delete(m.records, old.ID)
	}
	m.recordsByPeriod[periodID] = nil
	for _, r := range records {
		r.ID = m.nextID
		m.nextID++
		m.records[r.ID] = r
		m.recordsByPeriod[periodID] = append(m.recordsByPeriod[periodID], r)
	}
	return nil
}

func (m *mockRecordRepository) GetByID(id int64) (*payrollrecord.Record, error) {
	record, exists := m.records[id]
	if !exists {
		return nil, errors.New("record not found")
	}
	return record, nil
}

func (m *mockRecordRepository) List(filter payrollrecord.ListFilter) ([]*payrollrecord.Record, error) {
	result := make([]*payrollrecord.Record, 0, len(m.records))
	for _, r := range m.records {
		if filter.PeriodID != 0 && r.PayrollPeriodID != filter.PeriodID {
			continue
		}
		if filter.Status != "" && r.Status != filter.Status {
			continue
		}
		result = append(result, r)
	}
	return result, nil
}

func (m *mockRecordRepository) UpdateStatus(id int64, from, to string) (bool, error) {
	record, exists := m.records[id]
	if !exists || record.Status != from {
		return false, nil
	}
	record.Status = to
	return true, nil
}

// Mock period store tracking status transitions
type mockPeriodStore struct {
	periods map[int64]*payrollperiod.Period
}

func newMockPeriodStore() *mockPeriodStore {
	return &mockPeriodStore{periods: make(map[int64]*payrollperiod.Period)}
}

func (m *mockPeriodStore) GetByID(id int64) (*payrollperiod.Period, error) {
	period, exists := m.periods[id]
	if !exists {
		return nil, errors.New("period not found")
	}
	return period, nil
}

func (m *mockPeriodStore) TransitionStatus(id int64, from, to string) (bool, error) {
	period, exists := m.periods[id]
	if !exists || period.Status != from {
		return false, nil
	}
	period.Status = to
	return true, nil
}

// Mock attendance source
type mockAttendance struct {
	aggregates map[int64]*payrollrecord.HourAggregate
}

func (m *mockAttendance) Get(ctx context.Context, periodID, employeeID int64) (*payrollrecord.HourAggregate, error) {
	agg, exists := m.aggregates[employeeID]
	if !exists {
		return nil, payrollrecord.ErrAggregateNotFound
	}
	return agg, nil
}

// Mock deduction catalog
type mockCatalog struct {
	deductions map[int64][]payrollrecord.Balance
	benefits   map[int64][]payrollrecord.Balance
}

func (m *mockCatalog) ActiveDeductions(ctx context.Context, employeeID int64) ([]payrollrecord.Balance, error) {
	return m.deductions[employeeID], nil
}

func (m *mockCatalog) ActiveBenefits(ctx context.Context, employeeID int64) ([]payrollrecord.Balance, error) {
	return m.benefits[employeeID], nil
}

// Mock employee directory
type mockDirectory struct {
	employees []*payrollrecord.Employee
	listError error
}

func (m *mockDirectory) ListActive(ctx context.Context) ([]*payrollrecord.Employee, error) {
	if m.listError != nil {
		return nil, m.listError
	}
	return m.employees, nil
}

var _ = Describe("RecordService", func() {
	var (
		service     *payrollrecord.Service
		mockRepo    *mockRecordRepository
		periodStore *mockPeriodStore
		attendance  *mockAttendance
		catalog     *mockCatalog
		directory   *mockDirectory
		ctx         context.Context
	)

	const periodID = int64(1)

	BeforeEach(func() {
		ctx = context.Background()
		mockRepo = newMockRecordRepository()
		periodStore = newMockPeriodStore()
		attendance = &mockAttendance{aggregates: make(map[int64]*payrollrecord.HourAggregate)}
		catalog = &mockCatalog{
			deductions: make(map[int64][]payrollrecord.Balance),
			benefits:   make(map[int64][]payrollrecord.Balance),
		}
		directory = &mockDirectory{}

		periodStore.periods[periodID] = &payrollperiod.Period{
			ID:                   periodID,
			PeriodName:           "January 2026",
			StartDate:            time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
			EndDate:              time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC),
			WorkingDays:          21,
			ExpectedMonthlyHours: decimal.NewFromInt(160),
			Status:               payrollperiod.StatusDraft,
		}

		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = payrollrecord.NewService(
			payrollrecord.NewEngine(1.5),
			mockRepo,
			periodStore,
			attendance,
			catalog,
			directory,
			events.NewEventBus(logger),
			logger,
		)
	})

	addEmployee := func(id int64, salary string) {
		directory.employees = append(directory.employees, &payrollrecord.Employee{
			ID:           id,
			Name:         "Employee",
			DepartmentID: 1,
			BaseSalary:   decimal.RequireFromString(salary),
		})
	}

	Describe("GenerateRecords", func() {
		It("creates one record per active employee", func() {
			addEmployee(10, "16000")
			addEmployee(11, "12000")
			attendance.aggregates[10] = &payrollrecord.HourAggregate{RegularHours: decimal.NewFromInt(160)}
			attendance.aggregates[11] = &payrollrecord.HourAggregate{RegularHours: decimal.NewFromInt(160)}

			result, err := service.GenerateRecords(ctx, periodID)

			Expect(err).ToNot(HaveOccurred())
			Expect(result.Records).To(HaveLen(2))
			Expect(result.Skipped).To(BeEmpty())
			Expect(result.Warnings).To(BeEmpty())
		})

		It("returns the period to draft after the run", func() {
			addEmployee(10, "16000")
			attendance.aggregates[10] = &payrollrecord.HourAggregate{RegularHours: decimal.NewFromInt(160)}

			_, err := service.GenerateRecords(ctx, periodID)

			Expect(err).ToNot(HaveOccurred())
			Expect(periodStore.periods[periodID].Status).To(Equal(payrollperiod.StatusDraft))
		})

		It("replaces prior records instead of duplicating them", func() {
			addEmployee(10, "16000")
			attendance.aggregates[10] = &payrollrecord.HourAggregate{RegularHours: decimal.NewFromInt(160)}

			_, err := service.GenerateRecords(ctx, periodID)
			Expect(err).ToNot(HaveOccurred())
			result, err := service.GenerateRecords(ctx, periodID)
			Expect(err).ToNot(HaveOccurred())

			Expect(result.Records).To(HaveLen(1))
			Expect(mockRepo.recordsByPeriod[periodID]).To(HaveLen(1))
			Expect(mockRepo.replaceCalls).To(Equal(2))
		})

		It("warns and generates zero-hour records for missing attendance", func() {
			addEmployee(10, "16000")

			result, err := service.GenerateRecords(ctx, periodID)

			Expect(err).ToNot(HaveOccurred())
			Expect(result.Records).To(HaveLen(1))
			Expect(result.Warnings).To(HaveLen(1))
			Expect(result.Warnings[0].EmployeeID).To(Equal(int64(10)))
			Expect(result.Records[0].GrossPay.IsZero()).To(BeTrue())
		})

		It("skips employees without salary data and reports them", func() {
			addEmployee(10, "16000")
			addEmployee(11, "0")
			attendance.aggregates[10] = &payrollrecord.HourAggregate{RegularHours: decimal.NewFromInt(160)}
			attendance.aggregates[11] = &payrollrecord.HourAggregate{RegularHours: decimal.NewFromInt(160)}

			result, err := service.GenerateRecords(ctx, periodID)

			Expect(err).ToNot(HaveOccurred())
			Expect(result.Records).To(HaveLen(1))
			Expect(result.Skipped).To(HaveLen(1))
			Expect(result.Skipped[0].EmployeeID).To(Equal(int64(11)))
		})

		It("rejects a concurrent run while generation is in flight", func() {
			periodStore.periods[periodID].Status = payrollperiod.StatusProcessing

			_, err := service.GenerateRecords(ctx, periodID)

			Expect(err).To(MatchError(payrollrecord.ErrGenerationInProgress))
		})

		It("rejects generation for a period under review", func() {
			periodStore.periods[periodID].Status = payrollperiod.StatusSentForReview

			_, err := service.GenerateRecords(ctx, periodID)

			Expect(err).To(MatchError(payrollrecord.ErrPeriodNotGeneratable))
		})

		It("returns not found for an unknown period", func() {
			_, err := service.GenerateRecords(ctx, 9999)

			Expect(err).To(MatchError(payrollperiod.ErrPeriodNotFound))
		})

		It("releases the period when the batch fails", func() {
			addEmployee(10, "16000")
			attendance.aggregates[10] = &payrollrecord.HourAggregate{RegularHours: decimal.NewFromInt(160)}
			mockRepo.replaceError = errors.New("disk full")

			_, err := service.GenerateRecords(ctx, periodID)

			Expect(err).To(HaveOccurred())
			Expect(periodStore.periods[periodID].Status).To(Equal(payrollperiod.StatusDraft))
		})
	})

	Describe("MarkAsPaid", func() {
		var recordID int64

		BeforeEach(func() {
			addEmployee(10, "16000")
			attendance.aggregates[10] = &payrollrecord.HourAggregate{RegularHours: decimal.NewFromInt(160)}
			result, err := service.GenerateRecords(ctx, periodID)
			Expect(err).ToNot(HaveOccurred())
			recordID = result.Records[0].ID
		})

		It("moves a processed record to paid", func() {
			mockRepo.records[recordID].Status = payrollrecord.StatusProcessed

			record, err := service.MarkAsPaid(recordID)

			Expect(err).ToNot(HaveOccurred())
			Expect(record.Status).To(Equal(payrollrecord.StatusPaid))
		})

		It("rejects paying a record still in draft", func() {
			_, err := service.MarkAsPaid(recordID)

			Expect(err).To(MatchError(payrollrecord.ErrRecordNotProcessed))
		})

		It("returns not found for an unknown record", func() {
			_, err := service.MarkAsPaid(9999)

			Expect(err).To(MatchError(payrollrecord.ErrRecordNotFound))
		})
	})
})
