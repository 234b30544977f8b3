package reporting_test

import (
	"context"
	"database/sql"
	"log/slog"
	"os"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"

	"github.com/frahmantamala/payroll-management/internal/payrollperiod"
	"github.com/frahmantamala/payroll-management/internal/reporting"
)

func TestReporting(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Reporting Suite")
}

type mockReportRepository struct {
	summaries      map[int64]*reporting.PeriodSummary
	stats          *reporting.DashboardStats
	lastDepartment *int64
}

func (m *mockReportRepository) GetPeriodSummary(ctx context.Context, periodID int64) (*reporting.PeriodSummary, error) {
	summary, exists := m.summaries[periodID]
	if !exists {
		return nil, sql.ErrNoRows
	}
	return summary, nil
}

func (m *mockReportRepository) GetDashboardStats(ctx context.Context, departmentID *int64) (*reporting.DashboardStats, error) {
	m.lastDepartment = departmentID
	stats := *m.stats
	return &stats, nil
}

var _ = Describe("ReportingService", func() {
	var (
		service  *reporting.Service
		mockRepo *mockReportRepository
		ctx      context.Context
	)

	BeforeEach(func() {
		ctx = context.Background()
		mockRepo = &mockReportRepository{
			summaries: map[int64]*reporting.PeriodSummary{
				1: {
					PeriodID:       1,
					PeriodName:     "January 2026",
					Status:         payrollperiod.StatusCompleted,
					TotalEmployees: 3,
					TotalGrossPay:  decimal.NewFromInt(45000),
					TotalNetPay:    decimal.NewFromInt(42000),
				},
			},
			stats: &reporting.DashboardStats{
				ActiveEmployees:  3,
				CompletedPeriods: 1,
			},
		}
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = reporting.NewService(mockRepo, logger)
	})

	Describe("GetPeriodSummary", func() {
		It("returns the aggregate for a known period", func() {
			summary, err := service.GetPeriodSummary(ctx, 1)

			Expect(err).ToNot(HaveOccurred())
			Expect(summary.TotalEmployees).To(Equal(int64(3)))
			Expect(summary.TotalGrossPay.Equal(decimal.NewFromInt(45000))).To(BeTrue())
		})

		It("maps missing rows to not found", func() {
			_, err := service.GetPeriodSummary(ctx, 9999)

			Expect(err).To(MatchError(payrollperiod.ErrPeriodNotFound))
		})
	})

	Describe("GetDashboardStats", func() {
		It("passes the department scope through and echoes it back", func() {
			deptID := int64(7)
			stats, err := service.GetDashboardStats(ctx, &deptID)

			Expect(err).ToNot(HaveOccurred())
			Expect(mockRepo.lastDepartment).To(Equal(&deptID))
			Expect(stats.DepartmentID).To(Equal(&deptID))
		})

		It("stays organization-wide when no department is given", func() {
			stats, err := service.GetDashboardStats(ctx, nil)

			Expect(err).ToNot(HaveOccurred())
			Expect(mockRepo.lastDepartment).To(BeNil())
			Expect(stats.DepartmentID).To(BeNil())
		})
	})
})
