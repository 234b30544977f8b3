package postgres

import (
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	payrollDatamodel "github.com/frahmantamala/payroll-management/internal/core/datamodel/payroll"
	"github.com/frahmantamala/payroll-management/internal/payrollperiod"
)

func TestPeriodRepository(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "PeriodRepository Suite")
}

var _ = Describe("PeriodRepository", func() {
	var (
		db   *gorm.DB
		repo payrollperiod.Repository
	)

	newPeriod := func(name, status string) *payrollperiod.Period {
		return &payrollperiod.Period{
			PeriodName:           name,
			StartDate:            time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
			EndDate:              time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC),
			WorkingDays:          21,
			ExpectedMonthlyHours: decimal.NewFromInt(160),
			Status:               status,
		}
	}

	BeforeEach(func() {
		var err error
		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
		Expect(err).NotTo(HaveOccurred())

		err = db.AutoMigrate(
			&payrollDatamodel.PayrollPeriod{},
			&payrollDatamodel.PayrollApproval{},
		)
		Expect(err).NotTo(HaveOccurred())

		repo = NewPeriodRepository(db)
	})

	AfterEach(func() {
		sqlDB, err := db.DB()
		Expect(err).NotTo(HaveOccurred())
		Expect(sqlDB.Close()).To(Succeed())
	})

	Describe("Create and GetByID", func() {
		It("persists a period and reads it back", func() {
			period := newPeriod("January 2026", payrollperiod.StatusDraft)

			Expect(repo.Create(period)).To(Succeed())
			Expect(period.ID).To(BeNumerically(">", 0))

			loaded, err := repo.GetByID(period.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(loaded.PeriodName).To(Equal("January 2026"))
			Expect(loaded.ExpectedMonthlyHours.Equal(decimal.NewFromInt(160))).To(BeTrue())
			Expect(loaded.Status).To(Equal(payrollperiod.StatusDraft))
		})

		It("returns ErrPeriodNotFound for an unknown id", func() {
			_, err := repo.GetByID(9999)
			Expect(err).To(MatchError(payrollperiod.ErrPeriodNotFound))
		})
	})

	Describe("List", func() {
		BeforeEach(func() {
			Expect(repo.Create(newPeriod("January 2026", payrollperiod.StatusDraft))).To(Succeed())
			Expect(repo.Create(newPeriod("February 2026", payrollperiod.StatusCompleted))).To(Succeed())
		})

		It("filters by status", func() {
			periods, total, err := repo.List(payrollperiod.ListFilter{
				Status: payrollperiod.StatusCompleted,
				Limit:  20,
			})

			Expect(err).NotTo(HaveOccurred())
			Expect(total).To(Equal(int64(1)))
			Expect(periods).To(HaveLen(1))
			Expect(periods[0].PeriodName).To(Equal("February 2026"))
		})

		It("returns the full count alongside the page", func() {
			periods, total, err := repo.List(payrollperiod.ListFilter{Limit: 1})

			Expect(err).NotTo(HaveOccurred())
			Expect(total).To(Equal(int64(2)))
			Expect(periods).To(HaveLen(1))
		})
	})

	Describe("TransitionStatus", func() {
		var period *payrollperiod.Period

		BeforeEach(func() {
			period = newPeriod("January 2026", payrollperiod.StatusDraft)
			Expect(repo.Create(period)).To(Succeed())
		})

		It("moves the period when the current status matches", func() {
			moved, err := repo.TransitionStatus(period.ID, payrollperiod.StatusDraft, payrollperiod.StatusProcessing)

			Expect(err).NotTo(HaveOccurred())
			Expect(moved).To(BeTrue())

			loaded, err := repo.GetByID(period.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(loaded.Status).To(Equal(payrollperiod.StatusProcessing))
		})

		It("reports false when the status already changed", func() {
			moved, err := repo.TransitionStatus(period.ID, payrollperiod.StatusDraft, payrollperiod.StatusProcessing)
			Expect(err).NotTo(HaveOccurred())
			Expect(moved).To(BeTrue())

			moved, err = repo.TransitionStatus(period.ID, payrollperiod.StatusDraft, payrollperiod.StatusProcessing)
			Expect(err).NotTo(HaveOccurred())
			Expect(moved).To(BeFalse())
		})
	})

	Describe("Delete and CountApprovals", func() {
		var period *payrollperiod.Period

		BeforeEach(func() {
			period = newPeriod("January 2026", payrollperiod.StatusDraft)
			Expect(repo.Create(period)).To(Succeed())
		})

		It("deletes a period", func() {
			Expect(repo.Delete(period.ID)).To(Succeed())

			_, err := repo.GetByID(period.ID)
			Expect(err).To(MatchError(payrollperiod.ErrPeriodNotFound))
		})

		It("counts approvals attached to the period", func() {
			err := db.Create(&payrollDatamodel.PayrollApproval{
				PayrollPeriodID: period.ID,
				ApproverID:      42,
				Status:          "pending",
			}).Error
			Expect(err).NotTo(HaveOccurred())

			count, err := repo.CountApprovals(period.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(count).To(Equal(int64(1)))
		})
	})

	Describe("Update", func() {
		It("saves changed fields", func() {
			period := newPeriod("January 2026", payrollperiod.StatusDraft)
			Expect(repo.Create(period)).To(Succeed())

			period.WorkingDays = 22
			Expect(repo.Update(period)).To(Succeed())

			loaded, err := repo.GetByID(period.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(loaded.WorkingDays).To(Equal(22))
		})
	})
})
