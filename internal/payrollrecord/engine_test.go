package payrollrecord_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"

	"github.com/frahmantamala/payroll-management/internal/payrollrecord"
)

func TestPayrollRecord(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "PayrollRecord Suite")
}

func d(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

var _ = Describe("Engine", func() {
	var engine *payrollrecord.Engine

	BeforeEach(func() {
		engine = payrollrecord.NewEngine(1.5)
	})

	baseInput := func() payrollrecord.CalcInput {
		return payrollrecord.CalcInput{
			PeriodID:             1,
			ExpectedMonthlyHours: d("160"),
			Employee: payrollrecord.Employee{
				ID:           10,
				Name:         "Andi",
				DepartmentID: 2,
				BaseSalary:   d("16000"),
			},
			Hours: payrollrecord.HourAggregate{
				RegularHours:   d("150"),
				OvertimeHours:  d("5"),
				LateHours:      d("2"),
				PaidLeaveHours: d("0"),
			},
		}
	}

	Describe("Calculate", func() {
		Context("with a full month of attendance", func() {
			It("computes base pay, overtime, and late deductions in order", func() {
				record, clamped, err := engine.Calculate(baseInput())

				Expect(err).ToNot(HaveOccurred())
				Expect(clamped).To(BeFalse())
				// 16000 / 160 = 100 per hour
				Expect(record.HourlyRate.String()).To(Equal("100"))
				// 16000 * 150 / 160 = 15000
				// overtime: 5 * 100 * 1.5 = 750
				Expect(record.GrossPay.String()).To(Equal("15750"))
				// late: 2 * 100 = 200
				Expect(record.LateDeductions.String()).To(Equal("200"))
				Expect(record.TotalDeductions.String()).To(Equal("200"))
				Expect(record.NetPay.String()).To(Equal("15550"))
				Expect(record.Status).To(Equal(payrollrecord.StatusDraft))
			})

			It("prefers an explicit hourly rate over the derived one", func() {
				in := baseInput()
				rate := d("120")
				in.Employee.HourlyRate = &rate

				record, _, err := engine.Calculate(in)

				Expect(err).ToNot(HaveOccurred())
				Expect(record.HourlyRate.String()).To(Equal("120"))
				// overtime: 5 * 120 * 1.5 = 900; base pay still salary-prorated
				Expect(record.GrossPay.String()).To(Equal("15900"))
			})
		})

		Context("with paid leave", func() {
			It("counts paid leave toward the base-pay proration", func() {
				in := baseInput()
				in.Hours.RegularHours = d("140")
				in.Hours.PaidLeaveHours = d("20")
				in.Hours.OvertimeHours = d("0")
				in.Hours.LateHours = d("0")

				record, _, err := engine.Calculate(in)

				Expect(err).ToNot(HaveOccurred())
				// 140 + 20 = 160 credited, full base salary
				Expect(record.GrossPay.String()).To(Equal("16000"))
				Expect(record.NetPay.String()).To(Equal("16000"))
			})

			It("caps credited hours at the expected monthly total", func() {
				in := baseInput()
				in.Hours.RegularHours = d("160")
				in.Hours.PaidLeaveHours = d("24")
				in.Hours.OvertimeHours = d("0")
				in.Hours.LateHours = d("0")

				record, _, err := engine.Calculate(in)

				Expect(err).ToNot(HaveOccurred())
				// credited hours capped at 160, never above full base salary
				Expect(record.GrossPay.String()).To(Equal("16000"))
			})
		})

		Context("with deductions and benefits", func() {
			It("subtracts deduction balances and adds benefits after", func() {
				in := baseInput()
				in.Deductions = []payrollrecord.Balance{
					{Name: "income_tax", Amount: d("500")},
					{Name: "health_insurance", Amount: d("250")},
				}
				in.Benefits = []payrollrecord.Balance{
					{Name: "meal_allowance", Amount: d("300")},
				}

				record, clamped, err := engine.Calculate(in)

				Expect(err).ToNot(HaveOccurred())
				Expect(clamped).To(BeFalse())
				// late 200 + 500 + 250 = 950
				Expect(record.TotalDeductions.String()).To(Equal("950"))
				Expect(record.TotalBenefits.String()).To(Equal("300"))
				// 15750 - 950 + 300 = 15100
				Expect(record.NetPay.String()).To(Equal("15100"))
			})

			It("clamps negative net pay at zero and reports it", func() {
				in := baseInput()
				in.Hours.RegularHours = d("8")
				in.Hours.OvertimeHours = d("0")
				in.Hours.LateHours = d("0")
				in.Deductions = []payrollrecord.Balance{
					{Name: "loan_repayment", Amount: d("5000")},
				}

				record, clamped, err := engine.Calculate(in)

				Expect(err).ToNot(HaveOccurred())
				Expect(clamped).To(BeTrue())
				Expect(record.NetPay.String()).To(Equal("0"))
				// gross and deduction lines keep their real values
				Expect(record.GrossPay.String()).To(Equal("800"))
				Expect(record.TotalDeductions.String()).To(Equal("5000"))
			})
		})

		Context("with zero attendance", func() {
			It("produces a zero-hours record instead of failing", func() {
				in := baseInput()
				in.Hours = payrollrecord.HourAggregate{}

				record, clamped, err := engine.Calculate(in)

				Expect(err).ToNot(HaveOccurred())
				Expect(clamped).To(BeFalse())
				Expect(record.GrossPay.String()).To(Equal("0"))
				Expect(record.NetPay.String()).To(Equal("0"))
			})
		})

		Context("when the employee has no salary data", func() {
			It("returns ErrMissingSalary", func() {
				in := baseInput()
				in.Employee.BaseSalary = decimal.Zero

				record, _, err := engine.Calculate(in)

				Expect(err).To(MatchError(payrollrecord.ErrMissingSalary))
				Expect(record).To(BeNil())
			})
		})

		Context("rounding", func() {
			It("rounds hours to one place and money to two", func() {
				in := baseInput()
				in.Employee.BaseSalary = d("10000")
				in.Hours.RegularHours = d("150.27")
				in.Hours.OvertimeHours = d("1.44")
				in.Hours.LateHours = d("0")

				record, _, err := engine.Calculate(in)

				Expect(err).ToNot(HaveOccurred())
				Expect(record.TotalRegularHours.String()).To(Equal("150.3"))
				Expect(record.TotalOvertimeHours.String()).To(Equal("1.4"))
				// rate: 10000/160 = 62.5; base: 10000*150.3/160 = 9393.75
				// overtime: 1.4 * 62.5 * 1.5 = 131.25
				Expect(record.GrossPay.String()).To(Equal("9525"))
			})
		})
	})
})
