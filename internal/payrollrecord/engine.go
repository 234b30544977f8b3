package payrollrecord

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// ErrMissingSalary marks an employee whose compensation data is absent; the
// batch skips them and reports an error entry instead of aborting.
var ErrMissingSalary = errors.New("employee has no salary data")

// Engine derives one payroll record from attendance aggregates and
// compensation data. Monetary results are rounded to 2 decimal places,
// hours to 1.
type Engine struct {
	overtimeMultiplier decimal.Decimal
}

func NewEngine(overtimeMultiplier float64) *Engine {
	return &Engine{
		overtimeMultiplier: decimal.NewFromFloat(overtimeMultiplier),
	}
}

// CalcInput bundles everything needed to compute one employee's record.
type CalcInput struct {
	PeriodID             int64
	ExpectedMonthlyHours decimal.Decimal
	Employee             Employee
	Hours                HourAggregate
	Deductions           []Balance
	Benefits             []Balance
}

// Calculate computes the pay breakdown in the documented order: base pay
// prorated over capped regular hours, overtime on top, late hours as a
// deduction line, then deduction balances, then benefits. Net pay is clamped
// at zero; the second return value reports whether clamping happened.
func (e *Engine) Calculate(in CalcInput) (*Record, bool, error) {
	if in.Employee.BaseSalary.LessThanOrEqual(decimal.Zero) {
		return nil, false, ErrMissingSalary
	}

	expected := in.ExpectedMonthlyHours
	hourlyRate := e.hourlyRate(in.Employee, expected)

	regularHours := in.Hours.RegularHours.Round(1)
	overtimeHours := in.Hours.OvertimeHours.Round(1)
	lateHours := in.Hours.LateHours.Round(1)
	paidLeaveHours := in.Hours.PaidLeaveHours.Round(1)

	// Paid leave counts toward the base-pay proration; hours beyond the
	// expected monthly total are ignored for base pay, overtime is paid
	// separately and never double-counted.
	creditedHours := regularHours.Add(paidLeaveHours)
	if creditedHours.GreaterThan(expected) {
		creditedHours = expected
	}

	basePay := in.Employee.BaseSalary.Mul(creditedHours).DivRound(expected, 2)
	overtimePay := overtimeHours.Mul(hourlyRate).Mul(e.overtimeMultiplier).Round(2)
	grossPay := basePay.Add(overtimePay)

	// A late hour never flips into negative hours; it reduces take-home as a
	// deduction line.
	lateDeductions := lateHours.Mul(hourlyRate).Round(2)

	totalDeductions := lateDeductions
	for _, d := range in.Deductions {
		totalDeductions = totalDeductions.Add(d.Amount)
	}
	totalDeductions = totalDeductions.Round(2)

	totalBenefits := decimal.Zero
	for _, b := range in.Benefits {
		totalBenefits = totalBenefits.Add(b.Amount)
	}
	totalBenefits = totalBenefits.Round(2)

	netPay := grossPay.Sub(totalDeductions).Add(totalBenefits).Round(2)
	clamped := false
	if netPay.IsNegative() {
		netPay = decimal.Zero
		clamped = true
	}

	now := time.Now()
	record := &Record{
		PayrollPeriodID:    in.PeriodID,
		EmployeeID:         in.Employee.ID,
		DepartmentID:       in.Employee.DepartmentID,
		BaseSalary:         in.Employee.BaseSalary.Round(2),
		HourlyRate:         hourlyRate,
		TotalRegularHours:  regularHours,
		TotalOvertimeHours: overtimeHours,
		TotalLateHours:     lateHours,
		PaidLeaveHours:     paidLeaveHours,
		LateDeductions:     lateDeductions,
		GrossPay:           grossPay,
		TotalDeductions:    totalDeductions,
		TotalBenefits:      totalBenefits,
		NetPay:             netPay,
		Status:             StatusDraft,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	return record, clamped, nil
}

func (e *Engine) hourlyRate(emp Employee, expectedMonthlyHours decimal.Decimal) decimal.Decimal {
	if emp.HourlyRate != nil && emp.HourlyRate.GreaterThan(decimal.Zero) {
		return emp.HourlyRate.Round(2)
	}
	return emp.BaseSalary.DivRound(expectedMonthlyHours, 2)
}
