package payrollrecord

// ListFilter narrows record listings; zero values mean no filtering.
type ListFilter struct {
	PeriodID     int64
	EmployeeID   int64
	DepartmentID int64
	Status       string
	Limit        int
	Offset       int
}

func (f *ListFilter) Normalize() {
	if f.Limit <= 0 || f.Limit > 200 {
		f.Limit = 50
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
}

// GenerationIssue reports one employee the batch could not fully handle.
type GenerationIssue struct {
	EmployeeID int64  `json:"employee_id"`
	Reason     string `json:"reason"`
}

// GenerationResult is the partial-failure report for one generation run.
// Skipped employees got no record; Warnings cover records generated with
// fallback inputs (zero hours, clamped net pay).
type GenerationResult struct {
	PeriodID int64             `json:"period_id"`
	Records  []*Record         `json:"records"`
	Skipped  []GenerationIssue `json:"skipped,omitempty"`
	Warnings []GenerationIssue `json:"warnings,omitempty"`
}
