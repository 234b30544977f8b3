package postgres

import (
	"context"

	"gorm.io/gorm"

	employeeDatamodel "github.com/frahmantamala/payroll-management/internal/core/datamodel/employee"
	"github.com/frahmantamala/payroll-management/internal/payrollrecord"
)

// AttendanceAdapter reads the attendance subsystem's per-period aggregates.
// The kiosk pipeline that produces them is outside this service.
type AttendanceAdapter struct {
	db *gorm.DB
}

func NewAttendanceAdapter(db *gorm.DB) payrollrecord.AttendanceAggregates {
	return &AttendanceAdapter{db: db}
}

func (a *AttendanceAdapter) Get(ctx context.Context, periodID, employeeID int64) (*payrollrecord.HourAggregate, error) {
	var dm employeeDatamodel.AttendanceAggregate
	err := a.db.WithContext(ctx).
		Where("payroll_period_id = ? AND employee_id = ?", periodID, employeeID).
		First(&dm).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, payrollrecord.ErrAggregateNotFound
		}
		return nil, err
	}

	return &payrollrecord.HourAggregate{
		RegularHours:   dm.RegularHours,
		OvertimeHours:  dm.OvertimeHours,
		LateHours:      dm.LateHours,
		PaidLeaveHours: dm.PaidLeaveHours,
	}, nil
}
