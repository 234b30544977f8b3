package postgres

import (
	"time"

	"gorm.io/gorm"

	payrollDatamodel "github.com/frahmantamala/payroll-management/internal/core/datamodel/payroll"
	"github.com/frahmantamala/payroll-management/internal/payrollrecord"
)

// RecordRepository implements payrollrecord.Repository using GORM.
type RecordRepository struct {
	db *gorm.DB
}

func NewRecordRepository(db *gorm.DB) payrollrecord.Repository {
	return &RecordRepository{db: db}
}

// ReplaceForPeriod deletes and reinserts the period's record set in one
// transaction, keyed on (period, employee), so regeneration is idempotent.
func (r *RecordRepository) ReplaceForPeriod(periodID int64, records []*payrollrecord.Record) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("payroll_period_id = ?", periodID).
			Delete(&payrollDatamodel.PayrollRecord{}).Error; err != nil {
			return err
		}

		for _, rec := range records {
			dm := payrollrecord.ToDataModel(rec)
			dm.ID = 0
			if err := tx.Create(dm).Error; err != nil {
				return err
			}
			rec.ID = dm.ID
		}
		return nil
	})
}

func (r *RecordRepository) GetByID(id int64) (*payrollrecord.Record, error) {
	var dm payrollDatamodel.PayrollRecord
	err := r.db.Where("id = ?", id).First(&dm).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, payrollrecord.ErrRecordNotFound
		}
		return nil, err
	}
	return payrollrecord.FromDataModel(&dm), nil
}

func (r *RecordRepository) List(filter payrollrecord.ListFilter) ([]*payrollrecord.Record, error) {
	query := r.db.Model(&payrollDatamodel.PayrollRecord{})

	if filter.PeriodID != 0 {
		query = query.Where("payroll_period_id = ?", filter.PeriodID)
	}
	if filter.EmployeeID != 0 {
		query = query.Where("employee_id = ?", filter.EmployeeID)
	}
	if filter.DepartmentID != 0 {
		query = query.Where("department_id = ?", filter.DepartmentID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	var dms []*payrollDatamodel.PayrollRecord
	err := query.
		Order("employee_id ASC").
		Limit(filter.Limit).
		Offset(filter.Offset).
		Find(&dms).Error
	if err != nil {
		return nil, err
	}

	return payrollrecord.FromDataModelSlice(dms), nil
}

func (r *RecordRepository) UpdateStatus(id int64, from, to string) (bool, error) {
	res := r.db.Model(&payrollDatamodel.PayrollRecord{}).
		Where("id = ? AND status = ?", id, from).
		Updates(map[string]interface{}{
			"status":     to,
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
