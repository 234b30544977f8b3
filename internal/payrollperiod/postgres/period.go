package postgres

import (
	"time"

	"gorm.io/gorm"

	payrollDatamodel "github.com/frahmantamala/payroll-management/internal/core/datamodel/payroll"
	"github.com/frahmantamala/payroll-management/internal/payrollperiod"
)

// PeriodRepository implements payrollperiod.Repository using GORM.
type PeriodRepository struct {
	db *gorm.DB
}

func NewPeriodRepository(db *gorm.DB) payrollperiod.Repository {
	return &PeriodRepository{db: db}
}

func (r *PeriodRepository) Create(period *payrollperiod.Period) error {
	dm := payrollperiod.ToDataModel(period)
	if err := r.db.Create(dm).Error; err != nil {
		return err
	}
	period.ID = dm.ID
	period.CreatedAt = dm.CreatedAt
	period.UpdatedAt = dm.UpdatedAt
	return nil
}

func (r *PeriodRepository) GetByID(id int64) (*payrollperiod.Period, error) {
	var dm payrollDatamodel.PayrollPeriod
	err := r.db.Where("id = ?", id).First(&dm).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, payrollperiod.ErrPeriodNotFound
		}
		return nil, err
	}
	return payrollperiod.FromDataModel(&dm), nil
}

func (r *PeriodRepository) List(filter payrollperiod.ListFilter) ([]*payrollperiod.Period, int64, error) {
	query := r.db.Model(&payrollDatamodel.PayrollPeriod{})

	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.StartFrom != nil {
		query = query.Where("start_date >= ?", *filter.StartFrom)
	}
	if filter.EndUntil != nil {
		query = query.Where("end_date <= ?", *filter.EndUntil)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var dms []*payrollDatamodel.PayrollPeriod
	err := query.
		Order("start_date DESC").
		Limit(filter.Limit).
		Offset(filter.Offset).
		Find(&dms).Error
	if err != nil {
		return nil, 0, err
	}

	return payrollperiod.FromDataModelSlice(dms), total, nil
}

func (r *PeriodRepository) Update(period *payrollperiod.Period) error {
	period.UpdatedAt = time.Now()
	return r.db.Save(payrollperiod.ToDataModel(period)).Error
}

func (r *PeriodRepository) Delete(id int64) error {
	return r.db.Delete(&payrollDatamodel.PayrollPeriod{}, id).Error
}

// TransitionStatus performs the conditional lifecycle move; the WHERE on the
// current status makes duplicate transition attempts a no-op under races.
func (r *PeriodRepository) TransitionStatus(id int64, from, to string) (bool, error) {
	res := r.db.Model(&payrollDatamodel.PayrollPeriod{}).
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

func (r *PeriodRepository) CountApprovals(periodID int64) (int64, error) {
	var count int64
	err := r.db.Model(&payrollDatamodel.PayrollApproval{}).
		Where("payroll_period_id = ?", periodID).
		Count(&count).Error
	return count, err
}
