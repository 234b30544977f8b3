package postgres

import (
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/frahmantamala/payroll-management/internal/approval"
	payrollDatamodel "github.com/frahmantamala/payroll-management/internal/core/datamodel/payroll"
	"github.com/frahmantamala/payroll-management/internal/payrollrecord"
)

// ApprovalRepository persists approvals and applies the period/record side
// effects of decisions. InTx yields a repository bound to one transaction so
// the decision write, the tally, and the period transition commit together.
type ApprovalRepository struct {
	db *gorm.DB
}

func NewApprovalRepository(db *gorm.DB) *ApprovalRepository {
	return &ApprovalRepository{db: db}
}

func (r *ApprovalRepository) CreateIfAbsent(a *approval.Approval) (bool, error) {
	dm := approval.ToDataModel(a)
	dm.ID = 0

	// The unique (period, approver) index turns duplicate fan-out inserts
	// into no-ops instead of errors.
	result := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "payroll_period_id"}, {Name: "approver_id"}},
		DoNothing: true,
	}).Create(dm)
	if result.Error != nil {
		return false, result.Error
	}
	if result.RowsAffected == 0 {
		return false, nil
	}

	a.ID = dm.ID
	return true, nil
}

func (r *ApprovalRepository) GetByID(id int64) (*approval.Approval, error) {
	var dm payrollDatamodel.PayrollApproval
	if err := r.db.First(&dm, id).Error; err != nil {
		return nil, err
	}
	return approval.FromDataModel(&dm), nil
}

func (r *ApprovalRepository) ListByPeriod(periodID int64) ([]*approval.Approval, error) {
	var dms []*payrollDatamodel.PayrollApproval
	err := r.db.
		Where("payroll_period_id = ?", periodID).
		Order("id ASC").
		Find(&dms).Error
	if err != nil {
		return nil, err
	}
	return approval.FromDataModelSlice(dms), nil
}

func (r *ApprovalRepository) ListPendingByApprover(approverID int64) ([]*approval.Approval, error) {
	var dms []*payrollDatamodel.PayrollApproval
	err := r.db.
		Where("approver_id = ? AND status = ?", approverID, approval.StatusPending).
		Order("created_at ASC").
		Find(&dms).Error
	if err != nil {
		return nil, err
	}
	return approval.FromDataModelSlice(dms), nil
}

func (r *ApprovalRepository) MarkDecided(id int64, status, comments string, decidedAt time.Time) (bool, error) {
	result := r.db.Model(&payrollDatamodel.PayrollApproval{}).
		Where("id = ? AND status = ?", id, approval.StatusPending).
		Updates(map[string]interface{}{
			"status":      status,
			"comments":    comments,
			"approved_at": decidedAt,
			"updated_at":  decidedAt,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *ApprovalRepository) TallyForPeriod(periodID int64) (approval.Tally, error) {
	var rows []struct {
		Status string
		Count  int
	}
	err := r.db.Model(&payrollDatamodel.PayrollApproval{}).
		Select("status, COUNT(*) AS count").
		Where("payroll_period_id = ?", periodID).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return approval.Tally{}, err
	}

	var tally approval.Tally
	for _, row := range rows {
		tally.Total += row.Count
		switch row.Status {
		case approval.StatusPending:
			tally.Pending = row.Count
		case approval.StatusApproved:
			tally.Approved = row.Count
		case approval.StatusRejected:
			tally.Rejected = row.Count
		}
	}
	return tally, nil
}

func (r *ApprovalRepository) TransitionPeriod(periodID int64, from, to string) (bool, error) {
	result := r.db.Model(&payrollDatamodel.PayrollPeriod{}).
		Where("id = ? AND status = ?", periodID, from).
		Updates(map[string]interface{}{
			"status":     to,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *ApprovalRepository) MarkDepartmentRecordsProcessed(periodID, departmentID int64) (int64, error) {
	result := r.db.Model(&payrollDatamodel.PayrollRecord{}).
		Where("payroll_period_id = ? AND department_id = ? AND status = ?",
			periodID, departmentID, payrollrecord.StatusDraft).
		Updates(map[string]interface{}{
			"status":     payrollrecord.StatusProcessed,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

func (r *ApprovalRepository) CountRecordsForPeriod(periodID int64) (int64, error) {
	var count int64
	err := r.db.Model(&payrollDatamodel.PayrollRecord{}).
		Where("payroll_period_id = ?", periodID).
		Count(&count).Error
	return count, err
}

func (r *ApprovalRepository) GetPeriodStatus(periodID int64) (string, error) {
	var dm payrollDatamodel.PayrollPeriod
	if err := r.db.Select("id", "status").First(&dm, periodID).Error; err != nil {
		return "", err
	}
	return dm.Status, nil
}

func (r *ApprovalRepository) InTx(fn func(approval.Repository) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return fn(&ApprovalRepository{db: tx})
	})
}
