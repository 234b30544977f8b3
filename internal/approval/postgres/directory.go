package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/frahmantamala/payroll-management/internal/approval"
	employeeDatamodel "github.com/frahmantamala/payroll-management/internal/core/datamodel/employee"
	userDatamodel "github.com/frahmantamala/payroll-management/internal/core/datamodel/user"
)

// PermissionPayrollApprove marks HR staff accountable for every period.
const PermissionPayrollApprove = "payroll:approve"

// ApproverDirectoryAdapter resolves the accountable approver set for a
// period: every active HR user holding the payroll approve permission, plus
// the head of each department. A user appearing in both groups keeps the
// HR-wide (nil department) entry.
type ApproverDirectoryAdapter struct {
	db *gorm.DB
}

func NewApproverDirectoryAdapter(db *gorm.DB) approval.ApproverDirectory {
	return &ApproverDirectoryAdapter{db: db}
}

func (a *ApproverDirectoryAdapter) ListAccountable(ctx context.Context, periodID int64) ([]approval.Accountable, error) {
	var hrIDs []int64
	err := a.db.WithContext(ctx).
		Model(&userDatamodel.User{}).
		Select("users.id").
		Joins("JOIN user_permissions ON user_permissions.user_id = users.id").
		Joins("JOIN permissions ON permissions.id = user_permissions.permission_id").
		Where("permissions.name = ? AND users.is_active = ?", PermissionPayrollApprove, true).
		Order("users.id ASC").
		Scan(&hrIDs).Error
	if err != nil {
		return nil, err
	}

	var heads []struct {
		HeadUserID   int64
		DepartmentID int64
	}
	err = a.db.WithContext(ctx).
		Model(&employeeDatamodel.Department{}).
		Select("departments.head_user_id AS head_user_id, departments.id AS department_id").
		Joins("JOIN users ON users.id = departments.head_user_id").
		Where("departments.head_user_id IS NOT NULL AND users.is_active = ?", true).
		Order("departments.id ASC").
		Scan(&heads).Error
	if err != nil {
		return nil, err
	}

	seen := make(map[int64]bool, len(hrIDs)+len(heads))
	accountable := make([]approval.Accountable, 0, len(hrIDs)+len(heads))
	for _, id := range hrIDs {
		if seen[id] {
			continue
		}
		seen[id] = true
		accountable = append(accountable, approval.Accountable{UserID: id})
	}
	for _, head := range heads {
		if seen[head.HeadUserID] {
			continue
		}
		seen[head.HeadUserID] = true
		deptID := head.DepartmentID
		accountable = append(accountable, approval.Accountable{
			UserID:       head.HeadUserID,
			DepartmentID: &deptID,
		})
	}
	return accountable, nil
}
