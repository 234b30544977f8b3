package reporting

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/frahmantamala/payroll-management/internal"
	"github.com/frahmantamala/payroll-management/internal/payrollperiod"
)

// Repository is the read-side query surface. Aggregates run as raw SQL; this
// facade never writes.
type Repository interface {
	GetPeriodSummary(ctx context.Context, periodID int64) (*PeriodSummary, error)
	GetDashboardStats(ctx context.Context, departmentID *int64) (*DashboardStats, error)
}

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

func (s *Service) GetPeriodSummary(ctx context.Context, periodID int64) (*PeriodSummary, error) {
	summary, err := s.repo.GetPeriodSummary(ctx, periodID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, payrollperiod.ErrPeriodNotFound
		}
		s.logger.Error("failed to build period summary", "error", err, "period_id", periodID)
		return nil, internal.NewInternalError("failed to build period summary", err)
	}
	return summary, nil
}

// GetDashboardStats scopes to a department when one is given; HR staff pass
// nil and see the whole organization.
func (s *Service) GetDashboardStats(ctx context.Context, departmentID *int64) (*DashboardStats, error) {
	stats, err := s.repo.GetDashboardStats(ctx, departmentID)
	if err != nil {
		s.logger.Error("failed to build dashboard stats", "error", err)
		return nil, internal.NewInternalError("failed to build dashboard stats", err)
	}
	stats.DepartmentID = departmentID
	return stats, nil
}
