package reporting

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"

	"github.com/frahmantamala/payroll-management/internal"
	"github.com/frahmantamala/payroll-management/internal/transport"
	"github.com/frahmantamala/payroll-management/pkg/logger"
)

type ServiceAPI interface {
	GetPeriodSummary(ctx context.Context, periodID int64) (*PeriodSummary, error)
	GetDashboardStats(ctx context.Context, departmentID *int64) (*DashboardStats, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(service ServiceAPI) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     service,
	}
}

func (h *Handler) GetPeriodSummary(w http.ResponseWriter, r *http.Request) {
	periodID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid period ID")
		return
	}

	summary, err := h.Service.GetPeriodSummary(r.Context(), periodID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, summary)
}

// GetDashboardStats scopes department heads to their own department; HR staff
// may pass an explicit department_id or omit it for organization-wide stats.
func (h *Handler) GetDashboardStats(w http.ResponseWriter, r *http.Request) {
	var departmentID *int64

	if actor, ok := internal.ActorFromContext(r.Context()); ok && actor.DepartmentID != nil {
		departmentID = actor.DepartmentID
	} else if v := r.URL.Query().Get("department_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			h.WriteError(w, http.StatusBadRequest, "invalid department ID")
			return
		}
		departmentID = &id
	}

	stats, err := h.Service.GetDashboardStats(r.Context(), departmentID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, stats)
}
