package payrollrecord

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"

	"github.com/frahmantamala/payroll-management/internal/transport"
	"github.com/frahmantamala/payroll-management/pkg/logger"
)

type ServiceAPI interface {
	GenerateRecords(ctx context.Context, periodID int64) (*GenerationResult, error)
	GetRecord(id int64) (*Record, error)
	ListRecords(filter ListFilter) ([]*Record, error)
	MarkAsPaid(id int64) (*Record, error)
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

func (h *Handler) GenerateRecords(w http.ResponseWriter, r *http.Request) {
	periodID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid period ID")
		return
	}

	result, err := h.Service.GenerateRecords(r.Context(), periodID)
	if err != nil {
		h.Logger.Error("GenerateRecords: service error", "error", err, "period_id", periodID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, result)
}

func (h *Handler) GetRecord(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid record ID")
		return
	}

	record, err := h.Service.GetRecord(id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, record)
}

func (h *Handler) ListRecords(w http.ResponseWriter, r *http.Request) {
	filter := ListFilter{
		Status: r.URL.Query().Get("status"),
	}

	parse := func(key string) int64 {
		if v := r.URL.Query().Get(key); v != "" {
			if n, err := strconv.ParseInt(v, 10, 64); err == nil {
				return n
			}
		}
		return 0
	}
	filter.PeriodID = parse("period_id")
	filter.EmployeeID = parse("employee_id")
	filter.DepartmentID = parse("department_id")

	if v := r.URL.Query().Get("limit"); v != "" {
		if l, err := strconv.Atoi(v); err == nil {
			filter.Limit = l
		}
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		if o, err := strconv.Atoi(v); err == nil {
			filter.Offset = o
		}
	}

	records, err := h.Service.ListRecords(filter)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"records": records,
		"limit":   filter.Limit,
		"offset":  filter.Offset,
	})
}

func (h *Handler) MarkAsPaid(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid record ID")
		return
	}

	record, err := h.Service.MarkAsPaid(id)
	if err != nil {
		h.Logger.Error("MarkAsPaid: service error", "error", err, "record_id", id)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, record)
}
