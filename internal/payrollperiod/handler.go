package payrollperiod

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi"

	"github.com/frahmantamala/payroll-management/internal/transport"
	"github.com/frahmantamala/payroll-management/pkg/logger"
)

type ServiceAPI interface {
	CreatePeriod(dto CreatePeriodDTO) (*Period, error)
	GetPeriod(id int64) (*Period, error)
	ListPeriods(filter ListFilter) ([]*Period, int64, error)
	UpdatePeriod(id int64, dto UpdatePeriodDTO) (*Period, error)
	DeletePeriod(id int64) error
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

func (h *Handler) CreatePeriod(w http.ResponseWriter, r *http.Request) {
	var dto CreatePeriodDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("CreatePeriod: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	period, err := h.Service.CreatePeriod(dto)
	if err != nil {
		h.Logger.Error("CreatePeriod: service error", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, period)
}

func (h *Handler) GetPeriod(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid period ID")
		return
	}

	period, err := h.Service.GetPeriod(id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, period)
}

func (h *Handler) ListPeriods(w http.ResponseWriter, r *http.Request) {
	filter := ListFilter{
		Status: r.URL.Query().Get("status"),
	}

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
	if v := r.URL.Query().Get("start_from"); v != "" {
		if t, err := time.Parse("2006-01-02", v); err == nil {
			filter.StartFrom = &t
		}
	}
	if v := r.URL.Query().Get("end_until"); v != "" {
		if t, err := time.Parse("2006-01-02", v); err == nil {
			filter.EndUntil = &t
		}
	}

	periods, total, err := h.Service.ListPeriods(filter)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"periods": periods,
		"total":   total,
		"limit":   filter.Limit,
		"offset":  filter.Offset,
	})
}

func (h *Handler) UpdatePeriod(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid period ID")
		return
	}

	var dto UpdatePeriodDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("UpdatePeriod: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	period, err := h.Service.UpdatePeriod(id, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, period)
}

func (h *Handler) DeletePeriod(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid period ID")
		return
	}

	if err := h.Service.DeletePeriod(id); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
