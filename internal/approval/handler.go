package approval

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"

	"github.com/frahmantamala/payroll-management/internal"
	"github.com/frahmantamala/payroll-management/internal/transport"
	"github.com/frahmantamala/payroll-management/pkg/logger"
)

type ServiceAPI interface {
	SendPeriodForReview(ctx context.Context, periodID int64) ([]*Approval, error)
	CreateApprovalsForPeriod(ctx context.Context, periodID int64) ([]*Approval, error)
	Decide(ctx context.Context, approvalID, approverID int64, dto DecisionDTO) (*Approval, error)
	GetWorkflowStatus(ctx context.Context, periodID int64) (*WorkflowStatus, error)
	GetPendingApprovalsForApprover(ctx context.Context, approverID int64) ([]*Approval, error)
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

func (h *Handler) SendForReview(w http.ResponseWriter, r *http.Request) {
	periodID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid period ID")
		return
	}

	approvals, err := h.Service.SendPeriodForReview(r.Context(), periodID)
	if err != nil {
		h.Logger.Error("SendForReview: service error", "error", err, "period_id", periodID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"period_id": periodID,
		"approvals": approvals,
	})
}

func (h *Handler) CreateApprovals(w http.ResponseWriter, r *http.Request) {
	periodID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid period ID")
		return
	}

	created, err := h.Service.CreateApprovalsForPeriod(r.Context(), periodID)
	if err != nil {
		h.Logger.Error("CreateApprovals: service error", "error", err, "period_id", periodID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, map[string]interface{}{
		"period_id": periodID,
		"created":   created,
	})
}

func (h *Handler) Decide(w http.ResponseWriter, r *http.Request) {
	approvalID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid approval ID")
		return
	}

	actor, ok := internal.ActorFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var dto DecisionDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	appr, err := h.Service.Decide(r.Context(), approvalID, actor.ID, dto)
	if err != nil {
		h.Logger.Error("Decide: service error",
			"error", err, "approval_id", approvalID, "approver_id", actor.ID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, appr)
}

func (h *Handler) GetWorkflowStatus(w http.ResponseWriter, r *http.Request) {
	periodID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid period ID")
		return
	}

	status, err := h.Service.GetWorkflowStatus(r.Context(), periodID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, status)
}

func (h *Handler) GetMyPendingApprovals(w http.ResponseWriter, r *http.Request) {
	actor, ok := internal.ActorFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	approvals, err := h.Service.GetPendingApprovalsForApprover(r.Context(), actor.ID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"approvals": approvals,
	})
}
