package rest

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"

	"github.com/frahmantamala/payroll-management/internal/approval"
	"github.com/frahmantamala/payroll-management/internal/payrollperiod"
	"github.com/frahmantamala/payroll-management/internal/payrollrecord"
	"github.com/frahmantamala/payroll-management/internal/reporting"
	"github.com/frahmantamala/payroll-management/internal/transport/middleware"
	"github.com/frahmantamala/payroll-management/internal/transport/swagger"
)

// PermissionPayrollManage gates the write side of the period lifecycle:
// period CRUD, record generation, and sending a period for review.
const PermissionPayrollManage = "payroll:manage"

func RegisterAllRoutes(
	router *chi.Mux,
	db *sql.DB,
	periodHandler *payrollperiod.Handler,
	recordHandler *payrollrecord.Handler,
	approvalHandler *approval.Handler,
	reportingHandler *reporting.Handler,
	jwtSecret string,
	logger *slog.Logger,
) {
	healthHandler := NewHealthHandler(db)

	router.Use(middleware.CORS)
	router.Use(chiMiddleware.RequestID)
	router.Use(middleware.RequestID)
	router.Use(middleware.RecoveryMiddleware(logger))
	router.Use(middleware.LoggingMiddleware(logger))

	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "./api/openapi.yml")
	})
	router.Handle("/swagger/*", swagger.Handler())

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		// Everything below requires an authenticated actor.
		r.Group(func(pr chi.Router) {
			pr.Use(middleware.ActorContext(jwtSecret, logger))

			pr.Route("/payroll/periods", func(sr chi.Router) {
				sr.Get("/", periodHandler.ListPeriods)
				sr.Get("/{id}", periodHandler.GetPeriod)
				sr.Get("/{id}/summary", reportingHandler.GetPeriodSummary)
				sr.Get("/{id}/approvals", approvalHandler.GetWorkflowStatus)

				// Lifecycle writes are HR-only.
				sr.Group(func(mr chi.Router) {
					mr.Use(middleware.RequirePermission(PermissionPayrollManage))
					mr.Post("/", periodHandler.CreatePeriod)
					mr.Patch("/{id}", periodHandler.UpdatePeriod)
					mr.Delete("/{id}", periodHandler.DeletePeriod)
					mr.Post("/{id}/records/generate", recordHandler.GenerateRecords)
					mr.Post("/{id}/send-for-review", approvalHandler.SendForReview)
					mr.Post("/{id}/approvals", approvalHandler.CreateApprovals)
				})
			})

			pr.Route("/payroll/records", func(sr chi.Router) {
				sr.Get("/", recordHandler.ListRecords)
				sr.Get("/{id}", recordHandler.GetRecord)

				sr.Group(func(mr chi.Router) {
					mr.Use(middleware.RequirePermission(PermissionPayrollManage))
					mr.Patch("/{id}/pay", recordHandler.MarkAsPaid)
				})
			})

			pr.Route("/approvals", func(sr chi.Router) {
				// Ownership of a decision is enforced in the service, not here.
				sr.Get("/pending", approvalHandler.GetMyPendingApprovals)
				sr.Patch("/{id}/decide", approvalHandler.Decide)
			})

			pr.Get("/reports/dashboard", reportingHandler.GetDashboardStats)
		})
	})
}
