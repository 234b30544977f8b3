package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	gormPostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/frahmantamala/payroll-management/internal"
	"github.com/frahmantamala/payroll-management/internal/approval"
	approvalPostgres "github.com/frahmantamala/payroll-management/internal/approval/postgres"
	"github.com/frahmantamala/payroll-management/internal/core/events"
	"github.com/frahmantamala/payroll-management/internal/payrollperiod"
	periodPostgres "github.com/frahmantamala/payroll-management/internal/payrollperiod/postgres"
	"github.com/frahmantamala/payroll-management/internal/payrollrecord"
	recordPostgres "github.com/frahmantamala/payroll-management/internal/payrollrecord/postgres"
	"github.com/frahmantamala/payroll-management/internal/reporting"
	reportingPostgres "github.com/frahmantamala/payroll-management/internal/reporting/postgres"
	"github.com/frahmantamala/payroll-management/internal/transport/rest"
	"github.com/frahmantamala/payroll-management/pkg/logger"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

type Dependencies struct {
	Config *internal.Config
	DB     *sqlx.DB
	GormDB *gorm.DB
	Router *chi.Mux
	Logger *slog.Logger
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	setupRoutes(deps)

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	deps.Logger.Info("starting HTTP server", "address", addr)

	server := &http.Server{
		Addr:         addr,
		Handler:      deps.Router,
		ReadTimeout:  deps.Config.Server.ReadTimeout,
		WriteTimeout: deps.Config.Server.WriteTimeout,
		IdleTimeout:  deps.Config.Server.IdleTimeout,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		deps.Logger.Info("received signal, shutting down", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			deps.Logger.Error("server shutdown error", "error", err)
		}
		if err := deps.DB.Close(); err != nil {
			deps.Logger.Error("database close error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			deps.Logger.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}

	deps.Logger.Info("server stopped")
}

func setupRoutes(deps *Dependencies) {
	lg := deps.Logger
	eventBus := events.NewEventBus(lg)

	periodRepo := periodPostgres.NewPeriodRepository(deps.GormDB)
	periodService := payrollperiod.NewService(periodRepo, lg)
	periodHandler := payrollperiod.NewHandler(periodService)

	engine := payrollrecord.NewEngine(deps.Config.Payroll.OvertimeMultiplier)
	recordRepo := recordPostgres.NewRecordRepository(deps.GormDB)
	recordService := payrollrecord.NewService(
		engine,
		recordRepo,
		periodRepo,
		recordPostgres.NewAttendanceAdapter(deps.GormDB),
		recordPostgres.NewDeductionCatalogAdapter(deps.GormDB),
		recordPostgres.NewEmployeeDirectoryAdapter(deps.GormDB),
		eventBus,
		lg,
	)
	recordHandler := payrollrecord.NewHandler(recordService)

	approvalRepo := approvalPostgres.NewApprovalRepository(deps.GormDB)
	approvalService := approval.NewService(
		approvalRepo,
		approvalPostgres.NewApproverDirectoryAdapter(deps.GormDB),
		eventBus,
		lg,
	)
	approvalHandler := approval.NewHandler(approvalService)

	reportingRepo := reportingPostgres.NewReportRepository(deps.DB)
	reportingService := reporting.NewService(reportingRepo, lg)
	reportingHandler := reporting.NewHandler(reportingService)

	rest.RegisterAllRoutes(
		deps.Router,
		deps.DB.DB,
		periodHandler,
		recordHandler,
		approvalHandler,
		reportingHandler,
		deps.Config.Security.JWTSecret,
		lg,
	)
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger.Init(os.Getenv("APP_ENV"))
	lg := logger.LoggerWrapper()

	db, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	gormDB, err := initGormDB(db)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize gorm: %w", err)
	}

	return &Dependencies{
		Config: config,
		Logger: lg,
		DB:     db,
		GormDB: gormDB,
		Router: chi.NewRouter(),
	}, nil
}

// initDB initializes the database connection
func initDB(cfg internal.DatabaseConfig) (*sqlx.DB, error) {
	const driver = "pgx"

	dbConn, err := sqlx.Connect(driver, cfg.Source)
	if err != nil {
		return nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	dbConn.SetMaxIdleConns(cfg.MaxIdleConns)
	dbConn.SetMaxOpenConns(cfg.MaxOpenConns)
	dbConn.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	dbConn.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	if err := dbConn.Ping(); err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return dbConn, nil
}

// initGormDB layers GORM over the existing pgx stdlib pool so repositories
// and raw reporting queries share one set of connections.
func initGormDB(db *sqlx.DB) (*gorm.DB, error) {
	return gorm.Open(gormPostgres.New(gormPostgres.Config{Conn: db.DB}), &gorm.Config{})
}
