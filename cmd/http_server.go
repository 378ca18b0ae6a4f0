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
	"github.com/jmoiron/sqlx"
	"github.com/smdiallo/presence-management/internal"
	"github.com/smdiallo/presence-management/internal/auth"
	authPostgres "github.com/smdiallo/presence-management/internal/auth/postgres"
	employeeDatamodel "github.com/smdiallo/presence-management/internal/core/datamodel/employee"
	presenceDatamodel "github.com/smdiallo/presence-management/internal/core/datamodel/presence"
	userDatamodel "github.com/smdiallo/presence-management/internal/core/datamodel/user"
	"github.com/smdiallo/presence-management/internal/dashboard"
	"github.com/smdiallo/presence-management/internal/employee"
	employeePostgres "github.com/smdiallo/presence-management/internal/employee/postgres"
	"github.com/smdiallo/presence-management/internal/presence"
	presencePostgres "github.com/smdiallo/presence-management/internal/presence/postgres"
	"github.com/smdiallo/presence-management/internal/transport"
	"github.com/smdiallo/presence-management/internal/transport/rest"
	"github.com/smdiallo/presence-management/pkg/logger"
	"github.com/spf13/cobra"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server for the presence tracking web application`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

type Dependencies struct {
	Config   *internal.Config
	DB       *gorm.DB
	SQLX     *sqlx.DB
	Router   *chi.Mux
	Sessions *transport.SessionManager
	Logger   *slog.Logger
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	if err := setupRoutes(deps); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to set up routes: %v\n", err)
		os.Exit(1)
	}

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	slog.Info("Starting HTTP server", "address", addr)

	server := &http.Server{
		Addr:         addr,
		Handler:      deps.Router,
		ReadTimeout:  deps.Config.Server.ReadTimeout,
		WriteTimeout: deps.Config.Server.WriteTimeout,
		IdleTimeout:  deps.Config.Server.IdleTimeout,
	}

	// Signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		slog.Info("Received signal, shutting down...", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			slog.Error("Server shutdown error", "error", err)
		}
		if err := deps.SQLX.Close(); err != nil {
			slog.Error("Database close error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}

	slog.Info("Server stopped")
}

func setupRoutes(deps *Dependencies) error {
	base := transport.NewBaseHandler(deps.Logger, deps.Sessions)

	userRepo := authPostgres.NewUserRepository(deps.DB)
	authService := auth.NewService(userRepo, deps.Logger, deps.Config.Security.BCryptCost)
	authHandler := auth.NewHandler(base, authService)

	// Idempotent bootstrap: seed the default admin if no user exists yet.
	if err := authService.EnsureAdmin(); err != nil {
		return fmt.Errorf("failed to seed admin user: %w", err)
	}

	employeeRepo := employeePostgres.NewEmployeeRepository(deps.DB)
	employeeService := employee.NewService(employeeRepo, deps.Logger)
	employeeHandler := employee.NewHandler(base, employeeService)

	presenceRepo := presencePostgres.NewPresenceRepository(deps.DB)
	presenceService := presence.NewService(presenceRepo, employeeService, deps.Logger)
	presenceHandler := presence.NewHandler(base, presenceService, employeeService)

	dashboardService := dashboard.NewService(deps.SQLX, deps.Logger)
	dashboardHandler := dashboard.NewHandler(base, dashboardService)

	rest.RegisterAllRoutes(deps.Router, deps.SQLX.DB, deps.Sessions,
		authHandler, dashboardHandler, employeeHandler, presenceHandler, deps.Logger)
	return nil
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger.Init(config.Logging.Level, config.Logging.Format)

	db, sqlxDB, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return &Dependencies{
		Config:   config,
		DB:       db,
		SQLX:     sqlxDB,
		Router:   chi.NewRouter(),
		Sessions: transport.NewSessionManager(config.Security.SessionSecret),
		Logger:   logger.LoggerWrapper(),
	}, nil
}

// initDB opens the gorm connection for the configured driver and wraps
// the underlying *sql.DB with sqlx for the plain-SQL consumers.
func initDB(cfg internal.DatabaseConfig) (*gorm.DB, *sqlx.DB, error) {
	var dialector gorm.Dialector
	var driverName string

	switch cfg.Driver {
	case internal.DriverPostgres:
		dialector = postgres.Open(cfg.Source)
		driverName = "pgx"
	default:
		dialector = sqlite.Open(cfg.Source)
		driverName = "sqlite3"
	}

	db, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to access underlying db: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	// verify connection before serving requests
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, nil, fmt.Errorf("failed to ping database: %w", err)
	}

	// sqlite deployments are self-contained: build the schema in place
	// instead of requiring a goose run
	if cfg.Driver != internal.DriverPostgres {
		if err := migrateSQLite(db); err != nil {
			_ = sqlDB.Close()
			return nil, nil, fmt.Errorf("failed to migrate sqlite schema: %w", err)
		}
	}

	return db, sqlx.NewDb(sqlDB, driverName), nil
}

func migrateSQLite(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&userDatamodel.User{},
		&employeeDatamodel.Employee{},
		&presenceDatamodel.Presence{},
	); err != nil {
		return err
	}
	// expression index: AutoMigrate cannot express the daily-entry guard
	return db.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS uq_presences_daily_entry
		ON presences (matricule, date(heure_entree))`).Error
}
