package cmd

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/frahmantamala/leave-management/api"
	"github.com/frahmantamala/leave-management/internal"
	"github.com/frahmantamala/leave-management/internal/audit"
	auditPostgres "github.com/frahmantamala/leave-management/internal/audit/postgres"
	"github.com/frahmantamala/leave-management/internal/auth"
	"github.com/frahmantamala/leave-management/internal/core/datamodel"
	"github.com/frahmantamala/leave-management/internal/core/events"
	"github.com/frahmantamala/leave-management/internal/leave"
	leavePostgres "github.com/frahmantamala/leave-management/internal/leave/postgres"
	"github.com/frahmantamala/leave-management/internal/metrics"
	"github.com/frahmantamala/leave-management/internal/transport"
	"github.com/frahmantamala/leave-management/internal/transport/middleware"
	"github.com/frahmantamala/leave-management/internal/transport/rest"
	"github.com/frahmantamala/leave-management/internal/transport/swagger"
	"github.com/frahmantamala/leave-management/internal/user"
	userPostgres "github.com/frahmantamala/leave-management/internal/user/postgres"
	"github.com/frahmantamala/leave-management/pkg/logger"

	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
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
	Config   *internal.Config
	DB       *gorm.DB
	SQL      *sql.DB
	EventBus *events.EventBus
	Router   *chi.Mux
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
	deps.Logger.Info("Starting HTTP server", "address", addr, "env", deps.Config.App.Env, "driver", deps.Config.Database.Driver)

	server := &http.Server{
		Addr:              addr,
		Handler:           deps.Router,
		ReadHeaderTimeout: deps.Config.Server.ReadHeaderTimeout,
		ReadTimeout:       deps.Config.Server.ReadTimeout,
		WriteTimeout:      deps.Config.Server.WriteTimeout,
		IdleTimeout:       deps.Config.Server.IdleTimeout,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		deps.Logger.Info("Received signal, shutting down...", "signal", sig)
		ctx, cancel := internal.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			deps.Logger.Error("Server shutdown error", "error", err)
		}
		// audit writes still in flight need the database
		if err := deps.EventBus.Drain(ctx); err != nil {
			deps.Logger.Error("Event handlers did not finish", "error", err)
		}
		if err := deps.SQL.Close(); err != nil {
			deps.Logger.Error("Database close error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			deps.Logger.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}

	deps.Logger.Info("Server stopped")
}

func setupRoutes(deps *Dependencies) error {
	cfg := deps.Config
	lg := deps.Logger

	if _, err := swagger.Load(context.Background(), api.Spec); err != nil {
		return err
	}

	base := transport.NewBaseHandler(lg)
	base.Debug = cfg.IsDevelopment()

	var m *metrics.Metrics
	if cfg.Observability.Metrics.Enabled {
		m = metrics.New(cfg.Observability.Metrics.Namespace)
		m.RegisterEventHandlers(deps.EventBus)
	}

	auditService := audit.NewService(auditPostgres.NewAuditRepository(deps.DB), lg)
	audit.NewEventHandler(auditService, lg).RegisterEventHandlers(deps.EventBus)

	userService := user.NewService(userPostgres.NewUserRepository(deps.DB), lg,
		user.WithBcryptCost(cfg.Security.BCryptCost))
	authService := auth.NewService(userService, auth.NewJWTTokenGenerator(cfg.Security.JWTSecret),
		cfg.Security.NormalizedAdminEmails(), deps.EventBus, lg)
	leaveService := leave.NewService(leavePostgres.NewLeaveRepository(deps.DB), deps.EventBus, lg)

	rest.RegisterAllRoutes(deps.Router, rest.Routes{
		Base:   base,
		Health: rest.NewHealthHandler(deps.SQL, cfg.Database.Driver),
		Auth:   auth.NewHandler(base, authService),
		User:   user.NewHandler(base, userService),
		Leave:  leave.NewHandler(base, leaveService, auth.NewABACPolicy()),
		LoginLimiter: middleware.NewRateLimiter(base, middleware.RateLimitConfig{
			PerMinute: cfg.Security.LoginRatePerMinute,
			Burst:     cfg.Security.LoginBurst,
		}),
		Metrics:        m,
		MetricsPath:    cfg.Observability.Metrics.Path,
		OpenAPI:        api.Spec,
		AllowedOrigins: cfg.Server.Origins(),
	})
	return nil
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(configDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	db, sqlDB, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	// sqlite has no goose migrations; its schema comes from the datamodels
	if config.Database.Driver == internal.DriverSQLite {
		if err := db.AutoMigrate(datamodel.Models()...); err != nil {
			return nil, fmt.Errorf("failed to migrate sqlite schema: %w", err)
		}
	}

	lg := logger.LoggerWrapper()
	return &Dependencies{
		Config:   config,
		DB:       db,
		SQL:      sqlDB,
		EventBus: events.NewEventBus(lg),
		Router:   chi.NewRouter(),
		Logger:   lg,
	}, nil
}

// initDB opens the configured database and hands the pool to gorm.
func initDB(cfg internal.DatabaseConfig) (*gorm.DB, *sql.DB, error) {
	gormConfig := &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)}

	switch cfg.Driver {
	case internal.DriverSQLite:
		db, err := gorm.Open(sqlite.Open(cfg.GetDSN()), gormConfig)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open sqlite database: %w", err)
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, nil, err
		}
		// single writer
		sqlDB.SetMaxOpenConns(1)
		return db, sqlDB, nil

	default:
		const driver = "pgx"

		dbConn, err := sqlx.Connect(driver, cfg.GetDSN())
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open db connection: %w", err)
		}

		dbConn.SetMaxIdleConns(cfg.MaxIdleConns)
		dbConn.SetMaxOpenConns(cfg.MaxOpenConns)
		dbConn.SetConnMaxLifetime(cfg.ConnMaxLifetime)
		dbConn.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

		if err := dbConn.Ping(); err != nil {
			_ = dbConn.Close()
			return nil, nil, fmt.Errorf("failed to ping database: %w", err)
		}

		db, err := gorm.Open(postgres.New(postgres.Config{Conn: dbConn.DB}), gormConfig)
		if err != nil {
			_ = dbConn.Close()
			return nil, nil, fmt.Errorf("failed to open gorm session: %w", err)
		}
		return db, dbConn.DB, nil
	}
}
