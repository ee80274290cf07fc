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

	"github.com/intraforms/portal-api/internal"
	"github.com/intraforms/portal-api/internal/auth"
	authpg "github.com/intraforms/portal-api/internal/auth/postgres"
	"github.com/intraforms/portal-api/internal/core/events"
	"github.com/intraforms/portal-api/internal/department"
	departmentpg "github.com/intraforms/portal-api/internal/department/postgres"
	"github.com/intraforms/portal-api/internal/deptlink"
	deptlinkpg "github.com/intraforms/portal-api/internal/deptlink/postgres"
	"github.com/intraforms/portal-api/internal/quicklink"
	quicklinkpg "github.com/intraforms/portal-api/internal/quicklink/postgres"
	"github.com/intraforms/portal-api/internal/role"
	rolepg "github.com/intraforms/portal-api/internal/role/postgres"
	"github.com/intraforms/portal-api/internal/transport/rest"
	"github.com/intraforms/portal-api/internal/user"
	userpg "github.com/intraforms/portal-api/internal/user/postgres"
	"github.com/intraforms/portal-api/pkg/logger"

	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle portal API requests`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

type Dependencies struct {
	Config *internal.Config
	DB     *sqlx.DB
	Router *chi.Mux
	Logger *slog.Logger
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

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

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger.Init(os.Getenv("APP_ENV"), config.Observability.Logging.Level)
	log := logger.L()

	db, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	gormDB, err := gorm.Open(gormpostgres.New(gormpostgres.Config{Conn: db.DB}), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to open gorm over database pool: %w", err)
	}

	bus := events.NewEventBus(log)
	events.RegisterAuditLogger(bus, log)

	tokens := auth.NewJWTTokenGenerator(
		config.Security.AccessTokenSecret,
		config.Security.RefreshTokenSecret,
		config.Security.AccessTokenDuration,
		config.Security.RefreshTokenDuration,
		config.Security.TokenIssuer,
		config.Security.TokenAudience,
	)

	authService := auth.NewService(authpg.NewRepository(gormDB), tokens, config.Security.BCryptCost, bus)
	userService := user.NewService(userpg.NewUserRepository(gormDB), authService, bus)
	roleService := role.NewService(rolepg.NewRoleRepository(gormDB))
	departmentService := department.NewService(departmentpg.NewDepartmentRepository(gormDB), bus)
	deptLinkService := deptlink.NewService(deptlinkpg.NewLinkRepository(gormDB), bus)
	quickLinkService := quicklink.NewService(quicklinkpg.NewLinkRepository(gormDB), bus)

	handlers := rest.Handlers{
		Auth:       auth.NewHandler(authService),
		User:       user.NewHandler(userService),
		Role:       role.NewHandler(roleService),
		Department: department.NewHandler(departmentService),
		DeptLink:   deptlink.NewHandler(deptLinkService),
		QuickLink:  quicklink.NewHandler(quickLinkService),
	}
	rbac := auth.NewRBACAuthorization(log)

	router := chi.NewRouter()
	rest.RegisterAllRoutes(router, db.DB, handlers, rbac, config.Server.AllowedOrigins, log)

	return &Dependencies{
		Config: config,
		Logger: log,
		DB:     db,
		Router: router,
	}, nil
}

// initDB opens the shared pgx connection pool
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
