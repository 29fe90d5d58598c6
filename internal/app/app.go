package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mnps-api/internal/auth"
	"mnps-api/internal/config"
	"mnps-api/internal/database"
	"mnps-api/internal/event"
	"mnps-api/internal/handler"
	"mnps-api/internal/middleware"
	"mnps-api/internal/repository"
	"mnps-api/internal/router"
	"mnps-api/internal/service"
	"mnps-api/internal/websocket"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	server       *http.Server
	cleanupFuncs []func()
}

func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	hasher, err := NewPasswordHasher(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize password hasher: %w", err)
	}

	tokens, err := auth.NewTokenManager(auth.TokenConfig{
		Secret: []byte(cfg.JWTSecret),
		TTL:    cfg.JWTAccessTTL,
		Issuer: cfg.JWTIssuer,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize token manager: %w", err)
	}

	db, err := Connect(ctx, cfg)
	if err != nil {
		return nil, err
	}

	if cfg.DBAutoMigrate {
		if err := db.Migrate(ctx); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to ensure database schema: %w", err)
		}
	}

	userRepo := repository.NewUserRepository(db.Pool)
	resultRepo := repository.NewResultRepository(db.Pool)
	broadcastRepo := repository.NewBroadcastRepository(db.Pool)

	authService, err := service.NewAuthService(userRepo, hasher, tokens)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize auth service: %w", err)
	}

	bus := event.NewBus()
	hub := websocket.NewHub(bus, cfg.CORSOrigins)
	hubCtx, stopHub := context.WithCancel(context.Background())
	go hub.Run(hubCtx)

	appRouter := router.New(cfg, logger, middleware.NewAuthMiddleware(authService), router.Handlers{
		System:     handler.NewSystemHandler(db),
		Auth:       handler.NewAuthHandler(authService),
		Results:    handler.NewResultsHandler(service.NewResultService(resultRepo)),
		Broadcasts: handler.NewBroadcastsHandler(service.NewBroadcastService(broadcastRepo, bus)),
		Docs:       handler.NewDocsHandler(cfg.DocsSpecPath),
		Stream:     hub,
	})

	server := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           appRouter,
		ReadHeaderTimeout: cfg.ServerReadHeaderTimeout,
		WriteTimeout:      cfg.ServerWriteTimeout,
		IdleTimeout:       cfg.ServerIdleTimeout,
		ErrorLog:          slog.NewLogLogger(logger.Handler(), slog.LevelWarn),
	}

	return &App{
		server: server,
		cleanupFuncs: []func(){
			stopHub,
			db.Close,
		},
	}, nil
}

// Run serves until SIGINT or SIGTERM, then drains in-flight requests.
func (a *App) Run() error {
	serveErr := make(chan error, 1)
	go func() {
		slog.Info("server starting", "addr", a.server.Addr)
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(stop)

	select {
	case err := <-serveErr:
		a.cleanup()
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case sig := <-stop:
		slog.Info("shutdown signal received", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	shutdownErr := a.server.Shutdown(ctx)
	a.cleanup()
	if shutdownErr != nil {
		return fmt.Errorf("graceful shutdown failed: %w", shutdownErr)
	}

	slog.Info("server stopped")
	return nil
}

func (a *App) cleanup() {
	for _, cleanup := range a.cleanupFuncs {
		cleanup()
	}
	a.cleanupFuncs = nil
}

// Connect opens the connection pool described by cfg.
func Connect(ctx context.Context, cfg *config.Config) (*database.DB, error) {
	slog.Info("connecting to PostgreSQL")
	db, err := database.New(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return db, nil
}

func NewPasswordHasher(cfg *config.Config) (auth.PasswordHasher, error) {
	return auth.NewPasswordHasher(auth.HasherConfig{
		Scheme:     auth.Scheme(cfg.PasswordScheme),
		BcryptCost: cfg.BcryptCost,
	})
}

// Seed loads the demo data into the database cfg points at.
func Seed(ctx context.Context, db *database.DB, cfg *config.Config) (service.SeedReport, error) {
	hasher, err := NewPasswordHasher(cfg)
	if err != nil {
		return service.SeedReport{}, err
	}

	seeder := service.NewSeeder(
		repository.NewUserRepository(db.Pool),
		repository.NewResultRepository(db.Pool),
		repository.NewBroadcastRepository(db.Pool),
		hasher,
	)
	return seeder.Seed(ctx)
}
