package app

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aussiebroadwan/licensing/internal/licensing/events"
	httpapi "github.com/aussiebroadwan/licensing/internal/licensing/http"
	"github.com/aussiebroadwan/licensing/internal/licensing/metrics"
	"github.com/aussiebroadwan/licensing/internal/licensing/service"
	"github.com/aussiebroadwan/licensing/internal/licensing/store"
	"github.com/aussiebroadwan/licensing/internal/licensing/store/drivers/postgres"
	"github.com/aussiebroadwan/licensing/internal/licensing/store/drivers/sqlite"
	"github.com/aussiebroadwan/licensing/pkg/cryptox"
	"github.com/aussiebroadwan/licensing/pkg/jwtx"
	"github.com/aussiebroadwan/licensing/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags.
	BuildVersion = "v0.1.0"

	serviceName = "licensing-service"
	tokenIssuer = "licensing"
)

// Application encapsulates the licensing service with all its dependencies.
type Application struct {
	cfg    Config
	logger *slog.Logger

	// Core dependencies
	db      store.Store
	events  events.Publisher
	metrics *metrics.Metrics
	signer  *jwtx.HS256
	pepper  string

	// Services
	registry            *service.LicenseRegistry
	activationService   *service.TenantActivationService
	operatorService     *service.OperatorService
	housekeepingService *service.HousekeepingService // Optional: only with a shelf life

	// HTTP server
	server *http.Server
	router *httpapi.Router
}

// New creates a new Application instance with all dependencies initialized.
func New(cfg Config) (*Application, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: serviceName,
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
		metrics: metrics.New(),
	}

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	pepper, err := cryptox.LoadOrCreatePepper(cfg.PepperFile)
	if err != nil {
		_ = app.db.Close()
		return nil, fmt.Errorf("failed to load pepper: %w", err)
	}
	app.pepper = pepper

	if err := app.initOperatorAuth(); err != nil {
		_ = app.db.Close()
		return nil, err
	}
	if err := app.initEvents(); err != nil {
		_ = app.db.Close()
		return nil, err
	}

	app.initServices()
	app.initHTTP()

	return app, nil
}

// Handler returns the root HTTP handler.
func (app *Application) Handler() http.Handler { return app.router }

// Run starts the application and blocks until shutdown is requested.
func (app *Application) Run() error {
	if app.housekeepingService != nil {
		app.housekeepingService.Start()
	}

	app.logger.Info("licensing service starting", "port", app.cfg.Port, "version", BuildVersion)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)

		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown drains HTTP, stops the sweeper, flushes events and closes the
// store, in that order.
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down licensing service...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	if app.housekeepingService != nil {
		app.housekeepingService.Stop()
	}

	if err := app.events.Close(); err != nil {
		app.logger.Warn("error closing event publisher", "error", err)
	}

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("licensing service stopped")
	return nil
}

// initDatabase opens the configured store and applies migrations.
func (app *Application) initDatabase() error {
	var (
		db  store.Store
		err error
	)
	switch app.cfg.DatabaseDriver {
	case DriverPostgres:
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		db, err = postgres.NewStore(ctx, app.cfg.DatabaseURL)
	default:
		db, err = sqlite.NewStore(sqlite.DSN(app.cfg.DatabaseFile))
	}
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully", "driver", app.cfg.DatabaseDriver)
	return nil
}

// initOperatorAuth builds the HS256 signer. Without a configured secret a
// random one is used, so tokens do not survive a restart.
func (app *Application) initOperatorAuth() error {
	secret := app.cfg.OperatorTokenSecret
	if secret == "" {
		buf := make([]byte, jwtx.MinSecretLength)
		if _, err := rand.Read(buf); err != nil {
			return fmt.Errorf("failed to generate operator token secret: %w", err)
		}
		secret = hex.EncodeToString(buf)
		app.logger.Warn("OPERATOR_TOKEN_SECRET not set, using a per-process secret")
	}

	signer, err := jwtx.NewHS256([]byte(secret), tokenIssuer)
	if err != nil {
		return fmt.Errorf("failed to initialize operator token signer: %w", err)
	}
	app.signer = signer

	if app.cfg.OperatorAPIKey == "" {
		app.logger.Warn("OPERATOR_API_KEY not set, operator endpoints are disabled")
	}
	return nil
}

func (app *Application) initEvents() error {
	if app.cfg.NATSURL == "" {
		app.events = events.NopPublisher{}
		app.logger.Info("NATS_URL not set, domain events disabled")
		return nil
	}

	pub, err := events.Connect(app.cfg.NATSURL, serviceName, app.logger)
	if err != nil {
		return fmt.Errorf("failed to initialize event publisher: %w", err)
	}
	app.events = pub
	app.logger.Info("publishing domain events", "url", app.cfg.NATSURL, "prefix", events.DefaultSubjectPrefix)
	return nil
}

// initServices initializes all business logic services.
func (app *Application) initServices() {
	app.registry = &service.LicenseRegistry{
		Store:          app.db,
		MaxKeyAttempts: app.cfg.MaxKeyAttempts,
		Events:         app.events,
		Metrics:        app.metrics,
	}

	app.activationService = &service.TenantActivationService{
		Store:    app.db,
		Registry: app.registry,
		Hasher:   cryptox.Argon2idHasher{Pepper: app.pepper},
		Events:   app.events,
		Metrics:  app.metrics,
	}

	app.operatorService = &service.OperatorService{
		APIKey: app.cfg.OperatorAPIKey,
		Signer: app.signer,
		Issuer: tokenIssuer,
		TTL:    app.cfg.OperatorTokenTTL,
	}

	if app.cfg.LicenseShelfLife > 0 {
		app.housekeepingService = service.NewHousekeepingService(
			app.registry,
			app.logger,
			app.cfg.HousekeepingInterval,
			app.cfg.LicenseShelfLife,
		)
	}
}

// initHTTP initializes the HTTP router and server.
func (app *Application) initHTTP() {
	router := httpapi.NewRouter(
		app.signer,
		BuildVersion,
		app.db,
		app.metrics,
		app.logger,
	)

	router.LicenseRegistry = app.registry
	router.ActivationService = app.activationService
	router.OperatorService = app.operatorService
	if h, ok := app.events.(httpapi.EventsHealth); ok {
		router.Events = h
	}
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
