package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "github.com/quietwire/courier/internal/api/http"
	"github.com/quietwire/courier/internal/api/service"
	"github.com/quietwire/courier/internal/api/store"
	"github.com/quietwire/courier/internal/api/store/drivers/sqlite"
	"github.com/quietwire/courier/pkg/cryptox"
	"github.com/quietwire/courier/pkg/jwtx"
	"github.com/quietwire/courier/pkg/slogx"
)

// BuildVersion should be set at build time via ldflags.
const BuildVersion = "v0.1.0"

// Application wires the courier API together: store, token codec, services
// and the HTTP server.
type Application struct {
	cfg    Config
	logger *slog.Logger

	db    store.Store
	codec *jwtx.HS256Codec

	sessionService *service.SessionService
	userService    *service.UserService
	messageService *service.MessageService

	server *http.Server
	router *httpapi.Router
}

// New creates an Application with all dependencies initialized.
func New(cfg Config) (*Application, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "courier-api",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	secret := cfg.JWTSecret
	if secret == "" {
		// Dev only; Validate rejects this everywhere else. Tokens minted
		// with an ephemeral secret die with the process.
		secret = cryptox.MustGenerateToken(cryptox.TokenSize256)
		app.logger.Warn("JWT_SECRET not set, generated ephemeral dev secret")
	}

	codec, err := jwtx.NewHS256Codec([]byte(secret), cfg.Issuer)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize token codec: %w", err)
	}
	app.codec = codec

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	app.initServices()
	app.initHTTP()
	return app, nil
}

// Run starts the application and blocks until shutdown is requested.
func (app *Application) Run() error {
	app.logger.Info("courier api starting", "port", app.cfg.Port, "version", BuildVersion)

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

// Shutdown drains in-flight requests and releases resources.
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down courier api...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("courier api stopped")
	return nil
}

// Handler exposes the wired router, primarily for tests that drive the full
// stack through httptest.
func (app *Application) Handler() http.Handler {
	return app.router
}

func (app *Application) initDatabase() error {
	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", app.cfg.DatabaseFile)
	db, err := sqlite.NewStore(dsn)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied")
	return nil
}

func (app *Application) initServices() {
	app.sessionService = &service.SessionService{
		Codec: app.codec,
		Store: app.db,
	}
	app.userService = &service.UserService{Store: app.db}
	app.messageService = &service.MessageService{Store: app.db}
}

func (app *Application) initHTTP() {
	router := httpapi.NewRouter(
		app.codec,
		httpapi.RefreshCookies{Secure: app.cfg.SecureCookies()},
		BuildVersion,
		app.cfg.CORSOrigins,
		app.db,
		app.logger,
	)

	router.SessionService = app.sessionService
	router.UserService = app.userService
	router.MessageService = app.messageService
	router.ApplyRoutes()

	app.router = router
	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
