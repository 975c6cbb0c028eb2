package main

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

	"github.com/joho/godotenv"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/zhenghongliu48-sys/mymap/internal/auth"
	"github.com/zhenghongliu48-sys/mymap/internal/config"
	"github.com/zhenghongliu48-sys/mymap/internal/handler"
	"github.com/zhenghongliu48-sys/mymap/internal/middleware"
	"github.com/zhenghongliu48-sys/mymap/internal/router"
	"github.com/zhenghongliu48-sys/mymap/internal/service"
	"github.com/zhenghongliu48-sys/mymap/internal/storage"
	"github.com/zhenghongliu48-sys/mymap/internal/storage/postgres"
	"github.com/zhenghongliu48-sys/mymap/internal/storage/sqlite"
	"github.com/zhenghongliu48-sys/mymap/internal/web"
	"github.com/zhenghongliu48-sys/mymap/pkg/logging"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "failed to load .env: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	if err := run(cfg, logger); err != nil {
		logger.Error("Server failed", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := openStore(ctx, cfg.Database, logger)
	if err != nil {
		return err
	}
	defer store.Close()

	pages, err := web.NewPages()
	if err != nil {
		return fmt.Errorf("failed to parse templates: %w", err)
	}

	deps := router.Deps{
		Logger:             logger,
		DB:                 store,
		Markers:            service.NewMarkerService(store, cfg.Auth.Enabled, logger),
		Pages:              pages,
		Markdown:           web.NewMarkdown(),
		MetricsPath:        cfg.Metrics.Path,
		CORSAllowedOrigins: cfg.Server.CORSAllowedOrigins,
		Cookie: handler.CookieConfig{
			Name:   cfg.Auth.CookieName,
			Secure: cfg.Auth.CookieSecure,
		},
	}

	if cfg.Auth.Enabled {
		removed, err := store.DeleteExpiredSessions(ctx, time.Now().Unix())
		if err != nil {
			return fmt.Errorf("failed to prune sessions: %w", err)
		}
		logger.Info("Authentication enabled", "expired_sessions_removed", removed, "session_ttl", cfg.Auth.SessionTTL)

		deps.Auth = service.NewAuthService(
			auth.NewPasswordAuthenticator(store, cfg.Auth.MinPasswordLength),
			auth.NewSessionManager(store, cfg.Auth.SecretKey, cfg.Auth.SessionTTL),
			store,
			logger,
		)
	}

	if cfg.Metrics.Enabled {
		deps.Metrics = middleware.NewMetrics()
	}

	srv := &http.Server{
		Addr: cfg.Addr(),
		// h2c serves Connect over HTTP/2 without TLS.
		Handler:      h2c.NewHandler(router.New(deps), &http2.Server{}),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Server starting", "address", srv.Addr, "env", cfg.Primary.Env, "driver", cfg.Database.Driver, "auth", cfg.Auth.Enabled)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}

func openStore(ctx context.Context, cfg config.DatabaseConfig, logger *slog.Logger) (storage.Store, error) {
	switch cfg.Driver {
	case "postgres":
		store, err := postgres.New(ctx, cfg.DSN, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize postgres storage: %w", err)
		}
		logger.Info("Storage initialized", "driver", "postgres")
		return store, nil
	default:
		store, err := sqlite.New(cfg.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize sqlite storage: %w", err)
		}
		logger.Info("Storage initialized", "driver", "sqlite", "database", cfg.Path)
		return store, nil
	}
}
