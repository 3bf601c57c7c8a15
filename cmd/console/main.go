// Package main is the entry point for the catalog console server.
// It wires all dependencies together and starts the HTTP server.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/mercadito/console/internal/backend"
	"github.com/mercadito/console/internal/config"
	"github.com/mercadito/console/internal/controller"
	"github.com/mercadito/console/internal/observability"
	"github.com/mercadito/console/internal/session"
	"github.com/mercadito/console/internal/transport"
)

// Build-time variables set via ldflags:
//
//	go build -ldflags "-X main.version=1.0.0 -X main.commit=abc1234"
var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	// Load .env in development; in production variables are set directly.
	if os.Getenv("ENV") != "production" {
		if err := godotenv.Load(); err == nil {
			fmt.Fprintln(os.Stderr, "loaded environment from .env")
		}
	}

	configPath := flag.String("config", "config.yaml", "path to configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		return 1
	}

	observability.Version = version
	observability.Commit = commit

	logger, err := observability.NewLogger(cfg.Observability.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger error: %v\n", err)
		return 1
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	tracingShutdown, err := observability.InitTracing(ctx, cfg.Observability.Tracing, "catalog-console", version)
	if err != nil {
		logger.Error("tracing initialization failed", zap.Error(err))
		return 1
	}

	metrics := observability.InitMetrics(prometheus.DefaultRegisterer)

	// Backend client and session plumbing.
	client := backend.New(cfg.Backend, logger)

	store, storeCloser, err := buildSessionStore(ctx, cfg.Session.Store, logger)
	if err != nil {
		logger.Error("session store initialization failed", zap.Error(err))
		return 1
	}
	sessions := session.NewManager(client, store, cfg.Session.TTL, logger)

	// Resource controllers. Products resolve category names against the
	// category controller's collection.
	categories := controller.NewCategories(client.Categories(), logger)
	products := controller.NewProducts(client.Products(), categories, logger)

	readiness := observability.ReadinessChecks{Backend: client}
	if hc, ok := store.(observability.HealthChecker); ok {
		readiness.SessionStore = hc
	}

	router := transport.NewRouter(transport.Dependencies{
		Config:     cfg,
		Logger:     logger,
		Sessions:   sessions,
		Emails:     client,
		Categories: categories,
		Products:   products,
		Metrics:    metrics,
		Readiness:  readiness,
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	logger.Info("server started",
		zap.Int("port", cfg.Server.Port),
		zap.String("version", version),
		zap.String("commit", commit),
		zap.String("backend", cfg.Backend.BaseURL),
		zap.String("session_store", cfg.Session.Store.Driver),
	)

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown initiated")
	case err := <-errCh:
		logger.Error("server error", zap.Error(err))
		return 1
	}

	// Graceful shutdown sequence.
	shutdownTimeout := cfg.Server.ShutdownTimeout
	if shutdownTimeout == 0 {
		shutdownTimeout = 30 * time.Second
	}
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", zap.Error(err))
	}

	if storeCloser != nil {
		storeCloser()
	}

	if err := tracingShutdown(shutdownCtx); err != nil {
		logger.Error("tracing shutdown error", zap.Error(err))
	}

	logger.Info("shutdown complete")
	return 0
}

// buildSessionStore constructs the configured session store. The redis
// driver reads its address from the environment variable named in config
// and fails fast if the server is unreachable.
func buildSessionStore(ctx context.Context, cfg config.SessionStoreConfig, logger *zap.Logger) (session.Store, func(), error) {
	switch cfg.Driver {
	case "redis":
		addr := os.Getenv(cfg.AddrEnv)
		if addr == "" {
			return nil, nil, fmt.Errorf("session store: %s is not set", cfg.AddrEnv)
		}
		client := redis.NewClient(&redis.Options{Addr: addr, DB: cfg.DB})

		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := client.Ping(pingCtx).Err(); err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("session store: redis ping: %w", err)
		}

		logger.Info("session store ready", zap.String("driver", "redis"), zap.String("addr", addr))
		return session.NewRedisStore(client), func() { _ = client.Close() }, nil

	default:
		logger.Info("session store ready", zap.String("driver", "memory"))
		return session.NewMemoryStore(), func() {}, nil
	}
}
