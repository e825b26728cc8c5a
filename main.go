package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/CAFxX/httpcompression"
	"github.com/muralia/muralia/internal/config"
	"github.com/muralia/muralia/internal/domain"
	"github.com/muralia/muralia/internal/handler"
	"github.com/muralia/muralia/internal/repository/postgres"
	"github.com/muralia/muralia/internal/repository/sqlite"
	"github.com/muralia/muralia/internal/service"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		slog.Error("load configuration", "error", err)
		os.Exit(1)
	}

	var store domain.Store
	switch cfg.DatabaseDriver {
	case "postgres":
		store, err = postgres.New(context.Background(), cfg.DatabaseURL)
	default:
		store, err = sqlite.New(cfg.DatabasePath)
	}
	if err != nil {
		slog.Error("open database", "error", err, "driver", cfg.DatabaseDriver)
		os.Exit(1)
	}
	defer store.Close()

	if err := store.Migrate(context.Background()); err != nil {
		slog.Error("run migrations", "error", err)
		os.Exit(1)
	}
	slog.Info("database ready", "driver", cfg.DatabaseDriver)

	hasher := service.NewPasswordHasher(cfg.BcryptCost)
	tokens := service.NewTokenService(cfg.JWTSecret)
	authService := service.NewAuthService(store.Accounts(), hasher, tokens)
	imageService := service.NewImageService(store.Images(), store.Files(), cfg.BaseURL)

	// Throttle credential endpoints: burst of 10 attempts per client
	// address, refilling one every five seconds.
	loginLimiter := service.NewRateLimiter(0.2, 10)

	mux := http.NewServeMux()
	handler.RegisterRoutes(mux, authService, imageService, loginLimiter, cfg.MaxUploadBytes)

	var root http.Handler = mux
	root = handler.Authenticate(authService, root)
	root = handler.SecurityHeaders(root)
	root = handler.CORS(cfg.AllowedOrigins, root)

	compress, err := httpcompression.DefaultAdapter()
	if err != nil {
		slog.Error("configure response compression", "error", err)
		os.Exit(1)
	}
	root = compress(root)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           root,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20, // 1MB
	}

	// Graceful shutdown on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		slog.Info("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown error", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}
