package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/mkraev/notesync/internal/server/config"
	"github.com/mkraev/notesync/internal/server/handlers"
	"github.com/mkraev/notesync/internal/server/middleware"
	"github.com/mkraev/notesync/internal/server/storage/sqlite"
)

var (
	// Version information set via ldflags during build
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	issueToken := flag.String("issue-token", "", "Print an access token for the given user id and exit")
	flag.Parse()

	if *showVersion {
		printVersion()
		os.Exit(0)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	jwtConfig := handlers.JWTConfig{
		Secret:         []byte(cfg.Auth.JWTSecret),
		AccessTokenTTL: cfg.Auth.AccessTokenTTL,
	}

	if *issueToken != "" {
		token, expiresIn, err := handlers.GenerateAccessToken(jwtConfig, *issueToken, *issueToken)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to issue token: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("%s\n", token)
		fmt.Fprintf(os.Stderr, "expires in %d seconds\n", expiresIn)
		os.Exit(0)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Logging.Level),
	}))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := sqlite.New(ctx, cfg.Storage.Path)
	if err != nil {
		logger.Error("failed to open database", "error", err, "path", cfg.Storage.Path)
		os.Exit(1)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Error("failed to close database", "error", err)
		}
	}()

	notesHandler := handlers.NewNotesHandler(logger, store)
	healthHandler := handlers.NewHealthHandler(logger, store, Version)

	auth := middleware.AuthMiddleware(logger, jwtConfig)

	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/health", healthHandler.Health)
	mux.Handle("/api/v1/notes", auth(http.HandlerFunc(notesHandler.HandleCollection)))
	mux.Handle("/api/v1/notes/", auth(http.HandlerFunc(notesHandler.HandleItem)))

	// Outermost first: recovery wraps everything, health checks skip the
	// request log
	handler := middleware.RecoveryMiddleware(logger)(
		middleware.LoggingWithSkip(logger, []string{"/api/v1/health"})(
			middleware.RateLimitMiddleware(cfg.Limits.Rate, cfg.Limits.Window, logger)(mux)))

	server := &http.Server{
		Addr:    cfg.Server.Address,
		Handler: handler,
	}

	errC := make(chan error, 1)
	go func() {
		logger.Info("server listening",
			"address", cfg.Server.Address,
			"version", Version)
		errC <- server.ListenAndServe()
	}()

	select {
	case err := <-errC:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "error", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown failed", "error", err)
		}
	}
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func printVersion() {
	fmt.Printf("notesync server\n")
	fmt.Printf("Version:    %s\n", Version)
	fmt.Printf("Build Date: %s\n", BuildDate)
	fmt.Printf("Git Commit: %s\n", GitCommit)
}
