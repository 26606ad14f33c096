package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/mkraev/notesync/internal/client/api"
	"github.com/mkraev/notesync/internal/client/cli"
	"github.com/mkraev/notesync/internal/client/config"
	"github.com/mkraev/notesync/internal/client/draft"
	"github.com/mkraev/notesync/internal/client/notes"
	"github.com/mkraev/notesync/internal/client/queue"
	"github.com/mkraev/notesync/internal/client/storage/boltdb"
	"github.com/mkraev/notesync/internal/client/sync"
)

var (
	// Version information set via ldflags during build
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	serverURL := flag.String("server", "", "Server URL (overrides NOTESYNC_SERVER_URL)")
	dbPath := flag.String("db", "", "Path to local database (overrides NOTESYNC_DB_PATH)")

	flag.Parse()

	if *showVersion {
		printVersion()
		os.Exit(0)
	}

	args := flag.Args()
	if len(args) == 0 {
		cli.PrintUsage()
		os.Exit(1)
	}
	command := args[0]

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if *serverURL != "" {
		cfg.Server.BaseURL = *serverURL
	}
	if *dbPath != "" {
		cfg.Storage.Path = *dbPath
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Logging.Level),
	}))

	ctx := context.Background()

	if err := os.MkdirAll(filepath.Dir(cfg.Storage.Path), 0o700); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to prepare database directory: %v\n", err)
		os.Exit(1)
	}

	store, err := boltdb.New(ctx, cfg.Storage.Path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open database: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Error("failed to close database", "error", err)
		}
	}()

	apiClient := api.NewClient(cfg.Server.BaseURL, cfg.Server.RequestTimeout)

	q := queue.NewManager(store, logger, queue.WithMaxRetries(cfg.Sync.MaxRetries))
	drafts := draft.NewManager(store, logger)
	noteService := notes.NewService(store, q, drafts, store)
	engine := sync.NewEngine(q, store, store, apiClient, logger,
		sync.WithStrategy(cfg.Sync.ConflictStrategy),
		sync.WithDebounce(cfg.Sync.Debounce),
		sync.WithTickInterval(cfg.Sync.TickInterval),
		sync.WithMaxConcurrent(cfg.Sync.MaxConcurrentUploads),
		sync.WithAutoSync(cfg.Sync.AutoSyncEnabled),
	)

	// opportunistic housekeeping, never blocks a command
	if removed, err := drafts.CleanupExpired(ctx, cfg.Drafts.MaxAgeDays); err != nil {
		logger.Warn("draft cleanup failed", "error", err)
	} else if removed > 0 {
		logger.Info("removed expired drafts", "count", removed)
	}

	if err := engine.Start(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to start sync engine: %v\n", err)
		os.Exit(1)
	}
	defer engine.Stop()

	// with offline mode disabled every mutation is pushed immediately
	app := cli.New(noteService, drafts, q, engine, store, store,
		cli.WithSyncOnWrite(!cfg.Sync.OfflineModeEnabled))
	if err := app.Run(ctx, command, args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
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
	fmt.Printf("notesync client\n")
	fmt.Printf("Version:    %s\n", Version)
	fmt.Printf("Build Date: %s\n", BuildDate)
	fmt.Printf("Git Commit: %s\n", GitCommit)
}
