package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/princekumarofficial/tourism-media-service/internal/blobstore"
	"github.com/princekumarofficial/tourism-media-service/internal/config"
	"github.com/princekumarofficial/tourism-media-service/internal/storage/driver"
	"github.com/princekumarofficial/tourism-media-service/internal/sweeper"
)

func main() {
	// Load config
	cfg := config.MustLoad()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	// The memory driver lives inside the API process; from here every file would look orphaned.
	if cfg.Database.Driver == "memory" {
		log.Fatal("orphan sweeper needs a shared database, got driver memory")
	}

	// Initialize database connection
	db, err := driver.Open(cfg)
	if err != nil {
		log.Fatal("Failed to initialize database: ", err)
	}
	defer db.Close()

	// Setup graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	blobs, err := blobstore.Open(ctx, cfg.Storage)
	if err != nil {
		log.Fatal("Failed to initialize file storage: ", err)
	}

	worker := sweeper.New(db, blobs, cfg.Sweeper, logger)

	// Start the worker
	worker.Start(ctx)

	logger.Info("Orphan sweeper stopped")
}
