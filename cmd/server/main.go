// Package main is the entry point for the memories server.
//
// MAIN PACKAGE IN GO:
// main() should stay minimal. Its job is to:
// 1. Read configuration (internal/config: defaults, .env, environment)
// 2. Open the external resources (SQL database, blob store)
// 3. Hand them to internal/server and start it
//
// All actual logic lives in imported packages (internal/server, internal/service, etc.).
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/sakif/memories/internal/config"
	"github.com/sakif/memories/internal/metrics"
	"github.com/sakif/memories/internal/repository/sqlstore"
	"github.com/sakif/memories/internal/server"
	"github.com/sakif/memories/internal/storage"
	"github.com/sakif/memories/internal/storage/miniostore"
	"github.com/sakif/memories/internal/storage/s3store"
)

func main() {
	// === 1. READ CONFIGURATION ===
	// A missing .env is fine; real environment variables always win over it.
	cfg, err := config.Load(".env")
	if err != nil {
		// No configured logger yet, so fall back to the default one.
		slog.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// === 2. SET UP LOGGING ===
	// Log levels (from least to most severe): Debug → Info → Warn → Error.
	// LOG_LEVEL picks the minimum; "info" is the default.
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))

	if err := run(cfg, logger); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// run opens the external resources and serves until shutdown. It returns
// instead of exiting so every deferred cleanup runs; main is the only place
// that calls os.Exit.
func run(cfg *config.Config, logger *slog.Logger) error {
	// Startup gets a deadline so a dead database or bucket fails fast
	// instead of hanging the deploy.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// === 3. OPEN THE DATABASE ===
	// For SQLite the DSN is a file path; make sure its directory exists
	// (os.MkdirAll is `mkdir -p`).
	if cfg.DB.Driver == string(sqlstore.DriverSQLite) {
		dbDir := filepath.Dir(cfg.DB.DSN)
		if err := os.MkdirAll(dbDir, 0755); err != nil {
			return fmt.Errorf("creating database directory %s: %w", dbDir, err)
		}
	}

	db, err := sqlstore.New(ctx, sqlstore.Driver(cfg.DB.Driver), cfg.DB.DSN, logger)
	if err != nil {
		return fmt.Errorf("opening %s database: %w", cfg.DB.Driver, err)
	}

	// === 4. CONNECT THE BLOB STORE ===
	blobs, err := openBlobStore(ctx, cfg.Storage)
	if err != nil {
		db.Close()
		return fmt.Errorf("setting up %s blob storage: %w", cfg.Storage.Driver, err)
	}

	// === 5. METRICS ===
	// promhttp.Handler() on /metrics serves the default registry.
	metrics.RegisterCollectors(prometheus.DefaultRegisterer)

	// === 6. CREATE AND START THE SERVER ===
	srv := server.New(server.Config{
		Port:              cfg.Port,
		MaxUploadBytes:    cfg.MaxUploadBytes,
		RelationshipStart: cfg.RelationshipStart,
		PublicURL:         cfg.Storage.PublicURL,
	}, db, blobs, logger)

	// Start() blocks until the server is shut down (via Ctrl+C or SIGTERM)
	// and closes the database on the way out.
	return srv.Start()
}

// openBlobStore picks the storage backend. Both speak to the same kind of
// bucket; "minio" additionally creates the bucket on boot, which is handy for
// a local docker-compose setup.
func openBlobStore(ctx context.Context, cfg config.StorageConfig) (storage.BlobStore, error) {
	if cfg.Driver == "minio" {
		return miniostore.New(ctx, miniostore.Config{
			Endpoint:  cfg.Endpoint,
			AccessKey: cfg.AccessKey,
			SecretKey: cfg.SecretKey,
			UseSSL:    cfg.UseSSL,
			Bucket:    cfg.Bucket,
		})
	}
	return s3store.New(ctx, s3store.Config{
		Endpoint:  cfg.Endpoint,
		Region:    cfg.Region,
		AccessKey: cfg.AccessKey,
		SecretKey: cfg.SecretKey,
		Bucket:    cfg.Bucket,
	})
}
