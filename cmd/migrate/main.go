// Command migrate copies every file in a CKAN FileStore directory into the
// configured S3 bucket. It takes no arguments: all settings come from the
// CKAN config file.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"s3filestore-migrate/internal/config"
	database "s3filestore-migrate/internal/db"
	"s3filestore-migrate/internal/match"
	"s3filestore-migrate/internal/migrate"
	"s3filestore-migrate/internal/scan"
	"s3filestore-migrate/internal/storage"
)

func main() {
	log.SetOutput(os.Stdout)
	log.SetFlags(log.LstdFlags)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, config.Load(config.DefaultFile)); err != nil {
		log.Fatalf("❌ %v", err)
	}
}

func run(ctx context.Context, cfg config.Config) error {
	metrics := migrate.NewMetrics()
	if cfg.Metrics.Addr != "" {
		srv := &http.Server{Addr: cfg.Metrics.Addr, Handler: metrics.Handler()}
		go func() {
			log.Printf("📊 Metrics exposed at http://%s/metrics", cfg.Metrics.Addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Printf("Warning: metrics listener: %v", err)
			}
		}()
		defer srv.Close()
	}

	// 1. Scan the FileStore
	files, err := scan.Scan(cfg.StoragePath)
	if err != nil {
		return fmt.Errorf("scan %s: %w", cfg.StoragePath, err)
	}
	log.Printf("Found %d resource files in the file system", len(files))
	metrics.SetStage("scanned", len(files))

	// 2. Match against the resource table
	db, err := database.New(cfg.DatabaseURL)
	if err != nil {
		return err
	}
	matches, err := match.Match(ctx, db, files)
	if err != nil {
		return err
	}
	log.Printf("%d resources matched on the database", len(matches))
	metrics.SetStage("matched", len(matches))

	// 3. Probe the bucket
	store, err := storage.New(cfg.Storage)
	if err != nil {
		return err
	}
	supportsACL, err := storage.CheckACLSupport(ctx, store, cfg.Storage.Bucket, cfg.Storage.CheckACL)
	if err != nil {
		return err
	}

	// 4. Upload every scanned file, matched or not
	uploader := migrate.NewUploader(store, migrate.Options{
		Bucket:    cfg.Storage.Bucket,
		KeyPrefix: cfg.Storage.KeyPrefix,
		ACL:       cfg.Storage.ACL,
		UseACL:    supportsACL,
	}, metrics)
	summary := uploader.Run(ctx, files)

	log.Printf("Uploaded %d of %d files (%d bytes), %d failed",
		summary.Succeeded, summary.Attempted, summary.Bytes, summary.Failed)
	for _, r := range summary.Failures() {
		log.Printf("   failed: %s (%s): %v", r.Key, r.Path, r.Err)
	}

	if cfg.Metrics.Textfile != "" {
		if err := metrics.WriteTextfile(cfg.Metrics.Textfile); err != nil {
			log.Printf("Warning: writing metrics to %s: %v", cfg.Metrics.Textfile, err)
		}
	}

	return nil
}
