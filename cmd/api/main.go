package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/aurashop/marketplace-backend/config"
	"github.com/aurashop/marketplace-backend/internal/bootstrap"
	"github.com/aurashop/marketplace-backend/internal/cache"
	"github.com/aurashop/marketplace-backend/internal/storage"
)

const shutdownTimeout = 15 * time.Second

func main() {
	if err := run(); err != nil {
		log.Fatalf("[api] fatal: %v", err)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	bootstrap.SetGinMode(cfg.App.Environment)
	log.Printf("[api] starting version=%s env=%s", cfg.App.Version, cfg.App.Environment)

	fb, err := bootstrap.InitFirebase(ctx, &cfg.Firebase)
	if err != nil {
		return err
	}
	defer fb.Close()

	db, err := bootstrap.OpenPostgres(ctx, &cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	tsdb, err := bootstrap.OpenTimeseriesDB(ctx, &cfg.Database)
	if err != nil {
		return err
	}
	defer tsdb.Close()

	rdb, err := bootstrap.OpenRedis(ctx, &cfg.Redis)
	if err != nil {
		log.Printf("[api] redis unavailable, running without listing mirror: %v", err)
		rdb = nil
	} else {
		defer rdb.Close()
	}

	var uploader storage.Uploader
	switch cfg.Storage.Backend {
	case "s3":
		uploader, err = storage.NewS3Uploader(ctx, cfg.Storage.S3Bucket, cfg.Storage.S3Region)
		if err != nil {
			return err
		}
	default:
		uploader = storage.NewGCSUploader(fb.GCS, cfg.Storage.GCSBucket)
	}

	memCache := cache.New()
	defer memCache.Close()

	router, collector := bootstrap.BuildRouter(bootstrap.RouterDeps{
		Cfg:      cfg,
		Firebase: fb,
		DB:       db,
		TSDB:     tsdb,
		Redis:    rdb,
		Uploader: uploader,
		Cache:    memCache,
	})
	defer collector.Close()

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("[api] listening on :%s", cfg.Server.Port)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	case <-ctx.Done():
		log.Printf("[api] shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("[api] server shutdown: %v", err)
	}

	log.Printf("[api] stopped")
	return nil
}
