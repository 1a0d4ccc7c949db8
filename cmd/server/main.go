package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/sinhaadyant/pdf-to-word/internal/adapters/converter"
	httpHandlers "github.com/sinhaadyant/pdf-to-word/internal/adapters/http/handlers"
	httpMiddleware "github.com/sinhaadyant/pdf-to-word/internal/adapters/http/middleware"
	"github.com/sinhaadyant/pdf-to-word/internal/adapters/storage/disk"
	"github.com/sinhaadyant/pdf-to-word/internal/adapters/storage/memory"
	redisstorage "github.com/sinhaadyant/pdf-to-word/internal/adapters/storage/redis"
	"github.com/sinhaadyant/pdf-to-word/internal/config"
	"github.com/sinhaadyant/pdf-to-word/internal/core/ports"
	"github.com/sinhaadyant/pdf-to-word/internal/core/services"
	"github.com/sinhaadyant/pdf-to-word/internal/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(os.Stdout, logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})

	storage, closeFn, err := initStorage(cfg.Storage, log)
	if err != nil {
		log.Error("failed to init storage", "error", err)
		os.Exit(1)
	}
	defer closeFn()

	limiter, err := services.NewRateLimiterService(storage, cfg.RateLimiter.Policy)
	if err != nil {
		log.Error("failed to create rate limiter", "error", err)
		os.Exit(1)
	}

	files, err := disk.New(cfg.Files.UploadDir, cfg.Files.OutputDir)
	if err != nil {
		log.Error("failed to init file store", "error", err)
		os.Exit(1)
	}

	engine, err := converter.New(converter.Config{
		Command:   cfg.Converter.Command,
		OutputDir: cfg.Files.OutputDir,
		Timeout:   cfg.Converter.Timeout,
	})
	if err != nil {
		log.Error("failed to init converter", "error", err)
		os.Exit(1)
	}

	conversion, err := services.NewConversionService(files, engine, log)
	if err != nil {
		log.Error("failed to create conversion service", "error", err)
		os.Exit(1)
	}

	sweeper, err := services.NewSweeper(limiter, cfg.RateLimiter.SweepInterval, log)
	if err != nil {
		log.Error("failed to create sweeper", "error", err)
		os.Exit(1)
	}

	convertHandler := httpHandlers.NewConvertHandler(conversion, cfg.Files.MaxUploadBytes, log)
	filesHandler := httpHandlers.NewFilesHandler(files, log)
	adminHandler := httpHandlers.NewAdminHandler(limiter, log)

	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Get("/health", httpHandlers.Health)
	r.Route("/api", func(api chi.Router) {
		api.Use(httpMiddleware.NewRateLimiterMiddleware(limiter, log))
		api.Post("/convert", convertHandler.Convert)
		api.Get("/files", filesHandler.List)
		api.Get("/files/{name}", filesHandler.Download)
		api.Get("/admin/ratelimit", adminHandler.RateLimitStats)
		api.Delete("/admin/ratelimit/clients", adminHandler.ResetAll)
		api.Delete("/admin/ratelimit/clients/{key}", adminHandler.ResetClient)
	})

	backgroundCtx, cancelBackground := context.WithCancel(context.Background())
	defer cancelBackground()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		sweeper.Run(backgroundCtx)
	}()
	wg.Add(1)
	go func() {
		defer wg.Done()
		runFileCleanup(backgroundCtx, files, cfg.Files, log)
	}()

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: r,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", srv.Addr, "storage", cfg.Storage.Type)
		if err := srv.ListenAndServe(); err != nil {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received")
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
	}

	cancelBackground()
	wg.Wait()
	log.Info("server stopped")
}

func initStorage(cfg config.StorageConfig, log *slog.Logger) (ports.Storage, func(), error) {
	switch cfg.Type {
	case "memory":
		return memory.New(), func() {}, nil
	case "redis":
		storage, err := redisstorage.New(redisstorage.Config{
			Addr:     fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return nil, nil, err
		}
		return storage, func() {
			if err := storage.Close(); err != nil {
				log.Error("failed to close redis storage", "error", err)
			}
		}, nil
	default:
		return nil, nil, fmt.Errorf("unsupported storage type: %s", cfg.Type)
	}
}

// runFileCleanup drops converted documents past the retention age so the
// output directory does not grow without bound.
func runFileCleanup(ctx context.Context, files *disk.Store, cfg config.FilesConfig, log *slog.Logger) {
	ticker := time.NewTicker(cfg.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed, err := files.RemoveDocumentsOlderThan(cfg.Retention)
			if err != nil {
				log.Error("document cleanup failed", "error", err)
				continue
			}
			if removed > 0 {
				log.Info("removed expired documents", "documents", removed)
			}
		}
	}
}
