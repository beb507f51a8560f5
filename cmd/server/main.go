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
	"time"

	"go.uber.org/zap"

	"exiflyzer/internal/config"
	"exiflyzer/internal/extractor"
	"exiflyzer/internal/extractor/exiftool"
	"exiflyzer/internal/extractor/goexif"
	"exiflyzer/internal/handler"
	"exiflyzer/internal/logging"
	"exiflyzer/internal/port"
	"exiflyzer/internal/router"
	"exiflyzer/internal/service"
	"exiflyzer/internal/stripper"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := logging.Init(cfg.Log); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() { _ = logging.Sync() }()

	// Initialize extraction providers
	extractor.RegisterProvider(exiftool.ProviderName, exiftool.Factory)
	extractor.RegisterProvider(goexif.ProviderName, goexif.Factory)

	ext, err := extractor.NewExtractor(&cfg.Tool)
	if err != nil {
		return fmt.Errorf("failed to initialize extractor: %w", err)
	}

	// Containers without exiftool can still clean the raster formats.
	var fallback port.MetadataStripper
	if tool := exiftool.New(&cfg.Tool); tool.Available() {
		fallback = tool
	} else {
		logging.L().Warn("exiftool not found, metadata removal limited to raster images",
			zap.String("path", cfg.Tool.ExiftoolPath))
	}

	if err := os.MkdirAll(cfg.Upload.TempDir, 0o750); err != nil {
		return fmt.Errorf("failed to create upload dir: %w", err)
	}

	// Initialize services and handlers
	metaSvc := service.NewMetadataService(ext, stripper.New(fallback), &cfg.Upload)
	metaH := handler.NewMetadataHandler(metaSvc)
	healthH := handler.NewHealthHandler(metaSvc)

	r := router.Setup(cfg, metaH, healthH)

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logging.L().Info("server starting",
			zap.String("addr", cfg.Server.Port),
			zap.String("extractor", ext.Name()),
			zap.String("environment", cfg.Server.Environment))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case sig := <-quit:
		logging.L().Info("shutting down", zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return nil
}
