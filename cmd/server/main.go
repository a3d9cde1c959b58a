package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"go.uber.org/zap"

	"github.com/ousmanedev/receiptwatch/internal/config"
	"github.com/ousmanedev/receiptwatch/internal/repository"
	"github.com/ousmanedev/receiptwatch/internal/repository/drive"
	"github.com/ousmanedev/receiptwatch/internal/repository/memory"
	"github.com/ousmanedev/receiptwatch/internal/repository/mongodb"
	"github.com/ousmanedev/receiptwatch/internal/scheduler"
	"github.com/ousmanedev/receiptwatch/internal/server/handlers"
	"github.com/ousmanedev/receiptwatch/internal/server/router"
	alertsvc "github.com/ousmanedev/receiptwatch/internal/service/alerts"
	ingestsvc "github.com/ousmanedev/receiptwatch/internal/service/ingest"
	receiptsvc "github.com/ousmanedev/receiptwatch/internal/service/receipts"
	"github.com/ousmanedev/receiptwatch/pkg/clients/anthropic"
	"github.com/ousmanedev/receiptwatch/pkg/clients/telegram"
	"github.com/ousmanedev/receiptwatch/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New(cfg.Server.LogLevel))
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	// Pick the record store: MongoDB when configured, in-memory otherwise.
	var store repository.Store
	if cfg.MongoDB.URI != "" {
		mongoStore, err := mongodb.NewRepository(context.Background(), cfg.MongoDB.URI, cfg.MongoDB.DBName)
		if err != nil {
			baseLogger.Fatal("failed to init mongodb store", zap.Error(err))
		}
		store = mongoStore
		baseLogger.Info("using mongodb record store", zap.String("db", cfg.MongoDB.DBName))
	} else {
		store = memory.NewRepository()
		baseLogger.Warn("no MONGODB_URI configured, using in-memory record store")
	}
	defer func() {
		if err := store.Close(context.Background()); err != nil {
			baseLogger.Error("failed to close record store", zap.Error(err))
		}
	}()

	// Initialize extraction model client
	var extractor anthropic.Client
	if cfg.AI.AnthropicKey != "" {
		extractor = anthropic.NewClient(cfg.AI.AnthropicKey)
		baseLogger.Info("anthropic extraction client enabled")
	} else {
		baseLogger.Warn("anthropic api key missing, image import disabled")
	}

	notifier := telegram.NewClient(cfg.Telegram)
	if !notifier.Enabled() {
		baseLogger.Warn("telegram not configured, alert delivery will no-op")
	}

	receiptSvc := receiptsvc.NewService(store, baseLogger.Named("svc.receipts"))
	alertSvc := alertsvc.NewService(store, notifier, baseLogger.Named("svc.alerts"))
	ingestSvc := ingestsvc.NewService(extractor, receiptSvc, baseLogger.Named("svc.ingest"))

	// Drive bulk import is optional.
	var driveRepo drive.Repository
	if cfg.Drive.CredentialsPath != "" {
		driveRepo, err = drive.NewGoogleDriveRepository(context.Background(), cfg.Drive, baseLogger.Named("repo.drive"))
		if err != nil {
			baseLogger.Fatal("failed to init drive repository", zap.Error(err))
		}
	}

	receiptHandler := handlers.NewReceiptHandler(receiptSvc, alertSvc, baseLogger.Named("handlers.receipts"))
	importHandler := handlers.NewImportHandler(ingestSvc, driveRepo, cfg.Drive, baseLogger.Named("handlers.import"))
	engine := router.New(receiptHandler, importHandler, baseLogger.Named("router"))

	// Initialize Scheduler
	sched := scheduler.NewScheduler(cfg.Alerts, alertSvc, baseLogger.Named("scheduler"))
	sched.Start()
	defer sched.Stop()

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	go func() {
		baseLogger.Info("server starting", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			baseLogger.Fatal("http server crashed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	baseLogger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		baseLogger.Error("graceful shutdown failed", zap.Error(err))
	}
}
