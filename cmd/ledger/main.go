package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"ledger/internal/amqp"
	"ledger/internal/cache"
	"ledger/internal/config"
	"ledger/internal/engine"
	apphttp "ledger/internal/http"
	"ledger/internal/kv"
	applog "ledger/internal/log"
	"ledger/internal/store"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := applog.New(applog.Config{
		Level:     applog.LevelFromEnv(),
		Component: applog.ComponentApp,
	})
	applog.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", applog.FieldError, err)
		os.Exit(1)
	}

	// Choose persistence backend
	var kvStore kv.Store
	switch cfg.DataBackend {
	case "sqlite":
		sqliteStore, err := kv.NewSQLiteStore(cfg.SQLiteDBPath)
		if err != nil {
			logger.Error("Failed to open SQLite store", applog.FieldError, err, applog.FieldPath, cfg.SQLiteDBPath)
			os.Exit(1)
		}
		kvStore = sqliteStore
		logger.Info("Initialized sqlite backend", applog.FieldPath, cfg.SQLiteDBPath)
	default:
		fileStore, err := kv.NewFileStore(cfg.DataDir)
		if err != nil {
			logger.Error("Failed to open file store", applog.FieldError, err, applog.FieldPath, cfg.DataDir)
			os.Exit(1)
		}
		kvStore = fileStore
		logger.Info("Initialized file backend", applog.FieldPath, cfg.DataDir)
	}
	defer kvStore.Close()

	// Event publishing is optional: without a broker URL the application
	// runs standalone.
	var publisher store.EventPublisher
	if cfg.AMQPURL != "" {
		amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("AMQP unavailable, continuing without event publishing", applog.FieldError, err)
		} else {
			defer amqpClient.Close()
			publisher = amqpClient
			logger.Info("AMQP event publishing enabled", "exchange", cfg.AMQPExchange)
		}
	}

	st := store.New(kvStore, cfg.StorageSlot, publisher, logger)
	eng := engine.New(st, logger)

	cacheManager := cache.NewManager()
	cacheManager.Register(eng)
	cacheManager.StartCleanup(10 * time.Minute)
	defer cacheManager.Stop()

	srv := apphttp.NewServer(":"+cfg.Port, st, eng, logger)

	// Graceful shutdown handling
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", applog.FieldError, err)
		}
		cancel()
	}()

	logger.Info("Starting ledger server",
		"port", cfg.Port,
		"backend", cfg.DataBackend,
		"expenses", st.Len())
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", applog.FieldError, err, "port", cfg.Port)
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("Server stopped gracefully")
}
