// File: app/app.go
package app

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-card-ledger/audit"
	"go-card-ledger/config"
	"go-card-ledger/db"
	"go-card-ledger/handler"
	"go-card-ledger/logger"
	"go-card-ledger/repository"
	"go-card-ledger/router"
	"go-card-ledger/service"
)

func Run() {
	config.LoadConfig(".")
	logger.Init()
	logger.Log.Info("Logger initialized")
	logger.Log.Info("Configuration loaded successfully")

	store := openStore()
	registry := repository.NewAccountRegistry()

	// Restore state from the persistence collaborator. A missing or broken
	// snapshot is not fatal: the ledger starts empty and keeps running.
	snap, err := store.Load()
	switch {
	case err == nil:
		registry.Restore(snap)
	case errors.Is(err, os.ErrNotExist):
		logger.Log.Info("No snapshot found, starting with an empty ledger")
	default:
		logger.Log.WithError(err).Warn("Could not load snapshot, starting with an empty ledger")
	}

	// --- Wiring All Layers Together ---
	auditor := audit.NewLogAuditor()

	accountService := service.NewAccountService(registry, auditor)
	transactionService := service.NewTransactionService(registry, auditor)

	accountHandler := handler.NewAccountHandler(accountService)
	transactionHandler := handler.NewTransactionHandler(transactionService)

	r := router.NewRouter(accountHandler, transactionHandler)

	// --- Start the Server with Graceful Shutdown ---
	port := config.AppConfig.Server.Port
	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}

	go func() {
		logger.Log.Infof("Server starting on port :%s", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Log.Warn("Shutdown signal received. Starting graceful shutdown...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Fatalf("Server forced to shutdown: %v", err)
	}

	// The snapshot is taken only after Shutdown has drained in-flight
	// requests, so operations that commit during the drain are persisted too.
	saveFinalSnapshot(store, registry)

	logger.Log.Info("Server exited properly")
}

// saveFinalSnapshot persists the registry on the way out. A failed save is
// reported, never fatal.
func saveFinalSnapshot(store repository.Store, registry *repository.AccountRegistry) {
	if err := store.Save(registry.Snapshot()); err != nil {
		logger.Log.WithError(err).Warn("Could not save final snapshot")
		return
	}
	logger.Log.Info("Final snapshot saved")
}

// openStore builds the configured persistence collaborator.
func openStore() repository.Store {
	cfg := config.AppConfig.Storage

	switch cfg.Driver {
	case "postgres":
		database, err := db.Connect()
		if err != nil {
			logger.Log.Fatalf("Error connecting to the database: %v", err)
		}
		if err := db.Migrate(database); err != nil {
			logger.Log.Fatalf("Error running migrations: %v", err)
		}
		return repository.NewPostgresStore(database)
	default:
		return repository.NewJSONStore(cfg.Path)
	}
}
