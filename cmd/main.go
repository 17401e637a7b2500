/*
Package main is the entry point for the DuoChat server.

It loads configuration, initializes the global logging system, connects the
database and blob storage, assembles the realtime core (connection registry,
presence tracker, event router, and coordinators), and runs the HTTP server
with graceful shutdown on SIGINT/SIGTERM.
*/
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"duochat/internal/app/chat"
	"duochat/internal/app/db"
	"duochat/internal/app/storage"
	"duochat/internal/app/store"
	"duochat/internal/configs"
	"duochat/internal/handler"
	"duochat/internal/pkg/logx"
)

func main() {
	// Load configuration from environment variables
	cfg, err := configs.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize global logger
	logx.InitGlobalLogger(cfg.Environment == "development")
	logx.Logger().Info().
		Str("environment", cfg.Environment).
		Int("port", cfg.Port).
		Strs("allowed_origins", cfg.AllowedOrigins).
		Msg("Configuration loaded successfully")

	// Create a context that listens for the interrupt signal from the OS.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Database pool + migrations
	pool, err := db.NewPool(cfg.DatabaseDSN)
	if err != nil {
		logx.Fatal(err, "Failed to initialize database")
	}
	defer pool.Close()

	st := store.New(pool)

	// Blob storage for attachments and avatars
	storageService, err := storage.NewStorageService(storage.ServiceConfig{
		S3BucketName:      cfg.S3BucketName,
		S3Endpoint:        cfg.S3Endpoint,
		S3AccessKeyID:     cfg.S3AccessKeyID,
		S3SecretAccessKey: cfg.S3SecretAccessKey,
	})
	if err != nil {
		logx.Fatal(err, "Failed to initialize storage service")
	}

	// Realtime core. The registry is owned here and injected into the
	// coordinators, never a hidden module-level variable.
	registry := chat.NewConnectionRegistry()
	hub := chat.NewHub(registry)
	presence := chat.NewPresenceTracker(registry, st, hub)
	resolver := chat.NewChatSessionResolver(st)
	pipeline := chat.NewMessageDeliveryPipeline(st, resolver, hub)
	seen := chat.NewSeenReceiptCoordinator(st, hub)
	typing := chat.NewTypingCoordinator(hub)
	eventRouter := chat.NewEventRouter(presence, typing, pipeline, seen, hub, hub)

	deps := &handler.AppDeps{
		Config:         cfg,
		Store:          st,
		Hub:            hub,
		EventRouter:    eventRouter,
		Resolver:       resolver,
		Pipeline:       pipeline,
		Seen:           seen,
		StorageService: storageService,
	}

	router := handler.Router(deps)

	serverAddr := fmt.Sprintf(":%d", cfg.Port)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logx.Info(fmt.Sprintf("DuoChat Server starting on http://localhost%s", serverAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logx.Fatal(err, "Server failed to start")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server with a timeout of 5 seconds.
	<-ctx.Done()
	logx.Info("Received shutdown signal. Starting graceful shutdown...")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logx.Fatal(err, "Server forced to shutdown")
	}

	hub.Shutdown()

	logx.Info("Server gracefully stopped.")
}
