/*
Package main is the entry point for the Private Library server.

It is responsible for loading configuration, initializing the global logging system,
connecting to PostgreSQL and the object store, starting the collaboration hub, setting up
the HTTP server, and gracefully handling operating system interrupt signals (SIGINT, SIGTERM)
to ensure a smooth server shutdown.
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

	"privlib/internal/app/chatlog"
	"privlib/internal/app/collab"
	"privlib/internal/app/db"
	dbc "privlib/internal/app/db/sqlc"
	"privlib/internal/app/storage"
	"privlib/internal/configs"
	"privlib/internal/handler"
	"privlib/internal/pkg/logx"
	"privlib/internal/pkg/pow"
)

func main() {
	// Load configuration from environment variables
	cfg, err := configs.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize global logger
	logx.InitGlobalLogger(cfg.IsDevelopment())
	logx.Logger().Info().
		Str("environment", cfg.Environment).
		Int("port", cfg.Port).
		Strs("allowed_origins", cfg.AllowedOrigins).
		Int("pow_difficulty", cfg.PowDifficulty).
		Int64("max_upload_mb", cfg.MaxUploadMB).
		Msg("Configuration loaded successfully")

	// Create a context that listens for the interrupt signal from the OS.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := db.NewPool(ctx, cfg.DatabaseDSN)
	if err != nil {
		logx.Fatal(err, "Failed to initialize database")
	}
	defer pool.Close()

	queries := dbc.New(pool)
	if err := db.Seed(ctx, queries, cfg.AdminUsername, cfg.AdminPassword); err != nil {
		logx.Fatal(err, "Failed to seed database")
	}

	storageService, err := storage.NewStorageService(ctx, storage.ServiceConfig{
		S3BucketName:      cfg.S3BucketName,
		S3Endpoint:        cfg.S3Endpoint,
		S3Region:          cfg.S3Region,
		S3AccessKeyID:     cfg.S3AccessKeyID,
		S3SecretAccessKey: cfg.S3SecretAccessKey,
	})
	if err != nil {
		logx.Fatal(err, "Failed to initialize storage service")
	}

	chat := chatlog.New(queries)

	// Initialize the collaboration hub
	hub := collab.NewHub(chat, collab.Options{
		MessageRate:  cfg.WSMessageRate,
		MessageBurst: cfg.WSMessageBurst,
	})

	deps := &handler.AppDeps{
		Hub:            hub,
		Config:         cfg,
		StorageService: storageService,
		DB:             queries,
		Chat:           chat,
		Pow:            pow.NewManager(cfg.PowDifficulty),
	}

	// Setup HTTP server and routes
	router := handler.Router(deps)

	serverAddr := fmt.Sprintf(":%d", cfg.Port)
	server := &http.Server{
		Addr:    serverAddr,
		Handler: router,
		// Uploads, streams and the backup archive can run long, so only headers are bounded.
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		logx.Info(fmt.Sprintf("Private Library Server starting on http://localhost%s", serverAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logx.Fatal(err, "Server failed to start")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server with a timeout of 5 seconds.
	<-ctx.Done()
	logx.Info("Received shutdown signal. Starting graceful shutdown...")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	// Hijacked WebSocket connections are not tracked by Shutdown; close them first.
	hub.Shutdown()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logx.Error(err, "Server forced to shutdown")
	}

	logx.Info("Server gracefully stopped.")
}
