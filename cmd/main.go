/*
Package main is the entry point for the Kwakhanya marketplace API.

It is responsible for loading configuration, initializing the global logging system,
connecting to PostgreSQL and object storage, starting the remote-assistance relay,
setting up the HTTP server, and gracefully handling operating system interrupt
signals (SIGINT, SIGTERM) to ensure a smooth server shutdown.
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

	"kwakhanya/internal/app/assist"
	"kwakhanya/internal/app/db"
	"kwakhanya/internal/app/mailer"
	"kwakhanya/internal/app/storage"
	"kwakhanya/internal/app/store"
	"kwakhanya/internal/configs"
	"kwakhanya/internal/handler"
	"kwakhanya/internal/pkg/logx"
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

	// Connect to PostgreSQL and run migrations
	pool, err := db.NewPool(cfg.DatabaseDSN)
	if err != nil {
		logx.Fatal(err, "Failed to connect to database")
	}
	defer pool.Close()

	// Object storage for images and invoice archives
	storageService, err := storage.NewStorageService(storage.ServiceConfig{
		S3BucketName:      cfg.S3BucketName,
		S3Endpoint:        cfg.S3Endpoint,
		S3AccessKeyID:     cfg.S3AccessKeyID,
		S3SecretAccessKey: cfg.S3SecretAccessKey,
	})
	if err != nil {
		logx.Fatal(err, "Failed to initialize storage service")
	}

	// Transactional email: SendGrid when a key is configured, console otherwise
	var mailService mailer.Mailer = mailer.Console{}
	if cfg.SendGridAPIKey != "" {
		mailService = mailer.NewSendgrid(cfg.SendGridAPIKey, "Kwakhanya Drivers Training", cfg.MailFrom)
	}

	// Remote-assistance relay
	relay, err := assist.NewRelay(assist.Options{
		AtMostOnce: true,
		Now:        time.Now,
	})
	if err != nil {
		logx.Fatal(err, "Failed to initialize assistance relay")
	}
	go relay.Run()

	// Setup HTTP server and routes
	deps := &handler.AppDeps{
		Relay:          relay,
		Config:         cfg,
		StorageService: storageService,
		Store:          store.New(pool),
		Mailer:         mailService,
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
		logx.Info(fmt.Sprintf("Kwakhanya API starting on http://localhost%s", serverAddr))
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

	relay.Shutdown()

	logx.Info("Server gracefully stopped.")
}
