package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"kyc_onboarding_service/internal/config"
	"kyc_onboarding_service/internal/logger"
	"kyc_onboarding_service/internal/messaging"
	"kyc_onboarding_service/internal/realtime"
	"kyc_onboarding_service/internal/repository"
	"kyc_onboarding_service/internal/server"
	"kyc_onboarding_service/internal/service"
	"kyc_onboarding_service/internal/verifier"
)

func runMigrations(db *pgxpool.Pool, log *zap.Logger) error {
	log.Info("Running database migrations")

	migrationsDir := "migrations"
	files, err := os.ReadDir(migrationsDir)
	if err != nil {
		return fmt.Errorf("failed to read migrations directory: %w", err)
	}

	var migrationFiles []string
	for _, file := range files {
		if strings.HasSuffix(file.Name(), ".sql") {
			migrationFiles = append(migrationFiles, file.Name())
		}
	}

	sort.Strings(migrationFiles)

	for _, filename := range migrationFiles {
		log.Info("Running migration", zap.String("file", filename))

		content, err := os.ReadFile(filepath.Join(migrationsDir, filename))
		if err != nil {
			return fmt.Errorf("failed to read migration file %s: %w", filename, err)
		}

		_, err = db.Exec(context.Background(), string(content))
		if err != nil {
			return fmt.Errorf("failed to execute migration %s: %w", filename, err)
		}

		log.Info("Migration completed", zap.String("file", filename))
	}

	log.Info("All migrations completed successfully")
	return nil
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Log.Level, cfg.Log.JSON)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	log.Info("Starting KYC onboarding service")

	db, err := pgxpool.New(context.Background(), cfg.DatabaseDSN())
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	log.Info("Connected to database")

	if err := runMigrations(db, log); err != nil {
		log.Fatal("Failed to run migrations", zap.Error(err))
	}

	natsClient, err := messaging.NewNATSClient(cfg.NATS.URL, log)
	if err != nil {
		log.Fatal("Failed to connect to NATS", zap.Error(err))
	}
	defer natsClient.Close()

	log.Info("Connected to NATS")

	userRepo := repository.NewUserRepository(db, log)
	adminRepo := repository.NewAdminRepository(db, log)
	submissionRepo := repository.NewSubmissionRepository(db, log)
	cacheRepo := repository.NewExtractionCacheRepository(db, log)

	verifierClient := verifier.NewClient(cfg.Verifier.URL, cfg.Verifier.Timeout, log)

	userService := service.NewUserService(userRepo, cfg, log)
	adminService := service.NewAdminService(adminRepo, cfg, log)
	submissionService := service.NewSubmissionService(submissionRepo, natsClient, log)
	pipelineService := service.NewPipelineService(verifierClient, cacheRepo, submissionService, log)

	// Dashboard clients watch submission events over the websocket hub; the
	// hub relays whatever lands on the NATS submission subjects.
	hub := realtime.NewHub(cfg.CORS.AllowedOrigins, log)
	err = natsClient.SubscribeToSubmissionEvents(context.Background(), func(event *messaging.SubmissionEvent) {
		log.Debug("Relaying submission event",
			zap.String("event", event.Event),
			zap.String("submission_id", event.Submission.ID))
		hub.Broadcast(event)
	})
	if err != nil {
		log.Error("Failed to subscribe to submission events", zap.Error(err))
	}

	srv := server.New(cfg, userService, adminService, submissionService, pipelineService, hub, prometheus.DefaultRegisterer, log)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	httpServer := &http.Server{
		Addr:    addr,
		Handler: srv.Router(),
	}

	log.Info("Starting server", zap.String("address", addr))

	go func() {
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited")
}
