package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"database/sql"

	"github.com/adverdi/pacing-service/internal/config"
	"github.com/adverdi/pacing-service/internal/handler"
	"github.com/adverdi/pacing-service/internal/integrations/spendapi"
	"github.com/adverdi/pacing-service/internal/middleware"
	"github.com/adverdi/pacing-service/internal/models"
	"github.com/adverdi/pacing-service/internal/repository"
	"github.com/adverdi/pacing-service/internal/service"
	"github.com/adverdi/pacing-service/internal/utils/email"
	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

func main() {
	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logLevel, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL"))
	if err != nil {
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	// Load configuration
	cfg, err := config.NewConfig()
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}

	// Initialize database
	db, err := sql.Open("postgres", cfg.DBConn)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		logger.Fatalf("Failed to ping database: %v", err)
	}

	// Initialize spend providers
	providers := spendapi.NewRegistry()
	providers.Register(models.PlatformMeta, spendapi.NewMetaClient(cfg.MetaAPIURL, cfg.MetaAPIToken, logger))
	providers.Register(models.PlatformGoogle, spendapi.NewGoogleClient(cfg.GoogleAPIURL, cfg.GoogleAPIToken, logger))

	// Initialize layers
	repo := repository.NewRepository(db)
	svc := service.NewReviewer(repo, providers, logger)
	h := handler.NewHandler(svc, logger)
	sender := email.NewSender(cfg, logger)

	// Schedule the nightly review batch
	c := cron.New()
	_, err = c.AddFunc(cfg.BatchCron, func() {
		summary, err := svc.RunBatch(context.Background(), nil)
		if err != nil {
			logger.Errorf("Scheduled batch failed to start: %v", err)
			return
		}
		if sender.Enabled() {
			if err := sender.SendBatchSummary(summary); err != nil {
				logger.Errorf("Failed to mail batch summary: %v", err)
			}
		}
	})
	if err != nil {
		logger.Fatalf("Failed to schedule batch: %v", err)
	}
	c.Start()
	defer c.Stop()

	// Setup router
	r := mux.NewRouter()
	// Public routes
	r.HandleFunc("/health", h.Health).Methods("GET")
	r.HandleFunc("/clients/{clientID:[0-9]+}/reviews", h.ListReviews).Methods("GET")
	// Protected routes
	authRouter := r.PathPrefix("/").Subrouter()
	authRouter.Use(middleware.AuthMiddleware(cfg))
	authRouter.HandleFunc("/reviews/run", h.RunBatch).Methods("POST")
	authRouter.HandleFunc("/clients/{clientID:[0-9]+}/review", h.RunSingle).Methods("POST")

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 120 * time.Second,
	}
	logger.Infof("Starting server on %s", addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatalf("Server failed: %v", err)
	}
}
