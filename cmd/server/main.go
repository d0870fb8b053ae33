package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	domainRepo "massage-booking-service/internal/domain/repository"
	"massage-booking-service/internal/infrastructure/config"
	"massage-booking-service/internal/infrastructure/persistence"
	httpapi "massage-booking-service/internal/interface/http"
	bookingRepo "massage-booking-service/internal/interface/repository"
	"massage-booking-service/internal/usecase"
	"massage-booking-service/pkg/logger"
	"massage-booking-service/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"go.mongodb.org/mongo-driver/mongo"
)

func main() {
	// Create logger
	log := logger.NewLogger()
	log.Info("Starting Massage Booking Service")

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load config", "error", err)
	}

	// Set up context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Set up MongoDB connection. A missing DATABASE_URL is not fatal: the
	// service runs and answers every store-backed request with a 500.
	var mongoClient *mongo.Client
	var db *mongo.Database
	if cfg.DatabaseURL != "" {
		log.Info("Connecting to MongoDB")
		mongoClient, db, err = persistence.NewMongoClient(ctx, cfg.DatabaseURL, cfg.DatabaseName)
		if err != nil {
			log.Fatal("Failed to connect to MongoDB", "error", err)
		}
	} else {
		log.Warn("DATABASE_URL not set, running without a database")
	}

	// Set up repositories
	bookings := bookingRepo.NewMongoBookingRepository(db)
	tokens := bookingRepo.NewMongoTokenRepository(db)

	// Set up the notification sender
	var notifier domainRepo.Notifier
	if cfg.TwilioEnabled() {
		notifier = bookingRepo.NewTwilioNotifier(cfg, log)
	} else {
		log.Warn("Twilio credentials missing, SMS notifications disabled")
		notifier = bookingRepo.NewNullNotifier()
	}

	// Set up metrics and the lifecycle service
	appMetrics := metrics.NewMetrics("booking", prometheus.DefaultRegisterer)
	service := usecase.NewBookingService(bookings, tokens, notifier, log, appMetrics, cfg.PublicBaseURL)

	router := httpapi.NewRouter(cfg, log, service, db)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	// Start HTTP server in a goroutine
	go func() {
		log.Info("Starting HTTP server", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server error", "error", err)
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan
	log.Info("Received signal", "signal", sig)

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error", "error", err)
	}

	cancel()

	// Disconnect from MongoDB
	if mongoClient != nil {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			log.Error("MongoDB disconnect error", "error", err)
		}
	}

	log.Info("Massage Booking Service stopped")
}
