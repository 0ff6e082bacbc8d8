package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/diewo77/go-stock/internal/config"
	"github.com/diewo77/go-stock/internal/db"
	"github.com/diewo77/go-stock/internal/events"
	"github.com/diewo77/go-stock/internal/services"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

var (
	migrateOnlyFlag = flag.Bool("migrate-only", false, "Run DB migrations and exit")
	seedOnlyFlag    = flag.Bool("seed-only", false, "Run DB seed and exit")
)

func main() {
	flag.Parse()

	// Load environment variables from .env file
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Invalid configuration: %v", err)
	}
	log, err := config.NewLogger(cfg.Log)
	if err != nil {
		logrus.Fatalf("Invalid logging configuration: %v", err)
	}

	dbConn, err := db.Open(cfg.Database, log)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := db.Prepare(dbConn, cfg.Database.Driver, cfg.App.Migrations); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}
	if *migrateOnlyFlag {
		log.Info("Migrations completed successfully")
		return
	}

	if *seedOnlyFlag || cfg.App.Seed {
		if err := db.Seed(dbConn); err != nil {
			log.Fatalf("Seeding failed: %v", err)
		}
		log.Info("Seeding completed")
		if *seedOnlyFlag {
			return
		}
	}

	dispatcher, closeDispatcher := newDispatcher(cfg, log)
	defer closeDispatcher()

	shop := services.NewService(dbConn,
		services.WithLogger(log),
		services.WithDispatcher(dispatcher),
	)
	appHandler := NewApp(shop, log, cfg.App.Lang, cfg.App.Currency)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      withLogging(log, appHandler),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	go func() {
		log.WithFields(logrus.Fields{"port": cfg.Server.Port, "driver": cfg.Database.Driver}).Info("Server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutdown signal received")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.WithError(err).Error("Error during shutdown")
	}
	log.Info("Server stopped gracefully")
}

// newDispatcher logs every event and also publishes to Kafka when brokers
// are configured. An unreachable broker only disables publishing.
func newDispatcher(cfg *config.Config, log *logrus.Logger) (events.Dispatcher, func()) {
	logDispatcher := events.NewLogDispatcher(log)
	if !cfg.Kafka.Enabled() {
		return logDispatcher, func() {}
	}
	kafka, err := events.DialKafka(cfg.Kafka.Brokers, cfg.Kafka.Topic, log)
	if err != nil {
		log.WithError(err).Warn("Kafka unavailable, events are only logged")
		return logDispatcher, func() {}
	}
	return events.Multi{logDispatcher, kafka}, func() {
		if err := kafka.Close(); err != nil {
			log.WithError(err).Warn("closing kafka producer")
		}
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// withLogging adds request logging middleware.
func withLogging(log logrus.FieldLogger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		log.WithFields(logrus.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"status":   rec.status,
			"duration": time.Since(start),
		}).Info("request")
	})
}
