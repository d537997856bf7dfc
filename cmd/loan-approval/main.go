// ==============================================================================
// LOAN APPROVAL SERVICE MAIN - cmd/loan-approval/main.go
// ==============================================================================
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"

	"loanapproval/internal/handler"
	"loanapproval/internal/loan"
	"loanapproval/internal/metrics"
	"loanapproval/internal/middleware"
	"loanapproval/internal/notification"
	"loanapproval/internal/repository/memory"
	"loanapproval/internal/retention"
	"loanapproval/internal/statistics"
	"loanapproval/pkg/cache"
	"loanapproval/pkg/config"
	"loanapproval/pkg/logger"
	"loanapproval/pkg/validator"
)

func main() {
	// A missing .env is fine; the environment may already be populated.
	_ = godotenv.Load()

	cfg := config.Load()
	log := logger.NewWithWriter("loan-approval", cfg.Log.Level, os.Stdout)

	if err := cfg.ValidateCore(); err != nil {
		log.Fatal("Invalid configuration", map[string]interface{}{"error": err.Error()})
	}

	log.Info("Starting Loan Approval Service", map[string]interface{}{
		"port":      cfg.Server.Port,
		"log_level": cfg.Log.Level,
	})

	loc, _ := cfg.Statistics.Location()
	collector := metrics.NewCollector()

	// Redis is optional: idempotency and rate limiting are skipped without it.
	redisClient, err := cache.Connect(context.Background(), cfg.Redis.URL, cfg.Redis.Password, cfg.Redis.DB, 5*time.Second)
	if err != nil {
		log.Fatal("Failed to connect to Redis", map[string]interface{}{"error": err.Error()})
	}
	if redisClient != nil {
		defer redisClient.Close()
		log.Info("Redis connected", nil)
	}

	// Stores
	pendingStore := memory.NewPendingRequestStore()
	logStore := memory.NewLogStore()

	// Notifications
	dispatcher := notification.NewDispatcher(
		newSender(cfg.Notification, log),
		cfg.Notification.QueueSize,
		cfg.Notification.Workers,
		cfg.Notification.Timeout,
		log,
		collector,
	)
	dispatcher.Start()

	// Services
	loanService := loan.NewService(pendingStore, logStore, dispatcher, log, collector)
	statsService := statistics.NewService(logStore, statistics.NewPeriodResolver(loc), log)

	var pruner *retention.Pruner
	if cfg.Retention.MaxAge > 0 {
		pruner, err = retention.NewPruner(logStore, cfg.Retention.MaxAge, cfg.Retention.Schedule, log, collector)
		if err != nil {
			log.Fatal("Failed to configure log retention", map[string]interface{}{"error": err.Error()})
		}
		pruner.Start()
	}

	// Handlers
	val := validator.New()
	loanHandler := handler.NewLoanHandler(loanService, statsService, val, log)
	systemHandler := handler.NewSystemHandler(redisClient, pendingStore, log)

	// Setup router
	r := mux.NewRouter()

	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.Recovery(log))
	r.Use(middleware.CorrelationID)
	r.Use(middleware.NewLoggingMiddleware(log, collector).Log)
	if redisClient != nil {
		if cfg.HTTP.RateLimitPerMinute > 0 {
			r.Use(middleware.NewRateLimiter(redisClient, cfg.HTTP.RateLimitPerMinute, time.Minute, log).Limit)
		}
		r.Use(middleware.NewIdempotencyMiddleware(redisClient, cfg.HTTP.IdempotencyTTL, log).Handle)
	}

	r.HandleFunc("/health", systemHandler.Health).Methods(http.MethodGet)
	r.Handle("/metrics", collector.Handler()).Methods(http.MethodGet)
	loanHandler.Register(r)

	// Start server
	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info("Loan approval service started", map[string]interface{}{
			"address": srv.Addr,
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Server failed to start", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down loan approval service...", nil)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Loan approval service forced to shutdown", map[string]interface{}{
			"error": err.Error(),
		})
	}

	if pruner != nil {
		pruner.Stop()
	}
	// Drain queued notifications after the last request has been served.
	dispatcher.Close()

	log.Info("Loan approval service stopped gracefully", nil)
}

func newSender(cfg config.NotificationConfig, log logger.Logger) notification.Sender {
	if cfg.Host == "" {
		log.Warn("NOTIFICATION_HOST not set, notifications will only be logged", nil)
		return notification.NewLogSender(log)
	}
	return notification.NewWebhookSender(cfg.Host, cfg.ManagersPath, cfg.CustomersPath, cfg.Timeout, log)
}
