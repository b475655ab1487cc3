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

	"github.com/SherClockHolmes/webpush-go"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"laundry-service-backend/config"
	"laundry-service-backend/internal/account"
	"laundry-service-backend/internal/api"
	"laundry-service-backend/internal/codegen"
	"laundry-service-backend/internal/db"
	"laundry-service-backend/internal/events"
	"laundry-service-backend/internal/feedback"
	"laundry-service-backend/internal/logger"
	"laundry-service-backend/internal/machine"
	"laundry-service-backend/internal/notification"
	"laundry-service-backend/internal/order"
	"laundry-service-backend/internal/stats"
	"laundry-service-backend/internal/store"
	"laundry-service-backend/internal/telemetry"
)

func main() {
	// A missing .env is fine outside local development.
	_ = godotenv.Load()

	// Load configuration
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./config/config.yaml" // Default path for local development
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration from %s: %v\n", configPath, err)
		os.Exit(1)
	}

	log := logger.New(cfg.Log)
	defer func() { _ = log.Sync() }()
	log.Info("configuration loaded", zap.String("path", configPath))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Telemetry
	metricsHandler, shutdownMeter, err := telemetry.InitMeterProvider(cfg.Telemetry.ServiceName, cfg.Telemetry.ServiceVersion)
	if err != nil {
		log.Fatal("failed to initialize meter provider", zap.Error(err))
	}
	defer func() { _ = shutdownMeter(context.Background()) }()

	if cfg.Telemetry.OTLPEndpoint != "" {
		shutdownTracer, err := telemetry.InitTracerProvider(ctx, cfg.Telemetry.OTLPEndpoint, cfg.Telemetry.ServiceName, cfg.Telemetry.ServiceVersion)
		if err != nil {
			log.Fatal("failed to initialize tracer provider", zap.Error(err))
		}
		defer func() { _ = shutdownTracer(context.Background()) }()
		log.Info("tracing enabled", zap.String("endpoint", cfg.Telemetry.OTLPEndpoint))
	}

	metrics, err := telemetry.NewMetrics()
	if err != nil {
		log.Fatal("failed to register metrics", zap.Error(err))
	}

	// Initialize database
	gormDB, err := db.Init(&cfg.Database, log)
	if err != nil {
		log.Fatal("failed to initialize database", zap.Error(err))
	}
	log.Info("database initialized", zap.String("driver", cfg.Database.Driver))

	appStore := store.NewGormStore(gormDB)
	generator := codegen.New(codegen.WithObserver(metrics.CodeAttempts))

	// Order events
	var publisher events.Publisher = events.Noop{}
	if len(cfg.Kafka.Brokers) > 0 {
		publisher = events.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		log.Info("publishing order events", zap.Strings("brokers", cfg.Kafka.Brokers), zap.String("topic", cfg.Kafka.Topic))
	}
	defer func() { _ = publisher.Close() }()

	// Web push
	var (
		pusher         notification.Pusher
		webpushOptions *webpush.Options
	)
	if cfg.Push.Enabled() {
		webpushOptions = &webpush.Options{
			VAPIDPublicKey:  cfg.Push.PublicKey,
			VAPIDPrivateKey: cfg.Push.PrivateKey,
			Subscriber:      cfg.Push.Subject,
			TTL:             cfg.Push.TTL,
		}
		pool := notification.NewWorkerPool(cfg.WorkerPool.Size, cfg.WorkerPool.QueueSize, appStore, webpushOptions, log, metrics)
		pool.Start(ctx)
		pusher = pool
	} else {
		log.Warn("VAPID keys not configured, web push disabled")
	}

	orders := order.NewService(appStore, generator,
		order.WithPublisher(publisher),
		order.WithPusher(pusher),
		order.WithMetrics(metrics),
		order.WithLogger(log),
	)

	// Pickup reminders
	if cfg.Reminder.Enabled {
		reminders := notification.NewReminderJob(appStore, time.Duration(cfg.Reminder.ReadyAfterHours)*time.Hour, pusher, log, metrics)
		if err := reminders.Start(cfg.Reminder.Schedule); err != nil {
			log.Fatal("failed to schedule reminders", zap.Error(err), zap.String("schedule", cfg.Reminder.Schedule))
		}
		defer reminders.Stop()
	}

	handler := api.NewHandler(api.Services{
		Orders:        orders,
		Stats:         stats.NewAggregator(appStore),
		Feedback:      feedback.NewService(appStore),
		Machines:      machine.NewService(appStore),
		Accounts:      account.NewService(appStore, generator, cfg.Auth),
		Notifications: notification.NewDispatcher(appStore),
		Store:         appStore,
	}, webpushOptions, log)

	router := api.NewRouter(handler, api.RouterOptions{
		ServiceName:     cfg.Telemetry.ServiceName,
		RateLimitPerSec: cfg.Server.RateLimitPerSec,
		RateLimitBurst:  cfg.Server.RateLimitBurst,
		IdempotencyTTL:  cfg.Server.IdempotencyTTL,
		Metrics:         metricsHandler,
		Logger:          log,
	})
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	// Start the server in a goroutine
	go func() {
		log.Info("HTTP server starting", zap.Int("port", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("HTTP server ListenAndServe", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	<-stop
	log.Info("shutdown signal received, stopping services")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown", zap.Error(err))
	}
	cancel()

	log.Info("server gracefully stopped")
}
