package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/jwalitptl/interop-api/internal/config"
	"github.com/jwalitptl/interop-api/internal/gateway"
	"github.com/jwalitptl/interop-api/internal/handler"
	interophandler "github.com/jwalitptl/interop-api/internal/handler/interop"
	"github.com/jwalitptl/interop-api/internal/middleware"
	"github.com/jwalitptl/interop-api/internal/repository/postgres"
	"github.com/jwalitptl/interop-api/internal/router"
	interopservice "github.com/jwalitptl/interop-api/internal/service/interop"
	"github.com/jwalitptl/interop-api/pkg/logger"
	redisbroker "github.com/jwalitptl/interop-api/pkg/messaging/redis"
	"github.com/jwalitptl/interop-api/pkg/metrics"
	"github.com/jwalitptl/interop-api/pkg/worker"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	appLogger := logger.NewLogger(nil)

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	// Repositories
	patientRepo := postgres.NewPatientRepository(db)
	txnRepo := postgres.NewTransactionRepository(db)
	outboxRepo := postgres.NewOutboxRepository(db)

	appMetrics := metrics.NewMetrics("interop")

	// Hub gateway client with an explicitly constructed HTTP client;
	// all hub calls share its timeout.
	gwLogger := log.With().Str("component", "gateway").Logger()
	gwClient := gateway.NewClient(gateway.Config{
		BaseURL:    cfg.Gateway.BaseURL,
		APIKey:     cfg.Gateway.APIKey,
		ProviderID: cfg.Gateway.ProviderID,
		Timeout:    cfg.Gateway.Timeout,
	}, &http.Client{Timeout: cfg.Gateway.Timeout}, &gwLogger, appMetrics)

	interopSvc := interopservice.NewService(
		patientRepo,
		txnRepo,
		outboxRepo,
		gwClient,
		interopservice.Config{
			ProviderID:    cfg.Gateway.ProviderID,
			WebhookSecret: cfg.Webhook.Secret,
		},
		appLogger,
		appMetrics,
	)

	middleware.RegisterCustomValidators()

	h := handler.NewHandler(db)
	interopHandler := interophandler.NewHandler(interopSvc)

	r := router.NewRouter(h, interopHandler, router.Config{
		RateLimit: rate.Limit(cfg.Server.RateLimit),
		RateBurst: cfg.Server.RateBurst,
	})
	r.Setup()

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: r.Engine(),
	}

	// Outbox publisher feeds interop patient events to the hospital app.
	brokerLogger := log.With().Str("component", "broker").Logger()
	broker, err := redisbroker.NewBroker(redisbroker.Config{
		URL:          cfg.Redis.URL,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
	}, &brokerLogger)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to Redis")
	}
	defer broker.Close()

	workerCtx, cancelWorker := context.WithCancel(context.Background())
	defer cancelWorker()

	outboxProcessor := worker.NewOutboxProcessor(outboxRepo, broker, worker.OutboxProcessorConfig{
		BatchSize:    cfg.Outbox.BatchSize,
		PollInterval: cfg.Outbox.PollInterval,
		Retention:    cfg.Outbox.Retention,
	}, appLogger, appMetrics)
	go outboxProcessor.Start(workerCtx)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()
	log.Info().Int("port", cfg.Server.Port).Msg("interop gateway listening")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server...")

	cancelWorker()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited properly")
}
