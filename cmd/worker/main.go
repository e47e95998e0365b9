package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/kelseyhightower/envconfig"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"

	"github.com/telecare/scheduling-api/internal/repository/postgres"
	"github.com/telecare/scheduling-api/pkg/logger"
	"github.com/telecare/scheduling-api/pkg/messaging/redis"
	"github.com/telecare/scheduling-api/pkg/metrics"
	"github.com/telecare/scheduling-api/pkg/worker"
)

// workerConfig is populated from the environment. The relay worker runs in
// containers without the API's config file, so everything comes in through
// env vars prefixed with SCHEDULER_.
type workerConfig struct {
	DatabaseURL   string        `envconfig:"DATABASE_URL" required:"true"`
	RedisURL      string        `envconfig:"REDIS_URL" default:"redis://localhost:6379"`
	HealthPort    int           `envconfig:"HEALTH_PORT" default:"8081"`
	BatchSize     int           `envconfig:"BATCH_SIZE" default:"100"`
	PollInterval  time.Duration `envconfig:"POLL_INTERVAL" default:"5s"`
	RetryAttempts int           `envconfig:"RETRY_ATTEMPTS" default:"3"`
	RetryDelay    time.Duration `envconfig:"RETRY_DELAY" default:"5s"`
	RetainFor     time.Duration `envconfig:"RETAIN_FOR" default:"168h"`
}

func setupHealthCheck(port int, logg *logger.Logger) {
	mux := http.NewServeMux()
	mux.HandleFunc("/health/live", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/health/ready", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	go func() {
		if err := http.ListenAndServe(fmt.Sprintf(":%d", port), mux); err != nil {
			logg.ZL.Error().Err(err).Msg("health check server failed")
			os.Exit(1)
		}
	}()
}

func main() {
	var cfg workerConfig
	if err := envconfig.Process("SCHEDULER", &cfg); err != nil {
		log.Fatal().Err(err).Msg("failed to load worker configuration")
	}

	logg := logger.NewLogger(nil)

	db, err := sqlx.Connect("postgres", cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	broker, err := redis.NewRedisBroker(redis.Config{
		URL:          cfg.RedisURL,
		MaxRetries:   3,
		RetryBackoff: time.Second,
		PoolSize:     10,
		MinIdleConns: 2,
	}, &logg.ZL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to Redis")
	}
	defer broker.Close()

	outboxRepo := postgres.NewOutboxRepository(db)

	processor := worker.NewOutboxProcessor(
		outboxRepo,
		broker,
		worker.OutboxProcessorConfig{
			BatchSize:     cfg.BatchSize,
			PollInterval:  cfg.PollInterval,
			RetryAttempts: cfg.RetryAttempts,
			RetryDelay:    cfg.RetryDelay,
			RetainFor:     cfg.RetainFor,
		},
		logg,
		metrics.NewMetrics("outbox_relay"),
	)

	setupHealthCheck(cfg.HealthPort, logg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		logg.Info("shutting down worker")
		cancel()
	}()

	processor.Start(ctx)
}
