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

	"github.com/telecare/scheduling-api/internal/config"
	"github.com/telecare/scheduling-api/internal/email"
	appointmentHandler "github.com/telecare/scheduling-api/internal/handler/appointment"
	availabilityHandler "github.com/telecare/scheduling-api/internal/handler/availability"
	healthHandler "github.com/telecare/scheduling-api/internal/handler/health"
	"github.com/telecare/scheduling-api/internal/middleware"
	"github.com/telecare/scheduling-api/internal/model"
	"github.com/telecare/scheduling-api/internal/repository/postgres"
	"github.com/telecare/scheduling-api/internal/router"
	availabilityService "github.com/telecare/scheduling-api/internal/service/availability"
	"github.com/telecare/scheduling-api/internal/service/notification"
	"github.com/telecare/scheduling-api/internal/service/scheduling"
	"github.com/telecare/scheduling-api/pkg/keylock"
	"github.com/telecare/scheduling-api/pkg/logger"
	"github.com/telecare/scheduling-api/pkg/metrics"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	logg := logger.NewLogger(nil)

	model.RegisterValidations()

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	appointmentRepo := postgres.NewAppointmentRepository(db)
	availabilityRepo := postgres.NewAvailabilityRepository(db)
	directoryRepo := postgres.NewDirectoryRepository(db)
	outboxRepo := postgres.NewOutboxRepository(db)

	m := metrics.NewMetrics(cfg.Metrics.Namespace)
	locks := keylock.New()

	var emailSvc email.Service
	if cfg.SMTP.Enabled {
		emailSvc = email.NewSMTPService(email.SMTPConfig{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			Username: cfg.SMTP.Username,
			Password: cfg.SMTP.Password,
			From:     cfg.SMTP.From,
		})
	} else {
		emailSvc = email.NewNoopService()
	}

	notifier := notification.NewService(directoryRepo, emailSvc, m, logg)
	checker := scheduling.NewConflictChecker(availabilityRepo, appointmentRepo)
	schedulingSvc := scheduling.NewService(appointmentRepo, checker, locks, notifier, outboxRepo, m, logg)
	availabilitySvc := availabilityService.NewService(availabilityRepo, locks)

	r := router.NewRouter(
		healthHandler.NewHandler(db),
		appointmentHandler.NewHandler(schedulingSvc),
		availabilityHandler.NewHandler(availabilitySvc),
		router.Config{
			RateLimit:     rate.Limit(cfg.Server.RateLimitRPS),
			RateBurst:     cfg.Server.RateLimitBurst,
			Timeout:       time.Duration(cfg.Server.TimeoutSeconds) * time.Second,
			CORSConfig:    middleware.DefaultCORSConfig(),
			MetricsPrefix: cfg.Metrics.Namespace,
		},
	)
	r.Setup()

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: r.Engine(),
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited properly")
}
