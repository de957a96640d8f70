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

	"github.com/sundiag/backoffice-api/internal/config"
	"github.com/sundiag/backoffice-api/internal/email"
	auditHandler "github.com/sundiag/backoffice-api/internal/handler/audit"
	billingHandler "github.com/sundiag/backoffice-api/internal/handler/billing"
	catalogHandler "github.com/sundiag/backoffice-api/internal/handler/catalog"
	healthHandler "github.com/sundiag/backoffice-api/internal/handler/health"
	intakeHandler "github.com/sundiag/backoffice-api/internal/handler/intake"
	invoiceHandler "github.com/sundiag/backoffice-api/internal/handler/invoice"
	referrerHandler "github.com/sundiag/backoffice-api/internal/handler/referrer"
	refundHandler "github.com/sundiag/backoffice-api/internal/handler/refund"
	reportHandler "github.com/sundiag/backoffice-api/internal/handler/report"
	"github.com/sundiag/backoffice-api/internal/labapi"
	"github.com/sundiag/backoffice-api/internal/middleware"
	"github.com/sundiag/backoffice-api/internal/repository/postgres"
	"github.com/sundiag/backoffice-api/internal/router"
	auditService "github.com/sundiag/backoffice-api/internal/service/audit"
	billingService "github.com/sundiag/backoffice-api/internal/service/billing"
	catalogService "github.com/sundiag/backoffice-api/internal/service/catalog"
	intakeService "github.com/sundiag/backoffice-api/internal/service/intake"
	invoiceService "github.com/sundiag/backoffice-api/internal/service/invoice"
	referrerService "github.com/sundiag/backoffice-api/internal/service/referrer"
	refundService "github.com/sundiag/backoffice-api/internal/service/refund"
	reportService "github.com/sundiag/backoffice-api/internal/service/report"
	"github.com/sundiag/backoffice-api/pkg/logger"
	"github.com/sundiag/backoffice-api/pkg/messaging/redis"
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

	broker, err := redis.NewRedisBroker(cfg.Redis.URL, *appLogger.Zerolog())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer broker.Close()

	labClient := labapi.NewClient(cfg.LabAPI, *appLogger.Zerolog())

	auditRepo := postgres.NewAuditRepository(db)
	auditSvc := auditService.NewService(auditRepo, broker, *appLogger.Zerolog())

	mailer := email.NewSMTPService(cfg.SMTP, appLogger)

	intakeSvc := intakeService.NewService(labClient, auditSvc)
	referrerSvc := referrerService.NewService(labClient)
	billingSvc := billingService.NewService(labClient, labClient, auditSvc, cfg.Billing)
	catalogSvc := catalogService.NewService(labClient, auditSvc)
	reportSvc := reportService.NewService(labClient, mailer)
	invoiceSvc := invoiceService.NewService(labClient, auditSvc, cfg.Billing.LabName)
	refundSvc := refundService.NewService(labClient, auditSvc, cfg.Refund)

	handlers := []router.Handler{
		intakeHandler.NewHandler(intakeSvc),
		referrerHandler.NewHandler(referrerSvc),
		billingHandler.NewHandler(billingSvc),
		catalogHandler.NewHandler(catalogSvc),
		reportHandler.NewHandler(reportSvc),
		invoiceHandler.NewHandler(invoiceSvc),
		refundHandler.NewHandler(refundSvc),
		auditHandler.NewHandler(auditSvc),
	}

	r := router.NewRouter(
		healthHandler.NewHandler(db, labClient),
		handlers,
		router.Config{
			RateLimit:     rate.Limit(cfg.Server.RateLimit),
			RateBurst:     cfg.Server.RateBurst,
			Timeout:       time.Duration(cfg.Server.TimeoutSeconds) * time.Second,
			CORSConfig:    middleware.DefaultCORSConfig(),
			MetricsPrefix: "backoffice",
		},
	)
	r.Setup()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r.Engine(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
	}

	go func() {
		log.Info().Int("port", cfg.Server.Port).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("forced shutdown")
	}
	log.Info().Msg("server stopped")
}
