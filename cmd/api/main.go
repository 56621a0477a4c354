package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/multierr"

	"github.com/marvindelacruz/hardwarehub-backend/api/routes"
	"github.com/marvindelacruz/hardwarehub-backend/internal/analytics"
	"github.com/marvindelacruz/hardwarehub-backend/internal/notifications"
	"github.com/marvindelacruz/hardwarehub-backend/internal/orders"
	"github.com/marvindelacruz/hardwarehub-backend/pkg/config"
	"github.com/marvindelacruz/hardwarehub-backend/pkg/db"
	"github.com/marvindelacruz/hardwarehub-backend/pkg/logger"
	"github.com/marvindelacruz/hardwarehub-backend/pkg/metrics"
	"github.com/marvindelacruz/hardwarehub-backend/pkg/migrate"
	"github.com/marvindelacruz/hardwarehub-backend/pkg/redis"
	"github.com/marvindelacruz/hardwarehub-backend/pkg/sms"
)

const shutdownGrace = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}

	orderMetrics := metrics.NewOrderMetrics(prometheus.DefaultRegisterer)

	var dispatcher orders.TransitionNotifier
	var smsDispatcher *notifications.SMSDispatcher
	if cfg.SMS.Enabled() {
		smsClient, err := sms.NewClient(cfg.SMS, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to create sms client", err)
			os.Exit(1)
		}
		smsDispatcher, err = notifications.NewSMSDispatcher(smsClient, logg, orderMetrics, cfg.SMS.SendTimeout)
		if err != nil {
			logg.Error(context.Background(), "failed to create sms dispatcher", err)
			os.Exit(1)
		}
		dispatcher = smsDispatcher
	} else {
		logg.Warn(context.Background(), "sms api key not set, notifications will only be logged")
		dispatcher = notifications.NewLogDispatcher(logg)
	}

	ordersSvc, err := orders.NewService(orders.NewRepository(dbClient.DB()), dbClient, dispatcher, orderMetrics)
	if err != nil {
		logg.Error(context.Background(), "failed to create orders service", err)
		os.Exit(1)
	}

	analyticsSvc, err := analytics.NewService(analytics.NewRepository(dbClient.DB()), redisClient, cfg.Reports, orderMetrics, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create analytics service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:    addr,
		Handler: routes.NewRouter(cfg, logg, dbClient, redisClient, ordersSvc, analyticsSvc),
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case sig := <-stop:
		logg.Info(logg.WithField(ctx, "signal", sig.String()), "shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "http shutdown failed", err)
		}
	}

	if smsDispatcher != nil {
		smsDispatcher.Drain()
	}

	closeErr := multierr.Append(dbClient.Close(), redisClient.Close())
	if closeErr != nil {
		logg.Error(ctx, "error closing resources", closeErr)
		os.Exit(1)
	}
	logg.Info(ctx, "shutdown complete")
}
