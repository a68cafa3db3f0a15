package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/acmebank/account-service/internal/bus"
	"github.com/acmebank/account-service/internal/config"
	"github.com/acmebank/account-service/internal/customer"
	"github.com/acmebank/account-service/internal/db"
	"github.com/acmebank/account-service/internal/handlers"
	"github.com/acmebank/account-service/internal/metrics"
	"github.com/acmebank/account-service/internal/repository"
	"github.com/acmebank/account-service/internal/service"
	"github.com/redis/rueidis"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := cfg.Logger.NewLogger()
	slog.SetDefault(logger)

	logger.Info("starting account service",
		"port", cfg.Server.Port,
		"log_level", cfg.Logger.Level,
		"bus_enabled", cfg.Bus.Enabled,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	database, err := db.Connect(ctx, &cfg.Database, logger)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer database.Close()

	collector := metrics.NewCollector()
	customerClient := customer.NewClient(cfg.Customer.BaseURL, cfg.Customer.Timeout, logger)

	var (
		busClient rueidis.Client
		publisher *bus.Publisher
	)
	if cfg.Bus.Enabled {
		busClient, err = rueidis.NewClient(rueidis.ClientOption{
			InitAddress: []string{cfg.Bus.Addr},
		})
		if err != nil {
			logger.Error("failed to connect to message bus", "error", err)
			os.Exit(1)
		}
		defer busClient.Close()
		publisher = bus.NewPublisher(busClient, cfg.Bus, logger)
	}

	var eventPublisher service.EventPublisher
	if publisher != nil {
		eventPublisher = publisher
	}

	router := handlers.NewRouter(database, cfg, customerClient, eventPublisher, collector, logger)

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	consumerDone := make(chan struct{})
	if cfg.Bus.Enabled {
		consumer := bus.NewConsumer(
			busClient,
			cfg.Bus,
			service.NewDepositService(database, collector),
			service.NewWithdrawalService(database, collector),
			service.NewTransferService(database, collector, cfg.App.TransferTargetPolicy),
			repository.NewIdempotencyRepository(database),
			publisher,
			collector,
			logger,
		)
		go func() {
			defer close(consumerDone)
			if err := consumer.Run(ctx); err != nil {
				logger.Error("bus consumer failed", "error", err)
			}
		}()
	} else {
		close(consumerDone)
	}

	go func() {
		logger.Info("server listening", "address", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}

	select {
	case <-consumerDone:
	case <-shutdownCtx.Done():
		logger.Warn("bus consumer did not stop in time")
	}

	logger.Info("server stopped")
}
