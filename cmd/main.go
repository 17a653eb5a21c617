package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"expense-api/db"
	"expense-api/internal/config"
	"expense-api/internal/events"
	"expense-api/internal/log"
	"expense-api/internal/web"

	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger := log.New(log.Config{Level: log.ParseLevel(cfg.LogLevel)})
	log.SetDefault(logger)
	logger.Info("Starting expense API",
		log.FieldOperation, log.OpStartup,
		"pid", os.Getpid(),
		"runtime", runtime.GOOS+"/"+runtime.GOARCH,
		"go_version", runtime.Version())

	if err := db.InitializeSchema(cfg.SQLitePath); err != nil {
		return fmt.Errorf("failed to initialize database schema: %w", err)
	}

	sqliteDB, err := db.ConnectToSQLite(cfg.SQLitePath)
	if err != nil {
		return fmt.Errorf("failed to connect to SQLite: %w", err)
	}
	repoFactory := db.NewRepositoryFactory(sqliteDB)
	defer repoFactory.Close()

	publisher, err := newPublisher(cfg, logger)
	if err != nil {
		return err
	}
	defer publisher.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	webHandler, authService := web.NewAPI(cfg, repoFactory, publisher, logger)
	if _, err := authService.PurgeRevoked(ctx); err != nil {
		logger.Warn("Failed to purge expired revoked tokens", log.FieldError, err)
	}

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           webHandler.SetupRoutes(logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Server is starting", "port", cfg.Port, "api_prefix", cfg.APIPrefix)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server ListenAndServe error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down the server", log.FieldOperation, log.OpShutdown)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown error: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info("Server stopped")
	return nil
}

func newPublisher(cfg *config.Config, logger *log.Logger) (events.Publisher, error) {
	if !cfg.EventsEnabled() {
		logger.Info("Expense events disabled, AMQP_URL is not set")
		return events.NopPublisher{}, nil
	}

	publisher, err := events.NewAMQPPublisher(cfg.AMQPURL, cfg.AMQPExchange, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to AMQP: %w", err)
	}
	logger.Info("Publishing expense events", "exchange", cfg.AMQPExchange)
	return publisher, nil
}
