package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/couchcryptid/covid19-tracker-bot/internal/adapter/httpadapter"
	kafkaadapter "github.com/couchcryptid/covid19-tracker-bot/internal/adapter/kafka"
	"github.com/couchcryptid/covid19-tracker-bot/internal/app"
	"github.com/couchcryptid/covid19-tracker-bot/internal/bot"
	"github.com/couchcryptid/covid19-tracker-bot/internal/config"
	"github.com/couchcryptid/covid19-tracker-bot/internal/observability"
	"github.com/couchcryptid/covid19-tracker-bot/internal/pipeline"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	reports, _, err := app.NewReportService(cfg, app.NewFetcher(cfg, metrics, logger), metrics, logger)
	if err != nil {
		logger.Error("failed to build report service", "error", err)
		os.Exit(1)
	}
	dispatcher := bot.NewDispatcher(reports, cfg.MinistryDefaultSource, logger)

	reader := kafkaadapter.NewReader(cfg, logger)
	writer := kafkaadapter.NewWriter(cfg, logger)
	transformer := pipeline.NewTransformer(dispatcher, logger)

	p := pipeline.New(reader, transformer, writer, logger, metrics, cfg.BatchSize)

	srv := httpadapter.NewServer(cfg.HTTPAddr, p, dispatcher, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	// Start command pipeline.
	go func() {
		if err := p.Run(ctx); err != nil {
			logger.Error("pipeline error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if err := reader.Close(); err != nil {
		logger.Error("kafka reader close error", "error", err)
	}
	if err := writer.Close(); err != nil {
		logger.Error("kafka writer close error", "error", err)
	}

	logger.Info("shutdown complete")
}
