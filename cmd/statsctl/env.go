package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/couchcryptid/covid19-tracker-bot/internal/adapter/source"
	"github.com/couchcryptid/covid19-tracker-bot/internal/app"
	"github.com/couchcryptid/covid19-tracker-bot/internal/config"
	"github.com/couchcryptid/covid19-tracker-bot/internal/domain"
	"github.com/couchcryptid/covid19-tracker-bot/internal/observability"
	"github.com/couchcryptid/covid19-tracker-bot/internal/report"
)

// env is what every subcommand needs, built from the environment and the
// persistent flags.
type env struct {
	cfg     *config.Config
	logger  *slog.Logger
	metrics *observability.Metrics
	fetcher source.Fetcher
}

func newEnv() (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	logger := observability.NewCLILogger(os.Stderr, logLevel)
	metrics := observability.NewMetricsForTesting()

	var f source.Fetcher
	if snapshotDir != "" {
		logger.Info("reading providers from snapshot", "dir", snapshotDir)
		f = source.NewDirFetcher(snapshotDir, source.Documents(app.Endpoints(cfg)))
	} else {
		f = source.NewClient(cfg.FetchTimeout, metrics, logger)
	}

	return &env{cfg: cfg, logger: logger, metrics: metrics, fetcher: f}, nil
}

func (e *env) reports() (*report.Service, *domain.Registry, error) {
	return app.NewReportService(e.cfg, e.fetcher, e.metrics, e.logger)
}
