// Package app assembles the report service from configuration, shared by the
// bot service and the statsctl CLI.
package app

import (
	"fmt"
	"log/slog"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/covid19-tracker-bot/internal/adapter/source"
	"github.com/couchcryptid/covid19-tracker-bot/internal/config"
	"github.com/couchcryptid/covid19-tracker-bot/internal/domain"
	"github.com/couchcryptid/covid19-tracker-bot/internal/observability"
	"github.com/couchcryptid/covid19-tracker-bot/internal/report"
)

// LoadRegions reads cfg.RegionsFile, or the built-in table when unset.
func LoadRegions(cfg *config.Config) (*domain.Registry, error) {
	if cfg.RegionsFile == "" {
		return domain.DefaultRegistry()
	}
	regions, err := domain.LoadRegistry(cfg.RegionsFile)
	if err != nil {
		return nil, fmt.Errorf("load regions %s: %w", cfg.RegionsFile, err)
	}
	return regions, nil
}

// NewFetcher returns the provider HTTP client, wrapped in a TTL cache unless
// FETCH_CACHE_TTL is zero.
func NewFetcher(cfg *config.Config, metrics *observability.Metrics, logger *slog.Logger) source.Fetcher {
	client := source.NewClient(cfg.FetchTimeout, metrics, logger)
	if cfg.FetchCacheTTL == 0 {
		logger.Info("provider response cache disabled")
		return client
	}
	logger.Info("provider response cache enabled", "cache_size", cfg.FetchCacheSize, "ttl", cfg.FetchCacheTTL)
	return source.NewCachedFetcher(client, cfg.FetchCacheSize, cfg.FetchCacheTTL, clockwork.NewRealClock(), metrics)
}

// Endpoints returns the configured provider URLs.
func Endpoints(cfg *config.Config) source.Endpoints {
	return source.Endpoints{
		AggregatorBaseURL: cfg.AggregatorBaseURL,
		MinistryAPIURL:    cfg.MinistryAPIURL,
		MinistrySiteURL:   cfg.MinistrySiteURL,
		DisasterAPIURL:    cfg.NDMAAPIURL,
	}
}

// NewSources wires every provider to f.
func NewSources(cfg *config.Config, f source.Fetcher) report.Sources {
	return report.Sources{
		Aggregator:   source.NewAggregator(f, cfg.AggregatorBaseURL),
		Ministry:     source.NewMinistryAPI(f, cfg.MinistryAPIURL),
		MinistrySite: source.NewMinistrySite(f, cfg.MinistrySiteURL),
		Disaster:     source.NewDisaster(f, cfg.NDMAAPIURL),
	}
}

// NewReportService loads the region table and wires the providers, all read
// through f, into a report.Service.
func NewReportService(cfg *config.Config, f source.Fetcher, metrics *observability.Metrics, logger *slog.Logger) (*report.Service, *domain.Registry, error) {
	regions, err := LoadRegions(cfg)
	if err != nil {
		return nil, nil, err
	}
	logger.Info("region table loaded", "regions", regions.Len(), "file", cfg.RegionsFile)

	return report.NewService(regions, NewSources(cfg, f), metrics, logger), regions, nil
}
