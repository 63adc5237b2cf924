package source

import (
	"context"

	"github.com/couchcryptid/covid19-tracker-bot/internal/domain"
)

// Paths of the aggregator documents, relative to its base URL.
const (
	StatewisePath = "/data.json"
	DistrictsPath = "/v2/state_district_wise.json"
)

// Aggregator reads the covid19india.org API.
type Aggregator struct {
	fetcher Fetcher
	baseURL string
}

// NewAggregator creates an aggregator source rooted at baseURL.
func NewAggregator(f Fetcher, baseURL string) *Aggregator {
	return &Aggregator{fetcher: f, baseURL: baseURL}
}

// Statewise returns the per-state entries of data.json, the national total
// included.
func (a *Aggregator) Statewise(ctx context.Context) ([]domain.AggregatorRecord, error) {
	var snap domain.AggregatorSnapshot
	if err := getJSON(ctx, a.fetcher, domain.ProviderAggregator, a.baseURL+StatewisePath, &snap); err != nil {
		return nil, err
	}
	return snap.Statewise, nil
}

// Districts returns the district breakdown of every state.
func (a *Aggregator) Districts(ctx context.Context) ([]domain.StateDistricts, error) {
	var states []domain.StateDistricts
	if err := getJSON(ctx, a.fetcher, domain.ProviderAggregator, a.baseURL+DistrictsPath, &states); err != nil {
		return nil, err
	}
	return states, nil
}
