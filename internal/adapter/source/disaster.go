package source

import (
	"context"

	"github.com/couchcryptid/covid19-tracker-bot/internal/domain"
)

// Disaster reads the NDMA ArcGIS feature service.
type Disaster struct {
	fetcher Fetcher
	url     string
}

// NewDisaster creates an NDMA API source. url is the full feature query.
func NewDisaster(f Fetcher, url string) *Disaster {
	return &Disaster{fetcher: f, url: url}
}

// Features returns the per-state features of the query response.
func (d *Disaster) Features(ctx context.Context) ([]domain.DisasterFeature, error) {
	var payload domain.DisasterPayload
	if err := getJSON(ctx, d.fetcher, domain.ProviderDisasterAPI, d.url, &payload); err != nil {
		return nil, err
	}
	return payload.Features, nil
}
