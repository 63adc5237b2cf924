package source

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/couchcryptid/covid19-tracker-bot/internal/domain"
)

// Document is one provider payload: where it is fetched from and the file it
// is kept in inside a snapshot directory.
type Document struct {
	Provider domain.Provider
	URL      string
	File     string
}

// Endpoints are the provider URLs a deployment talks to.
type Endpoints struct {
	AggregatorBaseURL string
	MinistryAPIURL    string
	MinistrySiteURL   string
	DisasterAPIURL    string
}

// Documents lists every payload the reports read.
func Documents(e Endpoints) []Document {
	return []Document{
		{Provider: domain.ProviderAggregator, URL: e.AggregatorBaseURL + StatewisePath, File: "data.json"},
		{Provider: domain.ProviderAggregator, URL: e.AggregatorBaseURL + DistrictsPath, File: "state_district_wise.json"},
		{Provider: domain.ProviderMinistryAPI, URL: e.MinistryAPIURL, File: "datanew.json"},
		{Provider: domain.ProviderMinistrySite, URL: e.MinistrySiteURL, File: "mohfw.html"},
		{Provider: domain.ProviderDisasterAPI, URL: e.DisasterAPIURL, File: "ndma.json"},
	}
}

// DirFetcher serves provider payloads from files in a snapshot directory.
// It implements Fetcher.
type DirFetcher struct {
	dir   string
	files map[string]string
}

// NewDirFetcher maps each document URL to its file under dir.
func NewDirFetcher(dir string, docs []Document) *DirFetcher {
	files := make(map[string]string, len(docs))
	for _, d := range docs {
		files[d.URL] = d.File
	}
	return &DirFetcher{dir: dir, files: files}
}

func (f *DirFetcher) Fetch(_ context.Context, p domain.Provider, url string) ([]byte, error) {
	name, ok := f.files[url]
	if !ok {
		return nil, fmt.Errorf("%s: no snapshot file for %s: %w", p, url, domain.ErrFetchFailed)
	}
	data, err := os.ReadFile(filepath.Join(f.dir, name))
	if err != nil {
		return nil, fmt.Errorf("%s: read snapshot: %w: %w", p, domain.ErrFetchFailed, err)
	}
	return data, nil
}

// SaveSnapshot fetches every document and writes it under dir. It stops at the
// first failure; files already written are kept.
func SaveSnapshot(ctx context.Context, f Fetcher, docs []Document, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create snapshot dir: %w", err)
	}
	for _, d := range docs {
		data, err := f.Fetch(ctx, d.Provider, d.URL)
		if err != nil {
			return fmt.Errorf("snapshot %s: %w", d.File, err)
		}
		if err := os.WriteFile(filepath.Join(dir, d.File), data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", d.File, err)
		}
	}
	return nil
}
