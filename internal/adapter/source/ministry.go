package source

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/couchcryptid/covid19-tracker-bot/internal/domain"
)

// MinistryAPI reads the MoHFW datanew.json feed.
type MinistryAPI struct {
	fetcher Fetcher
	url     string
}

// NewMinistryAPI creates a MoHFW API source.
func NewMinistryAPI(f Fetcher, url string) *MinistryAPI {
	return &MinistryAPI{fetcher: f, url: url}
}

// Records returns every entry of the feed.
func (m *MinistryAPI) Records(ctx context.Context) ([]domain.MinistryRecord, error) {
	var recs []domain.MinistryRecord
	if err := getJSON(ctx, m.fetcher, domain.ProviderMinistryAPI, m.url, &recs); err != nil {
		return nil, err
	}
	return recs, nil
}

// MinistrySite scrapes the state-wise table from the MoHFW home page.
type MinistrySite struct {
	fetcher Fetcher
	url     string
}

// NewMinistrySite creates a MoHFW website source.
func NewMinistrySite(f Fetcher, url string) *MinistrySite {
	return &MinistrySite{fetcher: f, url: url}
}

// siteColumns is the cell count of a state row: serial number, name, active,
// recovered, deceased, confirmed.
const siteColumns = 6

// Rows returns the raw text of every state row in the table. Header, footer
// and note rows have a different cell count and are dropped.
func (m *MinistrySite) Rows(ctx context.Context) ([]domain.MinistrySiteRow, error) {
	body, err := m.fetcher.Fetch(ctx, domain.ProviderMinistrySite, m.url)
	if err != nil {
		return nil, err
	}
	return parseMinistryTable(body)
}

func parseMinistryTable(body []byte) ([]domain.MinistrySiteRow, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w: %w", domain.ProviderMinistrySite, domain.ErrFetchFailed, err)
	}

	table := doc.Find("table.table-striped").First()
	if table.Length() == 0 {
		return nil, fmt.Errorf("parse %s: %w: state table not found", domain.ProviderMinistrySite, domain.ErrFetchFailed)
	}

	var rows []domain.MinistrySiteRow
	table.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		cells := tr.Find("td")
		if cells.Length() != siteColumns {
			return
		}
		text := func(i int) string { return strings.TrimSpace(cells.Eq(i).Text()) }
		rows = append(rows, domain.MinistrySiteRow{
			Name:      text(1),
			Active:    text(2),
			Recovered: text(3),
			Deceased:  text(4),
			Confirmed: text(5),
		})
	})
	return rows, nil
}
