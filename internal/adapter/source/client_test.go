package source

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/covid19-tracker-bot/internal/domain"
	"github.com/couchcryptid/covid19-tracker-bot/internal/observability"
)

const (
	contentTypeJSON   = "application/json"
	headerContentType = "Content-Type"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testClient(metrics *observability.Metrics) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 5 * time.Second},
		metrics:    metrics,
		logger:     testLogger(),
	}
}

// fixtureServer serves files from testdata by request path.
func fixtureServer(t *testing.T, routes map[string]string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name, ok := routes[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		data, err := os.ReadFile(filepath.Join("testdata", name))
		require.NoError(t, err)
		if filepath.Ext(name) == ".json" {
			w.Header().Set(headerContentType, contentTypeJSON)
		}
		_, _ = w.Write(data)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_Fetch_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, userAgent, r.Header.Get("User-Agent"))
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	m := observability.NewMetricsForTesting()
	body, err := testClient(m).Fetch(context.Background(), domain.ProviderAggregator, srv.URL)
	require.NoError(t, err)
	assert.JSONEq(t, `{"ok":true}`, string(body))
	assert.InDelta(t, 1, testutil.ToFloat64(m.FetchRequests.WithLabelValues("covid19india", "success")), 0)
}

func TestClient_Fetch_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "maintenance", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	m := observability.NewMetricsForTesting()
	_, err := testClient(m).Fetch(context.Background(), domain.ProviderMinistryAPI, srv.URL)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrFetchFailed)
	assert.Contains(t, err.Error(), "status 503")
	assert.InDelta(t, 1, testutil.ToFloat64(m.FetchRequests.WithLabelValues("mohfw-api", "error")), 0)
}

func TestClient_Fetch_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(time.Second):
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()

	c := &Client{
		httpClient: &http.Client{Timeout: 50 * time.Millisecond},
		metrics:    observability.NewMetricsForTesting(),
		logger:     testLogger(),
	}
	_, err := c.Fetch(context.Background(), domain.ProviderDisasterAPI, srv.URL)
	assert.ErrorIs(t, err, domain.ErrFetchFailed)
}

func TestAggregator_Statewise(t *testing.T) {
	srv := fixtureServer(t, map[string]string{"/data.json": "data.json"})
	a := NewAggregator(testClient(observability.NewMetricsForTesting()), srv.URL)

	recs, err := a.Statewise(context.Background())
	require.NoError(t, err)
	require.Len(t, recs, 5)
	assert.Equal(t, "Total", recs[0].State)
	assert.Equal(t, domain.Count("100"), recs[1].Confirmed)
	assert.Equal(t, "KL", recs[1].StateCode)
}

func TestAggregator_Districts(t *testing.T) {
	srv := fixtureServer(t, map[string]string{"/v2/state_district_wise.json": "state_district_wise.json"})
	a := NewAggregator(testClient(observability.NewMetricsForTesting()), srv.URL)

	states, err := a.Districts(context.Background())
	require.NoError(t, err)
	require.Len(t, states, 2)
	assert.Equal(t, "KL", states[0].StateCode)
	require.Len(t, states[0].DistrictData, 3)
	assert.Equal(t, domain.Count("3"), states[0].DistrictData[0].Delta.Confirmed)
}

func TestAggregator_BadJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<html>oops</html>`))
	}))
	defer srv.Close()

	a := NewAggregator(testClient(observability.NewMetricsForTesting()), srv.URL)
	_, err := a.Statewise(context.Background())
	assert.ErrorIs(t, err, domain.ErrFetchFailed)
}

func TestMinistryAPI_Records(t *testing.T) {
	srv := fixtureServer(t, map[string]string{"/data/datanew.json": "datanew.json"})
	m := NewMinistryAPI(testClient(observability.NewMetricsForTesting()), srv.URL+"/data/datanew.json")

	recs, err := m.Records(context.Background())
	require.NoError(t, err)
	require.Len(t, recs, 3)
	assert.Equal(t, "Telengana", recs[1].StateName)
	assert.Equal(t, domain.Count("150"), recs[1].NewPositive)
}

func TestMinistrySite_Rows(t *testing.T) {
	srv := fixtureServer(t, map[string]string{"/": "mohfw.html"})
	m := NewMinistrySite(testClient(observability.NewMetricsForTesting()), srv.URL+"/")

	rows, err := m.Rows(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, domain.MinistrySiteRow{Name: "Kerala", Active: "18", Recovered: "85", Deceased: "2", Confirmed: "105"}, rows[0])
	assert.Equal(t, "1,054#", rows[1].Recovered)
	assert.Equal(t, "Madhya Pradesh***", rows[2].Name)
	assert.Equal(t, domain.MinistrySiteRow{Name: "Cases being reassigned to states*", Active: "12", Confirmed: "12"}, rows[3])
}

func TestMinistrySite_NoTable(t *testing.T) {
	_, err := parseMinistryTable([]byte(`<html><body><p>Under maintenance</p></body></html>`))
	assert.ErrorIs(t, err, domain.ErrFetchFailed)
}

func TestDisaster_Features(t *testing.T) {
	srv := fixtureServer(t, map[string]string{"/query": "ndma.json"})
	d := NewDisaster(testClient(observability.NewMetricsForTesting()), srv.URL+"/query")

	features, err := d.Features(context.Background())
	require.NoError(t, err)
	require.Len(t, features, 4)
	assert.Equal(t, "Dadra & Nagar Haveli", features[1].Attributes.StateName)
	assert.Equal(t, domain.Count("104"), features[0].Attributes.ConfirmedCases)
	assert.Equal(t, domain.Count(""), features[3].Attributes.ConfirmedCases)
}
