package source

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/couchcryptid/covid19-tracker-bot/internal/domain"
	"github.com/couchcryptid/covid19-tracker-bot/internal/observability"
)

// maxBodySize caps provider responses. The largest document, the district
// breakdown, is well under this.
const maxBodySize = 16 << 20

const userAgent = "covid19-tracker-bot/1.0"

// Fetcher retrieves a provider document by URL.
type Fetcher interface {
	Fetch(ctx context.Context, p domain.Provider, url string) ([]byte, error)
}

// Client fetches provider documents over HTTP.
type Client struct {
	httpClient *http.Client
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates a provider HTTP client.
func NewClient(timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		metrics: metrics,
		logger:  logger,
	}
}

// Fetch GETs url and returns the response body. Failures wrap
// domain.ErrFetchFailed.
func (c *Client) Fetch(ctx context.Context, p domain.Provider, url string) ([]byte, error) {
	start := time.Now()
	body, err := c.doRequest(ctx, url)
	c.metrics.FetchDuration.WithLabelValues(string(p)).Observe(time.Since(start).Seconds())

	if err != nil {
		c.metrics.FetchRequests.WithLabelValues(string(p), "error").Inc()
		c.logger.Error("provider fetch failed", "provider", p, "url", url, "error", err)
		return nil, fmt.Errorf("fetch %s: %w: %w", p, domain.ErrFetchFailed, err)
	}

	c.metrics.FetchRequests.WithLabelValues(string(p), "success").Inc()
	c.logger.Debug("provider fetch", "provider", p, "bytes", len(body), "duration", time.Since(start))
	return body, nil
}

func (c *Client) doRequest(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("status %d: %s", resp.StatusCode, snippet)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return body, nil
}

// getJSON fetches url and decodes it into v. A document that does not decode
// is treated like a failed fetch.
func getJSON(ctx context.Context, f Fetcher, p domain.Provider, url string, v any) error {
	body, err := f.Fetch(ctx, p, url)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("decode %s: %w: %w", p, domain.ErrFetchFailed, err)
	}
	return nil
}
