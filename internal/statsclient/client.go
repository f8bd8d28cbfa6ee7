// Package statsclient is the HTTP client for the stats collector service.
package statsclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/flowchartsman/retry"
)

// DateTimeLayout is the wire format for timestamps exchanged with the
// stats collector.
const DateTimeLayout = "2006-01-02 15:04:05"

// Hit is a recorded visit to a public endpoint.
type Hit struct {
	App       string `json:"app"`
	URI       string `json:"uri"`
	IP        string `json:"ip"`
	Timestamp string `json:"timestamp"`
}

// ViewStats is an aggregate hit count for one URI.
type ViewStats struct {
	App  string `json:"app"`
	URI  string `json:"uri"`
	Hits int64  `json:"hits"`
}

// StatsClient records hits and queries aggregate view counts.
type StatsClient interface {
	// AddHit is fire-and-forget: failures are logged, never returned.
	AddHit(ctx context.Context, uri, ip string)
	Stats(ctx context.Context, start, end time.Time, uris []string, unique bool) ([]ViewStats, error)
}

// Client talks to the stats collector over HTTP.
type Client struct {
	baseURL string
	app     string
	http    *http.Client
	log     *slog.Logger
}

// New creates a stats collector client. app names this service in every
// recorded hit.
func New(baseURL, app string, logger *slog.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		app:     app,
		http:    &http.Client{Timeout: 5 * time.Second},
		log:     logger,
	}
}

// AddHit records an endpoint visit. Hit recording is best-effort: an
// unreachable collector must never fail the read path that triggered it.
func (c *Client) AddHit(ctx context.Context, uri, ip string) {
	hit := Hit{
		App:       c.app,
		URI:       uri,
		IP:        ip,
		Timestamp: time.Now().Format(DateTimeLayout),
	}

	body, err := json.Marshal(hit)
	if err != nil {
		c.log.Error("stats: marshal hit", slog.String("error", err.Error()))
		return
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/hit", bytes.NewReader(body))
	if err != nil {
		c.log.Error("stats: build hit request", slog.String("error", err.Error()))
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn("stats: hit not recorded", slog.String("uri", uri), slog.String("error", err.Error()))
		return
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= http.StatusBadRequest {
		c.log.Warn("stats: hit rejected", slog.String("uri", uri), slog.Int("status", resp.StatusCode))
	}
}

// Stats queries aggregate hit counts over [start, end] for the given URIs,
// optionally deduplicated by IP. Transient failures are retried a few times
// before the error is returned.
func (c *Client) Stats(ctx context.Context, start, end time.Time, uris []string, unique bool) ([]ViewStats, error) {
	params := url.Values{}
	params.Set("start", start.Format(DateTimeLayout))
	params.Set("end", end.Format(DateTimeLayout))
	params.Set("unique", fmt.Sprintf("%t", unique))
	for _, u := range uris {
		params.Add("uris", u)
	}
	reqURL := c.baseURL + "/stats?" + params.Encode()

	var stats []ViewStats
	retrier := retry.NewRetrier(3, 100*time.Millisecond, time.Second)
	err := retrier.RunContext(ctx, func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			return retry.Stop(err)
		}

		resp, err := c.http.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			_, _ = io.Copy(io.Discard, resp.Body)
			return fmt.Errorf("stats server returned %d", resp.StatusCode)
		}

		stats = stats[:0]
		return json.NewDecoder(resp.Body).Decode(&stats)
	})
	if err != nil {
		return nil, fmt.Errorf("query stats: %w", err)
	}
	return stats, nil
}
