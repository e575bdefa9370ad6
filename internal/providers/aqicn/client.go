package aqicn

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"golang.org/x/time/rate"

	"herecast/internal/fetch"
)

// API Docs: https://aqicn.org/json-api/doc/
// Sample request:
// - https://api.waqi.info/feed/geo:39.7392;-104.9847/?token=TOKEN
const defaultBaseURL = "https://api.waqi.info"

type Client struct {
	fetcher *fetch.Client
	baseURL string
	token   string
	limiter *rate.Limiter
	logger  *slog.Logger
}

// NewClient builds a WAQI feed client. An empty token disables the client
// and every call settles as skipped.
func NewClient(fetcher *fetch.Client, baseURL, token string, logger *slog.Logger) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		fetcher: fetcher,
		baseURL: baseURL,
		token:   token,
		// The free tier allows 1000 calls per second; one per second with a
		// little burst headroom is far more than one page ever needs.
		limiter: rate.NewLimiter(rate.Limit(1), 3),
		logger:  logger.With("component", "aqicn-client"),
	}
}

// Feed fetches the station feed nearest the coordinates. This provider has
// worldwide coverage and is never region-gated.
func (c *Client) Feed(ctx context.Context, latitude, longitude float64) fetch.Result[Feed] {
	rawURL := fmt.Sprintf("%s/feed/geo:%.4f;%.4f/?token=%s", c.baseURL, latitude, longitude, url.QueryEscape(c.token))
	req, err := http.NewRequest(http.MethodGet, rawURL, nil)
	if err != nil {
		return fetch.Failure[Feed](fetch.FailUnreachable, rawURL, 0, err)
	}
	safeURL := fetch.RedactURL(req.URL)

	enabled := c.token != ""
	if enabled {
		if err := c.limiter.Wait(ctx); err != nil {
			return fetch.Failure[Feed](fetch.FailTimeout, safeURL, 0, err)
		}
	}

	envelope := fetch.JSON[feedEnvelope](ctx, c.fetcher, req, enabled)
	if !envelope.OK() {
		return fetch.Result[Feed]{FetchedAt: envelope.FetchedAt, Err: envelope.Err}
	}

	feed, err := envelope.Value.decode()
	if err != nil {
		c.logger.Warn("feed payload not usable", "url", safeURL, "error", err)
		return fetch.Invalid[Feed](safeURL, err)
	}

	return fetch.Result[Feed]{Value: *feed, FetchedAt: envelope.FetchedAt}
}
