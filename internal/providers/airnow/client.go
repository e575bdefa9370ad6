package airnow

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"golang.org/x/time/rate"

	"herecast/internal/fetch"
)

// API Docs: https://docs.airnowapi.org/webservices
// Sample requests:
// - https://www.airnowapi.org/aq/observation/latLong/current/?format=application/json&latitude=39.7392&longitude=-104.9847&distance=75&API_KEY=KEY
// - https://www.airnowapi.org/aq/forecast/latLong/?format=application/json&latitude=39.7392&longitude=-104.9847&date=2026-08-24&distance=75&API_KEY=KEY
const defaultBaseURL = "https://www.airnowapi.org"

// defaultDistanceMiles widens the reporting-area search enough to cover
// rural coordinates without pulling in a neighboring metro.
const defaultDistanceMiles = 75

type Client struct {
	fetcher *fetch.Client
	baseURL string
	apiKey  string
	limiter *rate.Limiter
	logger  *slog.Logger
}

// NewClient builds an airnowapi.org client. An empty API key disables the
// client and every call settles as skipped.
func NewClient(fetcher *fetch.Client, baseURL, apiKey string, logger *slog.Logger) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		fetcher: fetcher,
		baseURL: baseURL,
		apiKey:  apiKey,
		// The documented quota is 500 requests per hour per key.
		limiter: rate.NewLimiter(rate.Limit(1), 2),
		logger:  logger.With("component", "airnow-client"),
	}
}

// Current fetches the latest per-pollutant readings near the coordinates.
// The network only covers the US, so callers gate this on region coverage.
// An empty record list is a valid answer meaning no reporting area is near.
func (c *Client) Current(ctx context.Context, latitude, longitude float64, enabled bool) fetch.Result[[]ObservationRecord] {
	return getJSON[[]ObservationRecord](ctx, c, "/aq/observation/latLong/current/", c.query(latitude, longitude), enabled)
}

// ForecastByDate fetches the per-pollutant forecast targeting a calendar
// date (YYYY-MM-DD). The date comes out of the current reading, so callers
// gate this on Current succeeding; an empty date settles as skipped.
func (c *Client) ForecastByDate(ctx context.Context, latitude, longitude float64, date string, enabled bool) fetch.Result[[]ForecastRecord] {
	if date == "" {
		return fetch.Skipped[[]ForecastRecord](c.baseURL + "/aq/forecast/latLong/")
	}
	params := c.query(latitude, longitude)
	params.Set("date", date)
	return getJSON[[]ForecastRecord](ctx, c, "/aq/forecast/latLong/", params, enabled)
}

func (c *Client) query(latitude, longitude float64) url.Values {
	params := url.Values{}
	params.Set("format", "application/json")
	params.Set("latitude", fmt.Sprintf("%.4f", latitude))
	params.Set("longitude", fmt.Sprintf("%.4f", longitude))
	params.Set("distance", strconv.Itoa(defaultDistanceMiles))
	return params
}

func getJSON[T any](ctx context.Context, c *Client, path string, params url.Values, enabled bool) fetch.Result[T] {
	params.Set("API_KEY", c.apiKey)
	rawURL := c.baseURL + path + "?" + params.Encode()
	req, err := http.NewRequest(http.MethodGet, rawURL, nil)
	if err != nil {
		return fetch.Failure[T](fetch.FailUnreachable, c.baseURL+path, 0, err)
	}
	req.Header.Set("Accept", "application/json")

	enabled = enabled && c.apiKey != ""
	if enabled {
		if err := c.limiter.Wait(ctx); err != nil {
			return fetch.Failure[T](fetch.FailTimeout, fetch.RedactURL(req.URL), 0, err)
		}
	}
	return fetch.JSON[T](ctx, c.fetcher, req, enabled)
}
