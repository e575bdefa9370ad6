package nws

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"golang.org/x/time/rate"

	"herecast/internal/fetch"
)

// API Docs: https://www.weather.gov/documentation/services-web-api
// Sample requests:
// - https://api.weather.gov/points/39.7392,-104.9847
// - https://api.weather.gov/alerts/active/zone/COC031
// - https://api.weather.gov/zones/forecast/COZ040/observations?limit=25
const defaultBaseURL = "https://api.weather.gov"

// observationLimit bounds the zone observation listing; the newest entries
// come first and only the freshest usable one is displayed.
const observationLimit = 25

type Client struct {
	fetcher   *fetch.Client
	baseURL   string
	userAgent string
	limiter   *rate.Limiter
	logger    *slog.Logger
}

// NewClient builds an api.weather.gov client. The API has no keys; it asks
// callers to identify themselves with a contact User-Agent instead, so an
// empty userAgent disables the client and every call settles as skipped.
func NewClient(fetcher *fetch.Client, baseURL, userAgent string, logger *slog.Logger) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		fetcher:   fetcher,
		baseURL:   baseURL,
		userAgent: userAgent,
		// The service asks unauthenticated clients to stay near 1 rps.
		limiter: rate.NewLimiter(rate.Limit(1), 5),
		logger:  logger.With("component", "nws-client"),
	}
}

// Points resolves a coordinate pair into forecast routing metadata: the
// forecast product URL, the forecast and county zones, the radar station.
// Everything else this client fetches depends on it.
func (c *Client) Points(ctx context.Context, latitude, longitude float64, enabled bool) fetch.Result[PointsResponse] {
	rawURL := fmt.Sprintf("%s/points/%.4f,%.4f", c.baseURL, latitude, longitude)

	result := getJSON[PointsResponse](ctx, c, rawURL, enabled)
	if result.OK() {
		if _, ok := result.Value.Location(); !ok {
			c.logger.Warn("points payload missing routing fields", "url", rawURL)
			return fetch.Invalid[PointsResponse](rawURL, errors.New("points payload missing forecast routing fields"))
		}
	}
	return result
}

// Forecast fetches the period forecast product at the URL the points call
// returned. An empty URL settles as skipped.
func (c *Client) Forecast(ctx context.Context, forecastURL string, enabled bool) fetch.Result[ForecastResponse] {
	if forecastURL == "" {
		return fetch.Skipped[ForecastResponse](c.baseURL + "/gridpoints")
	}

	result := getJSON[ForecastResponse](ctx, c, forecastURL, enabled)
	if result.OK() && len(result.Value.Properties.Periods) == 0 {
		c.logger.Warn("forecast payload has no periods", "url", forecastURL)
		return fetch.Invalid[ForecastResponse](forecastURL, errors.New("forecast payload has no periods"))
	}
	return result
}

// ActiveAlerts fetches the active alerts for a zone. An empty feature list
// is a valid answer meaning no alerts are in effect.
func (c *Client) ActiveAlerts(ctx context.Context, zoneID string, enabled bool) fetch.Result[AlertsResponse] {
	rawURL := fmt.Sprintf("%s/alerts/active/zone/%s", c.baseURL, zoneID)
	if zoneID == "" {
		return fetch.Skipped[AlertsResponse](rawURL)
	}
	return getJSON[AlertsResponse](ctx, c, rawURL, enabled)
}

// ZoneObservations fetches recent station observations for a forecast zone,
// newest first.
func (c *Client) ZoneObservations(ctx context.Context, zoneID string, enabled bool) fetch.Result[ObservationsResponse] {
	rawURL := fmt.Sprintf("%s/zones/forecast/%s/observations?limit=%d", c.baseURL, zoneID, observationLimit)
	if zoneID == "" {
		return fetch.Skipped[ObservationsResponse](rawURL)
	}
	return getJSON[ObservationsResponse](ctx, c, rawURL, enabled)
}

func getJSON[T any](ctx context.Context, c *Client, rawURL string, enabled bool) fetch.Result[T] {
	req, err := http.NewRequest(http.MethodGet, rawURL, nil)
	if err != nil {
		return fetch.Failure[T](fetch.FailUnreachable, rawURL, 0, err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/geo+json")

	enabled = enabled && c.userAgent != ""
	if enabled {
		if err := c.limiter.Wait(ctx); err != nil {
			return fetch.Failure[T](fetch.FailTimeout, rawURL, 0, err)
		}
	}
	return fetch.JSON[T](ctx, c.fetcher, req, enabled)
}
