package conditions

import (
	"context"
	"log/slog"
	"sync"

	"herecast/internal/config"
	"herecast/internal/fetch"
	"herecast/internal/geo"
	"herecast/internal/providers/airnow"
	"herecast/internal/providers/aqicn"
	"herecast/internal/providers/nws"
)

// AirQualityProvider is the worldwide station-feed source.
type AirQualityProvider interface {
	Feed(ctx context.Context, latitude, longitude float64) fetch.Result[aqicn.Feed]
}

// WeatherProvider is the forecast, alert, and observation source. Points
// resolves the routing metadata every other call needs.
type WeatherProvider interface {
	Points(ctx context.Context, latitude, longitude float64, enabled bool) fetch.Result[nws.PointsResponse]
	Forecast(ctx context.Context, forecastURL string, enabled bool) fetch.Result[nws.ForecastResponse]
	ActiveAlerts(ctx context.Context, zoneID string, enabled bool) fetch.Result[nws.AlertsResponse]
	ZoneObservations(ctx context.Context, zoneID string, enabled bool) fetch.Result[nws.ObservationsResponse]
}

// AirForecastProvider is the reporting-area current and forecast source.
type AirForecastProvider interface {
	Current(ctx context.Context, latitude, longitude float64, enabled bool) fetch.Result[[]airnow.ObservationRecord]
	ForecastByDate(ctx context.Context, latitude, longitude float64, date string, enabled bool) fetch.Result[[]airnow.ForecastRecord]
}

// Service runs the provider calls in two concurrent rounds. Round two is
// keyed on round-one output, so callers run them in order; within a round
// every call settles independently and a failure never aborts its siblings.
type Service interface {
	Round1(ctx context.Context, client geo.Context) Round1
	Round2(ctx context.Context, client geo.Context, r1 Round1) Round2
}

type conditionsService struct {
	air     AirQualityProvider
	weather WeatherProvider
	airFc   AirForecastProvider
	logger  *slog.Logger
}

// NewService creates a conditions service with real provider clients
// sharing one bounded-fetch client.
func NewService(cfg *config.Config, logger *slog.Logger) Service {
	fetcher := fetch.NewClient(cfg.Providers.Timeout, logger)
	return NewServiceWithProviders(
		aqicn.NewClient(fetcher, cfg.Providers.AQICN.BaseURL, cfg.Providers.AQICN.Token, logger),
		nws.NewClient(fetcher, cfg.Providers.NWS.BaseURL, cfg.Providers.NWS.UserAgent, logger),
		airnow.NewClient(fetcher, cfg.Providers.AirNow.BaseURL, cfg.Providers.AirNow.APIKey, logger),
		logger,
	)
}

// NewServiceWithProviders creates a conditions service with custom providers.
// This is useful for testing with mock providers.
func NewServiceWithProviders(
	air AirQualityProvider,
	weather WeatherProvider,
	airFc AirForecastProvider,
	logger *slog.Logger,
) Service {
	return &conditionsService{
		air:     air,
		weather: weather,
		airFc:   airFc,
		logger:  logger.With("component", "conditions-service"),
	}
}

// Round1 fires the three location-independent calls concurrently and waits
// for all of them. A request with no usable coordinates settles everything
// as skipped without touching the network.
func (s *conditionsService) Round1(ctx context.Context, client geo.Context) Round1 {
	if !client.Located() {
		s.logger.Debug("request carries no coordinates, skipping all providers")
		return Round1{
			Sensor: fetch.Skipped[aqicn.Feed](""),
			Points: fetch.Skipped[nws.PointsResponse](""),
			AirNow: fetch.Skipped[[]airnow.ObservationRecord](""),
		}
	}

	var (
		wg     sync.WaitGroup
		sensor fetch.Result[aqicn.Feed]
		points fetch.Result[nws.PointsResponse]
		airNow fetch.Result[[]airnow.ObservationRecord]
	)

	latitude := client.Coords.Latitude
	longitude := client.Coords.Longitude
	us := client.USCoverage()

	wg.Add(3)

	go func() {
		defer wg.Done()
		sensor = s.air.Feed(ctx, latitude, longitude)
	}()

	go func() {
		defer wg.Done()
		points = s.weather.Points(ctx, latitude, longitude, us)
	}()

	go func() {
		defer wg.Done()
		airNow = s.airFc.Current(ctx, latitude, longitude, us)
	}()

	wg.Wait()

	s.logger.Debug("round one settled",
		"sensor_ok", sensor.OK(),
		"points_ok", points.OK(),
		"airnow_ok", airNow.OK(),
	)

	return Round1{Sensor: sensor, Points: points, AirNow: airNow}
}

// Round2 fires the dependent calls concurrently: the three weather products
// keyed on the points lookup and the air forecast keyed on the current
// reading's date. Branches whose round-one dependency failed settle as
// skipped without touching the network.
func (s *conditionsService) Round2(ctx context.Context, client geo.Context, r1 Round1) Round2 {
	var loc nws.Location
	weatherReady := false
	if r1.Points.OK() {
		loc, weatherReady = r1.Points.Value.Location()
	}

	date := ""
	airReady := false
	if r1.AirNow.OK() {
		date, airReady = airnow.ObservationDate(r1.AirNow.Value)
	}

	var (
		wg       sync.WaitGroup
		forecast fetch.Result[nws.ForecastResponse]
		alerts   fetch.Result[nws.AlertsResponse]
		obs      fetch.Result[nws.ObservationsResponse]
		airFc    fetch.Result[[]airnow.ForecastRecord]
	)

	wg.Add(4)

	go func() {
		defer wg.Done()
		forecast = s.weather.Forecast(ctx, loc.ForecastURL, weatherReady)
	}()

	go func() {
		defer wg.Done()
		alerts = s.weather.ActiveAlerts(ctx, loc.AlertZoneID(), weatherReady)
	}()

	go func() {
		defer wg.Done()
		obs = s.weather.ZoneObservations(ctx, loc.ForecastZoneID, weatherReady)
	}()

	go func() {
		defer wg.Done()
		airFc = s.airFc.ForecastByDate(ctx, client.Coords.Latitude, client.Coords.Longitude, date, airReady)
	}()

	wg.Wait()

	s.logger.Debug("round two settled",
		"forecast_ok", forecast.OK(),
		"alerts_ok", alerts.OK(),
		"observations_ok", obs.OK(),
		"airnow_forecast_ok", airFc.OK(),
	)

	return Round2{Forecast: forecast, Alerts: alerts, Observations: obs, AirNowForecast: airFc}
}
