package conditions

import (
	"fmt"
	"time"

	"herecast/internal/fetch"
	"herecast/internal/meteo"
	"herecast/internal/providers/airnow"
	"herecast/internal/providers/aqicn"
	"herecast/internal/providers/nws"
	"herecast/internal/types"
)

// Round1 holds the outcomes of the location-independent provider calls.
// Every field settles, success or not, before the round returns.
type Round1 struct {
	Sensor fetch.Result[aqicn.Feed]
	Points fetch.Result[nws.PointsResponse]
	AirNow fetch.Result[[]airnow.ObservationRecord]
}

// Round2 holds the outcomes of the calls keyed on round-1 output.
type Round2 struct {
	Forecast       fetch.Result[nws.ForecastResponse]
	Alerts         fetch.Result[nws.AlertsResponse]
	Observations   fetch.Result[nws.ObservationsResponse]
	AirNowForecast fetch.Result[[]airnow.ForecastRecord]
}

// DerivedMetrics are the second-order values computed from whichever
// measurements arrived. A metric whose preconditions did not hold is nil,
// never zero.
type DerivedMetrics struct {
	HeatIndexF *float64
	DewPointF  *float64
	WindChillF *float64
}

// CurrentConditions is the merged view behind the current-conditions
// section. Absent provider data stays absent.
type CurrentConditions struct {
	Air     *aqicn.Observation
	AirNow  []airnow.ObservationRecord
	Derived DerivedMetrics
}

// HasData reports whether the section has anything to show.
func (c CurrentConditions) HasData() bool {
	return c.Air != nil || len(c.AirNow) > 0
}

// StationObservation is the display view of the freshest usable station
// report in the forecast zone.
type StationObservation struct {
	StationID   string
	ObservedAt  time.Time
	Description string
	Temperature *types.Temperature
	DewPoint    *types.Temperature
	Wind        *types.Wind
	Humidity    *float64
}

// Outlook is the merged view behind the forecast and alerts section.
// Alerts distinguishes three states: AlertsOK false means the alert call
// did not produce an answer, AlertsOK true with an empty slice means no
// alerts are in effect.
type Outlook struct {
	Location *nws.Location
	Periods  []nws.ForecastPeriod
	AlertsOK bool
	Alerts   []nws.AlertProperties
	Station  *StationObservation
	AirDays  []airnow.ForecastDay
}

// HasData reports whether the section has anything to show.
func (o Outlook) HasData() bool {
	return len(o.Periods) > 0 || o.AlertsOK || o.Station != nil || len(o.AirDays) > 0
}

// BuildCurrent merges round-1 outcomes into the current-conditions view.
func BuildCurrent(r1 Round1) CurrentConditions {
	var view CurrentConditions

	if r1.Sensor.OK() {
		if obs, ok := r1.Sensor.Value.Observation(); ok {
			view.Air = obs
		}
	}
	if r1.AirNow.OK() {
		view.AirNow = r1.AirNow.Value
	}
	view.Derived = deriveMetrics(view.Air)

	return view
}

// deriveMetrics computes heat index, dew point, and wind chill from the
// sensor reading. Each calculator owns its activation thresholds.
func deriveMetrics(obs *aqicn.Observation) DerivedMetrics {
	var m DerivedMetrics
	if obs == nil || obs.Temperature == nil {
		return m
	}
	tempF := obs.Temperature.Fahrenheit

	if obs.Humidity != nil {
		if hi, ok := meteo.HeatIndex(tempF, *obs.Humidity); ok {
			m.HeatIndexF = &hi
		}
		if dp, ok := meteo.DewPoint(tempF, *obs.Humidity); ok {
			m.DewPointF = &dp
		}
	}
	if obs.WindMph != nil {
		if wc, ok := meteo.WindChill(tempF, *obs.WindMph); ok {
			m.WindChillF = &wc
		}
	}

	return m
}

// BuildOutlook merges round-2 outcomes, plus the round-1 points lookup the
// section's location line and radar embed come from, into the outlook view.
func BuildOutlook(r1 Round1, r2 Round2) Outlook {
	var view Outlook

	if r1.Points.OK() {
		if loc, ok := r1.Points.Value.Location(); ok {
			view.Location = &loc
		}
	}
	if r2.Forecast.OK() {
		view.Periods = r2.Forecast.Value.Properties.Periods
	}
	if r2.Alerts.OK() {
		view.AlertsOK = true
		view.Alerts = make([]nws.AlertProperties, 0, len(r2.Alerts.Value.Features))
		for _, feature := range r2.Alerts.Value.Features {
			view.Alerts = append(view.Alerts, feature.Properties)
		}
	}
	if r2.Observations.OK() {
		if latest, ok := r2.Observations.Value.LatestObservation(); ok {
			view.Station = stationView(latest)
		}
	}
	if r2.AirNowForecast.OK() {
		view.AirDays = airnow.GroupByDate(r2.AirNowForecast.Value)
	}

	return view
}

// stationView converts a raw station report into display units. Wind needs
// both speed and direction to render a cardinal, so either missing drops it.
func stationView(p *nws.ObservationProperties) *StationObservation {
	view := &StationObservation{
		StationID:   p.StationID(),
		ObservedAt:  p.Timestamp,
		Description: p.TextDescription,
	}
	if v, ok := p.Temperature.Get(); ok {
		t := types.NewTemperatureFromCelsius(v)
		view.Temperature = &t
	}
	if v, ok := p.Dewpoint.Get(); ok {
		t := types.NewTemperatureFromCelsius(v)
		view.DewPoint = &t
	}
	if speed, ok := p.WindSpeed.Get(); ok {
		if degrees, ok := p.WindDirection.Get(); ok {
			w := types.NewWindFromKph(speed, degrees)
			view.Wind = &w
		}
	}
	if v, ok := p.RelativeHumidity.Get(); ok {
		view.Humidity = &v
	}
	return view
}

// CallStatus classifies how one provider call ended, for the footer
// summary. Failed means the call itself did not complete; NoData means it
// completed but carried nothing usable.
type CallStatus int

const (
	StatusSkipped CallStatus = iota
	StatusFailed
	StatusNoData
	StatusOK
)

func (s CallStatus) String() string {
	switch s {
	case StatusSkipped:
		return "skipped"
	case StatusFailed:
		return "failed"
	case StatusNoData:
		return "no data"
	case StatusOK:
		return "ok"
	default:
		return fmt.Sprintf("unknown (%d)", int(s))
	}
}

// ProviderStatus is one line of the footer summary.
type ProviderStatus struct {
	Provider string
	Call     string
	Status   CallStatus
	Detail   string
}

// Statuses reduces both rounds to the fixed-order footer summary, one entry
// per provider call.
func Statuses(r1 Round1, r2 Round2) []ProviderStatus {
	sensorHasData := false
	if r1.Sensor.OK() {
		_, sensorHasData = r1.Sensor.Value.Observation()
	}
	obsHasData := false
	if r2.Observations.OK() {
		_, obsHasData = r2.Observations.Value.LatestObservation()
	}

	return []ProviderStatus{
		callStatus("WAQI", "station feed", r1.Sensor, sensorHasData),
		callStatus("NWS", "points", r1.Points, r1.Points.OK()),
		callStatus("NWS", "forecast", r2.Forecast, r2.Forecast.OK()),
		callStatus("NWS", "alerts", r2.Alerts, r2.Alerts.OK() && len(r2.Alerts.Value.Features) > 0),
		callStatus("NWS", "observations", r2.Observations, obsHasData),
		callStatus("AirNow", "current", r1.AirNow, r1.AirNow.OK() && len(r1.AirNow.Value) > 0),
		callStatus("AirNow", "forecast", r2.AirNowForecast, r2.AirNowForecast.OK() && len(r2.AirNowForecast.Value) > 0),
	}
}

// callStatus folds one settled result and its data-presence check into a
// footer line with a short failure detail.
func callStatus[T any](provider, call string, result fetch.Result[T], hasData bool) ProviderStatus {
	status := ProviderStatus{Provider: provider, Call: call}

	if result.Err != nil {
		switch result.Err.Kind {
		case fetch.FailSkipped:
			status.Status = StatusSkipped
		case fetch.FailInvalid:
			status.Status = StatusNoData
		case fetch.FailHTTP:
			status.Status = StatusFailed
			status.Detail = fmt.Sprintf("http %d", result.Err.Status)
		default:
			status.Status = StatusFailed
			status.Detail = result.Err.Kind.String()
		}
		return status
	}

	if !hasData {
		status.Status = StatusNoData
		return status
	}
	status.Status = StatusOK
	return status
}
