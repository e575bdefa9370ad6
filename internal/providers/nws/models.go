package nws

import (
	"strings"
	"time"
)

type PointsResponse struct {
	Properties struct {
		GridID              string `json:"gridId"`
		GridX               int    `json:"gridX"`
		GridY               int    `json:"gridY"`
		Forecast            string `json:"forecast"`
		ForecastHourly      string `json:"forecastHourly"`
		ForecastZone        string `json:"forecastZone"`
		County              string `json:"county"`
		ObservationStations string `json:"observationStations"`
		RadarStation        string `json:"radarStation"`
		TimeZone            string `json:"timeZone"`
		RelativeLocation    struct {
			Properties struct {
				City  string `json:"city"`
				State string `json:"state"`
			} `json:"properties"`
		} `json:"relativeLocation"`
	} `json:"properties"`
}

// Location is the forecast routing metadata distilled from a points
// response. Zone identifiers are the bare ids ("COZ040"), not URLs.
type Location struct {
	GridID         string
	RadarStation   string
	TimeZone       string
	City           string
	State          string
	ForecastURL    string
	ForecastZoneID string
	CountyZoneID   string
}

// Location extracts the routing metadata. The second return is false when
// the payload carries neither a forecast URL nor any zone to key dependent
// calls on, which makes the whole chain unusable.
func (p PointsResponse) Location() (Location, bool) {
	props := p.Properties
	loc := Location{
		GridID:         props.GridID,
		RadarStation:   props.RadarStation,
		TimeZone:       props.TimeZone,
		City:           props.RelativeLocation.Properties.City,
		State:          props.RelativeLocation.Properties.State,
		ForecastURL:    props.Forecast,
		ForecastZoneID: tailID(props.ForecastZone),
		CountyZoneID:   tailID(props.County),
	}
	if loc.ForecastURL == "" && loc.ForecastZoneID == "" && loc.CountyZoneID == "" {
		return Location{}, false
	}
	return loc, true
}

// AlertZoneID picks the zone for active-alert lookups: the county zone when
// present, else the forecast zone.
func (l Location) AlertZoneID() string {
	if l.CountyZoneID != "" {
		return l.CountyZoneID
	}
	return l.ForecastZoneID
}

type ForecastResponse struct {
	Properties struct {
		Updated time.Time        `json:"updated"`
		Periods []ForecastPeriod `json:"periods"`
	} `json:"properties"`
}

type ForecastPeriod struct {
	Number                     int               `json:"number"`
	Name                       string            `json:"name"`
	StartTime                  time.Time         `json:"startTime"`
	EndTime                    time.Time         `json:"endTime"`
	IsDaytime                  bool              `json:"isDaytime"`
	Temperature                int               `json:"temperature"`
	TemperatureUnit            string            `json:"temperatureUnit"`
	WindSpeed                  string            `json:"windSpeed"`
	WindDirection              string            `json:"windDirection"`
	Icon                       string            `json:"icon"`
	ShortForecast              string            `json:"shortForecast"`
	DetailedForecast           string            `json:"detailedForecast"`
	ProbabilityOfPrecipitation QuantitativeValue `json:"probabilityOfPrecipitation"`
}

type AlertsResponse struct {
	Title    string         `json:"title"`
	Updated  time.Time      `json:"updated"`
	Features []AlertFeature `json:"features"`
}

type AlertFeature struct {
	ID         string          `json:"id"`
	Properties AlertProperties `json:"properties"`
}

type AlertProperties struct {
	Event       string     `json:"event"`
	Severity    string     `json:"severity"`
	Certainty   string     `json:"certainty"`
	Urgency     string     `json:"urgency"`
	Headline    string     `json:"headline"`
	Description string     `json:"description"`
	Instruction string     `json:"instruction"`
	Response    string     `json:"response"`
	AreaDesc    string     `json:"areaDesc"`
	SenderName  string     `json:"senderName"`
	Onset       *time.Time `json:"onset"`
	Expires     *time.Time `json:"expires"`
	Ends        *time.Time `json:"ends"`
}

type ObservationsResponse struct {
	Features []ObservationFeature `json:"features"`
}

type ObservationFeature struct {
	Properties ObservationProperties `json:"properties"`
}

type ObservationProperties struct {
	Station          string            `json:"station"`
	Timestamp        time.Time         `json:"timestamp"`
	TextDescription  string            `json:"textDescription"`
	Temperature      QuantitativeValue `json:"temperature"`
	Dewpoint         QuantitativeValue `json:"dewpoint"`
	WindDirection    QuantitativeValue `json:"windDirection"`
	WindSpeed        QuantitativeValue `json:"windSpeed"`
	RelativeHumidity QuantitativeValue `json:"relativeHumidity"`
}

// StationID returns the bare station identifier from the station URL.
func (o ObservationProperties) StationID() string {
	return tailID(o.Station)
}

// LatestObservation returns the newest observation carrying a temperature
// reading; stations regularly report with null values.
func (o ObservationsResponse) LatestObservation() (*ObservationProperties, bool) {
	for i := range o.Features {
		p := &o.Features[i].Properties
		if _, ok := p.Temperature.Get(); ok {
			return p, true
		}
	}
	return nil, false
}

// QuantitativeValue is the API's unit-tagged nullable measurement.
type QuantitativeValue struct {
	UnitCode string   `json:"unitCode"`
	Value    *float64 `json:"value"`
}

// Get returns the measurement value and whether one was reported.
func (q QuantitativeValue) Get() (float64, bool) {
	if q.Value == nil {
		return 0, false
	}
	return *q.Value, true
}

func tailID(resourceURL string) string {
	if resourceURL == "" {
		return ""
	}
	if i := strings.LastIndexByte(resourceURL, '/'); i >= 0 {
		return resourceURL[i+1:]
	}
	return resourceURL
}
