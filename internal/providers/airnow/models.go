package airnow

import (
	"strings"

	"herecast/internal/types"
)

// Category is the band descriptor attached to every record. Number follows
// the EPA scale (1 Good through 6 Hazardous; 7 means unavailable).
type Category struct {
	Number int    `json:"Number"`
	Name   string `json:"Name"`
}

// Band maps the category number onto the shared EPA scale. Out-of-range
// numbers, including the provider's 7 for unavailable, map to unknown.
func (c Category) Band() types.AQICategory {
	if c.Number < int(types.AQIGood) || c.Number > int(types.AQIHazardous) {
		return types.AQIUnknown
	}
	return types.AQICategory(c.Number)
}

// ObservationRecord is one per-pollutant current reading. The provider pads
// DateObserved with a trailing space ("2026-08-24 "); Date trims it.
type ObservationRecord struct {
	DateObserved  string   `json:"DateObserved"`
	HourObserved  int      `json:"HourObserved"`
	LocalTimeZone string   `json:"LocalTimeZone"`
	ReportingArea string   `json:"ReportingArea"`
	StateCode     string   `json:"StateCode"`
	Latitude      float64  `json:"Latitude"`
	Longitude     float64  `json:"Longitude"`
	ParameterName string   `json:"ParameterName"`
	AQI           int      `json:"AQI"`
	Category      Category `json:"Category"`
}

// Date returns the observation date as YYYY-MM-DD.
func (r ObservationRecord) Date() string {
	return strings.TrimSpace(r.DateObserved)
}

// ObservationDate returns the calendar date shared by the records of one
// current-reading response. The forecast-by-date call is keyed on it.
// False when the response carried no records.
func ObservationDate(records []ObservationRecord) (string, bool) {
	if len(records) == 0 {
		return "", false
	}
	date := records[0].Date()
	return date, date != ""
}

// ForecastRecord is one per-pollutant, per-day forecast entry. AQI is -1
// when the forecast is categorical only.
type ForecastRecord struct {
	DateIssue     string   `json:"DateIssue"`
	DateForecast  string   `json:"DateForecast"`
	ReportingArea string   `json:"ReportingArea"`
	StateCode     string   `json:"StateCode"`
	Latitude      float64  `json:"Latitude"`
	Longitude     float64  `json:"Longitude"`
	ParameterName string   `json:"ParameterName"`
	AQI           int      `json:"AQI"`
	Category      Category `json:"Category"`
	ActionDay     bool     `json:"ActionDay"`
	Discussion    string   `json:"Discussion"`
}

// Date returns the forecast target date as YYYY-MM-DD.
func (r ForecastRecord) Date() string {
	return strings.TrimSpace(r.DateForecast)
}

// HasAQI reports whether the record carries a numeric index alongside its
// category band.
func (r ForecastRecord) HasAQI() bool {
	return r.AQI >= 0
}

// ForecastDay groups the forecast records targeting one calendar date.
type ForecastDay struct {
	Date    string
	Records []ForecastRecord
}

// GroupByDate splits forecast records into per-day groups, keeping the
// provider's day order and the per-pollutant order within each day.
func GroupByDate(records []ForecastRecord) []ForecastDay {
	var days []ForecastDay
	index := map[string]int{}
	for _, record := range records {
		date := record.Date()
		i, ok := index[date]
		if !ok {
			i = len(days)
			index[date] = i
			days = append(days, ForecastDay{Date: date})
		}
		days[i].Records = append(days[i].Records, record)
	}
	return days
}
