package aqicn

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"herecast/internal/types"
)

// feedEnvelope is the WAQI response wrapper. On success data holds the
// station object; on errors ("Invalid key", "Unknown station") it holds a
// bare string, so it stays raw until the status has been checked.
type feedEnvelope struct {
	Status string          `json:"status"`
	Data   json.RawMessage `json:"data"`
}

func (e feedEnvelope) decode() (*Feed, error) {
	if e.Status != "ok" {
		detail := strings.Trim(string(e.Data), `"`)
		return nil, fmt.Errorf("feed status %q: %s", e.Status, detail)
	}
	if len(e.Data) == 0 {
		return nil, fmt.Errorf("feed status ok with no data")
	}
	var f Feed
	if err := json.Unmarshal(e.Data, &f); err != nil {
		return nil, fmt.Errorf("failed to decode feed data: %w", err)
	}
	return &f, nil
}

// Feed is one station's decoded payload.
type Feed struct {
	AQI         Index                `json:"aqi"`
	Idx         int                  `json:"idx"`
	DominantPol string               `json:"dominentpol"`
	IAQI        map[string]IAQIEntry `json:"iaqi"`
	City        struct {
		Geo  []float64 `json:"geo"`
		Name string    `json:"name"`
		URL  string    `json:"url"`
	} `json:"city"`
	Attributions []Attribution `json:"attributions"`
	Time         struct {
		S   string `json:"s"`
		TZ  string `json:"tz"`
		ISO string `json:"iso"`
	} `json:"time"`
}

type IAQIEntry struct {
	V float64 `json:"v"`
}

type Attribution struct {
	URL  string `json:"url"`
	Name string `json:"name"`
}

// Index tolerates the feed's habit of reporting "-" when a station has no
// current composite value.
type Index struct {
	Value float64
	Valid bool
}

func (x *Index) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "" || s == "null" {
		x.Valid = false
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		unquoted, err := strconv.Unquote(s)
		if err != nil {
			x.Valid = false
			return nil
		}
		s = strings.TrimSpace(unquoted)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		x.Valid = false
		return nil
	}
	x.Value = v
	x.Valid = true
	return nil
}

// pollutantLabels maps feed iaqi codes to display names, in display order.
var pollutantOrder = []struct {
	Code  string
	Label string
}{
	{"pm25", "PM2.5"},
	{"pm10", "PM10"},
	{"o3", "Ozone"},
	{"no2", "NO2"},
	{"so2", "SO2"},
	{"co", "CO"},
}

// Observation is the display-ready view of a station feed.
type Observation struct {
	AQI               int
	Category          types.AQICategory
	DominantPollutant string
	Pollutants        []Pollutant
	Temperature       *types.Temperature
	Humidity          *float64
	PressureHpa       *float64
	WindMph           *float64
	ObservedAt        time.Time
	StationName       string
	StationURL        string
}

// Pollutant is one sub-index reading.
type Pollutant struct {
	Code  string
	Label string
	Index float64
}

// Observation distills the feed into display values. The second return is
// false when the station reported no composite AQI, meaning the feed carried
// no usable air data.
func (f Feed) Observation() (*Observation, bool) {
	if !f.AQI.Valid {
		return nil, false
	}

	obs := &Observation{
		AQI:               int(math.Round(f.AQI.Value)),
		DominantPollutant: f.DominantPol,
		StationName:       f.City.Name,
		StationURL:        f.City.URL,
	}
	obs.Category = types.CategoryForAQI(obs.AQI)

	if t, err := time.Parse(time.RFC3339, f.Time.ISO); err == nil {
		obs.ObservedAt = t
	}

	for _, p := range pollutantOrder {
		if entry, ok := f.IAQI[p.Code]; ok {
			obs.Pollutants = append(obs.Pollutants, Pollutant{Code: p.Code, Label: p.Label, Index: entry.V})
		}
	}

	// The iaqi block mixes pollutant indexes with raw meteorology: t is
	// degrees C, h percent, p hPa, w meters per second.
	if entry, ok := f.IAQI["t"]; ok {
		t := types.NewTemperatureFromCelsius(entry.V)
		obs.Temperature = &t
	}
	if entry, ok := f.IAQI["h"]; ok {
		h := entry.V
		obs.Humidity = &h
	}
	if entry, ok := f.IAQI["p"]; ok {
		p := entry.V
		obs.PressureHpa = &p
	}
	if entry, ok := f.IAQI["w"]; ok {
		w := entry.V * types.MpsToMph
		obs.WindMph = &w
	}

	return obs, true
}
