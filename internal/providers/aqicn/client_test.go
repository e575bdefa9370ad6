package aqicn

import (
	"context"
	"io"
	"log/slog"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"herecast/internal/fetch"
	"herecast/internal/types"
)

const feedBody = `{
  "status": "ok",
  "data": {
    "aqi": 152,
    "idx": 7397,
    "attributions": [
      {"url": "http://www.colorado.gov/airquality/", "name": "Colorado Department of Public Health and Environment"}
    ],
    "city": {
      "geo": [39.7392, -104.9903],
      "name": "Denver - CAMP, Colorado",
      "url": "https://aqicn.org/city/usa/colorado/denver-camp"
    },
    "dominentpol": "pm25",
    "iaqi": {
      "co": {"v": 2.6},
      "h": {"v": 24.5},
      "no2": {"v": 9.5},
      "o3": {"v": 36.4},
      "p": {"v": 1013.1},
      "pm10": {"v": 57},
      "pm25": {"v": 152},
      "so2": {"v": 1.2},
      "t": {"v": 31.2},
      "w": {"v": 2.1}
    },
    "time": {"s": "2026-08-24 15:00:00", "tz": "-06:00", "iso": "2026-08-24T15:00:00-06:00"}
  }
}`

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestClient(serverURL, token string) *Client {
	return NewClient(fetch.NewClient(fetch.DefaultTimeout, testLogger()), serverURL, token, testLogger())
}

func TestClient_Feed(t *testing.T) {
	var gotPath, gotToken string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotToken = r.URL.Query().Get("token")
		_, _ = w.Write([]byte(feedBody))
	}))
	defer server.Close()

	client := newTestClient(server.URL, "secret-token")
	result := client.Feed(context.Background(), 39.7392, -104.9847)

	if !result.OK() {
		t.Fatalf("Feed() err = %v, want success", result.Err)
	}
	if gotPath != "/feed/geo:39.7392;-104.9847/" {
		t.Errorf("path = %q, want /feed/geo:39.7392;-104.9847/", gotPath)
	}
	if gotToken != "secret-token" {
		t.Errorf("token = %q, want secret-token", gotToken)
	}

	obs, ok := result.Value.Observation()
	if !ok {
		t.Fatal("Observation() ok = false, want true")
	}
	if obs.AQI != 152 {
		t.Errorf("AQI = %d, want 152", obs.AQI)
	}
	if obs.Category != types.AQIUnhealthy {
		t.Errorf("Category = %v, want %v", obs.Category, types.AQIUnhealthy)
	}
	if obs.DominantPollutant != "pm25" {
		t.Errorf("DominantPollutant = %q, want pm25", obs.DominantPollutant)
	}
	if obs.StationName != "Denver - CAMP, Colorado" {
		t.Errorf("StationName = %q", obs.StationName)
	}

	// Pollutants keep display order and exclude the meteorology entries.
	wantPollutants := []string{"PM2.5", "PM10", "Ozone", "NO2", "SO2", "CO"}
	if len(obs.Pollutants) != len(wantPollutants) {
		t.Fatalf("pollutants = %d, want %d", len(obs.Pollutants), len(wantPollutants))
	}
	for i, want := range wantPollutants {
		if obs.Pollutants[i].Label != want {
			t.Errorf("Pollutants[%d].Label = %q, want %q", i, obs.Pollutants[i].Label, want)
		}
	}

	if obs.Temperature == nil || math.Abs(obs.Temperature.Celsius-31.2) > 0.01 {
		t.Errorf("Temperature = %+v, want 31.2C", obs.Temperature)
	}
	if obs.Humidity == nil || *obs.Humidity != 24.5 {
		t.Errorf("Humidity = %v, want 24.5", obs.Humidity)
	}
	if obs.WindMph == nil || math.Abs(*obs.WindMph-2.1*types.MpsToMph) > 0.001 {
		t.Errorf("WindMph = %v, want 2.1 m/s converted", obs.WindMph)
	}

	wantTime := time.Date(2026, 8, 24, 15, 0, 0, 0, time.FixedZone("", -6*3600))
	if !obs.ObservedAt.Equal(wantTime) {
		t.Errorf("ObservedAt = %v, want %v", obs.ObservedAt, wantTime)
	}
}

func TestClient_Feed_NoCompositeIndex(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status": "ok", "data": {"aqi": "-", "idx": 1, "city": {"name": "Quiet Station"}, "iaqi": {}}}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL, "secret-token")
	result := client.Feed(context.Background(), 39.7392, -104.9847)

	if !result.OK() {
		t.Fatalf("Feed() err = %v, want success", result.Err)
	}
	if _, ok := result.Value.Observation(); ok {
		t.Error("Observation() ok = true, want false for dash index")
	}
}

func TestClient_Feed_ErrorEnvelope(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status": "error", "data": "Invalid key"}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL, "bad-token")
	result := client.Feed(context.Background(), 39.7392, -104.9847)

	if result.OK() {
		t.Fatal("Feed() succeeded on error envelope, want invalid")
	}
	if result.Err.Kind != fetch.FailInvalid {
		t.Errorf("Err.Kind = %v, want %v", result.Err.Kind, fetch.FailInvalid)
	}
}

func TestClient_Feed_MissingTokenSkips(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		_, _ = w.Write([]byte(feedBody))
	}))
	defer server.Close()

	client := newTestClient(server.URL, "")
	result := client.Feed(context.Background(), 39.7392, -104.9847)

	if !result.Skipped() {
		t.Fatalf("result err = %v, want skipped", result.Err)
	}
	if calls != 0 {
		t.Errorf("upstream saw %d calls, want 0", calls)
	}
}

func TestIndex_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantValue float64
		wantValid bool
	}{
		{"number", `42`, 42, true},
		{"decimal", `48.5`, 48.5, true},
		{"numeric string", `"17"`, 17, true},
		{"dash placeholder", `"-"`, 0, false},
		{"empty string", `""`, 0, false},
		{"null", `null`, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var x Index
			if err := x.UnmarshalJSON([]byte(tt.input)); err != nil {
				t.Fatalf("UnmarshalJSON(%s) error = %v", tt.input, err)
			}
			if x.Valid != tt.wantValid {
				t.Errorf("Valid = %v, want %v", x.Valid, tt.wantValid)
			}
			if tt.wantValid && x.Value != tt.wantValue {
				t.Errorf("Value = %v, want %v", x.Value, tt.wantValue)
			}
		})
	}
}
