package airnow

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"herecast/internal/fetch"
	"herecast/internal/types"
)

const currentBody = `[
  {"DateObserved": "2026-08-24 ", "HourObserved": 14, "LocalTimeZone": "MST", "ReportingArea": "Denver-Boulder", "StateCode": "CO", "Latitude": 39.848, "Longitude": -104.9475, "ParameterName": "O3", "AQI": 52, "Category": {"Number": 2, "Name": "Moderate"}},
  {"DateObserved": "2026-08-24 ", "HourObserved": 14, "LocalTimeZone": "MST", "ReportingArea": "Denver-Boulder", "StateCode": "CO", "Latitude": 39.848, "Longitude": -104.9475, "ParameterName": "PM2.5", "AQI": 64, "Category": {"Number": 2, "Name": "Moderate"}}
]`

const forecastBody = `[
  {"DateIssue": "2026-08-24 ", "DateForecast": "2026-08-24 ", "ReportingArea": "Denver-Boulder", "StateCode": "CO", "Latitude": 39.848, "Longitude": -104.9475, "ParameterName": "O3", "AQI": 60, "Category": {"Number": 2, "Name": "Moderate"}, "ActionDay": true, "Discussion": "Ozone Action Day Alert in effect until 4 PM Monday."},
  {"DateIssue": "2026-08-24 ", "DateForecast": "2026-08-24 ", "ReportingArea": "Denver-Boulder", "StateCode": "CO", "Latitude": 39.848, "Longitude": -104.9475, "ParameterName": "PM2.5", "AQI": -1, "Category": {"Number": 1, "Name": "Good"}, "ActionDay": false, "Discussion": ""},
  {"DateIssue": "2026-08-24 ", "DateForecast": "2026-08-25 ", "ReportingArea": "Denver-Boulder", "StateCode": "CO", "Latitude": 39.848, "Longitude": -104.9475, "ParameterName": "O3", "AQI": 48, "Category": {"Number": 1, "Name": "Good"}, "ActionDay": false, "Discussion": ""}
]`

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestClient(serverURL, apiKey string) *Client {
	return NewClient(fetch.NewClient(fetch.DefaultTimeout, testLogger()), serverURL, apiKey, testLogger())
}

func TestClient_Current(t *testing.T) {
	var gotPath string
	var gotQuery map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = map[string]string{}
		for key := range r.URL.Query() {
			gotQuery[key] = r.URL.Query().Get(key)
		}
		_, _ = w.Write([]byte(currentBody))
	}))
	defer server.Close()

	client := newTestClient(server.URL, "secret-key")
	result := client.Current(context.Background(), 39.7392, -104.9847, true)

	if !result.OK() {
		t.Fatalf("Current() err = %v, want success", result.Err)
	}
	if gotPath != "/aq/observation/latLong/current/" {
		t.Errorf("path = %q, want /aq/observation/latLong/current/", gotPath)
	}
	wantQuery := map[string]string{
		"format":    "application/json",
		"latitude":  "39.7392",
		"longitude": "-104.9847",
		"distance":  "75",
		"API_KEY":   "secret-key",
	}
	for key, want := range wantQuery {
		if gotQuery[key] != want {
			t.Errorf("query[%s] = %q, want %q", key, gotQuery[key], want)
		}
	}

	records := result.Value
	if len(records) != 2 {
		t.Fatalf("records = %d, want 2", len(records))
	}
	if records[0].ParameterName != "O3" || records[0].AQI != 52 {
		t.Errorf("records[0] = %+v, want O3 at 52", records[0])
	}
	if records[0].Date() != "2026-08-24" {
		t.Errorf("Date() = %q, want trailing space trimmed", records[0].Date())
	}
	if records[0].Category.Band() != types.AQIModerate {
		t.Errorf("Band() = %v, want %v", records[0].Category.Band(), types.AQIModerate)
	}

	date, ok := ObservationDate(records)
	if !ok || date != "2026-08-24" {
		t.Errorf("ObservationDate() = %q, %v, want 2026-08-24, true", date, ok)
	}
}

func TestClient_Current_NoNearbyArea(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	}))
	defer server.Close()

	client := newTestClient(server.URL, "secret-key")
	result := client.Current(context.Background(), 39.7392, -104.9847, true)

	if !result.OK() {
		t.Fatalf("Current() err = %v, want success", result.Err)
	}
	if len(result.Value) != 0 {
		t.Errorf("records = %d, want 0", len(result.Value))
	}
	if _, ok := ObservationDate(result.Value); ok {
		t.Error("ObservationDate() ok = true, want false for empty response")
	}
}

func TestClient_Current_DisabledMakesNoRequest(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		_, _ = w.Write([]byte(currentBody))
	}))
	defer server.Close()

	tests := []struct {
		name    string
		apiKey  string
		enabled bool
	}{
		{"region gated", "secret-key", false},
		{"missing key", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(server.URL, tt.apiKey)
			result := client.Current(context.Background(), 39.7392, -104.9847, tt.enabled)

			if !result.Skipped() {
				t.Fatalf("result err = %v, want skipped", result.Err)
			}
			if calls != 0 {
				t.Errorf("upstream saw %d calls, want 0", calls)
			}
		})
	}
}

func TestClient_ForecastByDate(t *testing.T) {
	var gotPath, gotDate string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotDate = r.URL.Query().Get("date")
		_, _ = w.Write([]byte(forecastBody))
	}))
	defer server.Close()

	client := newTestClient(server.URL, "secret-key")
	result := client.ForecastByDate(context.Background(), 39.7392, -104.9847, "2026-08-24", true)

	if !result.OK() {
		t.Fatalf("ForecastByDate() err = %v, want success", result.Err)
	}
	if gotPath != "/aq/forecast/latLong/" {
		t.Errorf("path = %q, want /aq/forecast/latLong/", gotPath)
	}
	if gotDate != "2026-08-24" {
		t.Errorf("date = %q, want 2026-08-24", gotDate)
	}

	records := result.Value
	if len(records) != 3 {
		t.Fatalf("records = %d, want 3", len(records))
	}
	if !records[0].ActionDay {
		t.Error("records[0].ActionDay = false, want true")
	}
	if records[0].Discussion == "" {
		t.Error("records[0].Discussion empty, want advisory text")
	}
	if records[1].HasAQI() {
		t.Error("records[1].HasAQI() = true, want false for AQI -1")
	}
	if !records[0].HasAQI() {
		t.Error("records[0].HasAQI() = false, want true for AQI 60")
	}
}

func TestClient_ForecastByDate_EmptyDateSkips(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		_, _ = w.Write([]byte(forecastBody))
	}))
	defer server.Close()

	client := newTestClient(server.URL, "secret-key")
	result := client.ForecastByDate(context.Background(), 39.7392, -104.9847, "", true)

	if !result.Skipped() {
		t.Fatalf("result err = %v, want skipped", result.Err)
	}
	if calls != 0 {
		t.Errorf("upstream saw %d calls, want 0", calls)
	}
}

func TestGroupByDate(t *testing.T) {
	records := []ForecastRecord{
		{DateForecast: "2026-08-24 ", ParameterName: "O3"},
		{DateForecast: "2026-08-24 ", ParameterName: "PM2.5"},
		{DateForecast: "2026-08-25 ", ParameterName: "O3"},
		{DateForecast: "2026-08-24 ", ParameterName: "PM10"},
	}

	days := GroupByDate(records)

	if len(days) != 2 {
		t.Fatalf("days = %d, want 2", len(days))
	}
	if days[0].Date != "2026-08-24" || days[1].Date != "2026-08-25" {
		t.Errorf("day order = %q, %q, want first-appearance order", days[0].Date, days[1].Date)
	}
	if len(days[0].Records) != 3 {
		t.Errorf("day one records = %d, want 3", len(days[0].Records))
	}
	if days[0].Records[2].ParameterName != "PM10" {
		t.Errorf("day one keeps arrival order, got %q last", days[0].Records[2].ParameterName)
	}
	if len(days[1].Records) != 1 {
		t.Errorf("day two records = %d, want 1", len(days[1].Records))
	}

	if got := GroupByDate(nil); len(got) != 0 {
		t.Errorf("GroupByDate(nil) = %d days, want 0", len(got))
	}
}

func TestCategory_Band(t *testing.T) {
	tests := []struct {
		number int
		want   types.AQICategory
	}{
		{1, types.AQIGood},
		{2, types.AQIModerate},
		{3, types.AQIUnhealthForSensitive},
		{4, types.AQIUnhealthy},
		{5, types.AQIVeryUnhealthy},
		{6, types.AQIHazardous},
		{0, types.AQIUnknown},
		{7, types.AQIUnknown},
	}

	for _, tt := range tests {
		got := Category{Number: tt.number}.Band()
		if got != tt.want {
			t.Errorf("Band(%d) = %v, want %v", tt.number, got, tt.want)
		}
	}
}
