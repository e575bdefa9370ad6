//go:build integration

package nws

import (
	"context"
	"encoding/json"
	"testing"

	"herecast/internal/fetch"
)

func TestClient_Points_Integration(t *testing.T) {
	// Test coordinates: downtown Denver, CO
	lat := 39.7392
	lon := -104.9847

	client := NewClient(
		fetch.NewClient(fetch.DefaultTimeout, testLogger()),
		"",
		"herecast integration test (github.com/herecast)",
		testLogger(),
	)

	t.Logf("Making API call to api.weather.gov points endpoint...")
	t.Logf("Coordinates: lat=%f, lon=%f", lat, lon)

	result := client.Points(context.Background(), lat, lon, true)
	if !result.OK() {
		t.Fatalf("Failed to get points data: %v", result.Err)
	}

	// Pretty print the raw response
	rawJSON, err := json.MarshalIndent(result.Value, "", "  ")
	if err != nil {
		t.Fatalf("Failed to marshal response: %v", err)
	}

	t.Logf("Raw API Response:\n%s", string(rawJSON))

	loc, ok := result.Value.Location()
	if !ok {
		t.Fatal("Points response did not contain routing metadata")
	}

	t.Logf("Routing Details:")
	t.Logf("  Grid: %s", loc.GridID)
	t.Logf("  Forecast URL: %s", loc.ForecastURL)
	t.Logf("  Forecast Zone: %s", loc.ForecastZoneID)
	t.Logf("  County Zone: %s", loc.CountyZoneID)
	t.Logf("  Radar Station: %s", loc.RadarStation)
	t.Logf("  Place: %s, %s", loc.City, loc.State)

	if loc.ForecastURL == "" {
		t.Error("ForecastURL is empty")
	}
	if loc.AlertZoneID() == "" {
		t.Error("AlertZoneID is empty")
	}
	if loc.RadarStation == "" {
		t.Error("RadarStation is empty")
	}

	t.Log("✓ API call successful, response structure valid")
}
