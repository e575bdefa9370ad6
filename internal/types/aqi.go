package types

import "fmt"

// AQICategory is a normalized integer enum (0-6) matching the US EPA
// Air Quality Index scale.
type AQICategory int

const (
	AQIUnknown              AQICategory = 0
	AQIGood                 AQICategory = 1
	AQIModerate             AQICategory = 2
	AQIUnhealthForSensitive AQICategory = 3
	AQIUnhealthy            AQICategory = 4
	AQIVeryUnhealthy        AQICategory = 5
	AQIHazardous            AQICategory = 6
)

var aqiCategoryNames = map[AQICategory]string{
	AQIUnknown:              "Unknown",
	AQIGood:                 "Good",
	AQIModerate:             "Moderate",
	AQIUnhealthForSensitive: "Unhealthy for Sensitive Groups",
	AQIUnhealthy:            "Unhealthy",
	AQIVeryUnhealthy:        "Very Unhealthy",
	AQIHazardous:            "Hazardous",
}

// EPA category colors.
var aqiCategoryColors = map[AQICategory]string{
	AQIUnknown:              "#9e9e9e",
	AQIGood:                 "#00e400",
	AQIModerate:             "#ffff00",
	AQIUnhealthForSensitive: "#ff7e00",
	AQIUnhealthy:            "#ff0000",
	AQIVeryUnhealthy:        "#8f3f97",
	AQIHazardous:            "#7e0023",
}

func (c AQICategory) String() string {
	if name, ok := aqiCategoryNames[c]; ok {
		return name
	}
	return fmt.Sprintf("Unknown (%d)", int(c))
}

// Color returns the EPA hex color for the category band.
func (c AQICategory) Color() string {
	if color, ok := aqiCategoryColors[c]; ok {
		return color
	}
	return aqiCategoryColors[AQIUnknown]
}

// CategoryForAQI maps a composite AQI value onto the EPA bands. Negative
// values, which some feeds use to mean "not reported", map to AQIUnknown.
func CategoryForAQI(aqi int) AQICategory {
	switch {
	case aqi < 0:
		return AQIUnknown
	case aqi <= 50:
		return AQIGood
	case aqi <= 100:
		return AQIModerate
	case aqi <= 150:
		return AQIUnhealthForSensitive
	case aqi <= 200:
		return AQIUnhealthy
	case aqi <= 300:
		return AQIVeryUnhealthy
	default:
		return AQIHazardous
	}
}
