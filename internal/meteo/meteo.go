// Package meteo holds the derived-metric calculators. Each returns the value
// in Fahrenheit plus an applicability flag; a false flag means the metric is
// not meaningful for the given inputs and must not be displayed.
package meteo

import "math"

const (
	// heatIndexFloorF is the screen below which the Rothfusz regression does
	// not apply and no heat index is reported.
	heatIndexFloorF = 80.0

	// WindChillMaxTempF and WindChillMinWindMph bound the NWS 2001 wind
	// chill formula's validity range.
	WindChillMaxTempF   = 50.0
	WindChillMinWindMph = 3.0
)

// HeatIndex computes the apparent temperature from air temperature (F) and
// relative humidity (percent) using the Rothfusz regression (NWS SR 90-23)
// with the low- and high-humidity adjustments. The Steadman approximation
// screens out conditions where the index would sit below 80F.
func HeatIndex(tempF, relHumidity float64) (float64, bool) {
	simple := 0.5 * (tempF + 61.0 + (tempF-68.0)*1.2 + relHumidity*0.094)
	if simple < heatIndexFloorF {
		return 0, false
	}

	t := tempF
	rh := relHumidity
	hi := -42.379 +
		2.04901523*t +
		10.14333127*rh -
		0.22475541*t*rh -
		0.00683783*t*t -
		0.05481717*rh*rh +
		0.00122874*t*t*rh +
		0.00085282*t*rh*rh -
		0.00000199*t*t*rh*rh

	if rh < 13 && t >= 80 && t <= 112 {
		hi -= ((13 - rh) / 4) * math.Sqrt((17-math.Abs(t-95))/17)
	}
	if rh > 85 && t >= 80 && t <= 87 {
		hi += ((rh - 85) / 10) * ((87 - t) / 5)
	}

	return hi, true
}

// WindChill computes the NWS 2001 wind chill from air temperature (F) and
// wind speed (mph). The formula only holds at or below 50F with wind of at
// least 3 mph.
func WindChill(tempF, windMph float64) (float64, bool) {
	if tempF > WindChillMaxTempF || windMph < WindChillMinWindMph {
		return 0, false
	}

	v := math.Pow(windMph, 0.16)
	wc := 35.74 + 0.6215*tempF - 35.75*v + 0.4275*tempF*v
	return wc, true
}

// DewPoint computes the dew point from air temperature (F) and relative
// humidity (percent) with the Magnus approximation.
func DewPoint(tempF, relHumidity float64) (float64, bool) {
	if relHumidity <= 0 || relHumidity > 100 {
		return 0, false
	}

	const (
		a = 17.625
		b = 243.04
	)

	tc := (tempF - 32) * 5 / 9
	gamma := math.Log(relHumidity/100) + a*tc/(b+tc)
	dpC := b * gamma / (a - gamma)
	return dpC*9/5 + 32, true
}
