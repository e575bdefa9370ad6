package types

const (
	MphToKph = 1.60934
	MpsToMph = 2.23694
	KphToMph = 0.621371
)

type Wind struct {
	SpeedInMph        float64
	SpeedInKph        float64
	DirectionDegrees  float64
	DirectionCardinal string
}

func NewWindFromMph(speedInMph, directionDegrees float64) Wind {
	return Wind{
		SpeedInMph:        speedInMph,
		SpeedInKph:        speedInMph * MphToKph,
		DirectionDegrees:  directionDegrees,
		DirectionCardinal: cardinal(directionDegrees),
	}
}

// NewWindFromMetersPerSecond converts the sensor feed's m/s readings.
func NewWindFromMetersPerSecond(speedInMps, directionDegrees float64) Wind {
	return NewWindFromMph(speedInMps*MpsToMph, directionDegrees)
}

// NewWindFromKph converts the station observation km/h readings.
func NewWindFromKph(speedInKph, directionDegrees float64) Wind {
	return NewWindFromMph(speedInKph*KphToMph, directionDegrees)
}

func cardinal(directionDegrees float64) string {
	direction := (directionDegrees / 22.5) + .5 // .5 for rounding
	var directionMap = make(map[int]string)
	directionMap[0] = "N"
	directionMap[1] = "NNE"
	directionMap[2] = "NE"
	directionMap[3] = "ENE"
	directionMap[4] = "E"
	directionMap[5] = "ESE"
	directionMap[6] = "SE"
	directionMap[7] = "SSE"
	directionMap[8] = "S"
	directionMap[9] = "SSW"
	directionMap[10] = "SW"
	directionMap[11] = "WSW"
	directionMap[12] = "W"
	directionMap[13] = "WNW"
	directionMap[14] = "NW"
	directionMap[15] = "NNW"

	index := int(direction) % 16
	return directionMap[index]
}
