package common

// All units are in metric:
// - Elevation is in meters above mean sea level
// - Distance is in meters

const ElevationOfEverest = 8848.0
const ElevationCommercialFlight = 10668.0
const ElevationOfTroposphere = 11000.0

// ElevationOfDeadSea is the lowest dry land on the planet.
const ElevationOfDeadSea = -430.0

// DeepestDive is allowed below the Dead Sea for plausibility checks.
const DeepestDive = -100.0

// PlausibleElevation reports whether a GPS fix at elevation e could have been
// recorded on (or flying above) the Earth's surface.
func PlausibleElevation(e float64) bool {
	return e > ElevationOfDeadSea+DeepestDive && e < ElevationOfTroposphere
}
