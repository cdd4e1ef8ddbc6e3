// Package altitude converts barometric pressure to altitude and maps altitude
// onto the display bands used by the status screen.
// Everything here is pure: no I/O, no clocks, no errors.
package altitude

import "math"

// SeaLevelHPa is the ISA standard sea-level pressure, the reference for FromPressure.
const SeaLevelHPa = 1013.25

// StepHPa is the fixed amount the simulation controls move the simulated pressure.
const StepHPa = 100.0

const (
	scaleMeters = 44330.0
	exponent    = 1 / 5.255
)

// FromPressure returns the altitude in meters for a pressure in hPa using the
// international barometric formula referenced to SeaLevelHPa.
// Input is not validated: p <= 0 yields NaN or an unexpected value.
func FromPressure(p float64) float64 {
	return scaleMeters * (1 - math.Pow(p/SeaLevelHPa, exponent))
}

// Meters truncates an altitude toward zero for display.
// NaN displays as 0 and out-of-range values saturate.
func Meters(alt float64) int {
	switch {
	case math.IsNaN(alt):
		return 0
	case alt >= math.MaxInt32:
		return math.MaxInt32
	case alt <= math.MinInt32:
		return math.MinInt32
	}
	return int(alt)
}
