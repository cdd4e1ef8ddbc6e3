package logic

import (
	"time"

	"github.com/sweeney/altimeter/internal/altitude"
)

// Screen holds the state shown on the altimeter screen: the latest sensor
// pressure with its altitude, the sensor accuracy label, and a simulated
// pressure that only the two controls can move.
//
// Screen is not safe for concurrent use; the daemon mutates it from its
// event loop only.
type Screen struct {
	pressure  float64
	altitude  float64
	accuracy  altitude.Accuracy
	simulated float64
	counts    Counts
	lastAt    time.Time
}

// View is a derived, read-only rendering of the Screen.
type View struct {
	Pressure          float64
	Altitude          float64
	Accuracy          altitude.Accuracy
	SimulatedPressure float64
	SimulatedAltitude float64
	Background        altitude.Band
	Text              altitude.TextTone
}

// AltitudeMeters is the real altitude as displayed.
func (v View) AltitudeMeters() int {
	return altitude.Meters(v.Altitude)
}

// SimulatedAltitudeMeters is the simulated altitude as displayed.
func (v View) SimulatedAltitudeMeters() int {
	return altitude.Meters(v.SimulatedAltitude)
}

// NewScreen returns a Screen at standard sea-level pressure with unknown accuracy.
func NewScreen() *Screen {
	return &Screen{
		pressure:  altitude.SeaLevelHPa,
		altitude:  altitude.FromPressure(altitude.SeaLevelHPa),
		accuracy:  altitude.AccuracyUnknown,
		simulated: altitude.SeaLevelHPa,
	}
}

// ApplyPressure overwrites the real pressure with a raw sensor value and
// recomputes altitude. The value is not validated.
func (s *Screen) ApplyPressure(p float64, at time.Time) Reading {
	s.pressure = p
	s.altitude = altitude.FromPressure(p)
	s.counts.Samples++
	s.lastAt = at
	return Reading{
		Timestamp:   at,
		Source:      SourceSensor,
		PressureHPa: s.pressure,
		AltitudeM:   s.altitude,
		Accuracy:    s.accuracy,
	}
}

// ApplyAccuracy records a new accuracy label.
func (s *Screen) ApplyAccuracy(a altitude.Accuracy) {
	s.accuracy = a
}

// Press moves the simulated pressure by one step: DOWN subtracts StepHPa,
// UP adds it. Unknown buttons are ignored and return false.
func (s *Screen) Press(b Button, at time.Time) (Reading, bool) {
	switch b {
	case ButtonDown:
		s.simulated -= altitude.StepHPa
		s.counts.DownPress++
	case ButtonUp:
		s.simulated += altitude.StepHPa
		s.counts.UpPress++
	default:
		return Reading{}, false
	}
	return Reading{
		Timestamp:   at,
		Source:      SourceSimulated,
		PressureHPa: s.simulated,
		AltitudeM:   altitude.FromPressure(s.simulated),
		Accuracy:    s.accuracy,
	}, true
}

// Counts returns activity counters since startup.
func (s *Screen) Counts() Counts {
	return s.counts
}

// LastSample returns the time of the last sensor sample, zero if none arrived.
func (s *Screen) LastSample() time.Time {
	return s.lastAt
}

// View renders the current state. Background and text tone follow the
// simulated altitude.
func (s *Screen) View() View {
	simAlt := altitude.FromPressure(s.simulated)
	return View{
		Pressure:          s.pressure,
		Altitude:          s.altitude,
		Accuracy:          s.accuracy,
		SimulatedPressure: s.simulated,
		SimulatedAltitude: simAlt,
		Background:        altitude.BackgroundBand(simAlt),
		Text:              altitude.TextToneFor(simAlt),
	}
}
