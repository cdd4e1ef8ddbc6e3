// Package logic contains the pure state of the altimeter screen and the
// debounce logic for its physical buttons.
// This package has NO external dependencies (no GPIO, MQTT, OS, or time.Sleep).
// Time is always injectable via time.Time parameters.
package logic

import (
	"time"

	"github.com/sweeney/altimeter/internal/altitude"
)

// State represents the debounced state of a push button.
type State string

const (
	StatePressed  State = "PRESSED"
	StateReleased State = "RELEASED"
)

// Button identifies one of the two simulation controls.
type Button string

const (
	ButtonDown Button = "DOWN" // -100 hPa
	ButtonUp   Button = "UP"   // +100 hPa
)

// Press is emitted when a button goes from released to pressed.
type Press struct {
	Timestamp time.Time
	Button    Button
}

// ChannelState tracks debounce state for a single button line.
type ChannelState struct {
	// Current stable (debounced) state
	Stable State
	// Pending state during debounce
	Pending State
	// Time when pending state was first observed
	PendingSince time.Time
	// Whether we have established a baseline
	Baselined bool
}

// Input represents a single sample of both button lines.
type Input struct {
	Down bool // true = pressed (already inverted from raw GPIO)
	Up   bool
	Time time.Time
}

// ReadingSource says where a published reading came from.
type ReadingSource string

const (
	SourceSensor    ReadingSource = "SENSOR"
	SourceSimulated ReadingSource = "SIMULATED"
)

// Reading is a pressure/altitude pair to be published.
type Reading struct {
	Timestamp   time.Time
	Source      ReadingSource
	PressureHPa float64
	AltitudeM   float64
	Accuracy    altitude.Accuracy
}

// Counts tracks activity since startup.
type Counts struct {
	Samples   int
	DownPress int
	UpPress   int
}

// HeartbeatData contains information for a heartbeat event.
type HeartbeatData struct {
	Timestamp time.Time
	Uptime    time.Duration
}
