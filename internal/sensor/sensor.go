// Package sensor delivers barometric pressure samples and accuracy changes
// as a stream of events. Delivery only happens between Resume and Pause;
// nothing is buffered while paused.
package sensor

import "time"

// Kind distinguishes the two event types a Source delivers.
type Kind int

const (
	KindPressure Kind = iota
	KindAccuracy
)

func (k Kind) String() string {
	switch k {
	case KindPressure:
		return "pressure"
	case KindAccuracy:
		return "accuracy"
	default:
		return "unknown"
	}
}

// Event is one sensor notification.
type Event struct {
	Kind     Kind
	Pressure float64 // hPa, KindPressure only
	Level    int     // platform accuracy level 0..3, KindAccuracy only
	Time     time.Time
}

// Source is a pressure sensor with a resumable subscription.
type Source interface {
	// Resume starts delivery and returns the event channel. The channel is
	// closed after Pause or Close.
	Resume() (<-chan Event, error)

	// Pause stops delivery. Samples taken while paused are never delivered.
	Pause() error

	// Close pauses and releases the hardware.
	Close() error
}
