package sensor

import (
	"errors"
	"sync"
	"time"
)

// fakeBuffer is the delivery channel capacity of FakeSource.
const fakeBuffer = 64

// FakeSource is a test double whose events are pushed by the test.
type FakeSource struct {
	mu sync.Mutex
	ch chan Event

	// ResumeError, if set, will be returned by Resume.
	ResumeError error

	// Resumes and Pauses count lifecycle calls.
	Resumes int
	Pauses  int

	// Closed tracks if Close was called.
	Closed bool
}

// NewFakeSource creates a paused FakeSource.
func NewFakeSource() *FakeSource {
	return &FakeSource{}
}

// Resume opens a fresh delivery channel.
func (f *FakeSource) Resume() (<-chan Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.ResumeError != nil {
		return nil, f.ResumeError
	}
	if f.ch != nil {
		return nil, errors.New("sensor: already resumed")
	}
	f.ch = make(chan Event, fakeBuffer)
	f.Resumes++
	return f.ch, nil
}

// Pause closes the delivery channel.
func (f *FakeSource) Pause() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.Pauses++
	if f.ch != nil {
		close(f.ch)
		f.ch = nil
	}
	return nil
}

// Close pauses and marks the source closed.
func (f *FakeSource) Close() error {
	f.Pause()
	f.mu.Lock()
	f.Closed = true
	f.mu.Unlock()
	return nil
}

// Active reports whether the source is between Resume and Pause.
func (f *FakeSource) Active() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.ch != nil
}

// Emit delivers ev if the source is active and the buffer has room.
// Returns false if the event was dropped.
func (f *FakeSource) Emit(ev Event) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.ch == nil {
		return false
	}
	select {
	case f.ch <- ev:
		return true
	default:
		return false
	}
}

// EmitPressure delivers a pressure sample in hPa.
func (f *FakeSource) EmitPressure(hpa float64, at time.Time) bool {
	return f.Emit(Event{Kind: KindPressure, Pressure: hpa, Time: at})
}

// EmitAccuracy delivers an accuracy change.
func (f *FakeSource) EmitAccuracy(level int, at time.Time) bool {
	return f.Emit(Event{Kind: KindAccuracy, Level: level, Time: at})
}
