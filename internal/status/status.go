// Package status provides a thread-safe status tracker for the altimeter daemon.
// It is read by HTTP and websocket handlers and by MQTT system events.
package status

import (
	"sync"
	"time"

	"github.com/sweeney/altimeter/internal/config"
	"github.com/sweeney/altimeter/internal/logic"
)

// Config contains daemon configuration for display.
type Config struct {
	SampleMs    int64
	PollMs      int64
	DebounceMs  int64
	HeartbeatMs int64
	Broker      string
	HTTPAddr    string
}

// Snapshot is a point-in-time view of daemon state.
// It is a value type and safe to use after the lock is released.
type Snapshot struct {
	View          logic.View
	Counts        logic.Counts
	LastSample    time.Time
	SensorActive  bool
	ButtonsActive bool
	StartTime     time.Time
	Now           time.Time
	MQTTConnected bool
	Network       *config.NetworkInfo
	Config        Config
}

// Uptime returns the duration since the daemon started.
func (s Snapshot) Uptime() time.Duration {
	return s.Now.Sub(s.StartTime)
}

// Tracker holds mutable daemon state behind an RWMutex.
type Tracker struct {
	mu      sync.RWMutex
	snap    Snapshot
	changed chan struct{}
}

// NewTracker creates a Tracker with the given start time, config and the
// initial screen view.
func NewTracker(startTime time.Time, cfg Config, view logic.View) *Tracker {
	return &Tracker{
		snap: Snapshot{
			View:      view,
			StartTime: startTime,
			Config:    cfg,
		},
		changed: make(chan struct{}),
	}
}

// Update sets the screen view, counters and last sample time.
// Called from the event loop after every sample, control and tick.
func (t *Tracker) Update(view logic.View, counts logic.Counts, lastSample time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.snap.View == view && t.snap.Counts == counts && t.snap.LastSample.Equal(lastSample) {
		return
	}
	t.snap.View = view
	t.snap.Counts = counts
	t.snap.LastSample = lastSample
	t.notifyLocked()
}

// SetSensorActive records whether sensor delivery is resumed.
func (t *Tracker) SetSensorActive(active bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.snap.SensorActive != active {
		t.snap.SensorActive = active
		t.notifyLocked()
	}
}

// SetButtonsActive records whether the GPIO buttons are being polled.
func (t *Tracker) SetButtonsActive(active bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.snap.ButtonsActive != active {
		t.snap.ButtonsActive = active
		t.notifyLocked()
	}
}

// SetMQTTConnected sets the MQTT connection status.
func (t *Tracker) SetMQTTConnected(connected bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.snap.MQTTConnected != connected {
		t.snap.MQTTConnected = connected
		t.notifyLocked()
	}
}

// SetNetwork sets the network info.
func (t *Tracker) SetNetwork(info *config.NetworkInfo) {
	t.mu.Lock()
	t.snap.Network = info
	t.notifyLocked()
	t.mu.Unlock()
}

// Snapshot returns a point-in-time copy of the daemon state.
// The Now field is set to the current time at the moment of the call.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	s := t.snap
	t.mu.RUnlock()
	s.Now = time.Now()
	return s
}

// Changed returns a channel that is closed on the next state change.
func (t *Tracker) Changed() <-chan struct{} {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.changed
}

func (t *Tracker) notifyLocked() {
	close(t.changed)
	t.changed = make(chan struct{})
}
