package logic

import "time"

// Detector debounces the two button lines and detects presses.
type Detector struct {
	debounceDuration time.Duration
	down             ChannelState
	up               ChannelState
	baselined        bool
}

// NewDetector creates a new button detector with the given debounce duration.
func NewDetector(debounceDuration time.Duration) *Detector {
	return &Detector{debounceDuration: debounceDuration}
}

// Process takes a new input sample and returns any presses that should be applied.
// Presses are only returned after baseline is established, so a button held
// down at startup must be released and pressed again before it counts.
func (d *Detector) Process(input Input) []Press {
	downState := boolToState(input.Down)
	upState := boolToState(input.Up)

	downPressed := d.processChannel(&d.down, downState, input.Time)
	upPressed := d.processChannel(&d.up, upState, input.Time)

	if !d.baselined {
		if d.down.Baselined && d.up.Baselined {
			d.baselined = true
		}
		return nil
	}

	var presses []Press

	// DOWN first if both complete on the same sample
	if downPressed {
		presses = append(presses, Press{Timestamp: input.Time, Button: ButtonDown})
	}
	if upPressed {
		presses = append(presses, Press{Timestamp: input.Time, Button: ButtonUp})
	}

	return presses
}

// processChannel handles debounce logic for a single line.
// Returns true if the line settled into the pressed state on this sample.
func (d *Detector) processChannel(ch *ChannelState, newState State, now time.Time) bool {
	if !ch.Baselined {
		if ch.Pending == "" {
			ch.Pending = newState
			ch.PendingSince = now
			return false
		}

		if ch.Pending != newState {
			// Changed during baseline, restart
			ch.Pending = newState
			ch.PendingSince = now
			return false
		}

		if now.Sub(ch.PendingSince) >= d.debounceDuration {
			ch.Stable = newState
			ch.Baselined = true
			ch.Pending = ""
		}
		return false
	}

	if newState == ch.Stable {
		ch.Pending = ""
		return false
	}

	if ch.Pending != newState {
		ch.Pending = newState
		ch.PendingSince = now
		return false
	}

	if now.Sub(ch.PendingSince) >= d.debounceDuration {
		ch.Stable = newState
		ch.Pending = ""
		return newState == StatePressed
	}

	return false
}

func boolToState(b bool) State {
	if b {
		return StatePressed
	}
	return StateReleased
}

// IsBaselined returns whether the detector has established a baseline.
func (d *Detector) IsBaselined() bool {
	return d.baselined
}

// CurrentState returns the current stable states.
func (d *Detector) CurrentState() (down State, up State) {
	return d.down.Stable, d.up.Stable
}
