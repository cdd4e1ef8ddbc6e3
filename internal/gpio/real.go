//go:build linux

package gpio

import (
	"fmt"

	"github.com/warthog618/go-gpiocdev"
)

// RealReader reads buttons from actual hardware using Linux GPIO character device.
type RealReader struct {
	chip    *gpiocdev.Chip
	downPin *gpiocdev.Line
	upPin   *gpiocdev.Line
}

// NewRealReader creates a button reader for actual Raspberry Pi hardware.
func NewRealReader(pinDown, pinUp int) (*RealReader, error) {
	chip, err := gpiocdev.NewChip("gpiochip0")
	if err != nil {
		return nil, fmt.Errorf("open gpio chip: %w", err)
	}

	// Buttons short the line to ground when pressed.
	downLine, err := chip.RequestLine(pinDown, gpiocdev.AsInput, gpiocdev.WithPullUp)
	if err != nil {
		chip.Close()
		return nil, fmt.Errorf("request DOWN pin %d: %w", pinDown, err)
	}

	upLine, err := chip.RequestLine(pinUp, gpiocdev.AsInput, gpiocdev.WithPullUp)
	if err != nil {
		downLine.Close()
		chip.Close()
		return nil, fmt.Errorf("request UP pin %d: %w", pinUp, err)
	}

	return &RealReader{
		chip:    chip,
		downPin: downLine,
		upPin:   upLine,
	}, nil
}

// Read returns the logical states of DOWN and UP.
// Inverts raw GPIO: raw 0 = pressed, raw 1 = released.
func (r *RealReader) Read() (bool, bool, error) {
	downRaw, err := r.downPin.Value()
	if err != nil {
		return false, false, fmt.Errorf("read DOWN pin: %w", err)
	}

	upRaw, err := r.upPin.Value()
	if err != nil {
		return false, false, fmt.Errorf("read UP pin: %w", err)
	}

	return downRaw == 0, upRaw == 0, nil
}

// Close releases GPIO resources.
// Pins are returned to input with pull-down, the Pi boot default, before closing.
func (r *RealReader) Close() error {
	var errs []error

	for _, p := range []struct {
		name string
		line *gpiocdev.Line
	}{{"DOWN", r.downPin}, {"UP", r.upPin}} {
		if p.line == nil {
			continue
		}
		if err := p.line.Reconfigure(gpiocdev.AsInput, gpiocdev.WithPullDown); err != nil {
			errs = append(errs, fmt.Errorf("reconfigure %s pin: %w", p.name, err))
		}
		if err := p.line.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close %s pin: %w", p.name, err))
		}
	}

	if r.chip != nil {
		if err := r.chip.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close chip: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}
