// Package gpio reads the two simulation push buttons with hardware abstraction.
// The real implementation uses the Linux GPIO character device.
// The fake implementation allows testing without hardware.
package gpio

// Reader reads push button states.
type Reader interface {
	// Read returns the logical states of the DOWN and UP buttons.
	// Buttons are wired active-low: raw 0 = logical pressed.
	// Returns (downPressed, upPressed, error).
	Read() (bool, bool, error)

	// Close releases GPIO resources.
	Close() error
}

// Default pin definitions (BCM numbering)
const (
	DefaultPinDown = 23 // -100 hPa
	DefaultPinUp   = 24 // +100 hPa
)
