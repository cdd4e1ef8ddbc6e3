package altitude

// Accuracy is the sensor's self-reported accuracy label.
type Accuracy string

const (
	AccuracyHigh       Accuracy = "High"
	AccuracyMedium     Accuracy = "Medium"
	AccuracyLow        Accuracy = "Low"
	AccuracyUnreliable Accuracy = "Unreliable"
	AccuracyUnknown    Accuracy = "Unknown"
)

// Platform accuracy levels as reported alongside sensor samples.
const (
	LevelUnreliable = 0
	LevelLow        = 1
	LevelMedium     = 2
	LevelHigh       = 3
)

// AccuracyFromLevel maps a platform accuracy level to its label.
// Anything outside 0..3 is Unknown.
func AccuracyFromLevel(level int) Accuracy {
	switch level {
	case LevelHigh:
		return AccuracyHigh
	case LevelMedium:
		return AccuracyMedium
	case LevelLow:
		return AccuracyLow
	case LevelUnreliable:
		return AccuracyUnreliable
	default:
		return AccuracyUnknown
	}
}
