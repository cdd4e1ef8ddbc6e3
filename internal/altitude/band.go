package altitude

import "fmt"

// Band is a discrete background category. Band0 is the lightest (below sea
// level), Band6 the darkest.
type Band int

const (
	Band0 Band = iota
	Band1
	Band2
	Band3
	Band4
	Band5
	Band6
)

// bandLimits holds the exclusive upper bound in meters of Band0..Band5.
var bandLimits = [...]float64{0, 100, 500, 1000, 2000, 3000}

var bandColors = [...]string{
	Band0: "#FFFFFF", // under sea level
	Band1: "#B0E0E6", // pale blue
	Band2: "#87CEEB", // light blue
	Band3: "#4682B4", // medium blue
	Band4: "#1E3A5F", // dark blue
	Band5: "#0D253F", // very dark blue
	Band6: "#000814", // almost black
}

// BackgroundBand returns the band for an altitude. Comparisons are strict, so a
// value sitting exactly on a limit belongs to the next band up. NaN compares
// false everywhere and lands in Band6.
func BackgroundBand(alt float64) Band {
	for i, limit := range bandLimits {
		if alt < limit {
			return Band(i)
		}
	}
	return Band6
}

// Color returns the band's background color as #RRGGBB.
func (b Band) Color() string {
	if b < Band0 || b > Band6 {
		return bandColors[Band6]
	}
	return bandColors[b]
}

func (b Band) String() string {
	return fmt.Sprintf("band%d", int(b))
}

// TextTone is the text contrast category drawn over a band.
type TextTone string

const (
	TextDark  TextTone = "DARK"
	TextLight TextTone = "LIGHT"
)

// lightTextFrom is the altitude at which text switches to the light tone.
const lightTextFrom = 1000.0

// TextToneFor returns the text tone for an altitude.
func TextToneFor(alt float64) TextTone {
	if alt < lightTextFrom {
		return TextDark
	}
	return TextLight
}

// Color returns the text color as #RRGGBB.
func (t TextTone) Color() string {
	if t == TextDark {
		return "#000000"
	}
	return "#FFFFFF"
}
