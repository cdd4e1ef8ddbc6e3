package altitude

import (
	"math"
	"testing"
)

func TestFromPressureSeaLevel(t *testing.T) {
	got := FromPressure(SeaLevelHPa)
	if math.Abs(got) > 1e-9 {
		t.Errorf("FromPressure(%v): got %v, want 0", SeaLevelHPa, got)
	}
}

func TestFromPressureBelowReference(t *testing.T) {
	got := FromPressure(913.25)
	if got <= 0 {
		t.Errorf("FromPressure(913.25): got %v, want > 0", got)
	}
	// ~868 m by the formula
	if got < 860 || got > 880 {
		t.Errorf("FromPressure(913.25): got %v, want about 868", got)
	}
}

func TestFromPressureAboveReference(t *testing.T) {
	if got := FromPressure(1113.25); got >= 0 {
		t.Errorf("FromPressure(1113.25): got %v, want < 0", got)
	}
}

func TestFromPressureStrictlyDecreasing(t *testing.T) {
	prev := FromPressure(1)
	for p := 2.0; p <= 1200; p += 0.5 {
		got := FromPressure(p)
		if got >= prev {
			t.Fatalf("not strictly decreasing at p=%v: %v >= %v", p, got, prev)
		}
		prev = got
	}
}

func TestFromPressureNonPositive(t *testing.T) {
	if got := FromPressure(-10); !math.IsNaN(got) {
		t.Errorf("FromPressure(-10): got %v, want NaN", got)
	}
	// 0^x is 0 for positive x, so zero pressure gives the formula's ceiling.
	if got := FromPressure(0); got != 44330 {
		t.Errorf("FromPressure(0): got %v, want 44330", got)
	}
}

func TestMeters(t *testing.T) {
	tests := []struct {
		alt  float64
		want int
	}{
		{0, 0},
		{871.9, 871},
		{-0.9, 0},
		{-812.7, -812},
		{math.NaN(), 0},
		{math.Inf(1), math.MaxInt32},
		{math.Inf(-1), math.MinInt32},
	}
	for _, tt := range tests {
		if got := Meters(tt.alt); got != tt.want {
			t.Errorf("Meters(%v): got %d, want %d", tt.alt, got, tt.want)
		}
	}
}

func TestBackgroundBandBoundaries(t *testing.T) {
	tests := []struct {
		alt  float64
		want Band
	}{
		{-1, Band0},
		{0, Band1},
		{99.999, Band1},
		{100, Band2},
		{499.9, Band2},
		{500, Band3},
		{999.999, Band3},
		{1000, Band4},
		{2000, Band5},
		{2999.999, Band5},
		{3000, Band6},
		{8848, Band6},
		{math.NaN(), Band6},
	}
	for _, tt := range tests {
		if got := BackgroundBand(tt.alt); got != tt.want {
			t.Errorf("BackgroundBand(%v): got %s, want %s", tt.alt, got, tt.want)
		}
	}
}

func TestBandColor(t *testing.T) {
	if got := Band0.Color(); got != "#FFFFFF" {
		t.Errorf("Band0: got %s", got)
	}
	if got := Band1.Color(); got != "#B0E0E6" {
		t.Errorf("Band1: got %s", got)
	}
	if got := Band6.Color(); got != "#000814" {
		t.Errorf("Band6: got %s", got)
	}
	if got := Band(42).Color(); got != "#000814" {
		t.Errorf("out of range band: got %s, want darkest", got)
	}
}

func TestTextToneFor(t *testing.T) {
	if got := TextToneFor(999.999); got != TextDark {
		t.Errorf("TextToneFor(999.999): got %s, want DARK", got)
	}
	if got := TextToneFor(1000); got != TextLight {
		t.Errorf("TextToneFor(1000): got %s, want LIGHT", got)
	}
	if got := TextToneFor(-50); got != TextDark {
		t.Errorf("TextToneFor(-50): got %s, want DARK", got)
	}
	if TextDark.Color() != "#000000" || TextLight.Color() != "#FFFFFF" {
		t.Errorf("unexpected text colors: %s %s", TextDark.Color(), TextLight.Color())
	}
}

func TestAccuracyFromLevel(t *testing.T) {
	tests := []struct {
		level int
		want  Accuracy
	}{
		{3, AccuracyHigh},
		{2, AccuracyMedium},
		{1, AccuracyLow},
		{0, AccuracyUnreliable},
		{-1, AccuracyUnknown},
		{4, AccuracyUnknown},
	}
	for _, tt := range tests {
		if got := AccuracyFromLevel(tt.level); got != tt.want {
			t.Errorf("AccuracyFromLevel(%d): got %s, want %s", tt.level, got, tt.want)
		}
	}
}
