package render

import (
	"image/color"
	"math"
	"testing"
)

func TestLuminance(t *testing.T) {
	if l := Luminance(black); l != 0 {
		t.Errorf("Luminance(black) = %v, want 0", l)
	}
	if l := Luminance(white); math.Abs(l-1) > 1e-9 {
		t.Errorf("Luminance(white) = %v, want 1", l)
	}
	grey := color.RGBA{R: 128, G: 128, B: 128, A: 255}
	if l := Luminance(grey); l <= 0.2 || l >= 0.25 {
		t.Errorf("Luminance(grey) = %v, want about 0.216", l)
	}
}

func TestContrastRatio(t *testing.T) {
	if r := ContrastRatio(black, white); math.Abs(r-21) > 1e-9 {
		t.Errorf("ContrastRatio(black, white) = %v, want 21", r)
	}
	if r := ContrastRatio(white, black); math.Abs(r-21) > 1e-9 {
		t.Errorf("ContrastRatio is not symmetric: %v", r)
	}
	if r := ContrastRatio(white, white); r != 1 {
		t.Errorf("ContrastRatio(white, white) = %v, want 1", r)
	}
}

func TestMarkerColor(t *testing.T) {
	yellow := color.RGBA{R: 255, G: 255, B: 0, A: 255}
	navy := color.RGBA{R: 0, G: 0, B: 128, A: 255}

	tests := []struct {
		name     string
		want, bg color.RGBA
		expected color.RGBA
	}{
		{"visible", white, navy, white},
		{"white on white", white, white, black},
		{"black on black", black, black, white},
		{"yellow on white", yellow, white, black},
	}
	for _, tt := range tests {
		if got := MarkerColor(tt.want, tt.bg); got != tt.expected {
			t.Errorf("%s: MarkerColor() = %v, want %v", tt.name, got, tt.expected)
		}
	}
}
