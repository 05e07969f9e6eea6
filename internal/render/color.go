// Package render provides the Ebiten front end for go-cozzle.
// This file holds the contrast helpers used to keep markers visible on
// arbitrary cell colors.
package render

import (
	"image/color"
	"math"
)

// minMarkerContrast is the contrast ratio below which a marker color is
// replaced by a black or white one.
const minMarkerContrast = 1.5

var (
	black = color.RGBA{R: 0, G: 0, B: 0, A: 255}
	white = color.RGBA{R: 255, G: 255, B: 255, A: 255}
)

// Luminance returns the relative luminance of a color (0.0-1.0).
func Luminance(c color.RGBA) float64 {
	r := sRGBToLinear(float64(c.R) / 255.0)
	g := sRGBToLinear(float64(c.G) / 255.0)
	b := sRGBToLinear(float64(c.B) / 255.0)

	// ITU-R BT.709 coefficients
	return 0.2126*r + 0.7152*g + 0.0722*b
}

func sRGBToLinear(c float64) float64 {
	if c <= 0.04045 {
		return c / 12.92
	}
	return math.Pow((c+0.055)/1.055, 2.4)
}

// ContrastRatio calculates the contrast ratio between two colors.
// Returns a value between 1.0 (no contrast) and 21.0 (maximum contrast).
func ContrastRatio(c1, c2 color.RGBA) float64 {
	l1 := Luminance(c1)
	l2 := Luminance(c2)
	return (math.Max(l1, l2) + 0.05) / (math.Min(l1, l2) + 0.05)
}

// IsLight returns true if the color is considered "light" (luminance > 0.5).
func IsLight(c color.RGBA) bool {
	return Luminance(c) > 0.5
}

// Contrasting returns black for light colors and white for dark ones.
func Contrasting(c color.RGBA) color.RGBA {
	if IsLight(c) {
		return black
	}
	return white
}

// MarkerColor returns want unless it would vanish against bg, in which
// case a black or white replacement is returned.
func MarkerColor(want, bg color.RGBA) color.RGBA {
	if ContrastRatio(want, bg) >= minMarkerContrast {
		return want
	}
	return Contrasting(bg)
}
