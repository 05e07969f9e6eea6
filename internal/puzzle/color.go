// Package puzzle implements the gradient puzzle core for go-cozzle:
// gradient generation, interior shuffling and the select/swap state
// machine with structural win detection. It performs no I/O.
package puzzle

import (
	"fmt"
	"image/color"
	"math"
)

// Color is an RGBA value with components in [0, 1].
// Colors are compared exactly, component by component.
type Color struct {
	R, G, B, A float64
}

// Opaque returns a Color with the given channels and alpha 1.0.
func Opaque(r, g, b float64) Color {
	return Color{R: r, G: g, B: b, A: 1}
}

// Channels returns the red, green and blue components in order.
func (c Color) Channels() [3]float64 {
	return [3]float64{c.R, c.G, c.B}
}

// RGBA converts the color to 8-bit channels for renderers.
func (c Color) RGBA() color.RGBA {
	return color.RGBA{
		R: to8(c.R),
		G: to8(c.G),
		B: to8(c.B),
		A: to8(c.A),
	}
}

// Hex formats the color as #RRGGBB, ignoring alpha.
func (c Color) Hex() string {
	rgba := c.RGBA()
	return fmt.Sprintf("#%02X%02X%02X", rgba.R, rgba.G, rgba.B)
}

// String implements fmt.Stringer.
func (c Color) String() string {
	return fmt.Sprintf("rgba(%.4f, %.4f, %.4f, %.2f)", c.R, c.G, c.B, c.A)
}

func to8(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(math.Round(v * 255))
}
