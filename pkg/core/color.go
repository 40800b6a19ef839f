package core

import (
	"fmt"
	"image/color"
	"math"
)

// Color is an 8-bit RGB triple
type Color struct {
	R, G, B uint8
}

// Black is the background color returned for misses and exhausted recursion
var Black = Color{}

// NewColor creates a color, clamping each channel to [0, 255]
func NewColor(r, g, b int) Color {
	return Color{R: clampChannel(r), G: clampChannel(g), B: clampChannel(b)}
}

// Scale multiplies every channel by intensity, rounding and clamping the result.
// Intensity itself is not clamped, so bright highlights saturate at 255.
func (c Color) Scale(intensity float64) Color {
	return Color{
		R: clampChannel(int(math.Round(float64(c.R) * intensity))),
		G: clampChannel(int(math.Round(float64(c.G) * intensity))),
		B: clampChannel(int(math.Round(float64(c.B) * intensity))),
	}
}

// Blend linearly interpolates from c towards other by weight w in [0, 1]
func (c Color) Blend(other Color, w float64) Color {
	mix := func(a, b uint8) uint8 {
		return clampChannel(int(math.Round(float64(a)*(1-w) + float64(b)*w)))
	}
	return Color{R: mix(c.R, other.R), G: mix(c.G, other.G), B: mix(c.B, other.B)}
}

// RGBA converts the color to an opaque color.RGBA
func (c Color) RGBA() color.RGBA {
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: 255}
}

// Luminance returns the relative luminance in [0, 1] using Rec. 709 weights
func (c Color) Luminance() float64 {
	return (0.2126*float64(c.R) + 0.7152*float64(c.G) + 0.0722*float64(c.B)) / 255.0
}

// Hex returns the color as a #rrggbb string
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

func clampChannel(v int) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
