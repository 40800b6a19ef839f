package scene

import (
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
)

// oklchToRGB converts OKLCH color values to an 8-bit color
// L: lightness (0-1), C: chroma (0-0.4+), H: hue (0-360 degrees)
func oklchToRGB(l, c, h float64) core.Color {
	hRad := h * math.Pi / 180.0

	// OKLCH to OKLAB
	a := c * math.Cos(hRad)
	b := c * math.Sin(hRad)

	// OKLAB to LMS
	l_ := l + 0.3963377774*a + 0.2158037573*b
	m_ := l - 0.1055613458*a - 0.0638541728*b
	s_ := l - 0.0894841775*a - 1.2914855480*b

	l_ = l_ * l_ * l_
	m_ = m_ * m_ * m_
	s_ = s_ * s_ * s_

	// LMS to linear RGB
	r := +4.0767416621*l_ - 3.3077115913*m_ + 0.2309699292*s_
	g := -1.2684380046*l_ + 2.6097574011*m_ - 0.3413193965*s_
	blue := -0.0041960863*l_ - 0.7034186147*m_ + 1.7076147010*s_

	toByte := func(v float64) int {
		return int(math.Round(math.Max(0, math.Min(1, v)) * 255))
	}
	return core.NewColor(toByte(r), toByte(g), toByte(blue))
}

// NewSphereGridScene creates rows of spheres in front of the camera. Hue
// varies across columns, chroma across rows, and reflectivity increases
// from left to right.
func NewSphereGridScene() *Scene {
	s := NewScene()

	s.AddSphere(geometry.NewSphere(core.NewVec3(0, -5001, 0), 5000, core.NewColor(128, 128, 128), 0.0))

	const (
		columns  = 5
		rows     = 3
		spacingX = 1.1
		spacingZ = 1.6
		radius   = 0.45
	)

	baseLightness := 0.7
	minChroma := 0.08
	maxChroma := 0.22

	for row := 0; row < rows; row++ {
		for col := 0; col < columns; col++ {
			x := (float64(col) - float64(columns-1)/2) * spacingX
			z := -4.0 - float64(row)*spacingZ
			y := -1 + radius // resting on the floor

			hue := float64(col) / float64(columns) * 360.0
			chroma := minChroma + float64(row)/float64(rows-1)*(maxChroma-minChroma)
			specular := float64(col) / float64(columns-1) * 0.8

			s.AddSphere(geometry.NewSphere(
				core.NewVec3(x, y, z),
				radius,
				oklchToRGB(baseLightness, chroma, hue),
				specular,
			))
		}
	}

	s.AddLight(core.NewVec3(0, 6, -2))
	s.AddLight(core.NewVec3(-6, 4, -8))

	return s
}
