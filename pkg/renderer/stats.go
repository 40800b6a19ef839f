package renderer

import (
	"image"
	"image/color"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// RenderStats contains statistics about a rendered frame
type RenderStats struct {
	TotalPixels      int           // Total number of pixels rendered
	LitPixels        int           // Pixels that are not background
	AverageLuminance float64       // Mean relative luminance in [0,1]
	LuminanceStdDev  float64       // Population standard deviation of luminance
	Workers          int           // Number of workers used
	Duration         time.Duration // Wall-clock render time
}

// CalculateRenderStats computes pixel statistics for a finished frame
func CalculateRenderStats(img image.Image) RenderStats {
	luminances := pixelLuminances(img)
	stats := RenderStats{TotalPixels: len(luminances)}
	if len(luminances) == 0 {
		return stats
	}

	for _, lum := range luminances {
		if lum > 0 {
			stats.LitPixels++
		}
	}
	stats.AverageLuminance, stats.LuminanceStdDev = stat.PopMeanStdDev(luminances, nil)
	return stats
}

// CalculateAverageLuminance returns the mean relative luminance of an image
func CalculateAverageLuminance(img image.Image) float64 {
	luminances := pixelLuminances(img)
	if len(luminances) == 0 {
		return 0
	}
	return stat.Mean(luminances, nil)
}

func pixelLuminances(img image.Image) []float64 {
	bounds := img.Bounds()
	luminances := make([]float64, 0, bounds.Dx()*bounds.Dy())
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := color.RGBAModel.Convert(img.At(x, y)).(color.RGBA)
			luminances = append(luminances, core.Color{R: c.R, G: c.G, B: c.B}.Luminance())
		}
	}
	return luminances
}
