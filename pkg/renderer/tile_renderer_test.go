package renderer

import (
	"image"
	"math"
	"testing"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

func TestNewTileGrid_CoversImageOnce(t *testing.T) {
	tests := []struct {
		name          string
		width, height int
		tileSize      int
		expectedTiles int
	}{
		{"exact fit", 64, 64, 32, 4},
		{"partial edge tiles", 100, 50, 32, 8},
		{"tile larger than image", 10, 10, 64, 1},
		{"non-positive tile size", 30, 20, 0, 1},
		{"single pixel tiles", 3, 2, 1, 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tiles := NewTileGrid(tt.width, tt.height, tt.tileSize)
			if len(tiles) != tt.expectedTiles {
				t.Errorf("Expected %d tiles, got %d", tt.expectedTiles, len(tiles))
			}

			coverage := make([]int, tt.width*tt.height)
			for i, tile := range tiles {
				if tile.ID != i {
					t.Errorf("Expected tile ID %d, got %d", i, tile.ID)
				}
				for y := tile.Bounds.Min.Y; y < tile.Bounds.Max.Y; y++ {
					for x := tile.Bounds.Min.X; x < tile.Bounds.Max.X; x++ {
						coverage[y*tt.width+x]++
					}
				}
			}
			for i, c := range coverage {
				if c != 1 {
					t.Fatalf("Pixel %d covered %d times", i, c)
				}
			}
		})
	}
}

func TestTileRenderer_RenderTileBounds(t *testing.T) {
	scene := &gradientScene{}
	camera := NewCamera(CameraConfig{Width: 8, Height: 8, VFov: math.Pi / 2})
	renderer := NewTileRenderer(scene, camera)

	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	bounds := image.Rect(2, 3, 6, 5)
	pixels := renderer.RenderTileBounds(img, bounds)

	if pixels != 8 {
		t.Errorf("Expected 8 pixels rendered, got %d", pixels)
	}

	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			got := img.RGBAAt(x, y)
			inside := image.Pt(x, y).In(bounds)
			if inside {
				expected := scene.Trace(camera.GetRay(x, y), 0).RGBA()
				if got != expected {
					t.Errorf("Pixel (%d,%d): expected %v, got %v", x, y, expected, got)
				}
			} else if got.A != 0 {
				t.Errorf("Pixel (%d,%d) outside bounds was written", x, y)
			}
		}
	}
}

// gradientScene colors a ray by its direction
type gradientScene struct{}

func (gradientScene) Trace(ray core.Ray, depth int) core.Color {
	d := ray.Direction
	return core.NewColor(int((d.X+1)*127), int((d.Y+1)*127), int(-d.Z*255))
}
