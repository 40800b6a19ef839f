package renderer

import (
	"context"
	"fmt"
	"image"
	"time"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// Scene is anything that can color a ray. Tracing must be read-only so
// pixels can be evaluated in any order.
type Scene interface {
	Trace(ray core.Ray, depth int) core.Color
}

// RenderConfig contains frame rendering configuration
type RenderConfig struct {
	TileSize   int // Size of each tile in pixels
	NumWorkers int // Number of parallel workers (0 = use CPU count, 1 = sequential)
}

// DefaultRenderConfig returns sensible default values
func DefaultRenderConfig() RenderConfig {
	return RenderConfig{
		TileSize:   32,
		NumWorkers: 0,
	}
}

// Raytracer drives one primary ray per pixel through the scene and writes
// the results into a framebuffer
type Raytracer struct {
	scene  Scene
	camera *Camera
	config RenderConfig
	logger core.Logger
	tiles  *TileRenderer
}

// NewRaytracer creates a new raytracer. A nil logger discards output.
func NewRaytracer(scene Scene, camera *Camera, config RenderConfig, logger core.Logger) *Raytracer {
	if logger == nil {
		logger = discardLogger{}
	}
	return &Raytracer{
		scene:  scene,
		camera: camera,
		config: config,
		logger: logger,
		tiles:  NewTileRenderer(scene, camera),
	}
}

// Camera returns the camera whose eye may be moved between frames
func (rt *Raytracer) Camera() *Camera {
	return rt.camera
}

// TileFunc is called once per finished tile. Calls are made from a single
// goroutine, and the tile's pixels in img are final when it runs.
type TileFunc func(tile *Tile, img *image.RGBA)

// RenderFrame renders a complete frame. Parallel and sequential rendering
// produce identical images.
func (rt *Raytracer) RenderFrame(ctx context.Context) (*image.RGBA, RenderStats, error) {
	return rt.RenderFrameTiles(ctx, nil)
}

// RenderFrameTiles renders a complete frame like RenderFrame, reporting each
// tile as it completes. A sequential render reports the whole frame as one tile.
func (rt *Raytracer) RenderFrameTiles(ctx context.Context, onTile TileFunc) (*image.RGBA, RenderStats, error) {
	width, height := rt.camera.Width(), rt.camera.Height()
	if width <= 0 || height <= 0 {
		return nil, RenderStats{}, fmt.Errorf("invalid frame size %dx%d", width, height)
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	startTime := time.Now()

	var workers int
	var err error
	if rt.config.NumWorkers == 1 {
		workers = 1
		err = rt.renderSequential(ctx, img)
		if err == nil && onTile != nil {
			onTile(NewTile(0, img.Bounds()), img)
		}
	} else {
		workers, err = rt.renderParallel(ctx, img, onTile)
	}
	if err != nil {
		return nil, RenderStats{}, fmt.Errorf("render frame: %w", err)
	}

	stats := CalculateRenderStats(img)
	stats.Workers = workers
	stats.Duration = time.Since(startTime)

	rt.logger.Printf("Frame %dx%d rendered in %v (%d workers, avg luminance %.3f)\n",
		width, height, stats.Duration, workers, stats.AverageLuminance)

	return img, stats, nil
}

// renderSequential renders rows top to bottom, checking for cancellation per row
func (rt *Raytracer) renderSequential(ctx context.Context, img *image.RGBA) error {
	bounds := img.Bounds()
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		rt.tiles.renderRow(img, y, bounds.Min.X, bounds.Max.X)
	}
	return nil
}

// renderParallel distributes tiles over a worker pool
func (rt *Raytracer) renderParallel(ctx context.Context, img *image.RGBA, onTile TileFunc) (int, error) {
	bounds := img.Bounds()
	tiles := NewTileGrid(bounds.Dx(), bounds.Dy(), rt.config.TileSize)

	pool := NewWorkerPool(rt.tiles, img, len(tiles), rt.config.NumWorkers)
	pool.Start(ctx)

	// Collect results while workers run so tiles are reported as they finish
	collected := make(chan int, 1)
	go func() {
		pixels := 0
		for result := range pool.Results() {
			pixels += result.Pixels
			if onTile != nil {
				onTile(tiles[result.TaskID], img)
			}
		}
		collected <- pixels
	}()

	for i, tile := range tiles {
		pool.SubmitTask(TileTask{Tile: tile, TaskID: i})
	}

	err := pool.Wait()
	pixels := <-collected
	if err != nil {
		return pool.GetNumWorkers(), err
	}
	if pixels != bounds.Dx()*bounds.Dy() {
		return pool.GetNumWorkers(), fmt.Errorf("rendered %d of %d pixels", pixels, bounds.Dx()*bounds.Dy())
	}

	return pool.GetNumWorkers(), nil
}
