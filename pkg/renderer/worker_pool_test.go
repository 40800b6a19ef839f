package renderer

import (
	"context"
	"image"
	"math"
	"runtime"
	"testing"
)

func TestWorkerPool_RendersAllTasks(t *testing.T) {
	camera := NewCamera(CameraConfig{Width: 20, Height: 10, VFov: math.Pi / 2})
	tr := NewTileRenderer(&gradientScene{}, camera)
	img := image.NewRGBA(image.Rect(0, 0, 20, 10))
	tiles := NewTileGrid(20, 10, 4)

	pool := NewWorkerPool(tr, img, len(tiles), 3)
	pool.Start(context.Background())
	for i, tile := range tiles {
		pool.SubmitTask(TileTask{Tile: tile, TaskID: i})
	}
	if err := pool.Wait(); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	seen := make(map[int]bool)
	total := 0
	for result := range pool.Results() {
		if seen[result.TaskID] {
			t.Errorf("Task %d reported twice", result.TaskID)
		}
		seen[result.TaskID] = true
		total += result.Pixels
	}

	if len(seen) != len(tiles) {
		t.Errorf("Expected %d results, got %d", len(tiles), len(seen))
	}
	if total != 200 {
		t.Errorf("Expected 200 pixels, got %d", total)
	}
}

func TestWorkerPool_DefaultWorkerCount(t *testing.T) {
	pool := NewWorkerPool(nil, nil, 1, 0)
	if pool.GetNumWorkers() != runtime.NumCPU() {
		t.Errorf("Expected %d workers, got %d", runtime.NumCPU(), pool.GetNumWorkers())
	}
}
