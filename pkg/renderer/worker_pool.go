package renderer

import (
	"context"
	"image"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// TileTask represents a tile rendering task for the worker pool
type TileTask struct {
	Tile   *Tile
	TaskID int
}

// TileResult contains the result from rendering a tile
type TileResult struct {
	TaskID int
	Pixels int // Number of pixels written
}

// WorkerPool renders tiles of one frame in parallel. Every tile covers a
// disjoint set of pixels, so workers write to the shared image without locks.
type WorkerPool struct {
	taskQueue   chan TileTask
	resultQueue chan TileResult
	numWorkers  int
	renderer    *TileRenderer
	img         *image.RGBA
	group       *errgroup.Group
}

// NewWorkerPool creates a pool able to accept numTasks tasks without blocking.
// numWorkers <= 0 uses one worker per CPU.
func NewWorkerPool(renderer *TileRenderer, img *image.RGBA, numTasks, numWorkers int) *WorkerPool {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}

	return &WorkerPool{
		taskQueue:   make(chan TileTask, numTasks),
		resultQueue: make(chan TileResult, numTasks),
		numWorkers:  numWorkers,
		renderer:    renderer,
		img:         img,
	}
}

// Start launches the workers. They stop when the task queue is closed or
// ctx is cancelled.
func (wp *WorkerPool) Start(ctx context.Context) {
	group, ctx := errgroup.WithContext(ctx)
	wp.group = group

	for i := 0; i < wp.numWorkers; i++ {
		group.Go(func() error {
			return wp.run(ctx)
		})
	}
}

// SubmitTask submits a tile task to the worker pool
func (wp *WorkerPool) SubmitTask(task TileTask) {
	wp.taskQueue <- task
}

// Wait closes the task queue, waits for the workers and closes the results.
// It returns the first worker error, if any.
func (wp *WorkerPool) Wait() error {
	close(wp.taskQueue)
	err := wp.group.Wait()
	close(wp.resultQueue)
	return err
}

// Results returns the completed tile results. Wait closes it.
func (wp *WorkerPool) Results() <-chan TileResult {
	return wp.resultQueue
}

// GetNumWorkers returns the number of workers in the pool
func (wp *WorkerPool) GetNumWorkers() int {
	return wp.numWorkers
}

// run is the main worker loop
func (wp *WorkerPool) run(ctx context.Context) error {
	for task := range wp.taskQueue {
		if err := ctx.Err(); err != nil {
			return err
		}

		pixels := wp.renderer.RenderTileBounds(wp.img, task.Tile.Bounds)
		wp.resultQueue <- TileResult{TaskID: task.TaskID, Pixels: pixels}
	}
	return nil
}
