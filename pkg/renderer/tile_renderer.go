package renderer

import (
	"image"
)

// Tile is a rectangular region of the frame rendered as one unit of work
type Tile struct {
	ID     int             // Unique tile identifier
	Bounds image.Rectangle // Pixel bounds (x0,y0,x1,y1)
}

// NewTile creates a new tile with the specified bounds
func NewTile(id int, bounds image.Rectangle) *Tile {
	return &Tile{ID: id, Bounds: bounds}
}

// NewTileGrid creates a grid of tiles covering the entire image
func NewTileGrid(width, height, tileSize int) []*Tile {
	if tileSize <= 0 {
		tileSize = max(width, height)
	}

	var tiles []*Tile
	tileID := 0

	tilesX := (width + tileSize - 1) / tileSize // Ceiling division
	tilesY := (height + tileSize - 1) / tileSize

	for tileY := 0; tileY < tilesY; tileY++ {
		for tileX := 0; tileX < tilesX; tileX++ {
			x0 := tileX * tileSize
			y0 := tileY * tileSize
			x1 := min(x0+tileSize, width) // Don't exceed image bounds
			y1 := min(y0+tileSize, height)

			tiles = append(tiles, NewTile(tileID, image.Rect(x0, y0, x1, y1)))
			tileID++
		}
	}

	return tiles
}

// TileRenderer traces every pixel of a region and writes it to a framebuffer
type TileRenderer struct {
	scene  Scene
	camera *Camera
}

// NewTileRenderer creates a new tile renderer for the given scene and camera
func NewTileRenderer(scene Scene, camera *Camera) *TileRenderer {
	return &TileRenderer{scene: scene, camera: camera}
}

// RenderTileBounds renders pixels within bounds in row-major order.
// Concurrent calls are safe as long as their bounds do not overlap.
func (tr *TileRenderer) RenderTileBounds(img *image.RGBA, bounds image.Rectangle) int {
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		tr.renderRow(img, y, bounds.Min.X, bounds.Max.X)
	}
	return bounds.Dx() * bounds.Dy()
}

func (tr *TileRenderer) renderRow(img *image.RGBA, y, x0, x1 int) {
	for x := x0; x < x1; x++ {
		ray := tr.camera.GetRay(x, y)
		img.SetRGBA(x, y, tr.scene.Trace(ray, 0).RGBA())
	}
}
