package renderer

import (
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// Direction is a camera movement along one of the image axes
type Direction int

const (
	MoveUp Direction = iota
	MoveDown
	MoveLeft
	MoveRight
)

func (d Direction) String() string {
	switch d {
	case MoveUp:
		return "up"
	case MoveDown:
		return "down"
	case MoveLeft:
		return "left"
	case MoveRight:
		return "right"
	default:
		return "unknown"
	}
}

// CameraConfig contains the pinhole camera parameters
type CameraConfig struct {
	Eye    core.Vec3 // Camera position
	Width  int       // Image width in pixels
	Height int       // Image height in pixels
	VFov   float64   // Vertical field of view in radians
}

// Camera is a pinhole camera looking down -Z from a movable eye
type Camera struct {
	eye    core.Vec3
	width  int
	height int
	vfov   float64
}

// NewCamera creates a camera from its configuration
func NewCamera(config CameraConfig) *Camera {
	return &Camera{
		eye:    config.Eye,
		width:  config.Width,
		height: config.Height,
		vfov:   config.VFov,
	}
}

// Width returns the image width in pixels
func (c *Camera) Width() int { return c.width }

// Height returns the image height in pixels
func (c *Camera) Height() int { return c.height }

// Eye returns the current eye position
func (c *Camera) Eye() core.Vec3 { return c.eye }

// SetEye moves the eye to an absolute position. Call between frames only.
func (c *Camera) SetEye(eye core.Vec3) { c.eye = eye }

// Move shifts the eye by step along a direction and returns the new position.
// Call between frames only.
func (c *Camera) Move(d Direction, step float64) core.Vec3 {
	switch d {
	case MoveUp:
		c.eye.Y += step
	case MoveDown:
		c.eye.Y -= step
	case MoveLeft:
		c.eye.X -= step
	case MoveRight:
		c.eye.X += step
	}
	return c.eye
}

// GetRay returns the unit-direction ray through the center of pixel (x, y).
// Row 0 is the top of the image.
func (c *Camera) GetRay(x, y int) core.Ray {
	scale := math.Tan(c.vfov / 2)
	aspect := float64(c.width) / float64(c.height)

	// Pixel center to normalized device coordinates in [-1, 1]
	ndcX := (2*((float64(x)+0.5)/float64(c.width)) - 1) * scale * aspect
	ndcY := (1 - 2*((float64(y)+0.5)/float64(c.height))) * scale

	direction := core.NewVec3(ndcX, ndcY, -1).Normalize()
	return core.NewRay(c.eye, direction)
}
