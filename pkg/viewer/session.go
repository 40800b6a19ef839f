package viewer

import (
	"context"
	"fmt"
	"image"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/renderer"
)

// Session is the state of an interactive view: the raytracer, the current
// frame and whether the eye moved since that frame was rendered. It holds
// no window resources so it can be driven by any front end.
type Session struct {
	raytracer *renderer.Raytracer
	step      float64
	logger    core.Logger

	frame *image.RGBA
	stats renderer.RenderStats
	dirty bool
}

// NewSession creates a session whose first Frame call renders
func NewSession(rt *renderer.Raytracer, step float64, logger core.Logger) *Session {
	if logger == nil {
		logger = renderer.NewDefaultLogger()
	}
	return &Session{
		raytracer: rt,
		step:      step,
		logger:    logger,
		dirty:     true,
	}
}

// Move shifts the eye one step and marks the frame stale
func (s *Session) Move(d renderer.Direction) core.Vec3 {
	eye := s.raytracer.Camera().Move(d, s.step)
	s.dirty = true

	switch d {
	case renderer.MoveUp, renderer.MoveDown:
		s.logger.Printf("Camera moved %s to y=%.2f\n", d, eye.Y)
	default:
		s.logger.Printf("Camera moved %s to x=%.2f\n", d, eye.X)
	}
	return eye
}

// Eye returns the current eye position
func (s *Session) Eye() core.Vec3 {
	return s.raytracer.Camera().Eye()
}

// Frame returns the current frame, rendering it first if the eye moved.
// The boolean reports whether a new frame was rendered.
func (s *Session) Frame(ctx context.Context) (*image.RGBA, bool, error) {
	if !s.dirty && s.frame != nil {
		return s.frame, false, nil
	}

	img, stats, err := s.raytracer.RenderFrame(ctx)
	if err != nil {
		return nil, false, fmt.Errorf("failed to render frame: %w", err)
	}

	s.frame = img
	s.stats = stats
	s.dirty = false
	return img, true, nil
}

// Stats returns the statistics of the last rendered frame
func (s *Session) Stats() renderer.RenderStats {
	return s.stats
}

// Size returns the frame size in pixels
func (s *Session) Size() (int, int) {
	cam := s.raytracer.Camera()
	return cam.Width(), cam.Height()
}
