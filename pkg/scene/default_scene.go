package scene

import (
	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
)

// NewDefaultScene creates three colored spheres of varying reflectivity on a
// large diffuse floor, lit by two overhead lights
func NewDefaultScene() *Scene {
	s := NewScene()

	s.AddSphere(geometry.NewSphere(core.NewVec3(0, 0, -5), 1.0, core.NewColor(255, 0, 0), 0.5))  // red
	s.AddSphere(geometry.NewSphere(core.NewVec3(-2, 0, -5), 1.0, core.NewColor(0, 255, 0), 0.3)) // green
	s.AddSphere(geometry.NewSphere(core.NewVec3(2, 0, -5), 1.0, core.NewColor(0, 0, 255), 0.7))  // blue

	// Floor: a huge sphere whose top sits just under the others
	s.AddSphere(geometry.NewSphere(core.NewVec3(0, -5001, 0), 5000, core.NewColor(200, 200, 200), 0.0))

	s.AddLight(core.NewVec3(5, 5, -5))
	s.AddLight(core.NewVec3(-5, 5, -5))

	return s
}

// NewMirrorScene places two perfect mirrors facing each other around a
// diffuse sphere, so reflections bounce until the depth limit
func NewMirrorScene() *Scene {
	s := NewScene()

	s.AddSphere(geometry.NewSphere(core.NewVec3(-2.5, 0, -6), 1.5, core.NewColor(230, 230, 230), 1.0))
	s.AddSphere(geometry.NewSphere(core.NewVec3(2.5, 0, -6), 1.5, core.NewColor(230, 230, 230), 1.0))
	s.AddSphere(geometry.NewSphere(core.NewVec3(0, -0.5, -7), 0.5, core.NewColor(255, 160, 0), 0.0))
	s.AddSphere(geometry.NewSphere(core.NewVec3(0, -5001.5, 0), 5000, core.NewColor(90, 90, 120), 0.1))

	s.AddLight(core.NewVec3(0, 5, -3))

	return s
}
