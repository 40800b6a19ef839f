package scene

import (
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
)

const (
	// MaxDepth is the deepest recursion level that is still shaded.
	// Trace returns the background for any depth beyond it.
	MaxDepth = 5

	// DefaultAmbient is the ambient intensity of a new scene
	DefaultAmbient = 0.2

	shininess      = 32
	reflectionBias = 1e-4
)

// Scene holds the spheres and point lights to be rendered.
// It is built once and then only read, so it is safe to trace from many
// goroutines once setup is complete.
type Scene struct {
	spheres []geometry.Sphere
	lights  []core.Vec3
	ambient float64

	traceHook func(depth int) // observes every Trace call; tests only
}

// Hit describes the nearest intersection along a ray
type Hit struct {
	Index  int             // Position of the sphere in insertion order
	Sphere geometry.Sphere // The sphere that was hit
	T      float64         // Ray parameter of the intersection
	Point  core.Vec3       // Point of intersection
	Normal core.Vec3       // Outward surface normal at Point
}

// NewScene creates an empty scene with the default ambient term
func NewScene() *Scene {
	return &Scene{ambient: DefaultAmbient}
}

// AddSphere appends a sphere to the scene
func (s *Scene) AddSphere(sphere geometry.Sphere) {
	s.spheres = append(s.spheres, sphere)
}

// AddLight appends a point light at the given position
func (s *Scene) AddLight(position core.Vec3) {
	s.lights = append(s.lights, position)
}

// SetAmbient overrides the ambient intensity
func (s *Scene) SetAmbient(ambient float64) {
	s.ambient = ambient
}

// Ambient returns the ambient intensity
func (s *Scene) Ambient() float64 { return s.ambient }

// Spheres returns a copy of the spheres in insertion order
func (s *Scene) Spheres() []geometry.Sphere {
	return append([]geometry.Sphere(nil), s.spheres...)
}

// Lights returns a copy of the light positions in insertion order
func (s *Scene) Lights() []core.Vec3 {
	return append([]core.Vec3(nil), s.lights...)
}

// ClosestHit scans every sphere and returns the nearest forward intersection.
// On exact ties the sphere added first wins.
func (s *Scene) ClosestHit(ray core.Ray) (Hit, bool) {
	closestT := math.Inf(1)
	index := -1

	for i, sphere := range s.spheres {
		if t, ok := sphere.Intersect(ray); ok && t < closestT {
			closestT = t
			index = i
		}
	}

	if index < 0 {
		return Hit{}, false
	}

	sphere := s.spheres[index]
	point := ray.At(closestT)
	return Hit{
		Index:  index,
		Sphere: sphere,
		T:      closestT,
		Point:  point,
		Normal: sphere.Normal(point),
	}, true
}

// Shade returns the local light intensity at a hit: the ambient term plus
// diffuse and Phong specular contributions summed over all lights.
// No shadow rays are cast, so every light reaches every visible surface.
func (s *Scene) Shade(ray core.Ray, hit Hit) float64 {
	intensity := s.ambient

	for _, light := range s.lights {
		toLight := light.Subtract(hit.Point)
		distance := toLight.Length()
		if distance < core.Epsilon {
			continue
		}
		lightDir := toLight.Multiply(1.0 / distance)

		intensity += math.Max(0, hit.Normal.Dot(lightDir))

		if hit.Sphere.Specular > 0 {
			intensity += specularHighlight(ray, hit, lightDir) * hit.Sphere.Specular
		}
	}

	return intensity
}

// specularHighlight returns the Phong term for a single light
func specularHighlight(ray core.Ray, hit Hit, lightDir core.Vec3) float64 {
	toViewer := ray.Origin.Subtract(hit.Point)
	if toViewer.Length() < core.Epsilon {
		return 0
	}
	viewDir := toViewer.Normalize()

	mirrored := hit.Normal.Multiply(2 * hit.Normal.Dot(lightDir)).Subtract(lightDir)
	if mirrored.Length() < core.Epsilon {
		return 0
	}
	reflectDir := mirrored.Normalize()

	return math.Pow(math.Max(0, viewDir.Dot(reflectDir)), shininess)
}

// Trace returns the color seen along a ray. Reflective surfaces recurse on
// the mirrored ray with depth+1; depth starts at 0.
func (s *Scene) Trace(ray core.Ray, depth int) core.Color {
	if s.traceHook != nil {
		s.traceHook(depth)
	}

	if depth > MaxDepth {
		return core.Black
	}

	hit, ok := s.ClosestHit(ray)
	if !ok {
		return core.Black
	}

	local := hit.Sphere.Color.Scale(s.Shade(ray, hit))
	if hit.Sphere.Specular <= 0 {
		return local
	}

	// Mirror the incoming direction about the normal
	mirrored := ray.Direction.Subtract(hit.Normal.Multiply(2 * hit.Normal.Dot(ray.Direction)))
	if mirrored.Length() <= core.Epsilon {
		return local
	}

	// Nudge the origin off the surface to avoid re-hitting it
	origin := hit.Point.Add(hit.Normal.Multiply(reflectionBias))
	reflected := s.Trace(core.NewRay(origin, mirrored.Normalize()), depth+1)

	return local.Blend(reflected, hit.Sphere.Specular)
}
