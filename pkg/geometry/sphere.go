package geometry

import (
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// Sphere represents a sphere with a flat color and a specular coefficient.
// Specular 0 is fully diffuse; 1 is a perfect mirror.
type Sphere struct {
	Center   core.Vec3
	Radius   float64
	Color    core.Color
	Specular float64
}

// NewSphere creates a new sphere
func NewSphere(center core.Vec3, radius float64, color core.Color, specular float64) Sphere {
	return Sphere{
		Center:   center,
		Radius:   radius,
		Color:    color,
		Specular: specular,
	}
}

// Intersect returns the nearest non-negative ray parameter at which the ray
// meets the sphere. A ray starting inside the sphere reports its exit point.
func (s Sphere) Intersect(ray core.Ray) (float64, bool) {
	// Vector from sphere center to ray origin
	oc := ray.Origin.Subtract(s.Center)

	// Quadratic equation coefficients: at² + bt + c = 0
	a := ray.Direction.Dot(ray.Direction)
	b := 2.0 * oc.Dot(ray.Direction)
	c := oc.Dot(oc) - s.Radius*s.Radius

	discriminant := b*b - 4*a*c
	if discriminant < 0 {
		return 0, false
	}

	sqrtD := math.Sqrt(discriminant)

	// Try the closer root first, then the farther one
	t := (-b - sqrtD) / (2.0 * a)
	if t < 0 {
		t = (-b + sqrtD) / (2.0 * a)
		if t < 0 {
			return 0, false
		}
	}
	return t, true
}

// Normal returns the outward unit normal at a point on the surface
func (s Sphere) Normal(point core.Vec3) core.Vec3 {
	return point.Subtract(s.Center).Normalize()
}
