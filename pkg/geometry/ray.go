// Package geometry holds the immutable scene primitives and the exact
// ray-primitive tests the tracer is built on.
package geometry

import "github.com/taigrr/cornell/pkg/math3d"

// Ray is a half-line starting at Origin and travelling along Direction.
// Direction does not have to be normalized.
type Ray struct {
	Origin    math3d.Vec3
	Direction math3d.Vec3
}

// NewRay creates a ray.
func NewRay(origin, direction math3d.Vec3) Ray {
	return Ray{Origin: origin, Direction: direction}
}

// Normalized returns the same ray with a unit-length direction, so that
// parametric distances along it are Euclidean.
func (r Ray) Normalized() Ray {
	return Ray{Origin: r.Origin, Direction: r.Direction.Normalize()}
}
