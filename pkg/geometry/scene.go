package geometry

import (
	"fmt"
	"math"

	"github.com/taigrr/cornell/pkg/math3d"
)

// Scene is an ordered, read-only list of objects. Traversal order is the
// slice order, which also decides equal-distance ties.
type Scene struct {
	Objects []Object
}

// NewScene builds a scene and validates all of its geometry.
func NewScene(objects ...Object) (*Scene, error) {
	s := &Scene{Objects: objects}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Validate rejects empty scenes, empty objects and degenerate triangles.
func (s *Scene) Validate() error {
	if s == nil || len(s.Objects) == 0 {
		return ErrEmptyScene
	}
	for i, o := range s.Objects {
		if err := o.Validate(); err != nil {
			return fmt.Errorf("object %d: %w", i, err)
		}
	}
	return nil
}

// TriangleCount returns the total number of triangles in all objects.
func (s *Scene) TriangleCount() int {
	n := 0
	for _, o := range s.Objects {
		n += len(o.Triangles)
	}
	return n
}

// Triangle returns the triangle identified by an intersection's index pair.
func (s *Scene) Triangle(objectIndex, triangleIndex int) *Triangle {
	return &s.Objects[objectIndex].Triangles[triangleIndex]
}

// Intersection is the result of a closest-hit query.
type Intersection struct {
	Position      math3d.Vec3
	Distance      float64 // Euclidean distance from the ray origin
	ObjectIndex   int
	TriangleIndex int
}

// NoHit returns the sentinel intersection: infinite distance, indices -1.
func NoHit() Intersection {
	return Intersection{
		Distance:      math.Inf(1),
		ObjectIndex:   -1,
		TriangleIndex: -1,
	}
}

// Found reports whether the intersection refers to a surface.
func (i Intersection) Found() bool {
	return i.ObjectIndex >= 0 && !math.IsInf(i.Distance, 1)
}
