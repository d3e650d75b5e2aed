package geometry

import (
	"fmt"
)

// Object is a named group of triangles sharing one bounding box.
// The box is computed at construction and never updated.
type Object struct {
	Name      string
	Triangles []Triangle
	Bounds    AABB
}

// NewObject groups triangles into an object and computes its bounds.
// The triangle slice is copied.
func NewObject(name string, tris []Triangle) (Object, error) {
	if len(tris) == 0 {
		return Object{}, fmt.Errorf("object %q: %w", name, ErrEmptyObject)
	}
	owned := make([]Triangle, len(tris))
	copy(owned, tris)
	return Object{
		Name:      name,
		Triangles: owned,
		Bounds:    BoundsOf(owned),
	}, nil
}

// TriangleCount returns the number of triangles.
func (o Object) TriangleCount() int {
	return len(o.Triangles)
}

// Validate checks that every triangle has a well-defined normal.
func (o Object) Validate() error {
	if len(o.Triangles) == 0 {
		return fmt.Errorf("object %q: %w", o.Name, ErrEmptyObject)
	}
	for i, t := range o.Triangles {
		if t.Degenerate() {
			return fmt.Errorf("object %q triangle %d: %w", o.Name, i, ErrDegenerateTriangle)
		}
	}
	return nil
}
