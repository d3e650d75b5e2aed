package geometry

import "errors"

var (
	// ErrEmptyScene is returned when a scene has no objects.
	ErrEmptyScene = errors.New("scene has no objects")

	// ErrEmptyObject is returned when an object has no triangles.
	ErrEmptyObject = errors.New("object has no triangles")

	// ErrDegenerateTriangle is returned for zero-area or non-finite triangles,
	// whose normal is undefined.
	ErrDegenerateTriangle = errors.New("degenerate triangle")
)
