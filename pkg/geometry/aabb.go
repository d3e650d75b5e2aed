package geometry

import (
	"math"

	"github.com/taigrr/cornell/pkg/math3d"
)

var inf = math.Inf(1)

// AABB represents an axis-aligned bounding box.
type AABB struct {
	Min math3d.Vec3
	Max math3d.Vec3
}

// BoundsOf returns the smallest AABB containing every vertex of every triangle.
// The result is the zero box when tris is empty.
func BoundsOf(tris []Triangle) AABB {
	if len(tris) == 0 {
		return AABB{}
	}
	b := AABB{Min: tris[0].V0, Max: tris[0].V0}
	for _, t := range tris {
		for _, v := range [3]math3d.Vec3{t.V0, t.V1, t.V2} {
			b.Min = b.Min.Min(v)
			b.Max = b.Max.Max(v)
		}
	}
	return b
}

// Center returns the center of the AABB.
func (b AABB) Center() math3d.Vec3 {
	return b.Min.Add(b.Max).Scale(0.5)
}

// Size returns the dimensions of the AABB.
func (b AABB) Size() math3d.Vec3 {
	return b.Max.Sub(b.Min)
}

// Corners returns the 8 corners of the box.
func (b AABB) Corners() [8]math3d.Vec3 {
	return [8]math3d.Vec3{
		{X: b.Min.X, Y: b.Min.Y, Z: b.Min.Z},
		{X: b.Max.X, Y: b.Min.Y, Z: b.Min.Z},
		{X: b.Max.X, Y: b.Max.Y, Z: b.Min.Z},
		{X: b.Min.X, Y: b.Max.Y, Z: b.Min.Z},
		{X: b.Min.X, Y: b.Min.Y, Z: b.Max.Z},
		{X: b.Max.X, Y: b.Min.Y, Z: b.Max.Z},
		{X: b.Max.X, Y: b.Max.Y, Z: b.Max.Z},
		{X: b.Min.X, Y: b.Max.Y, Z: b.Max.Z},
	}
}

// Pad grows the box to cover every point a triangle intersector with
// tolerance eps can report for the triangles inside it. Barycentric weights
// may each dip to -eps, so a reported point can sit up to 2*eps of an edge
// length outside the exact box; the largest extent bounds every edge
// component. Extents below one are treated as one.
func (b AABB) Pad(eps float64) AABB {
	s := b.Size()
	pad := math3d.Splat(2 * eps * max(s.X, s.Y, s.Z, 1))
	return AABB{Min: b.Min.Sub(pad), Max: b.Max.Add(pad)}
}

// ContainsPoint returns true if the point is inside the AABB.
func (b AABB) ContainsPoint(p math3d.Vec3) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X &&
		p.Y >= b.Min.Y && p.Y <= b.Max.Y &&
		p.Z >= b.Min.Z && p.Z <= b.Max.Z
}

// Hit reports whether the infinite line through origin along dir crosses the
// box, using the slab method: per axis the entry/exit distances are ordered
// and the three intervals intersected. It is a conservative pre-filter, so a
// true result only means the contained triangles are worth testing.
//
// A zero direction component never divides: the line is parallel to that
// slab and the axis only rejects when the origin lies outside it.
func (b AABB) Hit(origin, dir math3d.Vec3) bool {
	if b.ContainsPoint(origin) {
		return true
	}
	tNear, tFar := -inf, inf

	for axis := range 3 {
		o := origin.Axis(axis)
		d := dir.Axis(axis)
		lo := b.Min.Axis(axis)
		hi := b.Max.Axis(axis)

		if d == 0 {
			if o < lo || o > hi {
				return false
			}
			continue
		}

		t1 := (lo - o) / d
		t2 := (hi - o) / d
		if t1 > t2 {
			t1, t2 = t2, t1
		}

		if t1 > tNear {
			tNear = t1
		}
		if t2 < tFar {
			tFar = t2
		}
		if tNear > tFar {
			return false
		}
	}

	return true
}
