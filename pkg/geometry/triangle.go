package geometry

import (
	"math"

	"github.com/taigrr/cornell/pkg/math3d"
)

// parallelEpsilon is the |det A| threshold under which a ray is treated as
// parallel to the triangle plane.
const parallelEpsilon = 1e-12

// Triangle is a flat-colored triangular surface.
// The normal is derived from the vertices and cannot be set directly.
type Triangle struct {
	V0, V1, V2 math3d.Vec3
	Color      math3d.Vec3 // Diffuse reflectance per channel (not clamped)

	normal math3d.Vec3
}

// NewTriangle creates a triangle and computes its normal.
func NewTriangle(v0, v1, v2, color math3d.Vec3) Triangle {
	t := Triangle{Color: color}
	t.SetVertices(v0, v1, v2)
	return t
}

// SetVertices replaces the vertices and recomputes the normal.
func (t *Triangle) SetVertices(v0, v1, v2 math3d.Vec3) {
	t.V0, t.V1, t.V2 = v0, v1, v2
	t.computeNormal()
}

// computeNormal sets normal = normalize((V2-V0) × (V1-V0)).
func (t *Triangle) computeNormal() {
	e1 := t.V1.Sub(t.V0)
	e2 := t.V2.Sub(t.V0)
	t.normal = e2.Cross(e1).Normalize()
}

// Normal returns the unit surface normal.
func (t Triangle) Normal() math3d.Vec3 {
	return t.normal
}

// Area returns the triangle's surface area.
func (t Triangle) Area() float64 {
	return t.V1.Sub(t.V0).Cross(t.V2.Sub(t.V0)).Len() / 2
}

// Degenerate reports whether the triangle has (near) zero area or a
// non-finite vertex.
func (t Triangle) Degenerate() bool {
	if !t.V0.IsFinite() || !t.V1.IsFinite() || !t.V2.IsFinite() {
		return true
	}
	return t.Area() < parallelEpsilon/2
}

// Hit describes where a ray meets a triangle.
type Hit struct {
	T    float64     // Parametric distance; Euclidean when the direction is unit length
	U, V float64     // Barycentric weights of V1 and V2
	P    math3d.Vec3 // V0 + U*(V1-V0) + V*(V2-V0)
}

// Intersect solves [-dir, e1, e2]·(t, u, v)ᵀ = origin - V0 with Cramer's rule.
// A hit requires t > eps, -eps < u <= 1+eps, v > -eps and u+v <= 1+eps.
// Missing the triangle is a normal outcome and is reported with ok = false.
func (t Triangle) Intersect(origin, dir math3d.Vec3, eps float64) (hit Hit, ok bool) {
	e1 := t.V1.Sub(t.V0)
	e2 := t.V2.Sub(t.V0)
	b := origin.Sub(t.V0)
	negDir := dir.Negate()

	detA := math3d.Det3(negDir, e1, e2)
	if math.Abs(detA) < parallelEpsilon {
		return Hit{}, false
	}

	tt := math3d.Det3(b, e1, e2) / detA
	if tt <= eps {
		return Hit{}, false
	}

	u := math3d.Det3(negDir, b, e2) / detA
	if u <= -eps || u > 1+eps {
		return Hit{}, false
	}

	v := math3d.Det3(negDir, e1, b) / detA
	if v <= -eps || u+v > 1+eps {
		return Hit{}, false
	}

	return Hit{
		T: tt,
		U: u,
		V: v,
		P: t.V0.Add(e1.Scale(u)).Add(e2.Scale(v)),
	}, true
}
