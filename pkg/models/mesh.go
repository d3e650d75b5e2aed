// Package models provides the scenes the tracer renders: the built-in
// Cornell box and meshes imported from glTF files.
package models

import (
	"github.com/taigrr/cornell/pkg/geometry"
	"github.com/taigrr/cornell/pkg/math3d"
)

// DefaultColor is the diffuse color of faces without a material.
var DefaultColor = White

// Mesh is an indexed triangle mesh as read from a model file, before it is
// turned into scene geometry.
type Mesh struct {
	Name      string
	Vertices  []math3d.Vec3
	Faces     []Face
	Materials []Material

	// Bounding box (calculated on load)
	BoundsMin math3d.Vec3
	BoundsMax math3d.Vec3
}

// Face represents a triangle face with vertex indices and material reference.
type Face struct {
	V        [3]int // Indices into Mesh.Vertices
	Material int    // Index into Mesh.Materials (-1 for no material)
}

// Material is the flat diffuse part of a glTF PBR material.
type Material struct {
	Name      string
	BaseColor [4]float64 // RGBA in 0-1 range
}

// Color returns the material's RGB diffuse color.
func (m Material) Color() math3d.Vec3 {
	return math3d.V3(m.BaseColor[0], m.BaseColor[1], m.BaseColor[2])
}

// NewMesh creates an empty mesh.
func NewMesh(name string) *Mesh {
	return &Mesh{Name: name}
}

// CalculateBounds computes the axis-aligned bounding box.
func (m *Mesh) CalculateBounds() {
	if len(m.Vertices) == 0 {
		return
	}

	m.BoundsMin = m.Vertices[0]
	m.BoundsMax = m.Vertices[0]

	for _, v := range m.Vertices[1:] {
		m.BoundsMin = m.BoundsMin.Min(v)
		m.BoundsMax = m.BoundsMax.Max(v)
	}
}

// Bounds returns the box last computed by CalculateBounds.
func (m *Mesh) Bounds() geometry.AABB {
	return geometry.AABB{Min: m.BoundsMin, Max: m.BoundsMax}
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Faces)
}

// Transform moves every vertex. A mirroring transform also reverses the
// winding of each face so that normals keep pointing the same way.
func (m *Mesh) Transform(tr math3d.Affine) {
	for i := range m.Vertices {
		m.Vertices[i] = tr.Apply(m.Vertices[i])
	}
	if tr.Mirrors() {
		for i := range m.Faces {
			f := &m.Faces[i]
			f.V[1], f.V[2] = f.V[2], f.V[1]
		}
	}
	m.CalculateBounds()
}

// FaceColor returns the diffuse color of face i.
func (m *Mesh) FaceColor(i int) math3d.Vec3 {
	mi := m.Faces[i].Material
	if mi < 0 || mi >= len(m.Materials) {
		return DefaultColor
	}
	return m.Materials[mi].Color()
}

// Triangles converts the faces to scene triangles. Degenerate faces are
// dropped and counted in skipped.
func (m *Mesh) Triangles() (tris []geometry.Triangle, skipped int) {
	tris = make([]geometry.Triangle, 0, len(m.Faces))
	for i, f := range m.Faces {
		t := geometry.NewTriangle(m.Vertices[f.V[0]], m.Vertices[f.V[1]], m.Vertices[f.V[2]], m.FaceColor(i))
		if t.Degenerate() {
			skipped++
			continue
		}
		tris = append(tris, t)
	}
	return tris, skipped
}

// ToObject converts the mesh to a scene object.
func (m *Mesh) ToObject() (geometry.Object, error) {
	tris, _ := m.Triangles()
	return geometry.NewObject(m.Name, tris)
}

// FitMeshes centers the meshes as a group and scales them uniformly so the
// largest extent spans [-1, 1]. The x and y axes are flipped to match the
// image convention where +y points down.
func FitMeshes(meshes []*Mesh) {
	if len(meshes) == 0 {
		return
	}
	var box geometry.AABB
	first := true
	for _, m := range meshes {
		if len(m.Vertices) == 0 {
			continue
		}
		m.CalculateBounds()
		if first {
			box = m.Bounds()
			first = false
			continue
		}
		box.Min = box.Min.Min(m.BoundsMin)
		box.Max = box.Max.Max(m.BoundsMax)
	}
	if first {
		return
	}

	center := box.Center()
	size := box.Size()
	maxDim := max(size.X, size.Y, size.Z)
	if maxDim <= 0 {
		return
	}
	s := 2.0 / maxDim
	transform := math3d.Scaling(math3d.V3(-s, -s, s)).Mul(math3d.Translation(center.Negate()))
	for _, m := range meshes {
		m.Transform(transform)
	}
}
