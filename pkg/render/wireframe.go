package render

import (
	"github.com/taigrr/cornell/pkg/geometry"
	"github.com/taigrr/cornell/pkg/math3d"
)

// nearZ is the camera-space depth segments are clipped against.
const nearZ = 1e-3

// Wireframe draws line overlays on top of a traced frame, projected through
// the same pinhole camera that generated the primary rays.
type Wireframe struct {
	camera *Camera
	fb     *Framebuffer
}

// NewWireframe creates a new wireframe renderer.
func NewWireframe(camera *Camera, fb *Framebuffer) *Wireframe {
	return &Wireframe{
		camera: camera,
		fb:     fb,
	}
}

// DrawLine3D draws a line in 3D space, clipped to the part in front of the
// camera.
func (w *Wireframe) DrawLine3D(p1, p2 math3d.Vec3, color Color) {
	d1, d2 := w.camera.Depth(p1), w.camera.Depth(p2)
	if d1 < nearZ && d2 < nearZ {
		return
	}
	if d1 < nearZ {
		p1 = clipNear(p1, p2, d1, d2)
	} else if d2 < nearZ {
		p2 = clipNear(p2, p1, d2, d1)
	}

	x1, y1, ok1 := w.camera.Project(p1, w.fb.Width, w.fb.Height)
	x2, y2, ok2 := w.camera.Project(p2, w.fb.Width, w.fb.Height)
	if !ok1 || !ok2 {
		return
	}
	w.fb.DrawLine(int(x1), int(y1), int(x2), int(y2), color)
}

// clipNear moves p, at depth dp, along the segment towards q (at depth dq)
// until it reaches depth nearZ.
func clipNear(p, q math3d.Vec3, dp, dq float64) math3d.Vec3 {
	t := (nearZ - dp) / (dq - dp)
	return p.Add(q.Sub(p).Scale(t))
}

// Box edges as index pairs into AABB.Corners.
var boxEdges = [12][2]int{
	{0, 1}, {1, 2}, {2, 3}, {3, 0},
	{4, 5}, {5, 6}, {6, 7}, {7, 4},
	{0, 4}, {1, 5}, {2, 6}, {3, 7},
}

// DrawBounds draws the 12 edges of an axis-aligned box.
func (w *Wireframe) DrawBounds(b geometry.AABB, color Color) {
	corners := b.Corners()
	for _, e := range boxEdges {
		w.DrawLine3D(corners[e[0]], corners[e[1]], color)
	}
}

// DrawScene draws the bounding box of every object in the scene.
func (w *Wireframe) DrawScene(s *geometry.Scene, color Color) {
	for _, o := range s.Objects {
		w.DrawBounds(o.Bounds, color)
	}
}

// DrawPoint draws a point as a small cross.
func (w *Wireframe) DrawPoint(pos math3d.Vec3, size float64, color Color) {
	halfSize := size / 2
	w.DrawLine3D(
		math3d.V3(pos.X-halfSize, pos.Y, pos.Z),
		math3d.V3(pos.X+halfSize, pos.Y, pos.Z),
		color,
	)
	w.DrawLine3D(
		math3d.V3(pos.X, pos.Y-halfSize, pos.Z),
		math3d.V3(pos.X, pos.Y+halfSize, pos.Z),
		color,
	)
	w.DrawLine3D(
		math3d.V3(pos.X, pos.Y, pos.Z-halfSize),
		math3d.V3(pos.X, pos.Y, pos.Z+halfSize),
		color,
	)
}
