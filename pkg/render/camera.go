package render

import (
	"errors"
	"fmt"
	"math"

	"github.com/taigrr/cornell/pkg/geometry"
	"github.com/taigrr/cornell/pkg/math3d"
)

// ErrSampleCount is returned when an antialiasing sample count is not a
// positive perfect square.
var ErrSampleCount = errors.New("sample count must be a positive perfect square")

// Camera is a pinhole camera that can only turn about the vertical axis.
type Camera struct {
	// Position in world space
	Position math3d.Vec3

	// FocalLength is the distance from the pinhole to the image plane, in pixels.
	FocalLength float64

	yaw      float64
	rotation math3d.Mat3
}

// NewCamera creates a camera at pos turned by yaw radians.
func NewCamera(pos math3d.Vec3, yaw, focal float64) *Camera {
	c := &Camera{
		Position:    pos,
		FocalLength: focal,
	}
	c.SetYaw(yaw)
	return c
}

// Yaw returns the camera's rotation about the Y axis in radians.
func (c *Camera) Yaw() float64 {
	return c.yaw
}

// SetYaw sets the yaw angle and recomputes the rotation matrix.
func (c *Camera) SetYaw(yaw float64) {
	c.yaw = yaw
	c.rotation = math3d.YawRotation(yaw)
}

// Forward returns the viewing direction (column 2 of the rotation).
func (c *Camera) Forward() math3d.Vec3 {
	return c.rotation.Col(2)
}

// Ray returns the primary ray through pixel (x, y) of a w×h image.
// x and y may be fractional to address points inside a pixel.
func (c *Camera) Ray(x, y float64, w, h int) geometry.Ray {
	local := math3d.V3(x-float64(w)/2, y-float64(h)/2, c.FocalLength).Normalize()
	return geometry.NewRay(c.Position, c.rotation.MulVec3(local))
}

// Rays returns one ray per sub-cell center of an √n×√n grid laid over pixel
// (x, y). With n = 1 this is the single ray through the pixel itself.
func (c *Camera) Rays(x, y, w, h, n int) ([]geometry.Ray, error) {
	offsets, err := SampleOffsets(n)
	if err != nil {
		return nil, err
	}
	rays := make([]geometry.Ray, len(offsets))
	for i, o := range offsets {
		rays[i] = c.Ray(float64(x)+o[0], float64(y)+o[1], w, h)
	}
	return rays, nil
}

// SampleOffsets returns the sub-cell center offsets of an √n×√n grid
// relative to the pixel coordinate, each in (-0.5, 0.5). Rows are emitted
// top to bottom.
func SampleOffsets(n int) ([][2]float64, error) {
	k := GridSize(n)
	if k == 0 {
		return nil, fmt.Errorf("%d samples: %w", n, ErrSampleCount)
	}
	offsets := make([][2]float64, 0, n)
	step := 1 / float64(k)
	for j := range k {
		for i := range k {
			offsets = append(offsets, [2]float64{
				(float64(i)+0.5)*step - 0.5,
				(float64(j)+0.5)*step - 0.5,
			})
		}
	}
	return offsets, nil
}

// GridSize returns √n when n is a positive perfect square, and 0 otherwise.
func GridSize(n int) int {
	if n <= 0 {
		return 0
	}
	k := int(math.Round(math.Sqrt(float64(n))))
	if k*k != n {
		return 0
	}
	return k
}

// Depth returns the distance of p in front of the camera along Forward.
func (c *Camera) Depth(p math3d.Vec3) float64 {
	return c.Forward().Dot(p.Sub(c.Position))
}

// Project maps a world point to fractional pixel coordinates of a w×h image.
// visible is false for points at or behind the image plane's origin.
func (c *Camera) Project(p math3d.Vec3, w, h int) (x, y float64, visible bool) {
	local := c.rotation.Transpose().MulVec3(p.Sub(c.Position))
	if local.Z <= 0 {
		return 0, 0, false
	}
	x = c.FocalLength*local.X/local.Z + float64(w)/2
	y = c.FocalLength*local.Y/local.Z + float64(h)/2
	return x, y, true
}
