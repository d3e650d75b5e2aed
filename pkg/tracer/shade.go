package tracer

import (
	"fmt"
	"math"

	"github.com/taigrr/cornell/pkg/geometry"
	"github.com/taigrr/cornell/pkg/math3d"
)

// DirectLight returns the light arriving straight from the light source at
// a surface point, averaged over the light's samples. Each unoccluded
// sample contributes
//
//	Color / (4π·d³) · max(r·n, 0)
//
// where r is the unit direction toward the sample and d its distance.
// The cubic falloff is deliberate; it is not the physical inverse square.
func (t *Tracer) DirectLight(hit geometry.Intersection) (math3d.Vec3, error) {
	normal := t.Scene.Triangle(hit.ObjectIndex, hit.TriangleIndex).Normal()
	samples := t.Light.Samples(t.Options.LightSamples)

	var sum math3d.Vec3
	for _, s := range samples {
		toLight := s.Sub(hit.Position)
		d := toLight.Len()
		if d == 0 || math.IsNaN(d) {
			return math3d.Vec3{}, fmt.Errorf("point %v: %w", hit.Position, ErrLightCoincident)
		}
		r := toLight.Div(d)

		if t.Occluded(geometry.NewRay(hit.Position, r), d) {
			continue
		}

		cos := math.Max(r.Dot(normal), 0)
		sum = sum.Add(t.Light.Color.Scale(cos / (4 * math.Pi * d * d * d)))
	}
	return sum.Div(float64(len(samples))), nil
}

// ShadeHit returns surfaceColor ⊙ (direct + ambient) for a surface hit.
func (t *Tracer) ShadeHit(hit geometry.Intersection) (math3d.Vec3, error) {
	direct, err := t.DirectLight(hit)
	if err != nil {
		return math3d.Vec3{}, err
	}
	color := t.Scene.Triangle(hit.ObjectIndex, hit.TriangleIndex).Color
	return color.Mul(direct.Add(t.Ambient)), nil
}

// Trace shades the closest surface along a primary ray. A miss is black.
func (t *Tracer) Trace(ray geometry.Ray) (math3d.Vec3, error) {
	t.Stats.PrimaryRays.Add(1)
	hit, ok := t.ClosestIntersection(ray)
	if !ok {
		return math3d.Vec3{}, nil
	}
	return t.ShadeHit(hit)
}

// Pixel returns the color of pixel (x, y) in a w×h image: the mean over the
// antialiasing grid, with misses counted as black.
func (t *Tracer) Pixel(x, y, w, h int) (math3d.Vec3, error) {
	rays, err := t.Camera.Rays(x, y, w, h, t.Options.AntialiasSamples)
	if err != nil {
		return math3d.Vec3{}, err
	}
	var sum math3d.Vec3
	for _, r := range rays {
		c, err := t.Trace(r)
		if err != nil {
			return math3d.Vec3{}, fmt.Errorf("pixel (%d, %d): %w", x, y, err)
		}
		sum = sum.Add(c)
	}
	return sum.Div(float64(len(rays))), nil
}
