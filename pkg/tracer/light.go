package tracer

import (
	"errors"
	"fmt"

	"github.com/taigrr/cornell/pkg/math3d"
)

var (
	// ErrZeroRadiusLight is returned for an area light whose samples would
	// all collapse onto its center.
	ErrZeroRadiusLight = errors.New("area light radius must be positive")

	// ErrLightCoincident is returned when a shading point lies exactly on a
	// light sample, where the falloff is undefined.
	ErrLightCoincident = errors.New("shading point coincides with light sample")

	// ErrNonFiniteLight is returned for a light with NaN or infinite fields.
	ErrNonFiniteLight = errors.New("light is not finite")
)

// Light is a spherical light approximated by sample points.
type Light struct {
	Center math3d.Vec3
	Radius float64
	Color  math3d.Vec3 // Total radiant power per channel
}

// Validate rejects lights that cannot be sampled n times.
func (l Light) Validate(samples int) error {
	if !l.Center.IsFinite() || !l.Color.IsFinite() {
		return fmt.Errorf("center %v color %v: %w", l.Center, l.Color, ErrNonFiniteLight)
	}
	if samples > PointLightSamples && !(l.Radius > 0) {
		return fmt.Errorf("radius %g: %w", l.Radius, ErrZeroRadiusLight)
	}
	return nil
}

// Samples returns the light's sample points: the center for a point light,
// or center ± radius along each axis for the six-sample area light.
func (l Light) Samples(n int) []math3d.Vec3 {
	if n <= PointLightSamples {
		return []math3d.Vec3{l.Center}
	}
	r := l.Radius
	return []math3d.Vec3{
		l.Center.Add(math3d.V3(r, 0, 0)),
		l.Center.Add(math3d.V3(-r, 0, 0)),
		l.Center.Add(math3d.V3(0, r, 0)),
		l.Center.Add(math3d.V3(0, -r, 0)),
		l.Center.Add(math3d.V3(0, 0, r)),
		l.Center.Add(math3d.V3(0, 0, -r)),
	}
}
