// Package tracer is the rendering engine: closest-hit traversal, shadow
// visibility, direct illumination and the parallel frame loop that feeds a
// display sink.
package tracer

import (
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/taigrr/cornell/pkg/geometry"
	"github.com/taigrr/cornell/pkg/math3d"
	"github.com/taigrr/cornell/pkg/render"
)

// ErrNoCamera is returned when a tracer is created without a camera.
var ErrNoCamera = errors.New("tracer needs a camera")

// Tracer is the render context. Scene is read-only while a frame is being
// traced; Camera, Light and Ambient may only change between frames.
type Tracer struct {
	Scene   *geometry.Scene
	Camera  *render.Camera
	Light   Light
	Ambient math3d.Vec3 // Indirect light added to every shaded point
	Options Options
	Stats   Stats
	Logger  *log.Logger
}

// New creates a tracer after validating the scene, light and options.
// A nil logger discards output.
func New(scene *geometry.Scene, camera *render.Camera, light Light, ambient math3d.Vec3, opts Options, logger *log.Logger) (*Tracer, error) {
	if err := scene.Validate(); err != nil {
		return nil, fmt.Errorf("scene: %w", err)
	}
	if camera == nil {
		return nil, ErrNoCamera
	}
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("options: %w", err)
	}
	if err := light.Validate(opts.LightSamples); err != nil {
		return nil, fmt.Errorf("light: %w", err)
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Tracer{
		Scene:   scene,
		Camera:  camera,
		Light:   light,
		Ambient: ambient,
		Options: opts,
		Logger:  logger,
	}, nil
}

// ClosestIntersection finds the nearest surface along the ray. Objects and
// triangles are visited in scene order and a candidate only replaces the
// current best when it is nearer by more than Epsilon, so ties resolve to the
// lowest (object, triangle) pair. Distances are Euclidean.
func (t *Tracer) ClosestIntersection(ray geometry.Ray) (geometry.Intersection, bool) {
	eps := t.Options.Epsilon
	ray = ray.Normalized()
	best := geometry.NoHit()

	var boxTests, triTests, triHits int64
	for oi := range t.Scene.Objects {
		obj := &t.Scene.Objects[oi]
		if t.Options.Acceleration {
			boxTests++
			// Padded to cover hits the intersector accepts just outside an edge.
			if !obj.Bounds.Pad(eps).Hit(ray.Origin, ray.Direction) {
				continue
			}
		}
		for ti := range obj.Triangles {
			triTests++
			hit, ok := obj.Triangles[ti].Intersect(ray.Origin, ray.Direction, eps)
			if !ok {
				continue
			}
			triHits++
			if hit.T < best.Distance-eps {
				best = geometry.Intersection{
					Position:      hit.P,
					Distance:      hit.T,
					ObjectIndex:   oi,
					TriangleIndex: ti,
				}
			}
		}
	}

	t.Stats.BoxTests.Add(boxTests)
	t.Stats.TriangleTests.Add(triTests)
	t.Stats.TriangleHits.Add(triHits)
	return best, best.Found()
}

// Occluded reports whether any surface lies along the ray closer than
// lightDistance (+Epsilon). It stops at the first such surface.
func (t *Tracer) Occluded(ray geometry.Ray, lightDistance float64) bool {
	eps := t.Options.Epsilon
	ray = ray.Normalized()
	limit := lightDistance + eps
	t.Stats.ShadowRays.Add(1)

	var boxTests, triTests int64
	defer func() {
		t.Stats.BoxTests.Add(boxTests)
		t.Stats.TriangleTests.Add(triTests)
	}()

	for oi := range t.Scene.Objects {
		obj := &t.Scene.Objects[oi]
		if t.Options.Acceleration {
			boxTests++
			if !obj.Bounds.Pad(eps).Hit(ray.Origin, ray.Direction) {
				continue
			}
		}
		for ti := range obj.Triangles {
			triTests++
			if hit, ok := obj.Triangles[ti].Intersect(ray.Origin, ray.Direction, eps); ok && hit.T < limit {
				t.Stats.TriangleHits.Add(1)
				return true
			}
		}
	}
	return false
}
