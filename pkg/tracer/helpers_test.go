package tracer

import (
	"testing"

	"github.com/taigrr/cornell/pkg/geometry"
	"github.com/taigrr/cornell/pkg/math3d"
	"github.com/taigrr/cornell/pkg/render"
)

// quad returns two triangles spanning [-a, a]² in the plane z, facing -Z.
func quad(z, a float64, color math3d.Vec3) []geometry.Triangle {
	return []geometry.Triangle{
		geometry.NewTriangle(math3d.V3(-a, -a, z), math3d.V3(a, -a, z), math3d.V3(-a, a, z), color),
		geometry.NewTriangle(math3d.V3(a, -a, z), math3d.V3(a, a, z), math3d.V3(-a, a, z), color),
	}
}

func object(t testing.TB, name string, tris []geometry.Triangle) geometry.Object {
	t.Helper()
	o, err := geometry.NewObject(name, tris)
	if err != nil {
		t.Fatalf("NewObject(%s): %v", name, err)
	}
	return o
}

func testOptions() Options {
	return Options{
		Acceleration:     true,
		AntialiasSamples: 1,
		LightSamples:     AreaLightSamples,
		Epsilon:          DefaultEpsilon,
		Workers:          1,
	}
}

func newTracer(t testing.TB, opts Options, light Light, ambient math3d.Vec3, objects ...geometry.Object) *Tracer {
	t.Helper()
	scene, err := geometry.NewScene(objects...)
	if err != nil {
		t.Fatalf("NewScene: %v", err)
	}
	cam := render.NewCamera(math3d.V3(0, 0, -3), 0, 60)
	tr, err := New(scene, cam, light, ambient, opts, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return tr
}

// memSink records un-clamped colors and checks that writes happen while locked.
type memSink struct {
	w, h    int
	pixels  []math3d.Vec3
	locked  bool
	locks   int
	unlocks int
	lockErr error

	unlockedWrites int
}

func newMemSink(w, h int) *memSink {
	return &memSink{w: w, h: h, pixels: make([]math3d.Vec3, w*h)}
}

func (s *memSink) Size() (int, int) { return s.w, s.h }

func (s *memSink) Lock() error {
	if s.lockErr != nil {
		return s.lockErr
	}
	s.locked = true
	s.locks++
	return nil
}

func (s *memSink) Unlock() {
	s.locked = false
	s.unlocks++
}

func (s *memSink) SetColor(x, y int, c math3d.Vec3) {
	if !s.locked {
		s.unlockedWrites++
	}
	s.pixels[y*s.w+x] = c
}

func (s *memSink) at(x, y int) math3d.Vec3 {
	return s.pixels[y*s.w+x]
}

var (
	_ Sink = (*memSink)(nil)
	_ Sink = (*render.Framebuffer)(nil)
)
