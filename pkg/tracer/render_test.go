package tracer

import (
	"bytes"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/taigrr/cornell/pkg/math3d"
	"github.com/taigrr/cornell/pkg/render"
)

const frameSize = 60

// A centered quad of half-width 0.5 three units in front of a camera with
// focal length 60 covers pixels within 10 of the image center.
func footprintTracer(t *testing.T, opts Options) *Tracer {
	t.Helper()
	return newTracer(t, opts, dark, math3d.Splat(1), object(t, "quad", quad(0, 0.5, red)))
}

func TestRenderCenteredQuadFootprint(t *testing.T) {
	tr := footprintTracer(t, testOptions())
	sink := newMemSink(frameSize, frameSize)

	frame, err := tr.Render(sink)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	for y := range frameSize {
		for x := range frameSize {
			dx := math.Abs(float64(x - frameSize/2))
			dy := math.Abs(float64(y - frameSize/2))
			got := sink.at(x, y)
			switch {
			case dx <= 9 && dy <= 9:
				if !got.ApproxEqual(red, 1e-12) {
					t.Fatalf("pixel (%d, %d) = %v, want quad color %v", x, y, got, red)
				}
			case dx >= 11 || dy >= 11:
				if got != (math3d.Vec3{}) {
					t.Fatalf("pixel (%d, %d) = %v, want background", x, y, got)
				}
			}
		}
	}

	if frame.Stats.PrimaryRays != frameSize*frameSize {
		t.Errorf("primary rays = %d, want %d", frame.Stats.PrimaryRays, frameSize*frameSize)
	}
	if frame.Width != frameSize || frame.Height != frameSize {
		t.Errorf("frame size = %dx%d", frame.Width, frame.Height)
	}
}

func TestRenderLocksSinkOnce(t *testing.T) {
	tr := footprintTracer(t, testOptions())
	sink := newMemSink(8, 8)

	if _, err := tr.Render(sink); err != nil {
		t.Fatal(err)
	}
	if sink.locks != 1 || sink.unlocks != 1 {
		t.Errorf("locks = %d, unlocks = %d, want 1 and 1", sink.locks, sink.unlocks)
	}
	if sink.unlockedWrites != 0 {
		t.Errorf("%d pixels written without holding the lock", sink.unlockedWrites)
	}
}

func TestRenderLockFailure(t *testing.T) {
	tr := footprintTracer(t, testOptions())
	errBusy := errors.New("surface busy")
	sink := newMemSink(4, 4)
	sink.lockErr = errBusy

	if _, err := tr.Render(sink); !errors.Is(err, errBusy) {
		t.Errorf("Render error = %v, want %v", err, errBusy)
	}
	if sink.unlocks != 0 {
		t.Errorf("unlock called %d times after failed lock", sink.unlocks)
	}
}

func TestRenderAntialiasedEdge(t *testing.T) {
	opts := testOptions()
	opts.AntialiasSamples = 4
	tr := footprintTracer(t, opts)

	// Half of the 2×2 sub-samples of pixel (40, 30) land on the quad.
	c, err := tr.Pixel(40, 30, frameSize, frameSize)
	if err != nil {
		t.Fatal(err)
	}
	if want := red.Scale(0.5); !c.ApproxEqual(want, 1e-12) {
		t.Errorf("edge pixel = %v, want %v", c, want)
	}

	inside, err := tr.Pixel(30, 30, frameSize, frameSize)
	if err != nil {
		t.Fatal(err)
	}
	if !inside.ApproxEqual(red, 1e-12) {
		t.Errorf("interior pixel = %v, want %v", inside, red)
	}
}

func TestPixelRejectsNonSquareSamples(t *testing.T) {
	tr := footprintTracer(t, testOptions())
	tr.Options.AntialiasSamples = 3

	if _, err := tr.Pixel(0, 0, 4, 4); !errors.Is(err, render.ErrSampleCount) {
		t.Errorf("Pixel error = %v, want ErrSampleCount", err)
	}
}

func TestRenderParallelMatchesSerial(t *testing.T) {
	renderWith := func(workers int) []math3d.Vec3 {
		opts := testOptions()
		opts.Workers = workers
		opts.AntialiasSamples = 4
		light := Light{Center: math3d.V3(0.2, -0.4, -1), Radius: 0.1, Color: math3d.Splat(10)}
		tr := newTracer(t, opts, light, math3d.Splat(0.25), object(t, "quad", quad(0, 0.5, red)))
		sink := newMemSink(frameSize, frameSize)
		if _, err := tr.Render(sink); err != nil {
			t.Fatal(err)
		}
		return sink.pixels
	}

	serial := renderWith(1)
	parallel := renderWith(8)
	for i := range serial {
		if serial[i] != parallel[i] {
			t.Fatalf("pixel %d differs: serial %v, parallel %v", i, serial[i], parallel[i])
		}
	}
}

func TestRenderIntoFramebuffer(t *testing.T) {
	tr := footprintTracer(t, testOptions())
	fb := render.NewFramebuffer(frameSize, frameSize)

	if _, err := tr.Render(fb); err != nil {
		t.Fatal(err)
	}
	if got, want := fb.GetPixel(30, 30), render.ToRGBA(red); got != want {
		t.Errorf("center pixel = %v, want %v", got, want)
	}
	if got := fb.GetPixel(0, 0); got != render.ColorBlack {
		t.Errorf("corner pixel = %v, want black", got)
	}
}

func TestRenderLogsStats(t *testing.T) {
	var buf bytes.Buffer
	tr := footprintTracer(t, testOptions())
	tr.Logger = log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel})

	if _, err := tr.Render(newMemSink(4, 4)); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{"frame rendered", "primary_rays=16", "shadow_rays"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output %q missing %q", out, want)
		}
	}
}

func BenchmarkRender(b *testing.B) {
	opts := testOptions()
	opts.Workers = 0
	light := Light{Center: math3d.V3(0, -0.5, -0.7), Radius: 0.1, Color: math3d.Splat(10)}
	tr := newTracer(b, opts, light, math3d.Splat(0.25), object(b, "quad", quad(0, 0.5, red)))
	sink := newMemSink(64, 64)

	for b.Loop() {
		if _, err := tr.Render(sink); err != nil {
			b.Fatal(err)
		}
	}
}
