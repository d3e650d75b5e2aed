package tracer

import (
	"fmt"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/taigrr/cornell/pkg/math3d"
)

// Sink receives a finished frame. Pixels are written only between Lock and
// Unlock; colors are linear and un-clamped.
type Sink interface {
	Size() (w, h int)
	Lock() error
	Unlock()
	SetColor(x, y int, c math3d.Vec3)
}

// Frame summarizes one rendered frame.
type Frame struct {
	Width, Height int
	Elapsed       time.Duration
	Stats         StatsSnapshot
}

// Render traces every pixel of the sink and then presents the result.
// Scanlines are traced in parallel; the sink is only locked for the copy
// and is always released.
func (t *Tracer) Render(sink Sink) (Frame, error) {
	w, h := sink.Size()
	start := time.Now()
	t.Stats.Reset()

	pixels, err := t.trace(w, h)
	if err != nil {
		return Frame{}, err
	}

	if err := t.present(sink, pixels, w, h); err != nil {
		return Frame{}, err
	}

	frame := Frame{
		Width:   w,
		Height:  h,
		Elapsed: time.Since(start),
		Stats:   t.Stats.Snapshot(),
	}
	t.Logger.Debug("frame rendered",
		append([]any{"size", fmt.Sprintf("%dx%d", w, h), "elapsed", frame.Elapsed}, frame.Stats.KeyVals()...)...)
	return frame, nil
}

// trace computes an HDR image of w×h pixels in row-major order.
func (t *Tracer) trace(w, h int) ([]math3d.Vec3, error) {
	pixels := make([]math3d.Vec3, w*h)

	workers := t.Options.Workers
	if workers == 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	var g errgroup.Group
	g.SetLimit(workers)
	for y := range h {
		g.Go(func() error {
			row := pixels[y*w : (y+1)*w]
			for x := range w {
				c, err := t.Pixel(x, y, w, h)
				if err != nil {
					return err
				}
				row[x] = c
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("trace frame: %w", err)
	}
	return pixels, nil
}

func (t *Tracer) present(sink Sink, pixels []math3d.Vec3, w, h int) error {
	if err := sink.Lock(); err != nil {
		return fmt.Errorf("lock sink: %w", err)
	}
	defer sink.Unlock()

	for y := range h {
		for x := range w {
			sink.SetColor(x, y, pixels[y*w+x])
		}
	}
	return nil
}
