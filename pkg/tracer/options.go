package tracer

import (
	"errors"
	"fmt"

	"github.com/taigrr/cornell/pkg/render"
)

// Defaults for Options.
const (
	DefaultEpsilon          = 1e-5
	DefaultAntialiasSamples = 4
	AreaLightSamples        = 6
	PointLightSamples       = 1
)

var (
	// ErrLightSamples is returned when LightSamples is neither 1 nor 6.
	ErrLightSamples = errors.New("light samples must be 1 (point) or 6 (area)")

	// ErrEpsilon is returned for a non-positive tolerance.
	ErrEpsilon = errors.New("epsilon must be positive")

	// ErrWorkers is returned for a negative worker count.
	ErrWorkers = errors.New("workers must not be negative")
)

// Options selects the engine's capabilities. One engine serves the flat,
// accelerated, antialiased and area-light configurations.
type Options struct {
	// Acceleration enables the per-object bounding box test before any
	// triangle of the object is tested.
	Acceleration bool

	// AntialiasSamples is the number of primary rays per pixel. It must be a
	// perfect square; 1 disables antialiasing.
	AntialiasSamples int

	// LightSamples is 1 for a point light or 6 for the axis-extremal area
	// light samples.
	LightSamples int

	// Epsilon is the tolerance of the intersector and the visibility test.
	Epsilon float64

	// Workers bounds the number of scanlines traced in parallel.
	// 0 means runtime.GOMAXPROCS(0); 1 renders on a single goroutine.
	Workers int
}

// DefaultOptions returns the full-featured configuration: acceleration on,
// 2×2 antialiasing and an area light.
func DefaultOptions() Options {
	return Options{
		Acceleration:     true,
		AntialiasSamples: DefaultAntialiasSamples,
		LightSamples:     AreaLightSamples,
		Epsilon:          DefaultEpsilon,
	}
}

// Validate checks every option.
func (o Options) Validate() error {
	if render.GridSize(o.AntialiasSamples) == 0 {
		return fmt.Errorf("antialias samples %d: %w", o.AntialiasSamples, render.ErrSampleCount)
	}
	if o.LightSamples != PointLightSamples && o.LightSamples != AreaLightSamples {
		return fmt.Errorf("light samples %d: %w", o.LightSamples, ErrLightSamples)
	}
	if !(o.Epsilon > 0) {
		return fmt.Errorf("epsilon %g: %w", o.Epsilon, ErrEpsilon)
	}
	if o.Workers < 0 {
		return fmt.Errorf("workers %d: %w", o.Workers, ErrWorkers)
	}
	return nil
}
