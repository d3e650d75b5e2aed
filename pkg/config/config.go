// Package config loads render settings from YAML files.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/taigrr/cornell/pkg/math3d"
	"github.com/taigrr/cornell/pkg/render"
	"github.com/taigrr/cornell/pkg/tracer"
)

// SceneCornell selects the built-in Cornell box.
const SceneCornell = "cornell"

var (
	// ErrImageSize is returned for non-positive image dimensions.
	ErrImageSize = errors.New("image size must be positive")

	// ErrFocalLength is returned for a non-positive focal length.
	ErrFocalLength = errors.New("focal length must be positive")
)

// Vec is a 3-component vector written as a YAML sequence: [x, y, z].
type Vec [3]float64

// Vec3 converts to a math3d vector.
func (v Vec) Vec3() math3d.Vec3 {
	return math3d.V3(v[0], v[1], v[2])
}

// CameraCfg places the pinhole camera.
type CameraCfg struct {
	Position Vec `yaml:"position"`
	// Yaw in degrees (friendlier than radians).
	YawDeg float64 `yaml:"yaw_deg"`
	// FocalLength in pixels for an image of Config.Width × Config.Height.
	FocalLength float64 `yaml:"focal_length"`
}

// LightCfg describes the light source.
type LightCfg struct {
	Center Vec     `yaml:"center"`
	Radius float64 `yaml:"radius"`
	Color  Vec     `yaml:"color"`
}

// RenderCfg selects engine capabilities.
type RenderCfg struct {
	Acceleration     bool    `yaml:"acceleration"`
	AntialiasSamples int     `yaml:"antialias_samples"`
	LightSamples     int     `yaml:"light_samples"`
	Epsilon          float64 `yaml:"epsilon"`
	Workers          int     `yaml:"workers"`
}

// MotionCfg sets how far one key press nudges the camera and light.
type MotionCfg struct {
	Move  float64 `yaml:"move"`
	Turn  float64 `yaml:"turn"`
	Light float64 `yaml:"light"`
}

// Config is the complete render configuration.
type Config struct {
	// Scene is "cornell" or the path of a .glb/.gltf file.
	Scene   string    `yaml:"scene"`
	Width   int       `yaml:"width"`
	Height  int       `yaml:"height"`
	Camera  CameraCfg `yaml:"camera"`
	Light   LightCfg  `yaml:"light"`
	Ambient Vec       `yaml:"ambient"`
	Render  RenderCfg `yaml:"render"`
	Motion  MotionCfg `yaml:"motion"`
}

// Default returns the reference setup: a 500×500 view of the Cornell box.
func Default() Config {
	return Config{
		Scene:  SceneCornell,
		Width:  500,
		Height: 500,
		Camera: CameraCfg{
			Position:    Vec{0, 0, -3.001},
			FocalLength: 500,
		},
		Light: LightCfg{
			Center: Vec{0, -0.5, -0.7},
			Radius: 0.1,
			Color:  Vec{10, 10, 10},
		},
		Ambient: Vec{0.25, 0.25, 0.25},
		Render:  renderCfg(tracer.DefaultOptions()),
		Motion: MotionCfg{
			Move:  0.1,
			Turn:  0.1,
			Light: 0.1,
		},
	}
}

// Load reads a YAML file on top of Default and validates the result.
// Unknown keys are rejected.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML on top of Default and validates the result.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Save writes the configuration as YAML.
func (c Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Validate checks sizes, sample counts and the light.
func (c Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("%dx%d: %w", c.Width, c.Height, ErrImageSize)
	}
	if !(c.Camera.FocalLength > 0) {
		return fmt.Errorf("%g: %w", c.Camera.FocalLength, ErrFocalLength)
	}
	opts := c.Options()
	if err := opts.Validate(); err != nil {
		return err
	}
	if err := c.TracerLight().Validate(opts.LightSamples); err != nil {
		return fmt.Errorf("light: %w", err)
	}
	return nil
}

// Options returns the engine options.
func (c Config) Options() tracer.Options {
	return tracer.Options{
		Acceleration:     c.Render.Acceleration,
		AntialiasSamples: c.Render.AntialiasSamples,
		LightSamples:     c.Render.LightSamples,
		Epsilon:          c.Render.Epsilon,
		Workers:          c.Render.Workers,
	}
}

func renderCfg(o tracer.Options) RenderCfg {
	return RenderCfg{
		Acceleration:     o.Acceleration,
		AntialiasSamples: o.AntialiasSamples,
		LightSamples:     o.LightSamples,
		Epsilon:          o.Epsilon,
		Workers:          o.Workers,
	}
}

// TracerLight returns the configured light.
func (c Config) TracerLight() tracer.Light {
	return tracer.Light{
		Center: c.Light.Center.Vec3(),
		Radius: c.Light.Radius,
		Color:  c.Light.Color.Vec3(),
	}
}

// Yaw returns the camera yaw in radians.
func (c Config) Yaw() float64 {
	return c.Camera.YawDeg * math.Pi / 180
}

// FocalLengthFor scales the focal length to a w×h image so that the field
// of view of the configured image's shorter side is kept.
func (c Config) FocalLengthFor(w, h int) float64 {
	return c.Camera.FocalLength * float64(min(w, h)) / float64(min(c.Width, c.Height))
}

// NewCamera returns a camera for a w×h image.
func (c Config) NewCamera(w, h int) *render.Camera {
	return render.NewCamera(c.Camera.Position.Vec3(), c.Yaw(), c.FocalLengthFor(w, h))
}
