package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/taigrr/cornell/pkg/config"
	"github.com/taigrr/cornell/pkg/geometry"
	"github.com/taigrr/cornell/pkg/models"
	"github.com/taigrr/cornell/pkg/tracer"
)

// rootOptions holds the flags shared by every command.
type rootOptions struct {
	configPath string
	scene      string
	logLevel   string
	logFile    string
	samples    int
	workers    int
	noAccel    bool
	pointLight bool
}

func newRootCmd() *cobra.Command {
	o := &rootOptions{}
	v := &viewOptions{}

	cmd := &cobra.Command{
		Use:   "cornell [scene.glb]",
		Short: "Terminal ray tracer",
		Long: `cornell ray traces a triangle scene with an area light and renders it
into the terminal. Without arguments it shows the Cornell box.`,
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				o.scene = args[0]
			}
			return runView(cmd, o, v)
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&o.configPath, "config", "c", "", "YAML config file")
	pf.StringVar(&o.scene, "scene", "", `scene source: "cornell" or a .glb/.gltf path`)
	pf.StringVar(&o.logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	pf.StringVar(&o.logFile, "log-file", "", "append logs to this file")
	pf.IntVar(&o.samples, "samples", 0, "antialias samples per pixel (perfect square)")
	pf.IntVar(&o.workers, "workers", 0, "scanlines traced in parallel (0 = all CPUs)")
	pf.BoolVar(&o.noAccel, "no-accel", false, "disable bounding box acceleration")
	pf.BoolVar(&o.pointLight, "point-light", false, "sample the light at its center only")

	f := cmd.Flags()
	f.IntVar(&v.fps, "fps", 30, "target FPS")
	f.BoolVarP(&v.watch, "watch", "w", false, "reload the scene and config when they change")
	f.StringVar(&v.screenshot, "screenshot", "", "save the last frame to this .png/.bmp on exit")

	cmd.AddCommand(newRenderCmd(o), newInitCmd(o))
	return cmd
}

// load reads the config and applies flag overrides, then loads the scene.
func (o *rootOptions) load(cmd *cobra.Command) (config.Config, *geometry.Scene, error) {
	cfg, err := o.loadConfig(cmd)
	if err != nil {
		return config.Config{}, nil, err
	}
	scene, err := loadScene(cfg.Scene)
	if err != nil {
		return config.Config{}, nil, err
	}
	return cfg, scene, nil
}

func (o *rootOptions) loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg := config.Default()
	if o.configPath != "" {
		var err error
		cfg, err = config.Load(o.configPath)
		if err != nil {
			return config.Config{}, err
		}
	}

	flags := cmd.Flags()
	if o.scene != "" {
		cfg.Scene = o.scene
	}
	if flags.Changed("samples") {
		cfg.Render.AntialiasSamples = o.samples
	}
	if flags.Changed("workers") {
		cfg.Render.Workers = o.workers
	}
	if o.noAccel {
		cfg.Render.Acceleration = false
	}
	if o.pointLight {
		cfg.Render.LightSamples = tracer.PointLightSamples
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// loadScene resolves a scene source to a validated scene.
func loadScene(src string) (*geometry.Scene, error) {
	if src == "" || src == config.SceneCornell {
		return models.CornellBox()
	}
	switch ext := strings.ToLower(filepath.Ext(src)); ext {
	case ".glb", ".gltf":
		return models.LoadGLB(src)
	default:
		return nil, fmt.Errorf("unsupported scene format: %s (use .glb or .gltf)", ext)
	}
}

// newLogger builds the process logger. Logs go to fallback unless a log
// file is given. Closing the file first moves the logger to stderr, so a
// failed close can still be reported.
func (o *rootOptions) newLogger(fallback, stderr io.Writer) (*log.Logger, func() error, error) {
	level, err := log.ParseLevel(o.logLevel)
	if err != nil {
		return nil, nil, fmt.Errorf("log level: %w", err)
	}

	var f *os.File
	w := fallback
	if o.logFile != "" {
		f, err = os.OpenFile(o.logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		w = f
	}

	logger := log.NewWithOptions(w, log.Options{
		Level:           level,
		Prefix:          "cornell",
		ReportTimestamp: true,
	})
	closeFn := func() error { return nil }
	if f != nil {
		closeFn = func() error {
			logger.SetOutput(stderr)
			return f.Close()
		}
	}
	return logger, closeFn, nil
}

// warnClose runs closeFn and logs a failure instead of dropping it.
func warnClose(logger *log.Logger, what string, closeFn func() error) {
	if err := closeFn(); err != nil {
		logger.Warn("close "+what, "err", err)
	}
}

// watchedFiles lists the files whose changes trigger a reload.
func watchedFiles(cfg config.Config, configPath string) []string {
	var files []string
	if configPath != "" {
		files = append(files, configPath)
	}
	if cfg.Scene != "" && cfg.Scene != config.SceneCornell {
		files = append(files, cfg.Scene)
	}
	return files
}
