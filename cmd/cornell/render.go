package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/taigrr/cornell/pkg/render"
	"github.com/taigrr/cornell/pkg/tracer"
)

type renderOptions struct {
	out    string
	width  int
	height int
}

func newRenderCmd(o *rootOptions) *cobra.Command {
	r := &renderOptions{}
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render one frame to a PNG or BMP file",
		Example: `  cornell render --out cornell.png
  cornell render --scene bunny.glb --width 800 --height 600 --out bunny.bmp`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd, o, r)
		},
	}
	f := cmd.Flags()
	f.StringVarP(&r.out, "out", "o", "screenshot.png", "output image (.png or .bmp)")
	f.IntVar(&r.width, "width", 0, "image width (default from config)")
	f.IntVar(&r.height, "height", 0, "image height (default from config)")
	return cmd
}

func runRender(cmd *cobra.Command, o *rootOptions, r *renderOptions) error {
	logger, closeLog, err := o.newLogger(cmd.ErrOrStderr(), cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer warnClose(logger, "log file", closeLog)

	switch ext := strings.ToLower(filepath.Ext(r.out)); ext {
	case ".png", ".bmp":
	default:
		return fmt.Errorf("%s: %w", r.out, render.ErrImageFormat)
	}

	cfg, scene, err := o.load(cmd)
	if err != nil {
		return err
	}
	w, h := cfg.Width, cfg.Height
	if r.width > 0 {
		w = r.width
	}
	if r.height > 0 {
		h = r.height
	}

	tr, err := tracer.New(scene, cfg.NewCamera(w, h), cfg.TracerLight(), cfg.Ambient.Vec3(), cfg.Options(), logger)
	if err != nil {
		return err
	}
	logger.Info("rendering", "scene", cfg.Scene, "size", fmt.Sprintf("%dx%d", w, h), "triangles", scene.TriangleCount())

	fb := render.NewFramebuffer(w, h)
	frame, err := tr.Render(fb)
	if err != nil {
		return err
	}
	if err := fb.Save(r.out); err != nil {
		return err
	}
	logger.Info("saved", "path", r.out, "elapsed", frame.Elapsed)
	return nil
}
