package main

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	uv "github.com/charmbracelet/ultraviolet"
	"github.com/spf13/cobra"

	"github.com/taigrr/cornell/pkg/config"
	"github.com/taigrr/cornell/pkg/geometry"
	"github.com/taigrr/cornell/pkg/render"
	"github.com/taigrr/cornell/pkg/tracer"
	"github.com/taigrr/cornell/pkg/watcher"
)

type viewOptions struct {
	fps        int
	watch      bool
	screenshot string
}

// reload carries a freshly loaded config and scene to the view loop.
type reload struct {
	cfg   config.Config
	scene *geometry.Scene
	err   error
}

// Viewer owns the traced framebuffer and everything that moves between
// frames. It is driven from a single goroutine.
type Viewer struct {
	cfg    config.Config
	scene  *geometry.Scene
	tracer *tracer.Tracer
	fb     *render.Framebuffer
	ctrl   *Controller
	hud    *HUD
	logger *log.Logger
	dirty  bool

	// watch registers more files for reloading. Nil when not watching.
	watch func(files []string) error
}

// NewViewer builds a viewer for cfg and scene. Call Resize before Step.
func NewViewer(cfg config.Config, scene *geometry.Scene, logger *log.Logger, fps int) (*Viewer, error) {
	tr, err := tracer.New(scene, cfg.NewCamera(cfg.Width, cfg.Height), cfg.TracerLight(), cfg.Ambient.Vec3(), cfg.Options(), logger)
	if err != nil {
		return nil, err
	}
	return &Viewer{
		cfg:    cfg,
		scene:  scene,
		tracer: tr,
		fb:     render.NewFramebuffer(0, 0),
		ctrl:   NewController(cfg, fps),
		hud:    NewHUD(sceneName(cfg.Scene), scene.TriangleCount()),
		logger: tr.Logger,
		dirty:  true,
	}, nil
}

// Resize matches the framebuffer to a terminal of cols×rows cells.
func (v *Viewer) Resize(cols, rows int) {
	w, h := max(cols, 0), max(rows, 0)*2
	v.fb.Resize(w, h)
	if w > 0 && h > 0 {
		v.tracer.Camera.FocalLength = v.cfg.FocalLengthFor(w, h)
	}
	v.dirty = true
}

// Handle applies a key press and reports whether the viewer should quit.
func (v *Viewer) Handle(k uv.KeyPressEvent) (quit bool) {
	switch v.ctrl.HandleKey(k) {
	case ActionQuit:
		return true
	case ActionRedraw:
		v.dirty = true
	}
	return false
}

// Reload swaps in a new config and scene, keeping the framebuffer size.
func (v *Viewer) Reload(cfg config.Config, scene *geometry.Scene) error {
	w, h := v.fb.Size()
	focal := v.tracer.Camera.FocalLength
	if w > 0 && h > 0 {
		focal = cfg.FocalLengthFor(w, h)
	}
	cam := render.NewCamera(cfg.Camera.Position.Vec3(), cfg.Yaw(), focal)
	tr, err := tracer.New(scene, cam, cfg.TracerLight(), cfg.Ambient.Vec3(), cfg.Options(), v.logger)
	if err != nil {
		return err
	}
	if v.watch != nil && cfg.Scene != v.cfg.Scene {
		if err := v.watch(watchedFiles(cfg, "")); err != nil {
			v.logger.Warn("watch scene", "scene", cfg.Scene, "err", err)
		}
	}
	v.cfg, v.scene, v.tracer = cfg, scene, tr
	v.ctrl.Rebase(cfg)
	v.hud.SetScene(sceneName(cfg.Scene), scene.TriangleCount())
	v.dirty = true
	return nil
}

// Step advances the controls one frame and traces a new frame if anything
// changed. It reports whether a frame was traced.
func (v *Viewer) Step() (bool, error) {
	if v.ctrl.Update() {
		v.ctrl.Apply(v.tracer.Camera, &v.tracer.Light)
		v.dirty = true
	}
	w, h := v.fb.Size()
	if !v.dirty || w == 0 || h == 0 {
		return false, nil
	}
	frame, err := v.tracer.Render(v.fb)
	if err != nil {
		return false, err
	}
	if v.ctrl.ShowBounds {
		if err := v.drawBounds(); err != nil {
			return false, err
		}
	}
	v.hud.Traced(frame)
	v.dirty = false
	return true, nil
}

// drawBounds overlays every object's bounding box and the light center.
func (v *Viewer) drawBounds() error {
	if err := v.fb.Lock(); err != nil {
		return err
	}
	defer v.fb.Unlock()
	wf := render.NewWireframe(v.tracer.Camera, v.fb)
	wf.DrawScene(v.scene, render.ColorYellow)
	wf.DrawPoint(v.tracer.Light.Center, 2*v.tracer.Light.Radius, render.ColorWhite)
	return nil
}

// Draw paints the last traced frame and the HUD.
func (v *Viewer) Draw(scr uv.Screen, area uv.Rectangle) {
	v.fb.Draw(scr, area)
	v.hud.Draw(scr, area, v.ctrl)
}

// Screenshot traces the current view at the configured image size and saves
// it to path.
func (v *Viewer) Screenshot(path string) error {
	cam := render.NewCamera(v.tracer.Camera.Position, v.tracer.Camera.Yaw(), v.cfg.FocalLengthFor(v.cfg.Width, v.cfg.Height))
	tr, err := tracer.New(v.scene, cam, v.tracer.Light, v.tracer.Ambient, v.tracer.Options, v.logger)
	if err != nil {
		return err
	}
	fb := render.NewFramebuffer(v.cfg.Width, v.cfg.Height)
	if _, err := tr.Render(fb); err != nil {
		return err
	}
	return fb.Save(path)
}

func sceneName(src string) string {
	if src == "" || src == config.SceneCornell {
		return "Cornell box"
	}
	return filepath.Base(src)
}

func runView(cmd *cobra.Command, o *rootOptions, opts *viewOptions) error {
	// The alt screen owns stdout, so logs are dropped unless --log-file is set.
	logger, closeLog, err := o.newLogger(io.Discard, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer warnClose(logger, "log file", closeLog)

	cfg, scene, err := o.load(cmd)
	if err != nil {
		return err
	}
	fps := opts.fps
	if fps <= 0 {
		fps = 30
	}

	viewer, err := NewViewer(cfg, scene, logger, fps)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	reloads := make(chan reload, 1)
	if opts.watch {
		fw, err := watcher.New(watcher.DefaultDebounce, logger)
		if err != nil {
			return err
		}
		defer warnClose(logger, "watcher", fw.Close)
		onChange := func(path string) {
			logger.Info("reloading", "path", path)
			next, nextScene, err := o.load(cmd)
			select {
			case reloads <- reload{cfg: next, scene: nextScene, err: err}:
			default:
			}
		}
		viewer.watch = func(files []string) error {
			return fw.Watch(files, onChange)
		}
		if err := viewer.watch(watchedFiles(cfg, o.configPath)); err != nil {
			return err
		}
		fw.Start(ctx)
	}

	term := uv.DefaultTerminal()
	width, height, err := term.GetSize()
	if err != nil {
		return fmt.Errorf("get terminal size: %w", err)
	}
	if err := term.Start(); err != nil {
		return fmt.Errorf("start terminal: %w", err)
	}
	term.EnterAltScreen()
	term.HideCursor()
	term.Resize(width, height)
	viewer.Resize(width, height)

	cleanup := func() {
		term.ExitAltScreen()
		term.ShowCursor()
		term.Shutdown(context.Background())
	}

	loopErr := viewLoop(ctx, term, viewer, reloads, fps, logger)
	cleanup()
	if loopErr != nil {
		return loopErr
	}

	if opts.screenshot != "" {
		if err := viewer.Screenshot(opts.screenshot); err != nil {
			return fmt.Errorf("screenshot: %w", err)
		}
		logger.Info("saved screenshot", "path", opts.screenshot)
	}
	return nil
}

// viewLoop handles terminal events, reloads and frame ticks until quit.
func viewLoop(ctx context.Context, term *uv.Terminal, viewer *Viewer, reloads <-chan reload, fps int, logger *log.Logger) error {
	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()
	events := term.Events()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-events:
			if !ok {
				return nil
			}
			switch ev := ev.(type) {
			case uv.WindowSizeEvent:
				term.Erase()
				term.Resize(ev.Width, ev.Height)
				viewer.Resize(ev.Width, ev.Height)
			case uv.KeyPressEvent:
				if viewer.Handle(ev) {
					return nil
				}
			}

		case r := <-reloads:
			if r.err != nil {
				logger.Error("reload failed", "err", r.err)
				continue
			}
			if err := viewer.Reload(r.cfg, r.scene); err != nil {
				logger.Error("reload failed", "err", err)
			}

		case <-ticker.C:
			if _, err := viewer.Step(); err != nil {
				return fmt.Errorf("render: %w", err)
			}
			viewer.Draw(term, term.Bounds())
			if err := term.Display(); err != nil {
				return fmt.Errorf("display: %w", err)
			}
		}
	}
}
