package main

import (
	"image/png"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	uv "github.com/charmbracelet/ultraviolet"

	"github.com/taigrr/cornell/pkg/config"
	"github.com/taigrr/cornell/pkg/models"
	"github.com/taigrr/cornell/pkg/render"
)

func newTestViewer(t *testing.T) *Viewer {
	t.Helper()
	cfg := config.Default()
	cfg.Width, cfg.Height = 32, 32
	cfg.Camera.FocalLength = 32
	cfg.Render.AntialiasSamples = 1
	cfg.Render.Workers = 2

	scene, err := models.CornellBox()
	if err != nil {
		t.Fatalf("CornellBox: %v", err)
	}
	v, err := NewViewer(cfg, scene, nil, 30)
	if err != nil {
		t.Fatalf("NewViewer: %v", err)
	}
	return v
}

func countPixels(fb *render.Framebuffer, c render.Color) int {
	n := 0
	for _, p := range fb.Pixels {
		if p == c {
			n++
		}
	}
	return n
}

func TestViewerTracesOnlyWhenDirty(t *testing.T) {
	v := newTestViewer(t)

	if traced, err := v.Step(); err != nil || traced {
		t.Fatalf("Step before Resize = %v, %v; want no frame", traced, err)
	}

	v.Resize(20, 10)
	if w, h := v.fb.Size(); w != 20 || h != 20 {
		t.Fatalf("framebuffer = %dx%d, want 20x20", w, h)
	}
	if v.tracer.Camera.FocalLength != 20 {
		t.Errorf("focal length = %v, want 20", v.tracer.Camera.FocalLength)
	}

	traced, err := v.Step()
	if err != nil || !traced {
		t.Fatalf("first Step = %v, %v; want a frame", traced, err)
	}
	if c := v.fb.GetPixel(10, 10); c.R == 0 && c.G == 0 && c.B == 0 {
		t.Error("center of the Cornell box is black")
	}

	if traced, _ := v.Step(); traced {
		t.Error("traced again without any change")
	}

	v.Handle(key("?"))
	if traced, _ := v.Step(); traced {
		t.Error("toggling the HUD should not retrace")
	}

	v.Handle(key("up"))
	if traced, _ := v.Step(); !traced {
		t.Error("camera motion did not retrace")
	}
}

func TestViewerResetReturnsHome(t *testing.T) {
	v := newTestViewer(t)
	v.Resize(16, 8)
	if _, err := v.Step(); err != nil {
		t.Fatal(err)
	}
	home := v.tracer.Camera.Position
	homeLight := v.tracer.Light.Center

	for _, k := range []string{"up", "up", "left", "a", "w"} {
		v.Handle(key(k))
	}
	settleViewer(t, v)
	if v.tracer.Camera.Position == home || v.tracer.Light.Center == homeLight || v.tracer.Camera.Yaw() == 0 {
		t.Fatalf("view did not move: camera %v yaw %v light %v", v.tracer.Camera.Position, v.tracer.Camera.Yaw(), v.tracer.Light.Center)
	}

	v.Handle(key("r"))
	traced, err := v.Step()
	if err != nil || !traced {
		t.Fatalf("Step after reset = %v, %v; want a frame", traced, err)
	}
	settleViewer(t, v)

	if v.tracer.Camera.Position != home {
		t.Errorf("camera = %v, want %v", v.tracer.Camera.Position, home)
	}
	if v.tracer.Camera.Yaw() != 0 {
		t.Errorf("yaw = %v, want 0", v.tracer.Camera.Yaw())
	}
	if v.tracer.Light.Center != homeLight {
		t.Errorf("light = %v, want %v", v.tracer.Light.Center, homeLight)
	}
}

// settleViewer steps until a frame goes by with nothing to trace.
func settleViewer(t *testing.T, v *Viewer) {
	t.Helper()
	for range 10_000 {
		traced, err := v.Step()
		if err != nil {
			t.Fatal(err)
		}
		if !traced {
			return
		}
	}
	t.Fatal("viewer did not settle")
}

func TestViewerBoundsOverlay(t *testing.T) {
	v := newTestViewer(t)
	v.Resize(32, 16)
	if _, err := v.Step(); err != nil {
		t.Fatal(err)
	}
	before := countPixels(v.fb, render.ColorYellow)

	if quit := v.Handle(key("b")); quit {
		t.Fatal("b should not quit")
	}
	if traced, err := v.Step(); err != nil || !traced {
		t.Fatalf("Step after toggling bounds = %v, %v", traced, err)
	}
	if after := countPixels(v.fb, render.ColorYellow); after <= before {
		t.Errorf("yellow pixels %d -> %d, want the overlay drawn", before, after)
	}
}

func TestViewerQuit(t *testing.T) {
	v := newTestViewer(t)
	if !v.Handle(key("esc")) {
		t.Error("esc did not quit")
	}
}

func TestViewerReload(t *testing.T) {
	v := newTestViewer(t)
	v.Resize(16, 8)
	v.Step()
	var watched []string
	v.watch = func(files []string) error {
		watched = append(watched, files...)
		return nil
	}

	cfg := v.cfg
	cfg.Light.Center = config.Vec{0.2, -0.5, -0.7}
	cfg.Scene = "other.glb"
	scene, err := models.CornellBox()
	if err != nil {
		t.Fatal(err)
	}
	if err := v.Reload(cfg, scene); err != nil {
		t.Fatalf("Reload: %v", err)
	}
	if v.tracer.Light.Center != cfg.Light.Center.Vec3() {
		t.Errorf("light = %v, want %v", v.tracer.Light.Center, cfg.Light.Center)
	}
	if v.ctrl.Light[0].Value != 0.2 {
		t.Errorf("controller not rebased: %+v", v.ctrl.Light[0])
	}
	if v.hud.scene != "other.glb" {
		t.Errorf("hud scene = %q", v.hud.scene)
	}
	if traced, _ := v.Step(); !traced {
		t.Error("reload did not retrace")
	}
	if !slices.Equal(watched, []string{"other.glb"}) {
		t.Errorf("watched %v after the scene changed, want [other.glb]", watched)
	}

	cfg.Light.Radius = 0.2
	if err := v.Reload(cfg, scene); err != nil {
		t.Fatalf("Reload: %v", err)
	}
	if len(watched) != 1 {
		t.Errorf("watched %v, want no new files when the scene is unchanged", watched)
	}

	bad := cfg
	bad.Render.AntialiasSamples = 3
	if err := v.Reload(bad, scene); err == nil {
		t.Error("expected an error for an invalid reload")
	}
}

func TestViewerDraw(t *testing.T) {
	v := newTestViewer(t)
	v.Resize(24, 8)
	v.Step()
	v.Handle(key("?"))

	scr := uv.NewScreenBuffer(24, 8)
	v.Draw(scr, scr.Bounds())

	if !strings.Contains(rowText(scr, 0), "FPS") {
		t.Errorf("top row %q has no HUD", rowText(scr, 0))
	}
	if c := scr.CellAt(12, 4); c == nil || c.Content != "▀" {
		t.Errorf("middle cell = %+v, want a half block", c)
	}
}

func TestViewerScreenshot(t *testing.T) {
	v := newTestViewer(t)
	path := filepath.Join(t.TempDir(), "shot.png")
	if err := v.Screenshot(path); err != nil {
		t.Fatalf("Screenshot: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 32 || b.Dy() != 32 {
		t.Errorf("screenshot size = %v, want 32x32", b)
	}
}

func TestSceneName(t *testing.T) {
	tests := map[string]string{
		"":                  "Cornell box",
		config.SceneCornell: "Cornell box",
		"models/bunny.glb":  "bunny.glb",
	}
	for src, want := range tests {
		if got := sceneName(src); got != want {
			t.Errorf("sceneName(%q) = %q, want %q", src, got, want)
		}
	}
}
