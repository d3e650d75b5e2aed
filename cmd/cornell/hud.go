package main

import (
	"fmt"
	"image/color"
	"time"
	"unicode/utf8"

	uv "github.com/charmbracelet/ultraviolet"

	"github.com/taigrr/cornell/pkg/tracer"
)

// HUD colors
var (
	hudBg     = color.RGBA{0, 0, 0, 255}
	hudWhite  = color.RGBA{255, 255, 255, 255}
	hudGreen  = color.RGBA{80, 250, 120, 255}
	hudCyan   = color.RGBA{80, 220, 250, 255}
	hudYellow = color.RGBA{250, 220, 80, 255}
	hudDim    = color.RGBA{150, 150, 150, 255}
)

// HUD renders an overlay with scene info and the last frame's statistics.
type HUD struct {
	scene     string
	triangles int
	frame     tracer.Frame
	fps       float64
	fpsFrames int
	fpsTime   time.Time
}

// NewHUD creates a new HUD
func NewHUD(scene string, triangles int) *HUD {
	return &HUD{
		scene:     scene,
		triangles: triangles,
		fpsTime:   time.Now(),
	}
}

// SetScene replaces the scene name and triangle count after a reload.
func (h *HUD) SetScene(scene string, triangles int) {
	h.scene = scene
	h.triangles = triangles
}

// Traced records a finished frame and updates the FPS counter.
func (h *HUD) Traced(f tracer.Frame) {
	h.frame = f
	h.fpsFrames++
	elapsed := time.Since(h.fpsTime)
	if elapsed >= time.Second {
		h.fps = float64(h.fpsFrames) / elapsed.Seconds()
		h.fpsFrames = 0
		h.fpsTime = time.Now()
	}
}

// Draw paints the HUD rows at the top and bottom of area.
func (h *HUD) Draw(scr uv.Screen, area uv.Rectangle, c *Controller) {
	if !c.ShowHUD || area.Dx() <= 0 || area.Dy() <= 0 {
		return
	}
	top := area.Min.Y
	bottom := area.Max.Y - 1
	width := area.Dx()

	// Top left: FPS
	label(scr, area.Min.X, top, fmt.Sprintf(" %.0f FPS ", h.fps), hudGreen, true)

	// Top middle: scene
	title := " " + h.scene + " "
	label(scr, area.Min.X+max((width-utf8.RuneCountInString(title))/2, 0), top, title, hudWhite, true)

	// Top right: triangle count
	tris := fmt.Sprintf(" %d tris ", h.triangles)
	label(scr, area.Min.X+max(width-utf8.RuneCountInString(tris), 0), top, tris, hudCyan, true)

	if bottom == top {
		return
	}

	// Bottom: frame statistics
	s := h.frame.Stats
	stats := fmt.Sprintf(" %s  rays %s  box %s  tri %s  hits %s  shadow %s ",
		h.frame.Elapsed.Round(time.Millisecond),
		count(s.PrimaryRays), count(s.BoxTests), count(s.TriangleTests),
		count(s.TriangleHits), count(s.ShadowRays))
	label(scr, area.Min.X, bottom, stats, hudDim, false)

	check := "[ ]"
	if c.ShowBounds {
		check = "[✓]"
	}
	bounds := " " + check + " B: bounds "
	label(scr, area.Min.X+max(width-utf8.RuneCountInString(bounds), 0), bottom, bounds, hudYellow, false)
}

// label draws one styled run of text on row y starting at column x.
func label(scr uv.Screen, x, y int, text string, fg color.Color, bold bool) {
	st := uv.Style{Fg: fg, Bg: hudBg}
	if bold {
		st.Attrs |= uv.AttrBold
	}
	n := utf8.RuneCountInString(text)
	uv.NewStyledString(st.Styled(text)).Draw(scr, uv.Rect(x, y, n, 1))
}

// count formats a counter compactly: 950, 12.3k, 4.1M.
func count(n int64) string {
	switch {
	case n >= 1_000_000_000:
		return fmt.Sprintf("%.1fG", float64(n)/1e9)
	case n >= 1_000_000:
		return fmt.Sprintf("%.1fM", float64(n)/1e6)
	case n >= 1_000:
		return fmt.Sprintf("%.1fk", float64(n)/1e3)
	default:
		return fmt.Sprintf("%d", n)
	}
}
