// Package render turns traced colors into pixels: the pinhole camera that
// generates primary rays, the framebuffer that receives shaded colors, and
// its terminal and image outputs.
package render

import (
	"errors"
	"image/color"
	"math"
	"sync"

	"github.com/taigrr/cornell/pkg/math3d"
)

// ErrEmptyFramebuffer is returned when locking a framebuffer with no pixels.
var ErrEmptyFramebuffer = errors.New("framebuffer has no pixels")

// Framebuffer is a 2D array of pixels that can be rendered to the terminal.
// We use double vertical resolution by using half-block characters (▀▄).
//
// A frame is written between Lock and Unlock; readers such as Draw and
// ToImage take the same lock.
type Framebuffer struct {
	Width  int          // Width in "pixels" (same as terminal columns)
	Height int          // Height in "pixels" (2x terminal rows due to half-blocks)
	Pixels []color.RGBA // Row-major pixel data

	mu sync.Mutex
}

// NewFramebuffer creates a new framebuffer with the given dimensions.
// Height should be 2x the desired terminal rows for half-block rendering.
func NewFramebuffer(width, height int) *Framebuffer {
	return &Framebuffer{
		Width:  width,
		Height: height,
		Pixels: make([]color.RGBA, width*height),
	}
}

// Resize reallocates the pixel storage. The contents are cleared.
func (fb *Framebuffer) Resize(width, height int) {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	fb.Width = width
	fb.Height = height
	fb.Pixels = make([]color.RGBA, width*height)
}

// Size returns the framebuffer dimensions in pixels.
func (fb *Framebuffer) Size() (w, h int) {
	return fb.Width, fb.Height
}

// Lock acquires the framebuffer for writing.
func (fb *Framebuffer) Lock() error {
	if fb.Width <= 0 || fb.Height <= 0 {
		return ErrEmptyFramebuffer
	}
	fb.mu.Lock()
	return nil
}

// Unlock releases the framebuffer after a frame has been written.
func (fb *Framebuffer) Unlock() {
	fb.mu.Unlock()
}

// SetColor stores a linear float color, clamping each channel to [0, 1].
// Must be called while the framebuffer is locked.
func (fb *Framebuffer) SetColor(x, y int, c math3d.Vec3) {
	fb.SetPixel(x, y, ToRGBA(c))
}

// SetPixel sets a pixel at (x, y) to the given color.
// Bounds checking is performed.
func (fb *Framebuffer) SetPixel(x, y int, c color.RGBA) {
	if x < 0 || x >= fb.Width || y < 0 || y >= fb.Height {
		return
	}
	fb.Pixels[y*fb.Width+x] = c
}

// GetPixel returns the color at (x, y).
// Returns transparent black if out of bounds.
func (fb *Framebuffer) GetPixel(x, y int) color.RGBA {
	if x < 0 || x >= fb.Width || y < 0 || y >= fb.Height {
		return color.RGBA{}
	}
	return fb.Pixels[y*fb.Width+x]
}

// DrawLine draws a line from (x0, y0) to (x1, y1) using Bresenham's algorithm.
func (fb *Framebuffer) DrawLine(x0, y0, x1, y1 int, c color.RGBA) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx := 1
	if x0 > x1 {
		sx = -1
	}
	sy := 1
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy

	for {
		fb.SetPixel(x0, y0, c)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// ToRGBA converts an un-clamped linear color to an opaque 8-bit pixel.
// NaN channels become 0.
func ToRGBA(c math3d.Vec3) color.RGBA {
	return color.RGBA{
		R: channel(c.X),
		G: channel(c.Y),
		B: channel(c.Z),
		A: 255,
	}
}

func channel(v float64) uint8 {
	if !(v > 0) {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(math.Round(v * 255))
}
