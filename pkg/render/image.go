package render

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
)

// ErrImageFormat is returned for output paths with an unsupported extension.
var ErrImageFormat = errors.New("unsupported image format")

// ToImage converts the framebuffer to a standard Go image.RGBA.
func (fb *Framebuffer) ToImage() *image.RGBA {
	fb.mu.Lock()
	defer fb.mu.Unlock()

	img := image.NewRGBA(image.Rect(0, 0, fb.Width, fb.Height))
	for y := 0; y < fb.Height; y++ {
		for x := 0; x < fb.Width; x++ {
			img.SetRGBA(x, y, fb.Pixels[y*fb.Width+x])
		}
	}
	return img
}

// Encode writes the framebuffer to w as "png" or "bmp".
func (fb *Framebuffer) Encode(w io.Writer, format string) error {
	img := fb.ToImage()
	switch strings.ToLower(format) {
	case "png":
		return png.Encode(w, img)
	case "bmp":
		return bmp.Encode(w, img)
	default:
		return fmt.Errorf("%q: %w", format, ErrImageFormat)
	}
}

// Save writes the framebuffer to path, choosing the encoder from the file
// extension (.png or .bmp).
func (fb *Framebuffer) Save(path string) error {
	format := strings.TrimPrefix(filepath.Ext(path), ".")
	switch strings.ToLower(format) {
	case "png", "bmp":
	default:
		return fmt.Errorf("save %s: %w", path, ErrImageFormat)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	if err := fb.Encode(f, format); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}
