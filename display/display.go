// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package display is the pixel store written by the WDM instruction.
package display

import (
	"image"
	"image/color"
	"image/png"
	"io"
	"slices"
	"sync"

	"golang.org/x/image/draw"

	"github.com/ezrec/rize/cpu"
)

// Display is a fixed size RGBA pixel grid, safe for concurrent use by the
// emulator and a renderer.
type Display struct {
	mutex sync.RWMutex
	image *image.RGBA
}

// New creates a cleared display.
func New(width, height int) (disp *Display) {
	disp = &Display{
		image: image.NewRGBA(image.Rect(0, 0, width, height)),
	}

	return
}

// Bounds of the display.
func (disp *Display) Bounds() image.Rectangle {
	return disp.image.Rect
}

// SetPixel stores an (r, g, b, a) color at (x, y).
func (disp *Display) SetPixel(x, y uint8, color [4]uint8) (err error) {
	disp.mutex.Lock()
	defer disp.mutex.Unlock()

	pt := image.Pt(int(x), int(y))
	if !pt.In(disp.image.Rect) {
		err = &cpu.Error{Kind: cpu.KIND_DISPLAY, Err: ErrPixelRange{X: pt.X, Y: pt.Y, Bounds: disp.image.Rect}}
		return
	}

	offset := disp.image.PixOffset(pt.X, pt.Y)
	copy(disp.image.Pix[offset:offset+4], color[:])
	return
}

// Pixel returns the color at (x, y); outside the display it is transparent.
func (disp *Display) Pixel(x, y int) color.RGBA {
	disp.mutex.RLock()
	defer disp.mutex.RUnlock()

	return disp.image.RGBAAt(x, y)
}

// Pix returns a copy of the raw RGBA bytes, row major.
func (disp *Display) Pix() []byte {
	disp.mutex.RLock()
	defer disp.mutex.RUnlock()

	return slices.Clone(disp.image.Pix)
}

// Image returns a copy of the display.
func (disp *Display) Image() (img *image.RGBA) {
	disp.mutex.RLock()
	defer disp.mutex.RUnlock()

	img = image.NewRGBA(disp.image.Rect)
	copy(img.Pix, disp.image.Pix)
	return
}

// Clear sets every pixel to transparent black.
func (disp *Display) Clear() {
	disp.mutex.Lock()
	defer disp.mutex.Unlock()

	clear(disp.image.Pix)
}

// WritePNG encodes the display, each pixel scaled to a scale x scale block.
func (disp *Display) WritePNG(w io.Writer, scale int) (err error) {
	src := disp.Image()
	if scale <= 1 {
		return png.Encode(w, src)
	}

	bounds := src.Rect
	dst := image.NewRGBA(image.Rect(0, 0, bounds.Dx()*scale, bounds.Dy()*scale))
	draw.NearestNeighbor.Scale(dst, dst.Rect, src, bounds, draw.Src, nil)

	return png.Encode(w, dst)
}
