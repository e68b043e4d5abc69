// Package surface provides in-process drawable elements that the capture
// pipeline can read from: a Canvas with a resizable pixel buffer and a Video
// whose intrinsic size follows the most recently presented frame.
package surface

import (
	"image"
	"image/color"
	"sync"

	"github.com/disintegration/imaging"
)

// Canvas is a drawable pixel buffer. Like an HTML canvas, resizing clears
// the content. The zero value is a 0x0 canvas and usable.
type Canvas struct {
	mu  sync.RWMutex
	pix *image.NRGBA
}

// NewCanvas returns a transparent canvas of the given size.
func NewCanvas(width, height int) *Canvas {
	c := &Canvas{}
	c.SetSize(width, height)
	return c
}

// CanvasFromImage returns a canvas sized to img holding a copy of its pixels.
func CanvasFromImage(img image.Image) *Canvas {
	c := &Canvas{}
	if img != nil {
		c.pix = imaging.Clone(img)
	}
	return c
}

// Width returns the pixel buffer width.
func (c *Canvas) Width() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.pix == nil {
		return 0
	}
	return c.pix.Rect.Dx()
}

// Height returns the pixel buffer height.
func (c *Canvas) Height() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.pix == nil {
		return 0
	}
	return c.pix.Rect.Dy()
}

// SetSize reallocates the buffer. Negative sizes are treated as zero.
func (c *Canvas) SetSize(width, height int) {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	c.mu.Lock()
	c.pix = imaging.New(width, height, color.Transparent)
	c.mu.Unlock()
}

// Draw composites img onto the canvas with its top-left corner at pt.
func (c *Canvas) Draw(img image.Image, pt image.Point) {
	if img == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pix == nil {
		return
	}
	c.pix = imaging.Overlay(c.pix, img, pt, 1.0)
}

// Fill paints the whole canvas with col.
func (c *Canvas) Fill(col color.Color) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pix == nil {
		return
	}
	b := c.pix.Rect
	c.pix = imaging.New(b.Dx(), b.Dy(), col)
}

// Replace swaps the content for a copy of img, resizing to match.
func (c *Canvas) Replace(img image.Image) {
	if img == nil {
		return
	}
	clone := imaging.Clone(img)
	c.mu.Lock()
	c.pix = clone
	c.mu.Unlock()
}

// Frame returns the current pixels. The returned image is never mutated by
// later canvas operations.
func (c *Canvas) Frame() image.Image {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.pix == nil {
		return nil
	}
	return c.pix
}
