package blank

import (
	"image"
	"image/color"
	"sync"

	"github.com/disintegration/imaging"
	xdraw "golang.org/x/image/draw"
)

// Surface is the offscreen drawable a Blank stages bitmaps on.
type Surface interface {
	// SetSize reallocates the surface; content is cleared.
	SetSize(width, height int)
	Size() (width, height int)
	// Transfer replaces the surface content with img, anchored at the origin.
	Transfer(img image.Image)
	// Image returns the current content. It must not change after return.
	Image() image.Image
}

// MemorySurface is an in-memory Surface backed by *image.NRGBA.
type MemorySurface struct {
	mu  sync.Mutex
	pix *image.NRGBA
}

// NewMemorySurface returns an empty 0x0 surface.
func NewMemorySurface() *MemorySurface {
	return &MemorySurface{pix: &image.NRGBA{}}
}

func (s *MemorySurface) SetSize(width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pix = imaging.New(width, height, color.Transparent)
}

func (s *MemorySurface) Size() (int, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pix == nil {
		return 0, 0
	}
	return s.pix.Rect.Dx(), s.pix.Rect.Dy()
}

func (s *MemorySurface) Transfer(img image.Image) {
	if img == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pix == nil {
		return
	}
	dst := image.NewNRGBA(s.pix.Rect)
	xdraw.Copy(dst, image.Point{}, img, img.Bounds(), xdraw.Src, nil)
	s.pix = dst
}

func (s *MemorySurface) Image() image.Image {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pix
}
