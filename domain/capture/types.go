package capture

import "image"

// Sink receives frames produced by a feed. surface.Video implements it.
type Sink interface {
	Present(img image.Image)
}

// GrabFunc captures the screen. A nil or empty selection means the whole
// screen.
type GrabFunc func(selection *image.Rectangle) (*image.RGBA, error)

// ServiceContract exposes basic lifecycle control for capture services.
type ServiceContract interface {
	Start()
	Stop()
	Running() bool
}
