// Package capture feeds live frames into video elements: a screen grabbing
// service and an animated GIF player. It also loads still images into
// canvases.
package capture

import (
	"image"

	"github.com/pkg/errors"
	"github.com/vova616/screenshot"
)

// Grab returns a screen capture of the current active monitor.
func Grab() (*image.RGBA, error) {
	img, err := screenshot.CaptureScreen()
	if err != nil {
		return nil, errors.Wrap(err, "capture screen")
	}
	return img, nil
}

// GrabSelection captures only the given screen rectangle.
func GrabSelection(area image.Rectangle) (*image.RGBA, error) {
	img, err := screenshot.CaptureRect(area)
	if err != nil {
		return nil, errors.Wrapf(err, "capture rect %v", area)
	}
	return img, nil
}

// ScreenGrab is the default GrabFunc.
func ScreenGrab(selection *image.Rectangle) (*image.RGBA, error) {
	if selection != nil && !selection.Empty() {
		return GrabSelection(*selection)
	}
	return Grab()
}
