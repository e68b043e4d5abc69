package capture

import (
	"github.com/disintegration/imaging"
	"github.com/pkg/errors"
	_ "golang.org/x/image/webp"

	"github.com/soocke/frame-aide/domain/surface"
)

// LoadCanvas decodes the still image at path into a new canvas. PNG, JPEG,
// GIF (first frame), BMP, TIFF and WebP are supported.
func LoadCanvas(path string) (*surface.Canvas, error) {
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, errors.Wrapf(err, "load %s", path)
	}
	return surface.CanvasFromImage(img), nil
}
