package encoder

import (
	"bytes"
	"context"
	"image"

	"github.com/disintegration/imaging"
	"github.com/pkg/errors"
)

// ImagingEncoder encodes PNG and JPEG through the imaging package.
type ImagingEncoder struct {
	format    imaging.Format
	name      string
	mediaType string
	ext       string
}

// NewPNGEncoder returns a lossless PNG encoder. Quality is ignored.
func NewPNGEncoder() *ImagingEncoder {
	return &ImagingEncoder{format: imaging.PNG, name: "png", mediaType: "image/png", ext: ".png"}
}

// NewJPEGEncoder returns a JPEG encoder; quality 0..1 maps to 1..100.
func NewJPEGEncoder() *ImagingEncoder {
	return &ImagingEncoder{format: imaging.JPEG, name: "jpeg", mediaType: "image/jpeg", ext: ".jpg"}
}

func (e *ImagingEncoder) Format() string    { return e.name }
func (e *ImagingEncoder) MediaType() string { return e.mediaType }
func (e *ImagingEncoder) Extension() string { return e.ext }
func (e *ImagingEncoder) Available() bool   { return true }

func (e *ImagingEncoder) Encode(ctx context.Context, img image.Image, quality float64) ([]byte, error) {
	if img == nil {
		return nil, errors.New("nil image")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	b := img.Bounds()
	buf.Grow(b.Dx() * b.Dy())
	var opts []imaging.EncodeOption
	if e.format == imaging.JPEG {
		opts = append(opts, imaging.JPEGQuality(clampQuality(quality)))
	}
	if err := imaging.Encode(&buf, img, e.format, opts...); err != nil {
		return nil, errors.Wrapf(err, "encode %s", e.name)
	}
	return buf.Bytes(), nil
}
