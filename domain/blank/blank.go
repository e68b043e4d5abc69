// Package blank stages a captured bitmap on an offscreen surface and
// encodes it into a compressed blob.
package blank

import (
	"context"
	"image"

	"github.com/pkg/errors"

	"github.com/soocke/frame-aide/domain/encoder"
)

// ErrEncodingFailed is returned by ToBlob when the encode step yields no data.
var ErrEncodingFailed = errors.New("encoding failed")

// Encoders resolves an encoder by canonical media type.
type Encoders interface {
	Lookup(mediaType string) (encoder.Encoder, bool)
}

// Blank is an offscreen frame buffer. AppendImage and ToBlob are each safe
// to call concurrently, but nothing serializes an AppendImage/ToBlob pair:
// callers capturing concurrently may encode another caller's pixels.
type Blank struct {
	surface  Surface
	encoders Encoders
}

// New returns a Blank drawing on surface and encoding through encoders. Nil
// arguments select a MemorySurface and encoder.DefaultRegistry.
func New(surface Surface, encoders Encoders) *Blank {
	if surface == nil {
		surface = NewMemorySurface()
	}
	if encoders == nil {
		encoders = encoder.DefaultRegistry()
	}
	return &Blank{surface: surface, encoders: encoders}
}

// Surface exposes the staging surface.
func (b *Blank) Surface() Surface { return b.surface }

// AppendImage resizes the surface to the bitmap and transfers its pixels,
// replacing prior content.
func (b *Blank) AppendImage(bitmap image.Image) *Blank {
	if bitmap == nil {
		b.surface.SetSize(0, 0)
		return b
	}
	r := bitmap.Bounds()
	b.surface.SetSize(r.Dx(), r.Dy())
	b.surface.Transfer(bitmap)
	return b
}

// ToBlob encodes the surface content as mime at quality in [0,1].
func (b *Blank) ToBlob(ctx context.Context, mime encoder.MimeType, quality float64) (encoder.Blob, error) {
	mediaType := mime.MediaType()
	enc, ok := b.encoders.Lookup(mediaType)
	if !ok {
		return encoder.Blob{}, errors.Wrapf(ErrEncodingFailed, "no encoder for %s", mediaType)
	}
	w, h := b.surface.Size()
	if w <= 0 || h <= 0 {
		return encoder.Blob{}, errors.Wrapf(ErrEncodingFailed, "%s: surface is %dx%d", mediaType, w, h)
	}
	data, err := enc.Encode(ctx, b.surface.Image(), quality)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return encoder.Blob{}, ctxErr
		}
		return encoder.Blob{}, &encodeError{mediaType: mediaType, err: err}
	}
	if len(data) == 0 {
		return encoder.Blob{}, errors.Wrapf(ErrEncodingFailed, "%s: encoder returned no data", mediaType)
	}
	return encoder.Blob{Type: mediaType, Data: data}, nil
}

// encodeError matches ErrEncodingFailed and unwraps to the encoder's error.
type encodeError struct {
	mediaType string
	err       error
}

func (e *encodeError) Error() string {
	return ErrEncodingFailed.Error() + ": " + e.mediaType + ": " + e.err.Error()
}

func (e *encodeError) Unwrap() error { return e.err }

func (e *encodeError) Is(target error) bool { return target == ErrEncodingFailed }
