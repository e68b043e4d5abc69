package blank

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"sync"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soocke/frame-aide/domain/encoder"
)

// recordingSurface wraps a MemorySurface and records every resize.
type recordingSurface struct {
	*MemorySurface
	mu    sync.Mutex
	sizes []image.Point
}

func newRecordingSurface() *recordingSurface {
	return &recordingSurface{MemorySurface: NewMemorySurface()}
}

func (s *recordingSurface) SetSize(w, h int) {
	s.mu.Lock()
	s.sizes = append(s.sizes, image.Pt(w, h))
	s.mu.Unlock()
	s.MemorySurface.SetSize(w, h)
}

// fakeEncoder records requests and returns canned output.
type fakeEncoder struct {
	mediaType string
	out       []byte
	err       error

	calls    int
	lastSize image.Point
	lastQ    float64
}

func (e *fakeEncoder) Format() string    { return "fake" }
func (e *fakeEncoder) MediaType() string { return e.mediaType }
func (e *fakeEncoder) Extension() string { return ".bin" }
func (e *fakeEncoder) Available() bool   { return true }
func (e *fakeEncoder) Encode(_ context.Context, img image.Image, q float64) ([]byte, error) {
	e.calls++
	e.lastSize = img.Bounds().Size()
	e.lastQ = q
	return e.out, e.err
}

func bitmap(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = 0x80
	}
	return img
}

func TestAppendThenToBlob_10x10(t *testing.T) {
	s := newRecordingSurface()
	b := New(s, encoder.DefaultRegistry())

	blob, err := b.AppendImage(bitmap(10, 10)).ToBlob(context.Background(), encoder.MimePNG, 1)
	require.NoError(t, err)
	assert.NotZero(t, blob.Size())
	assert.Equal(t, "image/png", blob.Type)
	require.Equal(t, []image.Point{image.Pt(10, 10)}, s.sizes)

	img, err := png.Decode(bytes.NewReader(blob.Data))
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 10, 10), img.Bounds())
}

func TestAppendImage_ReplacesContent(t *testing.T) {
	s := NewMemorySurface()
	b := New(s, nil)

	b.AppendImage(bitmap(8, 6))
	w, h := s.Size()
	assert.Equal(t, 8, w)
	assert.Equal(t, 6, h)

	small := image.NewNRGBA(image.Rect(0, 0, 2, 3))
	small.Set(1, 1, color.NRGBA{R: 1, G: 2, B: 3, A: 255})
	b.AppendImage(small)
	w, h = s.Size()
	assert.Equal(t, 2, w)
	assert.Equal(t, 3, h)
	assert.Equal(t, color.NRGBA{R: 1, G: 2, B: 3, A: 255}, s.Image().At(1, 1))
	assert.Equal(t, color.NRGBA{}, s.Image().At(0, 0))
}

func TestToBlob_CanonicalMediaType(t *testing.T) {
	jpeg := &fakeEncoder{mediaType: "image/jpeg", out: []byte{1}}
	webp := &fakeEncoder{mediaType: "image/webp", out: []byte{2}}
	b := New(nil, encoder.NewRegistry(jpeg, webp))
	b.AppendImage(bitmap(4, 4))

	blob, err := b.ToBlob(context.Background(), encoder.MimeJPG, 0.5)
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", blob.Type)
	assert.Equal(t, 1, jpeg.calls)
	assert.Equal(t, 0.5, jpeg.lastQ)
	assert.Equal(t, image.Pt(4, 4), jpeg.lastSize)

	blob, err = b.ToBlob(context.Background(), encoder.MimeWebP, 1)
	require.NoError(t, err)
	assert.Equal(t, "image/webp", blob.Type)
	assert.Equal(t, 1, webp.calls)
}

func TestToBlob_EncodingFailed(t *testing.T) {
	t.Run("empty surface", func(t *testing.T) {
		b := New(nil, nil)
		_, err := b.ToBlob(context.Background(), encoder.MimePNG, 1)
		assert.True(t, errors.Is(err, ErrEncodingFailed))
	})
	t.Run("no data", func(t *testing.T) {
		b := New(nil, encoder.NewRegistry(&fakeEncoder{mediaType: "image/png"}))
		_, err := b.AppendImage(bitmap(2, 2)).ToBlob(context.Background(), encoder.MimePNG, 1)
		assert.True(t, errors.Is(err, ErrEncodingFailed))
	})
	t.Run("encoder error", func(t *testing.T) {
		boom := errors.New("boom")
		b := New(nil, encoder.NewRegistry(&fakeEncoder{mediaType: "image/png", err: boom}))
		_, err := b.AppendImage(bitmap(2, 2)).ToBlob(context.Background(), encoder.MimePNG, 1)
		assert.True(t, errors.Is(err, ErrEncodingFailed))
		assert.True(t, errors.Is(err, boom))
		assert.EqualError(t, err, "encoding failed: image/png: boom")
	})
	t.Run("no encoder", func(t *testing.T) {
		b := New(nil, encoder.NewRegistry())
		_, err := b.AppendImage(bitmap(2, 2)).ToBlob(context.Background(), encoder.MimeWebP, 1)
		assert.True(t, errors.Is(err, ErrEncodingFailed))
	})
	t.Run("nil bitmap clears surface", func(t *testing.T) {
		b := New(nil, nil)
		_, err := b.AppendImage(bitmap(3, 3)).AppendImage(nil).ToBlob(context.Background(), encoder.MimePNG, 1)
		assert.True(t, errors.Is(err, ErrEncodingFailed))
	})
}

func TestToBlob_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	b := New(nil, nil)
	_, err := b.AppendImage(bitmap(2, 2)).ToBlob(ctx, encoder.MimePNG, 1)
	assert.ErrorIs(t, err, context.Canceled)
}
