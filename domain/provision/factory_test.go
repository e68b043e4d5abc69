package provision

import (
	"context"
	"image"
	"image/color"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soocke/frame-aide/domain/surface"
)

// paragraph is an element of a kind the factory does not understand.
type paragraph struct{ text string }

func (p *paragraph) Frame() image.Image { return nil }

func TestNewNode_Nil(t *testing.T) {
	_, err := NewNode(nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidArgument))

	var c *surface.Canvas
	_, err = NewNode(c)
	assert.True(t, errors.Is(err, ErrInvalidArgument), "typed nil pointer must be rejected")
}

func TestNewNode_Unsupported(t *testing.T) {
	for _, el := range []any{&paragraph{text: "hi"}, "canvas", 42, image.NewRGBA(image.Rect(0, 0, 1, 1))} {
		_, err := NewNode(el)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrUnsupportedElementType), "%T", el)
	}
}

func TestNewNode_SelectsVariant(t *testing.T) {
	n, err := NewNode(surface.NewCanvas(3, 4))
	require.NoError(t, err)
	assert.Equal(t, KindCanvas, n.Kind())
	assert.Equal(t, "canvas", n.Kind().String())

	n, err = NewNode(surface.NewVideo())
	require.NoError(t, err)
	assert.Equal(t, KindVideo, n.Kind())
	assert.Equal(t, "video", n.Kind().String())
}

func TestCanvasNode_LiveDimensions(t *testing.T) {
	c := surface.NewCanvas(100, 50)
	n, err := NewNode(c)
	require.NoError(t, err)
	assert.Equal(t, 100, n.Width())
	assert.Equal(t, 50, n.Height())
	assert.Same(t, c, n.Element())

	c.SetSize(320, 240)
	assert.Equal(t, 320, n.Width())
	assert.Equal(t, 240, n.Height())
}

func TestVideoNode_LiveDimensions(t *testing.T) {
	v := surface.NewVideo()
	n, err := NewNode(v)
	require.NoError(t, err)
	assert.Equal(t, 0, n.Width())
	assert.Equal(t, 0, n.Height())

	v.Present(image.NewRGBA(image.Rect(0, 0, 640, 360)))
	assert.Equal(t, 640, n.Width())
	assert.Equal(t, 360, n.Height())

	v.Present(image.NewRGBA(image.Rect(0, 0, 1920, 1080)))
	assert.Equal(t, 1920, n.Width())
	assert.Equal(t, 1080, n.Height())
}

func TestCreateImageBitmap_SizedToNode(t *testing.T) {
	c := surface.NewCanvas(10, 10)
	c.Fill(color.NRGBA{G: 255, A: 255})
	n, err := NewNode(c)
	require.NoError(t, err)

	bmp, err := CreateImageBitmap(context.Background(), n)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 10, 10), bmp.Bounds())
	_, g, _, a := bmp.At(9, 9).RGBA()
	assert.Equal(t, uint32(0xffff), g)
	assert.Equal(t, uint32(0xffff), a)
}

func TestCreateImageBitmap_OffsetFrame(t *testing.T) {
	v := surface.NewVideo()
	frame := image.NewNRGBA(image.Rect(50, 50, 54, 52))
	for i := range frame.Pix {
		frame.Pix[i] = 200
	}
	v.Present(frame)
	n, err := NewNode(v)
	require.NoError(t, err)

	bmp, err := CreateImageBitmap(context.Background(), n)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 4, 2), bmp.Bounds())
	r, _, _, _ := bmp.At(0, 0).RGBA()
	assert.NotZero(t, r)
}

func TestCreateImageBitmap_EmptySource(t *testing.T) {
	n, err := NewNode(surface.NewVideo())
	require.NoError(t, err)
	_, err = CreateImageBitmap(context.Background(), n)
	assert.True(t, errors.Is(err, ErrEmptySource))

	n, err = NewNode(surface.NewCanvas(0, 5))
	require.NoError(t, err)
	_, err = CreateImageBitmap(context.Background(), n)
	assert.True(t, errors.Is(err, ErrEmptySource))
}

func TestCreateImageBitmap_Cancelled(t *testing.T) {
	n, err := NewNode(surface.NewCanvas(2, 2))
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = CreateImageBitmap(ctx, n)
	assert.ErrorIs(t, err, context.Canceled)
}
