package provision

import (
	"context"
	"image"
	"image/color"
	"reflect"

	"github.com/disintegration/imaging"
	"github.com/pkg/errors"
)

// NewNode selects the Node variant matching element. Canvas-like elements are
// checked before video-like ones.
func NewNode(element any) (Node, error) {
	if isNil(element) {
		return nil, errors.Wrap(ErrInvalidArgument, "pass a source element")
	}
	switch e := element.(type) {
	case CanvasElement:
		return canvasNode{canvas: e}, nil
	case VideoElement:
		return videoNode{video: e}, nil
	default:
		return nil, errors.Wrapf(ErrUnsupportedElementType, "%T", element)
	}
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}

// Bitmapper snapshots a node's current pixels.
type Bitmapper func(ctx context.Context, node Node) (image.Image, error)

// CreateImageBitmap copies the node's current frame into a new bitmap sized
// exactly to the node's live width and height. The frame is anchored at the
// origin; uncovered pixels stay transparent.
func CreateImageBitmap(ctx context.Context, node Node) (image.Image, error) {
	if node == nil {
		return nil, errors.Wrap(ErrInvalidArgument, "nil node")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	w, h := node.Width(), node.Height()
	if w <= 0 || h <= 0 {
		return nil, errors.Wrapf(ErrEmptySource, "%s is %dx%d", node.Kind(), w, h)
	}
	frame := node.Element().Frame()
	if frame == nil {
		return nil, errors.Wrapf(ErrEmptySource, "%s has no frame", node.Kind())
	}
	bitmap := imaging.Paste(imaging.New(w, h, color.Transparent), frame, image.Point{})
	return bitmap, nil
}
