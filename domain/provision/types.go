// Package provision turns a concrete drawable element into a Node, a uniform
// live view of its width, height and pixels.
package provision

import (
	"image"

	"github.com/pkg/errors"
)

var (
	// ErrInvalidArgument reports a missing source element.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrUnsupportedElementType reports an element that is neither
	// canvas-like nor video-like.
	ErrUnsupportedElementType = errors.New("unsupported element type")
	// ErrEmptySource reports an element with nothing to snapshot.
	ErrEmptySource = errors.New("source has no frame to capture")
)

// Drawable is an element whose current pixels can be read.
type Drawable interface {
	Frame() image.Image
}

// CanvasElement is a drawable with its own pixel buffer size.
type CanvasElement interface {
	Drawable
	Width() int
	Height() int
}

// VideoElement is a drawable whose intrinsic size follows the decoded
// stream.
type VideoElement interface {
	Drawable
	VideoWidth() int
	VideoHeight() int
}

// Kind enumerates the supported element kinds.
type Kind int

const (
	KindCanvas Kind = iota + 1
	KindVideo
)

func (k Kind) String() string {
	switch k {
	case KindCanvas:
		return "canvas"
	case KindVideo:
		return "video"
	}
	return "unknown"
}

// Node is a live view over a source element. Width and Height are read from
// the element on every call. The set of implementations is closed.
type Node interface {
	Width() int
	Height() int
	Element() Drawable
	Kind() Kind

	sealed()
}
