package surface

import (
	"image"
	"sync/atomic"
	"time"
)

// VideoFrame is one decoded frame presented by a Video.
type VideoFrame struct {
	Image       image.Image
	PresentedAt time.Time
	Sequence    uint64
}

// Video is a playback element. Its intrinsic size is the size of the frame
// currently presented, so it changes whenever a producer presents a frame of
// a different resolution and is 0x0 until the first frame arrives.
// Present may be called from any goroutine.
type Video struct {
	current  atomic.Pointer[VideoFrame]
	sequence atomic.Uint64
}

// NewVideo returns a video element with no frame.
func NewVideo() *Video { return &Video{} }

// Present makes img the current frame. The caller must not mutate img
// afterwards.
func (v *Video) Present(img image.Image) {
	if img == nil {
		return
	}
	seq := v.sequence.Add(1)
	v.current.Store(&VideoFrame{Image: img, PresentedAt: time.Now(), Sequence: seq})
}

// VideoWidth returns the intrinsic width of the current frame.
func (v *Video) VideoWidth() int {
	if f := v.current.Load(); f != nil {
		return f.Image.Bounds().Dx()
	}
	return 0
}

// VideoHeight returns the intrinsic height of the current frame.
func (v *Video) VideoHeight() int {
	if f := v.current.Load(); f != nil {
		return f.Image.Bounds().Dy()
	}
	return 0
}

// Frame returns the current frame image or nil.
func (v *Video) Frame() image.Image {
	if f := v.current.Load(); f != nil {
		return f.Image
	}
	return nil
}

// Current returns the current frame with its metadata.
func (v *Video) Current() (VideoFrame, bool) {
	f := v.current.Load()
	if f == nil {
		return VideoFrame{}, false
	}
	return *f, true
}
