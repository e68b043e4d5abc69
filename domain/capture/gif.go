package capture

import (
	"context"
	"image"
	"image/color"
	"image/gif"
	"io"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/image/draw"
)

const minGIFDelay = 20 * time.Millisecond

// ErrNoFrames is returned when an animation has nothing to present.
var ErrNoFrames = errors.New("animation has no frames")

// DecodeGIF decodes every frame of an animated GIF and composites it onto
// the logical screen, honouring the disposal method of the previous frame.
// Returned frames are independent images; delays are per frame.
func DecodeGIF(r io.Reader) ([]image.Image, []time.Duration, error) {
	g, err := gif.DecodeAll(r)
	if err != nil {
		return nil, nil, errors.Wrap(err, "decode gif")
	}
	if len(g.Image) == 0 {
		return nil, nil, errors.Wrap(ErrNoFrames, "decode gif")
	}
	bounds := image.Rect(0, 0, g.Config.Width, g.Config.Height)
	if bounds.Empty() {
		bounds = g.Image[0].Bounds()
	}

	canvas := image.NewRGBA(bounds)
	frames := make([]image.Image, 0, len(g.Image))
	delays := make([]time.Duration, 0, len(g.Image))
	for i, pal := range g.Image {
		var restore *image.RGBA
		disposal := byte(0)
		if i < len(g.Disposal) {
			disposal = g.Disposal[i]
		}
		if disposal == gif.DisposalPrevious {
			restore = image.NewRGBA(bounds)
			copy(restore.Pix, canvas.Pix)
		}

		draw.Draw(canvas, pal.Bounds(), pal, pal.Bounds().Min, draw.Over)
		frame := image.NewRGBA(bounds)
		copy(frame.Pix, canvas.Pix)
		frames = append(frames, frame)

		delay := minGIFDelay
		if i < len(g.Delay) && g.Delay[i] > 0 {
			delay = time.Duration(g.Delay[i]) * 10 * time.Millisecond
		}
		delays = append(delays, delay)

		switch disposal {
		case gif.DisposalBackground:
			draw.Draw(canvas, pal.Bounds(), image.NewUniform(color.Transparent), image.Point{}, draw.Src)
		case gif.DisposalPrevious:
			canvas = restore
		}
	}
	return frames, delays, nil
}

// PlayGIF presents the frames of the GIF in r to sink on their delays until
// the animation ends (or forever when loop is set) or ctx is done. The first
// frame is presented before PlayGIF waits for anything.
func PlayGIF(ctx context.Context, r io.Reader, sink Sink, loop bool) error {
	frames, delays, err := DecodeGIF(r)
	if err != nil {
		return err
	}
	return Play(ctx, frames, delays, sink, loop)
}

// Play presents decoded frames to sink, see PlayGIF. frames must not be
// empty and every frame needs a delay.
func Play(ctx context.Context, frames []image.Image, delays []time.Duration, sink Sink, loop bool) error {
	if len(frames) == 0 {
		return ErrNoFrames
	}
	if len(delays) != len(frames) {
		return errors.Errorf("play: %d frames but %d delays", len(frames), len(delays))
	}
	timer := time.NewTimer(0)
	defer timer.Stop()
	<-timer.C
	for {
		for i, f := range frames {
			sink.Present(f)
			timer.Reset(delays[i])
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-timer.C:
			}
		}
		if !loop {
			return nil
		}
	}
}
