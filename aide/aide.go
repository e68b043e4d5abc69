// Package aide captures still frames from a canvas-like or video-like element,
// encodes them and hands them to a callback or saves them as downloads.
//
// Each TakeFrame call is independent. Calls are not serialized against each
// other: overlapping captures share one frame buffer, so callers that need
// every blob to match its own snapshot must wait for one TakeFrame to return
// before starting the next.
package aide

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/pkg/errors"

	"github.com/soocke/frame-aide/domain/blank"
	"github.com/soocke/frame-aide/domain/downloader"
	"github.com/soocke/frame-aide/domain/encoder"
	"github.com/soocke/frame-aide/domain/provision"
)

// Aide coordinates snapshot, encoding and delivery for one source element.
type Aide struct {
	node       provision.Node
	options    Options
	blank      *blank.Blank
	downloader downloader.ImageDownloader
	callback   ReadyFrameCallback

	frames atomic.Int64
}

// New resolves element into a source node and applies opts over the
// defaults. A missing element fails with provision.ErrInvalidArgument and an
// element of unknown kind with provision.ErrUnsupportedElementType.
func New(element any, opts ...Option) (*Aide, error) {
	node, err := provision.NewNode(element)
	if err != nil {
		return nil, err
	}

	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	o.normalize()
	if !o.Mime.Valid() {
		return nil, errors.Wrapf(provision.ErrInvalidArgument, "unsupported mime %q", o.Mime)
	}

	a := &Aide{
		node:     node,
		options:  o,
		blank:    o.FrameBuffer,
		callback: o.OnReadyFrame,
	}
	if o.DownloadAfter {
		d, err := o.NewDownloader(o.Name)
		if err != nil {
			return nil, errors.Wrap(err, "downloader")
		}
		a.downloader = d
	}
	return a, nil
}

// Node returns the resolved source node.
func (a *Aide) Node() provision.Node { return a.node }

// Options returns the effective configuration.
func (a *Aide) Options() Options { return a.options }

// Downloader returns the downloader, or nil when downloads are disabled.
func (a *Aide) Downloader() downloader.ImageDownloader { return a.downloader }

// Frames returns how many frames have been built so far.
func (a *Aide) Frames() int { return int(a.frames.Load()) }

// TakeFrame snapshots the element, encodes it and delivers the result. A
// registered callback receives a FrameInfo and the downloader is skipped;
// otherwise the blob goes to the downloader when one exists.
func (a *Aide) TakeFrame(ctx context.Context) error {
	bitmap, err := a.options.Bitmapper(ctx, a.node)
	if err != nil {
		return errors.Wrap(err, "snapshot")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	blob, err := a.blank.AppendImage(bitmap).ToBlob(ctx, a.options.Mime, a.options.Quality)
	if err != nil {
		return errors.Wrap(err, "encode")
	}

	info := a.createFrameInfo(blob)
	if a.callback != nil {
		a.options.Logger.Debug("frame.ready",
			"name", info.Name,
			"width", info.Width,
			"height", info.Height,
			"type", blob.Type,
			"bytes", blob.Size(),
		)
		a.callback(info)
		return nil
	}

	if a.downloader != nil {
		a.options.Logger.Debug("frame.download", "frame", info.Name, "type", blob.Type, "bytes", blob.Size())
		a.downloader.DownloadImage(blob, "")
	}
	return nil
}

func (a *Aide) createFrameInfo(blob encoder.Blob) FrameInfo {
	n := a.frames.Add(1)
	return FrameInfo{
		Name:   fmt.Sprintf("%s_%d", a.options.Name, n),
		Width:  a.node.Width(),
		Height: a.node.Height(),
		Blob:   blob,
	}
}
