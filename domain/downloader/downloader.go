// Package downloader saves encoded frames through a reference URL and an
// anchor, the way a page triggers a client-side download.
package downloader

import (
	"fmt"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/soocke/frame-aide/domain/encoder"
)

const defaultName = "frame"

// ErrNoResolver is returned by New when the URL store cannot resolve its own
// URLs and no anchor was supplied to consume them.
var ErrNoResolver = errors.New("url store is not a resolver; supply an anchor")

// Scheduler runs fn later, off the caller's stack.
type Scheduler func(fn func())

// NextTick schedules fn on a timer goroutine as soon as possible.
func NextTick(fn func()) { time.AfterFunc(0, fn) }

// ImageDownloader saves a blob under an optional custom name.
type ImageDownloader interface {
	DownloadImage(blob encoder.Blob, name string)
}

// Downloader hands blobs to an Anchor under "{name}_{counter}" file names.
// The counter is per Downloader and increments on every attempt.
type Downloader struct {
	name     string
	urls     URLStore
	anchor   Anchor
	schedule Scheduler

	mu      sync.Mutex
	counter int
}

// Option configures a Downloader.
type Option func(*Downloader)

// WithURLStore sets the reference URL allocator.
func WithURLStore(s URLStore) Option { return func(d *Downloader) { d.urls = s } }

// WithAnchor sets the save trigger.
func WithAnchor(a Anchor) Option { return func(d *Downloader) { d.anchor = a } }

// WithScheduler sets where URL releases run.
func WithScheduler(s Scheduler) Option { return func(d *Downloader) { d.schedule = s } }

// New returns a Downloader using name as the base file name ("frame" when
// empty). Without options it saves into DefaultDir through a private
// URLRegistry. A custom URLStore without an anchor must also implement
// Resolver, otherwise New fails with ErrNoResolver.
func New(name string, opts ...Option) (*Downloader, error) {
	if name == "" {
		name = defaultName
	}
	d := &Downloader{name: name, schedule: NextTick}
	for _, opt := range opts {
		opt(d)
	}
	if d.urls == nil {
		d.urls = NewURLRegistry(0)
	}
	if d.anchor == nil {
		resolver, ok := d.urls.(Resolver)
		if !ok {
			return nil, errors.Wrapf(ErrNoResolver, "%T", d.urls)
		}
		d.anchor = NewFileAnchor("", resolver, nil)
	}
	if d.schedule == nil {
		d.schedule = NextTick
	}
	return d, nil
}

// Name returns the base file name.
func (d *Downloader) Name() string { return d.name }

// Count returns the number of download attempts so far.
func (d *Downloader) Count() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.counter
}

// DownloadImage saves blob as "{name}_{n}", where name falls back to the base
// name and n is the incremented counter. The reference URL is released on
// the scheduler after the anchor fires.
func (d *Downloader) DownloadImage(blob encoder.Blob, name string) {
	href := d.urls.CreateObjectURL(blob)

	d.mu.Lock()
	d.counter++
	n := d.counter
	d.mu.Unlock()

	d.anchor.Click(href, d.buildName(name, n))

	urls := d.urls
	d.schedule(func() { urls.RevokeObjectURL(href) })
}

func (d *Downloader) buildName(custom string, n int) string {
	if custom == "" {
		custom = d.name
	}
	return fmt.Sprintf("%s_%d", custom, n)
}
