package aide

import (
	"io"
	"log/slog"

	"github.com/soocke/frame-aide/domain/blank"
	"github.com/soocke/frame-aide/domain/downloader"
	"github.com/soocke/frame-aide/domain/encoder"
	"github.com/soocke/frame-aide/domain/provision"
)

// Defaults applied by DefaultOptions.
const (
	DefaultMime    = encoder.MimePNG
	DefaultQuality = 1.0
	DefaultName    = "frame"
)

// FrameInfo describes one captured frame.
type FrameInfo struct {
	Name   string
	Width  int
	Height int
	Blob   encoder.Blob
}

// ReadyFrameCallback receives every captured frame when registered.
type ReadyFrameCallback func(FrameInfo)

// Options is the capture configuration.
type Options struct {
	Mime          encoder.MimeType
	Quality       float64
	Name          string
	OnReadyFrame  ReadyFrameCallback
	DownloadAfter bool

	// Collaborators; nil selects the default.
	Logger        *slog.Logger
	FrameBuffer   *blank.Blank
	Bitmapper     provision.Bitmapper
	NewDownloader DownloaderFactory
}

// DownloaderFactory builds the downloader for a base file name.
type DownloaderFactory func(name string) (downloader.ImageDownloader, error)

// DefaultOptions returns a fresh copy of the defaults.
func DefaultOptions() Options {
	return Options{
		Mime:          DefaultMime,
		Quality:       DefaultQuality,
		Name:          DefaultName,
		DownloadAfter: true,
	}
}

// Option overrides one field of the defaults.
type Option func(*Options)

// WithMime sets the output image type.
func WithMime(m encoder.MimeType) Option { return func(o *Options) { o.Mime = m } }

// WithQuality sets the encoder quality; values are clamped to [0,1].
func WithQuality(q float64) Option { return func(o *Options) { o.Quality = q } }

// WithName sets the base name of frames and downloaded files.
func WithName(name string) Option { return func(o *Options) { o.Name = name } }

// WithOnReadyFrame registers a callback. It takes precedence over downloads.
func WithOnReadyFrame(cb ReadyFrameCallback) Option { return func(o *Options) { o.OnReadyFrame = cb } }

// WithDownloadAfter controls whether a downloader is built.
func WithDownloadAfter(b bool) Option { return func(o *Options) { o.DownloadAfter = b } }

// WithLogger sets the debug logger; nil discards.
func WithLogger(l *slog.Logger) Option { return func(o *Options) { o.Logger = l } }

// WithFrameBuffer replaces the default in-memory frame buffer.
func WithFrameBuffer(b *blank.Blank) Option { return func(o *Options) { o.FrameBuffer = b } }

// WithBitmapper replaces the snapshot step.
func WithBitmapper(fn provision.Bitmapper) Option { return func(o *Options) { o.Bitmapper = fn } }

// WithDownloader overrides how the downloader is built from the base name.
func WithDownloader(fn DownloaderFactory) Option {
	return func(o *Options) { o.NewDownloader = fn }
}

func (o *Options) normalize() {
	if o.Mime == "" {
		o.Mime = DefaultMime
	}
	if o.Name == "" {
		o.Name = DefaultName
	}
	if o.Quality < 0 {
		o.Quality = 0
	}
	if o.Quality > 1 {
		o.Quality = 1
	}
	if o.Logger == nil {
		o.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if o.FrameBuffer == nil {
		o.FrameBuffer = blank.New(nil, nil)
	}
	if o.Bitmapper == nil {
		o.Bitmapper = provision.CreateImageBitmap
	}
	if o.NewDownloader == nil {
		o.NewDownloader = func(name string) (downloader.ImageDownloader, error) { return downloader.New(name) }
	}
}
