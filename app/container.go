package app

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/soocke/frame-aide/aide"
	"github.com/soocke/frame-aide/config"
	"github.com/soocke/frame-aide/domain/capture"
	"github.com/soocke/frame-aide/domain/downloader"
	"github.com/soocke/frame-aide/domain/encoder"
	"github.com/soocke/frame-aide/domain/surface"
)

const readyPoll = 10 * time.Millisecond

// Container assembles the source element, the delivery chain and the aide.
type Container struct {
	Config *config.Config
	Logger *slog.Logger
	Source *Source
	URLs   *downloader.URLRegistry
	Anchor *downloader.FileAnchor
	Aide   *aide.Aide
}

// BuildContainer constructs all components. Live sources start producing
// frames immediately; call Close to stop them.
func BuildContainer(ctx context.Context, cfg *config.Config, stdout io.Writer, logger *slog.Logger) (*Container, error) {
	mime, err := encoder.ParseMimeType(cfg.Mime)
	if err != nil {
		return nil, err
	}
	src, err := OpenSource(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	c := &Container{Config: cfg, Logger: logger, Source: src}
	c.URLs = downloader.NewURLRegistry(0)
	c.Anchor = downloader.NewFileAnchor(cfg.OutputDir, c.URLs, logger)

	opts := []aide.Option{
		aide.WithMime(mime),
		aide.WithQuality(cfg.Quality),
		aide.WithName(cfg.Name),
		aide.WithDownloadAfter(cfg.Download),
		aide.WithLogger(logger),
		aide.WithDownloader(func(name string) (downloader.ImageDownloader, error) {
			return downloader.New(name, downloader.WithURLStore(c.URLs), downloader.WithAnchor(c.Anchor))
		}),
	}
	if cfg.Report {
		opts = append(opts, aide.WithOnReadyFrame(NewReporter(stdout).Report))
	}

	c.Aide, err = aide.New(src.Element, opts...)
	if err != nil {
		src.Close()
		return nil, err
	}
	return c, nil
}

// Close stops the source.
func (c *Container) Close() { c.Source.Close() }

// Source is a capture element plus its lifecycle.
type Source struct {
	Element any
	// video is set for live sources that need a first frame before capture.
	video *surface.Video
	stop  func()
}

// OpenSource builds the element named by cfg.Source: "screen" is a video
// fed by the screen capture service, a .gif path a looping video and any
// other path a still canvas.
func OpenSource(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Source, error) {
	switch {
	case cfg.Source == "" || cfg.Source == "screen":
		v := surface.NewVideo()
		svc := capture.NewService(v, cfg.FPS, capture.ScreenGrab, logger)
		svc.SetSelectionProvider(cfg.Selection)
		svc.Start()
		return &Source{Element: v, video: v, stop: svc.Stop}, nil

	case strings.EqualFold(filepath.Ext(cfg.Source), ".gif"):
		f, err := os.Open(cfg.Source)
		if err != nil {
			return nil, errors.Wrap(err, "open source")
		}
		defer f.Close()
		frames, delays, err := capture.DecodeGIF(f)
		if err != nil {
			return nil, errors.Wrapf(err, "source %s", cfg.Source)
		}
		v := surface.NewVideo()
		playCtx, cancel := context.WithCancel(ctx)
		done := make(chan struct{})
		go func() {
			defer close(done)
			_ = capture.Play(playCtx, frames, delays, v, true)
		}()
		return &Source{Element: v, video: v, stop: func() { cancel(); <-done }}, nil

	default:
		canvas, err := capture.LoadCanvas(cfg.Source)
		if err != nil {
			return nil, err
		}
		return &Source{Element: canvas, stop: func() {}}, nil
	}
}

// Ready blocks until a live source has presented its first frame, timeout
// elapses or ctx is done. A timeout <= 0 waits on ctx alone. Still sources
// are always ready.
func (s *Source) Ready(ctx context.Context, timeout time.Duration) error {
	if s.video == nil {
		return nil
	}
	var expired <-chan time.Time
	if timeout > 0 {
		deadline := time.NewTimer(timeout)
		defer deadline.Stop()
		expired = deadline.C
	}
	tick := time.NewTicker(readyPoll)
	defer tick.Stop()
	for {
		if _, ok := s.video.Current(); ok {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-expired:
			return errors.Errorf("no frame from source within %s", timeout)
		case <-tick.C:
		}
	}
}

// Close stops any producer feeding the element.
func (s *Source) Close() {
	if s.stop != nil {
		s.stop()
	}
}
