package capture

import (
	"image"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

const (
	captureStatsLogInterval = 5 * time.Second
	defaultFPS              = 10
	maxFPS                  = 60
)

// Service grabs the screen (or a selection of it) at a fixed rate and
// presents every frame to a Sink, typically a surface.Video. Use NewService
// to construct an instance.
type Service struct {
	sink   Sink
	grab   GrabFunc
	logger *slog.Logger
	period time.Duration

	selMu sync.RWMutex
	selFn func() *image.Rectangle

	// lifeMu serializes Start and Stop; stopCh is only touched under it.
	lifeMu       sync.Mutex
	running      atomic.Bool
	stopCh       chan struct{}
	done         sync.WaitGroup
	lastCapture  atomic.Int64
	captures     atomic.Uint64
	failed       atomic.Uint64
	captureNanos atomic.Uint64
	sequence     atomic.Uint64
}

var _ ServiceContract = (*Service)(nil)

// NewService returns a stopped service presenting to sink at fps frames per
// second (clamped to 1..60; 0 selects 10). A nil grab uses ScreenGrab.
func NewService(sink Sink, fps int, grab GrabFunc, logger *slog.Logger) *Service {
	if fps <= 0 {
		fps = defaultFPS
	}
	if fps > maxFPS {
		fps = maxFPS
	}
	if grab == nil {
		grab = ScreenGrab
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Service{
		sink:   sink,
		grab:   grab,
		logger: logger,
		period: time.Second / time.Duration(fps),
	}
}

// SetSelectionProvider installs a function returning the rectangle to grab;
// nil or an empty rectangle grabs the full screen.
func (s *Service) SetSelectionProvider(fn func() *image.Rectangle) {
	s.selMu.Lock()
	s.selFn = fn
	s.selMu.Unlock()
}

func (s *Service) selection() *image.Rectangle {
	s.selMu.RLock()
	fn := s.selFn
	s.selMu.RUnlock()
	if fn == nil {
		return nil
	}
	return fn()
}

func (s *Service) Running() bool { return s.running.Load() }

// Start launches the capture loop. Calling Start on a running service is a
// no-op.
func (s *Service) Start() {
	s.lifeMu.Lock()
	defer s.lifeMu.Unlock()
	if s.running.Load() {
		return
	}
	s.stopCh = make(chan struct{})
	s.running.Store(true)
	s.done.Add(1)
	go s.loop(s.stopCh)
}

// Stop ends the capture loop and waits for it to exit.
func (s *Service) Stop() {
	s.lifeMu.Lock()
	defer s.lifeMu.Unlock()
	if !s.running.Load() {
		return
	}
	s.running.Store(false)
	close(s.stopCh)
	s.stopCh = nil
	s.done.Wait()
}

// Stats returns counters for the capture loop.
func (s *Service) Stats() CaptureStats {
	captures := s.captures.Load()
	total := s.captureNanos.Load()
	var avg time.Duration
	avgMicros := 0.0
	if captures > 0 && total > 0 {
		avg = time.Duration(total / captures)
		avgMicros = float64(avg) / float64(time.Microsecond)
	}
	var last time.Time
	age := time.Duration(0)
	if ns := s.lastCapture.Load(); ns != 0 {
		last = time.Unix(0, ns)
		age = time.Since(last)
	}
	return CaptureStats{
		Captures:         captures,
		Failed:           s.failed.Load(),
		AvgCapture:       avg,
		AvgCaptureMicros: avgMicros,
		LastCapture:      last,
		LatestFrameAge:   age,
		Sequence:         s.sequence.Load(),
	}
}

func (s *Service) loop(stop <-chan struct{}) {
	defer s.done.Done()
	ticker := time.NewTicker(s.period)
	defer ticker.Stop()
	logTicker := time.NewTicker(captureStatsLogInterval)
	defer logTicker.Stop()

	s.captureOnce()
	for {
		select {
		case <-stop:
			return
		case <-logTicker.C:
			s.logStats()
		case <-ticker.C:
			s.captureOnce()
		}
	}
}

func (s *Service) captureOnce() {
	start := time.Now()
	img, err := s.grab(s.selection())
	if err != nil || img == nil {
		s.failed.Add(1)
		if err != nil {
			s.logger.Error("capture grab", "error", err)
		}
		return
	}
	s.captureNanos.Add(uint64(time.Since(start).Nanoseconds()))
	s.captures.Add(1)
	s.sequence.Add(1)
	s.lastCapture.Store(time.Now().UnixNano())
	s.sink.Present(img)
}

func (s *Service) logStats() {
	stats := s.Stats()
	s.logger.Debug("capture.stats",
		"captures", stats.Captures,
		"failed", stats.Failed,
		"avg_capture", stats.AvgCapture,
		"age", stats.LatestFrameAge,
	)
}
