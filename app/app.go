package app

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/soocke/frame-aide/config"
	"github.com/soocke/frame-aide/debug"
)

const debugLogInterval = 5 * time.Second

// Execute runs the frameaide command line with args. level is raised to
// debug when the loaded config asks for it.
func Execute(ctx context.Context, args []string, stdout io.Writer, logger *slog.Logger, level *slog.LevelVar) error {
	root := NewRootCommand(stdout, logger, level)
	root.SetArgs(args)
	root.SetOut(stdout)
	return root.ExecuteContext(ctx)
}

// NewRootCommand builds the frameaide command tree.
func NewRootCommand(stdout io.Writer, logger *slog.Logger, level *slog.LevelVar) *cobra.Command {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	root := &cobra.Command{
		Use:           "frameaide",
		Short:         "Capture still frames from the screen, an image or an animation",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newGrabCommand(stdout, logger, level))
	return root
}

func newGrabCommand(stdout io.Writer, logger *slog.Logger, level *slog.LevelVar) *cobra.Command {
	var cfgPath string
	cmd := &cobra.Command{
		Use:   "grab",
		Short: "Capture frames and save or report them",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(cfgPath, cmd.Flags())
			if err != nil {
				return err
			}
			if cfg.Debug && level != nil {
				level.Set(slog.LevelDebug)
			}
			return Run(cmd.Context(), cfg, stdout, logger)
		},
	}

	def := config.DefaultConfig()
	f := cmd.Flags()
	f.StringVar(&cfgPath, "config", "", "JSON config file")
	f.String("source", def.Source, `"screen", an image path or a .gif path`)
	f.String("mime", def.Mime, "png, jpeg, jpg or webp")
	f.Float64("quality", def.Quality, "encoder quality in [0,1]")
	f.String("name", def.Name, "base name of frames and files")
	f.String("out", def.OutputDir, "output directory (default: user download directory)")
	f.Int("frames", def.Frames, "number of frames to capture")
	f.Duration("interval", def.Interval, "pause between frames")
	f.Duration("warmup", def.Warmup, "how long to wait for the first frame of a live source (0 = until cancelled)")
	f.Int("fps", def.FPS, "screen capture rate")
	f.Bool("download", def.Download, "save frames to the output directory")
	f.Bool("report", def.Report, "print frame info instead of saving")
	f.Bool("debug", def.Debug, "debug logging and runtime stats")
	f.Int("selection-x", def.SelectionX, "screen selection left")
	f.Int("selection-y", def.SelectionY, "screen selection top")
	f.Int("selection-w", def.SelectionW, "screen selection width (0 = full screen)")
	f.Int("selection-h", def.SelectionH, "screen selection height (0 = full screen)")
	return cmd
}

// Run captures cfg.Frames frames one after another, each awaited before the
// next, and delivers them as configured.
func Run(ctx context.Context, cfg *config.Config, stdout io.Writer, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if cfg.Debug {
		debug.StartGoroutineLogger(ctx, debugLogInterval, logger)
		debug.StartMemLogger(ctx, debugLogInterval, logger)
	}

	c, err := BuildContainer(ctx, cfg, stdout, logger)
	if err != nil {
		return err
	}
	defer c.Close()

	if err := c.Source.Ready(ctx, cfg.Warmup); err != nil {
		return err
	}

	for i := 0; i < cfg.Frames; i++ {
		if i > 0 && cfg.Interval > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(cfg.Interval):
			}
		}
		if err := c.Aide.TakeFrame(ctx); err != nil {
			return errors.Wrapf(err, "frame %d", i+1)
		}
	}
	logger.Info("grab.done", "frames", c.Aide.Frames(), "source", cfg.Source)
	return nil
}
