package app

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/gif"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soocke/frame-aide/config"
	"github.com/soocke/frame-aide/domain/surface"
)

func writeStill(t *testing.T, w, h int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "still.png")
	require.NoError(t, imaging.Save(imaging.New(w, h, color.NRGBA{R: 200, A: 255}), path))
	return path
}

func writeGIF(t *testing.T) string {
	t.Helper()
	pal := color.Palette{color.RGBA{A: 255}, color.RGBA{G: 255, A: 255}}
	f1 := image.NewPaletted(image.Rect(0, 0, 6, 3), pal)
	f2 := image.NewPaletted(image.Rect(0, 0, 6, 3), pal)
	f2.SetColorIndex(1, 1, 1)
	var buf bytes.Buffer
	require.NoError(t, gif.EncodeAll(&buf, &gif.GIF{
		Image: []*image.Paletted{f1, f2},
		Delay: []int{2, 2},
	}))
	path := filepath.Join(t.TempDir(), "anim.gif")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
	return path
}

func TestRun_StillSourceDownloadsNumberedFiles(t *testing.T) {
	out := t.TempDir()
	cfg := config.DefaultConfig()
	cfg.Source = writeStill(t, 8, 5)
	cfg.OutputDir = out
	cfg.Name = "shot"
	cfg.Frames = 2
	cfg.Interval = 0

	require.NoError(t, Run(context.Background(), cfg, &bytes.Buffer{}, nil))

	for _, name := range []string{"shot_1.png", "shot_2.png"} {
		img, err := imaging.Open(filepath.Join(out, name))
		require.NoError(t, err, name)
		assert.Equal(t, image.Rect(0, 0, 8, 5), img.Bounds())
	}
}

func TestRun_ReportSkipsDownload(t *testing.T) {
	out := t.TempDir()
	cfg := config.DefaultConfig()
	cfg.Source = writeStill(t, 4, 4)
	cfg.OutputDir = out
	cfg.Report = true
	cfg.Mime = "jpg"
	cfg.Frames = 2
	cfg.Interval = time.Millisecond

	var stdout bytes.Buffer
	require.NoError(t, Run(context.Background(), cfg, &stdout, nil))

	assert.Contains(t, stdout.String(), "frame_1")
	assert.Contains(t, stdout.String(), "frame_2")
	assert.Contains(t, stdout.String(), "4x4 image/jpeg")
	entries, err := os.ReadDir(out)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestRun_GIFSource(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Source = writeGIF(t)
	cfg.Report = true
	cfg.Download = false

	var stdout bytes.Buffer
	require.NoError(t, Run(context.Background(), cfg, &stdout, nil))
	assert.Contains(t, stdout.String(), "6x3")
}

func TestRun_GIFSourceWithoutWarmup(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Source = writeGIF(t)
	cfg.Report = true
	cfg.Download = false
	cfg.Warmup = 0

	for i := 0; i < 20; i++ {
		var stdout bytes.Buffer
		require.NoError(t, Run(context.Background(), cfg, &stdout, nil))
		assert.Contains(t, stdout.String(), "frame_1")
	}
}

func TestSource_ReadyWithoutTimeoutFollowsContext(t *testing.T) {
	v := surface.NewVideo()
	s := &Source{Element: v, video: v}
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, s.Ready(ctx, 0), context.DeadlineExceeded)

	go func() {
		time.Sleep(10 * time.Millisecond)
		v.Present(image.NewRGBA(image.Rect(0, 0, 2, 2)))
	}()
	assert.NoError(t, s.Ready(context.Background(), 0))
}

func TestBuildContainer_Errors(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Source = filepath.Join(t.TempDir(), "missing.png")
	_, err := BuildContainer(context.Background(), cfg, &bytes.Buffer{}, nil)
	assert.Error(t, err)

	cfg = config.DefaultConfig()
	cfg.Source = writeStill(t, 2, 2)
	cfg.Mime = "bmp"
	_, err = BuildContainer(context.Background(), cfg, &bytes.Buffer{}, nil)
	assert.Error(t, err)
}

func TestSource_ReadyTimesOutWithoutFrames(t *testing.T) {
	s := &Source{Element: surface.NewVideo(), video: surface.NewVideo()}
	err := s.Ready(context.Background(), 20*time.Millisecond)
	assert.Error(t, err)

	v := surface.NewVideo()
	v.Present(image.NewRGBA(image.Rect(0, 0, 1, 1)))
	s = &Source{Element: v, video: v}
	assert.NoError(t, s.Ready(context.Background(), time.Second))
}

func TestExecute_GrabFlags(t *testing.T) {
	out := t.TempDir()
	src := writeStill(t, 3, 2)
	var stdout bytes.Buffer
	err := Execute(context.Background(),
		[]string{"grab", "--source", src, "--out", out, "--name", "cli", "--frames", "1", "--mime", "jpeg"},
		&stdout, nil, nil)
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(out, "cli_1.jpg"))
	assert.NoError(t, err)

	err = Execute(context.Background(), []string{"grab", "--mime", "tiff", "--source", src}, &stdout, nil, nil)
	assert.Error(t, err)
}
