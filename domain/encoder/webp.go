package encoder

import (
	"bytes"
	"context"
	"image"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"

	"github.com/disintegration/imaging"
	"github.com/pkg/errors"
	"golang.org/x/image/webp"
)

const defaultCWebP = "cwebp"

// WebPEncoder encodes WebP by running the external cwebp tool. The output is
// decoded back with x/image/webp to make sure the tool produced a usable
// image of the right size.
type WebPEncoder struct {
	binary string
}

// NewWebPEncoder returns an encoder running binary; empty means "cwebp" from
// PATH.
func NewWebPEncoder(binary string) *WebPEncoder {
	if binary == "" {
		binary = defaultCWebP
	}
	return &WebPEncoder{binary: binary}
}

func (e *WebPEncoder) Format() string    { return "webp" }
func (e *WebPEncoder) MediaType() string { return "image/webp" }
func (e *WebPEncoder) Extension() string { return ".webp" }

func (e *WebPEncoder) Available() bool {
	_, err := exec.LookPath(e.binary)
	return err == nil
}

func (e *WebPEncoder) Encode(ctx context.Context, img image.Image, quality float64) ([]byte, error) {
	if img == nil {
		return nil, errors.New("nil image")
	}
	bin, err := exec.LookPath(e.binary)
	if err != nil {
		return nil, errors.Wrapf(ErrUnavailable, "webp: %v", err)
	}

	dir, err := os.MkdirTemp("", "frameaide-webp-")
	if err != nil {
		return nil, errors.Wrap(err, "webp: temp dir")
	}
	defer os.RemoveAll(dir)

	in := filepath.Join(dir, "in.png")
	out := filepath.Join(dir, "out.webp")
	if err := imaging.Save(img, in); err != nil {
		return nil, errors.Wrap(err, "webp: stage input")
	}

	args := []string{"-quiet", "-q", strconv.Itoa(clampQuality(quality))}
	if quality >= 1 {
		args = append(args, "-exact")
	}
	args = append(args, in, "-o", out)
	cmd := exec.CommandContext(ctx, bin, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, errors.Wrapf(err, "webp: cwebp failed: %s", bytes.TrimSpace(stderr.Bytes()))
	}

	data, err := os.ReadFile(out)
	if err != nil {
		return nil, errors.Wrap(err, "webp: read output")
	}
	cfg, err := webp.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrap(err, "webp: invalid output")
	}
	b := img.Bounds()
	if cfg.Width != b.Dx() || cfg.Height != b.Dy() {
		return nil, errors.Errorf("webp: output is %dx%d, want %dx%d", cfg.Width, cfg.Height, b.Dx(), b.Dy())
	}
	return data, nil
}
