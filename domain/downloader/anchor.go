package downloader

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/dustin/go-humanize"

	"github.com/soocke/frame-aide/domain/encoder"
)

// Anchor triggers a file save for href under the suggested file name.
// Implementations own failure handling; nothing is reported back.
type Anchor interface {
	Click(href, download string)
}

// Resolver maps a reference URL back to its blob.
type Resolver interface {
	Resolve(url string) (encoder.Blob, bool)
}

// FileAnchor saves blobs into a directory. The file name is the suggested
// download name plus the extension of the blob's media type.
type FileAnchor struct {
	dir      string
	resolver Resolver
	logger   *slog.Logger
}

// DefaultDir returns the user's download directory.
func DefaultDir() string {
	if d := xdg.UserDirs.Download; d != "" {
		return d
	}
	return filepath.Join(xdg.Home, "Downloads")
}

// NewFileAnchor returns an anchor writing to dir (DefaultDir when empty).
func NewFileAnchor(dir string, resolver Resolver, logger *slog.Logger) *FileAnchor {
	if dir == "" {
		dir = DefaultDir()
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &FileAnchor{dir: dir, resolver: resolver, logger: logger}
}

// Dir returns the target directory.
func (a *FileAnchor) Dir() string { return a.dir }

func (a *FileAnchor) Click(href, download string) {
	blob, ok := a.resolver.Resolve(href)
	if !ok {
		a.logger.Warn("download: url not resolvable", "href", href, "name", download)
		return
	}
	if err := os.MkdirAll(a.dir, 0o755); err != nil {
		a.logger.Error("download: create dir", "dir", a.dir, "error", err)
		return
	}
	path := filepath.Join(a.dir, filepath.Base(download)+encoder.Extension(blob.Type))
	if err := os.WriteFile(path, blob.Data, 0o644); err != nil {
		a.logger.Error("download: write", "path", path, "error", err)
		return
	}
	a.logger.Info("download.saved",
		"path", path,
		"type", blob.Type,
		"size", humanize.Bytes(uint64(blob.Size())),
	)
}
