package app

import (
	"io"
	"sync"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"

	"github.com/soocke/frame-aide/aide"
)

// Reporter prints one line per ready frame.
type Reporter struct {
	mu    sync.Mutex
	w     io.Writer
	name  *color.Color
	faint *color.Color
}

// NewReporter writes to w. Colour follows the terminal detection of
// fatih/color.
func NewReporter(w io.Writer) *Reporter {
	return &Reporter{
		w:     w,
		name:  color.New(color.FgGreen, color.Bold),
		faint: color.New(color.FgHiBlack),
	}
}

// Report is an aide.ReadyFrameCallback.
func (r *Reporter) Report(info aide.FrameInfo) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.name.Fprint(r.w, info.Name)
	r.faint.Fprintf(r.w, " %dx%d %s %s\n",
		info.Width, info.Height, info.Blob.Type, humanize.Bytes(uint64(info.Blob.Size())))
}
