package encoder

import (
	"context"
	"image"
	"sync"

	"github.com/pkg/errors"
)

// ErrUnavailable is returned when an encoder's backend is missing (for
// example the cwebp binary is not installed).
var ErrUnavailable = errors.New("encoder unavailable")

// Blob is a compressed image together with its canonical media type.
type Blob struct {
	Type string
	Data []byte
}

// Size returns the number of encoded bytes.
func (b Blob) Size() int { return len(b.Data) }

// Encoder encodes an image into compressed bytes.
type Encoder interface {
	// Format returns the short format name (e.g. "png", "jpeg", "webp").
	Format() string
	// MediaType returns the canonical media type produced by Encode.
	MediaType() string
	// Extension returns the file extension including the dot.
	Extension() string
	// Available reports whether the encoder can run in this process.
	Available() bool
	// Encode compresses img. quality is in [0,1]; encoders without a
	// quality knob ignore it.
	Encode(ctx context.Context, img image.Image, quality float64) ([]byte, error)
}

// Registry resolves encoders by canonical media type. The zero value is
// empty and usable.
type Registry struct {
	mu       sync.RWMutex
	encoders map[string]Encoder
}

// NewRegistry returns a registry holding the given encoders.
func NewRegistry(encoders ...Encoder) *Registry {
	r := &Registry{}
	for _, e := range encoders {
		r.Register(e)
	}
	return r
}

// DefaultRegistry returns a registry with PNG, JPEG and WebP encoders.
func DefaultRegistry() *Registry {
	return NewRegistry(NewPNGEncoder(), NewJPEGEncoder(), NewWebPEncoder(""))
}

// Register adds or replaces the encoder for e.MediaType().
func (r *Registry) Register(e Encoder) {
	if r == nil || e == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.encoders == nil {
		r.encoders = make(map[string]Encoder)
	}
	r.encoders[e.MediaType()] = e
}

// Lookup returns the encoder registered for mediaType.
func (r *Registry) Lookup(mediaType string) (Encoder, bool) {
	if r == nil {
		return nil, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.encoders[mediaType]
	return e, ok
}

// clampQuality maps a [0,1] quality onto the 1..100 scale used by codecs.
func clampQuality(q float64) int {
	v := int(q*100 + 0.5)
	if v < 1 {
		v = 1
	}
	if v > 100 {
		v = 100
	}
	return v
}
