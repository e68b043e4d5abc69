package downloader

import (
	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/soocke/frame-aide/domain/encoder"
)

const (
	objectURLScheme = "blob:"
	// DefaultURLCapacity bounds how many unrevoked URLs a registry keeps.
	DefaultURLCapacity = 64
)

// URLStore allocates and releases short-lived reference URLs for blobs.
type URLStore interface {
	CreateObjectURL(blob encoder.Blob) string
	RevokeObjectURL(url string)
}

// URLRegistry is an in-process URLStore. URLs look like "blob:<uuid>". When
// more than capacity URLs are outstanding the least recently used one is
// dropped, so a caller that never revokes cannot grow it without bound.
type URLRegistry struct {
	blobs *lru.Cache[string, encoder.Blob]
}

// NewURLRegistry returns a registry holding at most capacity URLs; capacity
// <= 0 selects DefaultURLCapacity.
func NewURLRegistry(capacity int) *URLRegistry {
	if capacity <= 0 {
		capacity = DefaultURLCapacity
	}
	cache, err := lru.New[string, encoder.Blob](capacity)
	if err != nil {
		// only possible for a non-positive size
		panic(err)
	}
	return &URLRegistry{blobs: cache}
}

func (r *URLRegistry) CreateObjectURL(blob encoder.Blob) string {
	url := objectURLScheme + uuid.NewString()
	r.blobs.Add(url, blob)
	return url
}

func (r *URLRegistry) RevokeObjectURL(url string) {
	r.blobs.Remove(url)
}

// Resolve returns the blob behind url if it has not been revoked.
func (r *URLRegistry) Resolve(url string) (encoder.Blob, bool) {
	return r.blobs.Get(url)
}

// Len returns the number of live URLs.
func (r *URLRegistry) Len() int { return r.blobs.Len() }
