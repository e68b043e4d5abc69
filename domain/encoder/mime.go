package encoder

import (
	"strings"

	"github.com/pkg/errors"
)

// MimeType is the short image type identifier accepted by the capture
// pipeline. Use MediaType to obtain the canonical media type string.
type MimeType string

const (
	MimePNG  MimeType = "png"
	MimeJPEG MimeType = "jpeg"
	MimeJPG  MimeType = "jpg"
	MimeWebP MimeType = "webp"
)

// ErrUnknownMimeType is returned by ParseMimeType for identifiers outside the
// supported set.
var ErrUnknownMimeType = errors.New("unknown image mime type")

// ParseMimeType accepts "png", "jpeg", "jpg" or "webp" in any case, with or
// without an "image/" prefix.
func ParseMimeType(s string) (MimeType, error) {
	m := MimeType(strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), "image/"))
	if !m.Valid() {
		return "", errors.Wrapf(ErrUnknownMimeType, "%q", s)
	}
	return m, nil
}

// Valid reports whether m is one of the supported identifiers.
func (m MimeType) Valid() bool {
	switch m {
	case MimePNG, MimeJPEG, MimeJPG, MimeWebP:
		return true
	}
	return false
}

// MediaType maps the identifier to its canonical media type. "jpg" is the
// only alias; everything else becomes image/{m}.
func (m MimeType) MediaType() string {
	if m == MimeJPG {
		return "image/jpeg"
	}
	return "image/" + string(m)
}

// Extension returns the file extension (with dot) for a canonical media type.
func Extension(mediaType string) string {
	switch mediaType {
	case "image/png":
		return ".png"
	case "image/jpeg":
		return ".jpg"
	case "image/webp":
		return ".webp"
	}
	return ""
}
