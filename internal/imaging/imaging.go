// Package imaging identifies uploaded image formats without decoding the
// whole picture.
package imaging

import (
	"bytes"
	"errors"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

var ErrUnsupported = errors.New("unsupported image format")

var contentTypes = map[string]string{
	"jpeg": "image/jpeg",
	"png":  "image/png",
	"gif":  "image/gif",
	"webp": "image/webp",
	"bmp":  "image/bmp",
	"tiff": "image/tiff",
}

var extensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
	"image/bmp":  ".bmp",
	"image/tiff": ".tiff",
}

type Info struct {
	Format      string
	ContentType string
	Width       int
	Height      int
}

// Detect reads just the header of data and reports its format.
func Detect(data []byte) (Info, error) {
	if len(data) == 0 {
		return Info{}, ErrUnsupported
	}
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return Info{}, ErrUnsupported
	}
	ct, ok := contentTypes[format]
	if !ok {
		return Info{}, ErrUnsupported
	}
	return Info{Format: format, ContentType: ct, Width: cfg.Width, Height: cfg.Height}, nil
}

// Extension returns the file extension for a content type, or "" if unknown.
func Extension(contentType string) string {
	return extensions[contentType]
}
