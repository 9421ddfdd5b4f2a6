// Package imgio loads bitmaps from files for the CLI and server surfaces.
package imgio

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chai2010/webp"
	_ "golang.org/x/image/bmp"
)

// SupportedExtensions lists the file extensions the loader accepts.
var SupportedExtensions = []string{".jpg", ".jpeg", ".png", ".bmp", ".webp"}

// IsSupported reports whether the path has a supported image extension.
func IsSupported(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, s := range SupportedExtensions {
		if ext == s {
			return true
		}
	}
	return false
}

// Metadata captures lightweight file and pixel information.
type Metadata struct {
	Path      string
	Format    string
	SizeBytes int64
	Width     int
	Height    int
}

// Load opens and decodes an image file.
func Load(path string) (image.Image, Metadata, error) {
	if path == "" {
		return nil, Metadata{}, fmt.Errorf("imgio: empty path")
	}
	if !IsSupported(path) {
		return nil, Metadata{}, fmt.Errorf("imgio: unsupported extension %q (supported: %s)",
			filepath.Ext(path), strings.Join(SupportedExtensions, ", "))
	}
	data, err := os.ReadFile(path) //nolint:gosec // user-provided image path is the point
	if err != nil {
		return nil, Metadata{}, fmt.Errorf("imgio: %w", err)
	}
	img, format, err := Decode(bytes.NewReader(data))
	if err != nil {
		return nil, Metadata{}, fmt.Errorf("imgio: decode %s: %w", path, err)
	}
	b := img.Bounds()
	return img, Metadata{
		Path:      path,
		Format:    format,
		SizeBytes: int64(len(data)),
		Width:     b.Dx(),
		Height:    b.Dy(),
	}, nil
}

// Decode decodes an image stream, trying the registered formats first and
// WebP as a fallback.
func Decode(r io.ReadSeeker) (image.Image, string, error) {
	img, format, err := image.Decode(r)
	if err == nil {
		return img, format, nil
	}
	if _, serr := r.Seek(0, io.SeekStart); serr != nil {
		return nil, "", err
	}
	if wimg, werr := webp.Decode(r); werr == nil {
		return wimg, "webp", nil
	}
	return nil, "", err
}
