package export

import (
	"bytes"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/image/bmp"
)

// JPEGQuality is the quality exported JPEGs are encoded with.
const JPEGQuality = 100

// ErrUnsupportedFormat is returned for extensions Encode cannot produce.
var ErrUnsupportedFormat = errors.New("unsupported image format")

// Encode writes img to w in the format named by ext (".jpg", ".png", ".bmp").
// An empty extension means JPEG.
func Encode(w io.Writer, img image.Image, ext string) error {
	switch strings.ToLower(ext) {
	case "", ".jpg", ".jpeg":
		return jpeg.Encode(w, img, &jpeg.Options{Quality: JPEGQuality})
	case ".png":
		return png.Encode(w, img)
	case ".bmp":
		return bmp.Encode(w, img)
	default:
		return errors.Wrapf(ErrUnsupportedFormat, "extension %q", ext)
	}
}

// EncodeFile encodes img in memory using the extension of name.
func EncodeFile(name string, img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, img, filepath.Ext(name)); err != nil {
		return nil, errors.Wrapf(err, "encoding %s", name)
	}
	return buf.Bytes(), nil
}

// ContentType returns the MIME type matching the extension of name.
func ContentType(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".png":
		return "image/png"
	case ".bmp":
		return "image/bmp"
	}
	return "image/jpeg"
}
