package geostamp

import (
	"image"
	"io"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
	"github.com/geostamp/geostamp/export"
)

// encodeImg encodes an image to a destination of type io.Writer.
// Files are encoded by their extension; any other writer gets a JPEG.
func encodeImg(w io.Writer, img image.Image) error {
	switch w := w.(type) {
	case *os.File:
		if w == os.Stdout {
			return export.Encode(w, img, ".jpg")
		}
		return export.Encode(w, img, filepath.Ext(w.Name()))
	default:
		return export.Encode(w, img, ".jpg")
	}
}

// Resize downscales img so that it fits into a MaxSize square,
// keeping the aspect ratio. Smaller images are returned unchanged.
func Resize(p *Processor, img image.Image) image.Image {
	if p.MaxSize <= 0 {
		return img
	}
	b := img.Bounds()
	if b.Dx() <= p.MaxSize && b.Dy() <= p.MaxSize {
		return img
	}
	return imaging.Fit(img, p.MaxSize, p.MaxSize, imaging.Lanczos)
}
