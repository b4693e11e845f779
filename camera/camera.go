// Package camera produces still frames for a capture.
package camera

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"os"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/geostamp/geostamp/utils"
	"golang.org/x/term"
)

// ErrNotReady means no frame could be produced. A capture that hits it
// aborts before anything is exported.
var ErrNotReady = errors.New("camera not ready")

// PipeName is the source name that reads the frame from stdin.
const PipeName = "-"

// Source produces one frame per call.
type Source interface {
	Frame(ctx context.Context) (image.Image, error)
}

// Still is a Source that always returns the same frame.
type Still struct {
	Image image.Image
}

// Frame returns the stored frame, or ErrNotReady when there is none.
func (s Still) Frame(ctx context.Context) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.Image == nil || s.Image.Bounds().Empty() {
		return nil, ErrNotReady
	}
	return s.Image, nil
}

// ReaderSource decodes a single frame from R.
type ReaderSource struct {
	R io.Reader
}

// Frame decodes the frame, honouring the EXIF orientation tag.
func (s ReaderSource) Frame(ctx context.Context) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.R == nil {
		return nil, ErrNotReady
	}
	return decode(s.R)
}

// FileSource reads the frame from a local file, a URL or stdin.
type FileSource struct {
	Path string
}

// Frame loads and decodes the frame at Path.
func (s FileSource) Frame(ctx context.Context) (image.Image, error) {
	switch {
	case utils.IsValidUrl(s.Path):
		f, err := utils.DownloadImage(ctx, s.Path)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrNotReady, err)
		}
		defer os.Remove(f.Name())
		defer f.Close()
		return decode(f)

	case s.Path == PipeName:
		if term.IsTerminal(int(os.Stdin.Fd())) {
			return nil, fmt.Errorf("%w: `-` should be used with a pipe for stdin", ErrNotReady)
		}
		return decode(os.Stdin)
	}

	ctype, err := utils.DetectContentType(s.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotReady, err)
	}
	if !strings.Contains(ctype, "image") {
		return nil, fmt.Errorf("%w: %s is not an image (%s)", ErrNotReady, s.Path, ctype)
	}

	f, err := os.Open(s.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotReady, err)
	}
	defer f.Close()
	return decode(f)
}

func decode(r io.Reader) (image.Image, error) {
	img, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: could not decode the frame: %v", ErrNotReady, err)
	}
	if img.Bounds().Empty() {
		return nil, fmt.Errorf("%w: empty frame", ErrNotReady)
	}
	return img, nil
}
