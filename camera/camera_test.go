package camera

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.NRGBA{G: 255, A: 255})

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestReaderSource(t *testing.T) {
	img, err := ReaderSource{R: bytes.NewReader(pngBytes(t, 6, 4))}.Frame(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 6, 4), img.Bounds())

	_, err = ReaderSource{R: strings.NewReader("not an image")}.Frame(context.Background())
	assert.ErrorIs(t, err, ErrNotReady)

	_, err = ReaderSource{}.Frame(context.Background())
	assert.ErrorIs(t, err, ErrNotReady)
}

func TestFileSource_Local(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "frame.png")
	assert.NoError(t, os.WriteFile(path, pngBytes(t, 10, 5), 0o644))

	img, err := FileSource{Path: path}.Frame(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, 10, img.Bounds().Dx())

	text := filepath.Join(dir, "notes.txt")
	assert.NoError(t, os.WriteFile(text, []byte("hello there, not a picture"), 0o644))
	_, err = FileSource{Path: text}.Frame(context.Background())
	assert.ErrorIs(t, err, ErrNotReady)

	_, err = FileSource{Path: filepath.Join(dir, "missing.jpg")}.Frame(context.Background())
	assert.ErrorIs(t, err, ErrNotReady)
}

func TestFileSource_URL(t *testing.T) {
	data := pngBytes(t, 3, 3)
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/frame.png" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		w.Write(data)
	}))
	defer ts.Close()

	img, err := FileSource{Path: ts.URL + "/frame.png"}.Frame(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 3, 3), img.Bounds())

	_, err = FileSource{Path: ts.URL + "/gone.png"}.Frame(context.Background())
	assert.ErrorIs(t, err, ErrNotReady)
}

func TestStill(t *testing.T) {
	frame := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	got, err := Still{Image: frame}.Frame(context.Background())
	assert.NoError(t, err)
	assert.Same(t, frame, got)

	_, err = Still{}.Frame(context.Background())
	assert.ErrorIs(t, err, ErrNotReady)

	_, err = Still{Image: image.NewNRGBA(image.Rectangle{})}.Frame(context.Background())
	assert.ErrorIs(t, err, ErrNotReady)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = Still{Image: frame}.Frame(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
