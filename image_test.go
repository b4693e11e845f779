package geostamp

import (
	"bytes"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestImage_EncodeByExtension(t *testing.T) {
	img := grayFrame(10, 10)

	path := filepath.Join(t.TempDir(), "out.png")
	f, err := os.Create(path)
	assert.NoError(t, err)
	assert.NoError(t, encodeImg(f, img))
	assert.NoError(t, f.Close())

	data, err := os.ReadFile(path)
	assert.NoError(t, err)
	_, err = png.Decode(bytes.NewReader(data))
	assert.NoError(t, err)

	var buf bytes.Buffer
	assert.NoError(t, encodeImg(&buf, img))
	_, format, err := image.DecodeConfig(&buf)
	assert.NoError(t, err)
	assert.Equal(t, "jpeg", format)
}

func TestImage_Resize(t *testing.T) {
	p := &Processor{}
	img := grayFrame(300, 600)
	assert.Same(t, img, Resize(p, img))

	p.MaxSize = 150
	assert.Equal(t, image.Rect(0, 0, 75, 150), Resize(p, img).Bounds())
}
