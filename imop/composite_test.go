package imop

import (
	"image"
	"image/color"
	"image/draw"
	"testing"

	"github.com/stretchr/testify/assert"
)

func whiteCanvas(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), &image.Uniform{color.White}, image.Point{}, draw.Src)
	return img
}

func TestComp_Basic(t *testing.T) {
	assert := assert.New(t)

	op := InitOp()
	assert.Equal(SrcOver, op.Get())

	assert.NoError(op.Set(Xor))
	assert.Equal(Xor, op.Get())
	assert.Error(op.Set("unsupported_composite_operation"))
	assert.Equal(Xor, op.Get())
}

func TestComp_SrcOverTranslucentBand(t *testing.T) {
	assert := assert.New(t)

	img := whiteCanvas(10, 10)
	band := image.Rect(0, 6, 10, 10)
	InitOp().Fill(img, band, color.NRGBA{A: 191}, nil)

	// 255 * (1 - 191/255) = 64
	assert.Equal(color.NRGBA{R: 64, G: 64, B: 64, A: 255}, img.NRGBAAt(5, 8))
	assert.Equal(color.NRGBA{R: 255, G: 255, B: 255, A: 255}, img.NRGBAAt(5, 5), "pixels above the band are untouched")
}

func TestComp_FillClipsToBounds(t *testing.T) {
	img := whiteCanvas(4, 4)
	InitOp().Fill(img, image.Rect(-10, 2, 20, 30), color.NRGBA{A: 255}, nil)

	assert.Equal(t, color.NRGBA{A: 255}, img.NRGBAAt(0, 3))
	assert.Equal(t, color.NRGBA{R: 255, G: 255, B: 255, A: 255}, img.NRGBAAt(0, 1))
}

func TestComp_Ops(t *testing.T) {
	cyan := color.NRGBA{R: 33, G: 150, B: 243, A: 255}
	magenta := color.NRGBA{R: 233, G: 30, B: 99, A: 255}

	tests := []struct {
		op   string
		want color.NRGBA
	}{
		{Copy, cyan},
		{SrcOver, cyan},
		{DstOver, magenta},
		{SrcAtop, cyan},
		{DstOut, color.NRGBA{}},
		{Xor, color.NRGBA{}},
	}

	for _, tt := range tests {
		t.Run(tt.op, func(t *testing.T) {
			img := image.NewNRGBA(image.Rect(0, 0, 1, 1))
			img.SetNRGBA(0, 0, magenta)

			op := InitOp()
			assert.NoError(t, op.Set(tt.op))
			op.Fill(img, img.Bounds(), cyan, nil)
			assert.Equal(t, tt.want, img.NRGBAAt(0, 0))
		})
	}
}
