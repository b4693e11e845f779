package overlay

import (
	"image"
	"image/color"
	"image/draw"
	"strings"
	"testing"
	"time"

	"github.com/geostamp/geostamp/geocode"
	"github.com/geostamp/geostamp/imop"
	"github.com/geostamp/geostamp/location"
	"github.com/stretchr/testify/assert"
)

var captureTime = time.Date(2024, 3, 14, 9, 26, 53, 0, time.UTC)

func whiteFrame(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), &image.Uniform{color.White}, image.Point{}, draw.Src)
	return img
}

func TestBuildSpec_WithFixAndAddress(t *testing.T) {
	assert := assert.New(t)

	fix := &location.Fix{Coordinate: location.Coordinate{Latitude: 37.422, Longitude: -122.084, AccuracyMeters: 5.0}}
	spec := BuildSpec(fix, "1600 Amphitheatre Parkway, Mountain View, CA", captureTime)

	texts := spec.Texts()
	assert.Equal("1600 Amphitheatre Parkway", texts[0])
	assert.Equal(TierTitle, spec.Lines[0].Tier)
	assert.Equal("1600 Amphitheatre Parkway, Mountain View, CA", texts[1])

	found := false
	for _, text := range texts {
		if strings.Contains(text, "37.422000") && strings.Contains(text, "-122.084000") {
			found = true
		}
	}
	assert.True(found, "a line should carry both coordinates with six decimals")
	assert.Contains(texts, "GPS Accuracy: ±5.00 meters")
	assert.Contains(texts, "SECURE-TIME: 09:26:53")
}

func TestBuildSpec_Placeholders(t *testing.T) {
	assert := assert.New(t)

	spec := BuildSpec(nil, "", captureTime)
	texts := spec.Texts()
	assert.Equal(TitlePlaceholder, texts[0])
	assert.Equal(geocode.Unavailable, texts[1])
	assert.Equal("Lat: -  |  Lng: -", texts[2])
	assert.Equal("GPS Accuracy: -", texts[3])

	spec = BuildSpec(nil, geocode.Unavailable, captureTime)
	assert.Equal(TitlePlaceholder, spec.Lines[0].Text)
	assert.Equal(geocode.Unavailable, spec.Lines[1].Text)

	spec = BuildSpec(nil, geocode.Unknown, captureTime)
	assert.Equal(TitlePlaceholder, spec.Lines[0].Text)
	assert.Equal(geocode.Unknown, spec.Lines[1].Text)
}

func TestCompose_DrawsBandAndLeavesSourceIntact(t *testing.T) {
	assert := assert.New(t)

	frame := whiteFrame(400, 300)
	fix := &location.Fix{Coordinate: location.Coordinate{Latitude: 45.07, Longitude: 7.68, AccuracyMeters: 12}}
	spec := BuildSpec(fix, "Via Roma 1, Torino, Piemonte, Italia", captureTime)

	out, err := NewCompositor().Compose(frame, spec)
	assert.NoError(err)
	assert.Equal(frame.Bounds(), out.Bounds())

	// bottom-left corner is inside the band but outside the text column
	assert.Equal(color.NRGBA{R: 64, G: 64, B: 64, A: 255}, out.NRGBAAt(1, 298))
	assert.Equal(color.NRGBA{R: 255, G: 255, B: 255, A: 255}, out.NRGBAAt(1, 1))
	assert.Equal(color.NRGBA{R: 255, G: 255, B: 255, A: 255}, frame.NRGBAAt(1, 298))

	// some text pixels were drawn in white over the band
	l := NewLayout(out.Bounds(), spec, charMeasurer{width: 1})
	bright := 0
	for y := l.Band.Min.Y; y < out.Bounds().Max.Y; y++ {
		for x := 0; x < out.Bounds().Max.X; x++ {
			if out.NRGBAAt(x, y).R > 200 {
				bright++
			}
		}
	}
	assert.Greater(bright, 0)
}

func TestCompose_NoLines(t *testing.T) {
	out, err := NewCompositor().Compose(whiteFrame(320, 240), Spec{})
	assert.NoError(t, err)

	m := NewMetrics(320)
	minBand := int(2*m.Padding + m.Slack)
	assert.Equal(t, color.NRGBA{R: 64, G: 64, B: 64, A: 255}, out.NRGBAAt(10, 240-minBand))
}

func TestCompose_Styles(t *testing.T) {
	c := NewCompositor()
	c.Blend = imop.Multiply
	c.BlurSigma = 2
	c.BandColor = color.NRGBA{R: 30, G: 60, B: 90, A: 255}

	out, err := c.Compose(whiteFrame(200, 200), Spec{})
	assert.NoError(t, err)
	// multiply over white keeps the band color
	assert.Equal(t, color.NRGBA{R: 30, G: 60, B: 90, A: 255}, out.NRGBAAt(1, 199))

	c.Blend = "bogus"
	_, err = c.Compose(whiteFrame(200, 200), Spec{})
	assert.Error(t, err)
}

func TestCompose_InvalidFrame(t *testing.T) {
	_, err := NewCompositor().Compose(nil, Spec{})
	assert.Error(t, err)

	_, err = NewCompositor().Compose(image.NewNRGBA(image.Rectangle{}), Spec{})
	assert.Error(t, err)
}

func TestCompose_CompositeOps(t *testing.T) {
	tests := []struct {
		op   string
		want color.NRGBA
	}{
		{imop.SrcOver, color.NRGBA{R: 64, G: 64, B: 64, A: 255}},
		{imop.Copy, color.NRGBA{A: 191}},
		// an opaque frame hides the band entirely
		{imop.DstOver, color.NRGBA{R: 255, G: 255, B: 255, A: 255}},
		{imop.SrcAtop, color.NRGBA{R: 64, G: 64, B: 64, A: 255}},
	}

	for _, tt := range tests {
		t.Run(tt.op, func(t *testing.T) {
			c := NewCompositor()
			c.Composite = tt.op

			out, err := c.Compose(whiteFrame(200, 200), Spec{})
			assert.NoError(t, err)
			assert.Equal(t, tt.want, out.NRGBAAt(1, 199))
		})
	}

	c := NewCompositor()
	c.Composite = "bogus"
	_, err := c.Compose(whiteFrame(200, 200), Spec{})
	assert.Error(t, err)
}
