// Package overlay composites capture metadata onto a frame.
//
// The metadata is drawn as rows of text over a translucent band anchored to
// the bottom edge. Font sizes and padding scale with the frame width, the
// band grows with the number of wrapped rows so that the last row is never
// clipped.
package overlay

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/disintegration/imaging"
	"github.com/geostamp/geostamp/imop"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

var (
	// DefaultBandColor is black at 75% opacity.
	DefaultBandColor = color.NRGBA{A: 191}
	// DefaultTextColor is opaque white.
	DefaultTextColor = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
)

// Compositor draws an overlay Spec onto frames.
type Compositor struct {
	BandColor color.NRGBA
	TextColor color.NRGBA
	// Blend is one of the imop blend modes; empty means normal.
	Blend string
	// Composite is the imop operation laying the band over the frame;
	// empty means source-over.
	Composite string
	// BlurSigma, when positive, blurs the frame under the band before it is filled.
	BlurSigma float64
}

// NewCompositor returns a compositor with the default band styling.
func NewCompositor() *Compositor {
	return &Compositor{
		BandColor: DefaultBandColor,
		TextColor: DefaultTextColor,
		Blend:     imop.Normal,
		Composite: imop.SrcOver,
	}
}

// Compose returns a copy of frame with spec rendered over the band.
// The source frame is left unchanged.
func (c *Compositor) Compose(frame image.Image, spec Spec) (*image.NRGBA, error) {
	if frame == nil {
		return nil, errors.New("nil frame")
	}
	if frame.Bounds().Empty() {
		return nil, fmt.Errorf("empty frame %v", frame.Bounds())
	}

	dst := imaging.Clone(frame)
	bounds := dst.Bounds()

	faces, err := newFaceSet(NewMetrics(bounds.Dx()))
	if err != nil {
		return nil, err
	}
	defer faces.Close()

	layout := NewLayout(bounds, spec, faces)
	if err := c.drawBand(dst, layout.Band); err != nil {
		return nil, err
	}

	src := image.NewUniform(c.TextColor)
	for _, row := range layout.Rows {
		d := &font.Drawer{
			Dst:  dst,
			Src:  src,
			Face: faces.face(row.Tier),
			Dot:  fixed.P(row.X, row.Baseline),
		}
		d.DrawString(row.Text)
	}
	return dst, nil
}

// drawBand blurs (optionally) and fills the band region of dst.
func (c *Compositor) drawBand(dst *image.NRGBA, band image.Rectangle) error {
	region := band.Intersect(dst.Bounds())
	if region.Empty() {
		return nil
	}

	if c.BlurSigma > 0 {
		blurred := imaging.Blur(imaging.Crop(dst, region), c.BlurSigma)
		draw.Draw(dst, region, blurred, image.Point{}, draw.Src)
	}

	var blend *imop.Blend
	if c.Blend != "" && c.Blend != imop.Normal {
		blend = imop.NewBlend()
		if err := blend.Set(c.Blend); err != nil {
			return err
		}
	}
	op := imop.InitOp()
	if c.Composite != "" {
		if err := op.Set(c.Composite); err != nil {
			return err
		}
	}
	op.Fill(dst, region, c.BandColor, blend)
	return nil
}
