// Package imop implements the Porter-Duff composition operations used to lay
// the translucent overlay band over a captured frame.
//
// The image/draw core package only implements source-over and source, and it
// does not support separable blend modes; both are needed to style the band.
package imop

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/geostamp/geostamp/utils"
)

const (
	Copy    = "copy"
	SrcOver = "src_over"
	DstOver = "dst_over"
	SrcAtop = "src_atop"
	DstOut  = "dst_out"
	Xor     = "xor"
)

// Ops lists the supported composition operations.
var Ops = []string{Copy, SrcOver, DstOver, SrcAtop, DstOut, Xor}

// Composite holds the currently active composition operation.
type Composite struct {
	current string
}

// InitOp returns a Composite using source-over.
func InitOp() *Composite {
	return &Composite{current: SrcOver}
}

// Set activates a composition operation.
func (op *Composite) Set(cop string) error {
	if !utils.Contains(Ops, cop) {
		return fmt.Errorf("unsupported composite operation %q", cop)
	}
	op.current = cop
	return nil
}

// Get returns the active composition operation.
func (op *Composite) Get() string {
	return op.current
}

// Fill composes the uniform source color over the rect region of dst in place.
// When blend is not nil the source color is first mixed with the backdrop
// using the blend mode.
func (op *Composite) Fill(dst *image.NRGBA, rect image.Rectangle, src color.NRGBA, blend *Blend) {
	rect = rect.Intersect(dst.Bounds())
	if rect.Empty() {
		return
	}

	as := float64(src.A) / 255
	rs, gs, bs := float64(src.R)/255, float64(src.G)/255, float64(src.B)/255

	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		i := dst.PixOffset(rect.Min.X, y)
		for x := rect.Min.X; x < rect.Max.X; x++ {
			pix := dst.Pix[i : i+4 : i+4]
			ab := float64(pix[3]) / 255
			rb, gb, bb := float64(pix[0])/255, float64(pix[1])/255, float64(pix[2])/255

			r, g, b := rs, gs, bs
			if blend != nil {
				r = (1-ab)*rs + ab*blend.mix(rb, rs)
				g = (1-ab)*gs + ab*blend.mix(gb, gs)
				b = (1-ab)*bs + ab*blend.mix(bb, bs)
			}

			fa, fb := op.factors(as, ab)
			ao := as*fa + ab*fb
			if ao <= 0 {
				pix[0], pix[1], pix[2], pix[3] = 0, 0, 0, 0
				i += 4
				continue
			}
			pix[0] = toByte((as*fa*r + ab*fb*rb) / ao)
			pix[1] = toByte((as*fa*g + ab*fb*gb) / ao)
			pix[2] = toByte((as*fa*b + ab*fb*bb) / ao)
			pix[3] = toByte(ao)
			i += 4
		}
	}
}

// factors returns the Porter-Duff Fa and Fb coefficients.
func (op *Composite) factors(as, ab float64) (float64, float64) {
	switch op.current {
	case Copy:
		return 1, 0
	case DstOver:
		return 1 - ab, 1
	case SrcAtop:
		return ab, 1 - as
	case DstOut:
		return 0, 1 - as
	case Xor:
		return 1 - ab, 1 - as
	}
	return 1, 1 - as
}

func toByte(v float64) uint8 {
	return uint8(math.Round(utils.Clamp(v, 0, 1) * 255))
}
