package imop

import (
	"fmt"

	"github.com/geostamp/geostamp/utils"
)

const (
	Normal   = "normal"
	Darken   = "darken"
	Lighten  = "lighten"
	Multiply = "multiply"
	Screen   = "screen"
	Overlay  = "overlay"
)

// BlendModes lists the supported separable blend modes.
var BlendModes = []string{Normal, Darken, Lighten, Multiply, Screen, Overlay}

// Blend holds the currently active blend mode.
type Blend struct {
	Mode string
}

// NewBlend initializes a new Blend using the normal mode.
func NewBlend() *Blend {
	return &Blend{Mode: Normal}
}

// Set activates one of the supported blend modes.
func (b *Blend) Set(mode string) error {
	if !utils.Contains(BlendModes, mode) {
		return fmt.Errorf("unsupported blend mode %q", mode)
	}
	b.Mode = mode
	return nil
}

// Get returns the currently active blend mode.
func (b *Blend) Get() string {
	if b == nil || len(b.Mode) == 0 {
		return Normal
	}
	return b.Mode
}

// mix applies the blend function to a backdrop channel cb and source channel cs,
// both normalized to [0, 1].
func (b *Blend) mix(cb, cs float64) float64 {
	switch b.Get() {
	case Darken:
		return utils.Min(cb, cs)
	case Lighten:
		return utils.Max(cb, cs)
	case Multiply:
		return cb * cs
	case Screen:
		return cb + cs - cb*cs
	case Overlay:
		// overlay is hard-light with the layers swapped
		if cb <= 0.5 {
			return 2 * cs * cb
		}
		return 1 - 2*(1-cs)*(1-cb)
	}
	return cs
}
