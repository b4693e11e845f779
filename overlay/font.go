package overlay

import (
	"fmt"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

var (
	fontOnce    sync.Once
	regularFont *opentype.Font
	boldFont    *opentype.Font
	fontErr     error
)

// loadFonts parses the embedded Go fonts once.
func loadFonts() (regular, bold *opentype.Font, err error) {
	fontOnce.Do(func() {
		regularFont, fontErr = opentype.Parse(goregular.TTF)
		if fontErr != nil {
			fontErr = fmt.Errorf("parse regular font: %w", fontErr)
			return
		}
		boldFont, fontErr = opentype.Parse(gobold.TTF)
		if fontErr != nil {
			fontErr = fmt.Errorf("parse bold font: %w", fontErr)
		}
	})
	return regularFont, boldFont, fontErr
}

// faceSet holds one font face per tier. It implements Measurer.
type faceSet struct {
	faces map[Tier]font.Face
}

func newFaceSet(m Metrics) (*faceSet, error) {
	regular, bold, err := loadFonts()
	if err != nil {
		return nil, err
	}

	fs := &faceSet{faces: make(map[Tier]font.Face, 3)}
	for _, tier := range []Tier{TierTitle, TierBody, TierSmall} {
		f := regular
		if tier == TierTitle {
			f = bold
		}
		face, err := opentype.NewFace(f, &opentype.FaceOptions{
			Size:    m.Size(tier),
			DPI:     72,
			Hinting: font.HintingFull,
		})
		if err != nil {
			fs.Close()
			return nil, fmt.Errorf("create %s font face: %w", tier, err)
		}
		fs.faces[tier] = face
	}
	return fs, nil
}

func (fs *faceSet) face(t Tier) font.Face {
	if f, ok := fs.faces[t]; ok {
		return f
	}
	return fs.faces[TierBody]
}

// Measure returns the advance width of s in pixels.
func (fs *faceSet) Measure(t Tier, s string) float64 {
	return float64(font.MeasureString(fs.face(t), s)) / 64
}

// Close releases the faces.
func (fs *faceSet) Close() {
	for _, f := range fs.faces {
		f.Close()
	}
}
