package overlay

import (
	"image"
	"math"
	"strings"

	"github.com/geostamp/geostamp/utils"
)

const (
	paddingRatio = 0.04
	minPadding   = 8.0
	maxPadding   = 160.0

	titleRatio = 0.04
	maxTitle   = 70.0
	bodyRatio  = 0.028
	maxBody    = 45.0
	smallRatio = 0.025
	maxSmall   = 38.0

	// lineGap is added to the body size to get the line height.
	lineGap = 12.0
	// bandSlack is the fixed extra height of the band.
	bandSlack = 20.0
)

// Metrics holds the resolution dependent sizes, in pixels.
type Metrics struct {
	Padding    float64
	TitleSize  float64
	BodySize   float64
	SmallSize  float64
	LineHeight float64
	Slack      float64
}

// NewMetrics derives the metrics for a frame of the given width.
// Every size grows with the width and is capped so very large frames stay legible.
func NewMetrics(width int) Metrics {
	w := float64(width)
	body := math.Min(w*bodyRatio, maxBody)
	return Metrics{
		Padding:    utils.Clamp(w*paddingRatio, minPadding, maxPadding),
		TitleSize:  math.Min(w*titleRatio, maxTitle),
		BodySize:   body,
		SmallSize:  math.Min(w*smallRatio, maxSmall),
		LineHeight: body + lineGap,
		Slack:      bandSlack,
	}
}

// Size returns the font size of a tier.
func (m Metrics) Size(t Tier) float64 {
	switch t {
	case TierTitle:
		return m.TitleSize
	case TierSmall:
		return m.SmallSize
	}
	return m.BodySize
}

// BandHeight is the band height needed to fit rows rendered rows.
func (m Metrics) BandHeight(rows int) float64 {
	return m.Padding*2 + m.LineHeight*float64(rows) + m.Slack
}

// Wrap breaks text greedily so that no line is wider than maxWidth.
// Words are appended with a trailing space; the current line is flushed
// right before a word that would strictly exceed maxWidth. A word wider
// than maxWidth on its own still gets a line of its own.
func Wrap(text string, maxWidth float64, measure func(string) float64) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	var (
		lines []string
		line  string
	)
	for _, word := range words {
		candidate := line + word + " "
		if line != "" && measure(candidate) > maxWidth {
			lines = append(lines, strings.TrimRight(line, " "))
			line = word + " "
			continue
		}
		line = candidate
	}
	return append(lines, strings.TrimRight(line, " "))
}

// Measurer reports the rendered width of s at the size of tier t.
type Measurer interface {
	Measure(t Tier, s string) float64
}

// Row is one rendered line of text.
type Row struct {
	Text     string
	Tier     Tier
	X        int
	Baseline int
}

// Layout is the geometry of an overlay on a frame.
type Layout struct {
	Metrics Metrics
	Band    image.Rectangle
	Rows    []Row
}

// NewLayout wraps every line of spec to the frame width and positions the
// band and the rows inside bounds.
func NewLayout(bounds image.Rectangle, spec Spec, m Measurer) Layout {
	metrics := NewMetrics(bounds.Dx())
	maxWidth := float64(bounds.Dx()) - 2*metrics.Padding

	var rows []Row
	for _, line := range spec.Lines {
		tier := line.Tier
		for _, text := range Wrap(line.Text, maxWidth, func(s string) float64 {
			return m.Measure(tier, s)
		}) {
			rows = append(rows, Row{Text: text, Tier: tier})
		}
	}

	height := int(math.Ceil(metrics.BandHeight(len(rows))))
	band := image.Rect(bounds.Min.X, bounds.Max.Y-height, bounds.Max.X, bounds.Max.Y)

	x := bounds.Min.X + int(math.Round(metrics.Padding))
	y := float64(band.Min.Y) + metrics.Padding + metrics.TitleSize
	for i := range rows {
		rows[i].X = x
		rows[i].Baseline = int(math.Round(y))
		y += metrics.LineHeight
	}

	return Layout{Metrics: metrics, Band: band, Rows: rows}
}
