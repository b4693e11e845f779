package overlay

import (
	"fmt"
	"strings"
	"time"

	"github.com/geostamp/geostamp/geocode"
	"github.com/geostamp/geostamp/location"
)

// Tier selects the font size a line is rendered with.
type Tier int

const (
	TierTitle Tier = iota
	TierBody
	TierSmall
)

func (t Tier) String() string {
	switch t {
	case TierTitle:
		return "title"
	case TierBody:
		return "body"
	case TierSmall:
		return "small"
	}
	return fmt.Sprintf("Tier(%d)", int(t))
}

// TitlePlaceholder is the title used when no address is known.
const TitlePlaceholder = "Location"

// Line is a single logical line of metadata, before wrapping.
type Line struct {
	Text string
	Tier Tier
}

// Spec is the ordered list of lines drawn on the band.
type Spec struct {
	Lines []Line
}

// Texts returns the text of every line in order.
func (s Spec) Texts() []string {
	texts := make([]string, len(s.Lines))
	for i, l := range s.Lines {
		texts[i] = l.Text
	}
	return texts
}

// BuildSpec lays out the metadata lines for a capture taken at now.
// A nil fix renders placeholder coordinates; an empty or fallback address
// renders the placeholder title.
func BuildSpec(fix *location.Fix, address string, now time.Time) Spec {
	address = strings.TrimSpace(address)

	title := TitlePlaceholder
	if address != "" && address != geocode.Unavailable && address != geocode.Unknown {
		if head := strings.TrimSpace(strings.SplitN(address, ",", 2)[0]); head != "" {
			title = head
		}
	}
	if address == "" {
		address = geocode.Unavailable
	}

	coords := "Lat: -  |  Lng: -"
	accuracy := "GPS Accuracy: -"
	if fix != nil {
		coords = fmt.Sprintf("Lat: %.6f  |  Lng: %.6f", fix.Latitude, fix.Longitude)
		accuracy = fmt.Sprintf("GPS Accuracy: ±%.2f meters", fix.AccuracyMeters)
	}

	return Spec{Lines: []Line{
		{Text: title, Tier: TierTitle},
		{Text: address, Tier: TierBody},
		{Text: coords, Tier: TierBody},
		{Text: accuracy, Tier: TierSmall},
		{Text: "SECURE-TIME: " + now.Format("15:04:05"), Tier: TierSmall},
		{Text: "Date: " + now.Format("Mon Jan 02 2006 15:04:05 GMT-0700"), Tier: TierSmall},
	}}
}
