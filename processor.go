package geostamp

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"log"
	"sync"
	"time"

	"github.com/geostamp/geostamp/camera"
	"github.com/geostamp/geostamp/export"
	"github.com/geostamp/geostamp/geocode"
	"github.com/geostamp/geostamp/location"
	"github.com/geostamp/geostamp/overlay"
	"github.com/geostamp/geostamp/utils"
)

// Processor options
type Processor struct {
	Provider   location.Provider
	Geocoder   geocode.Geocoder
	Compositor *overlay.Compositor
	Namer      *export.Namer
	Sink       export.Sink
	Spinner    *utils.Spinner

	// LocateTimeout bounds a single position request.
	LocateTimeout time.Duration
	// GeocodeTimeout bounds a single reverse geocode lookup.
	GeocodeTimeout time.Duration
	HighAccuracy   bool
	MaximumAge     time.Duration
	// MaxSize, when positive, downscales frames so that neither side exceeds it.
	MaxSize int
	Debug   bool

	// Now is the capture clock; nil means time.Now.
	Now func() time.Time

	namerOnce sync.Once
}

func (p *Processor) now() time.Time {
	if p.Now != nil {
		return p.Now()
	}
	return time.Now()
}

func (p *Processor) request() location.Request {
	return location.Request{
		HighAccuracy: p.HighAccuracy,
		Timeout:      p.LocateTimeout,
		MaximumAge:   p.MaximumAge,
	}
}

// Locate requests a fresh fix and advances s to Located or LocationFailed.
// A failed fix is not an error: captures continue with placeholder values.
func (p *Processor) Locate(ctx context.Context, s Session) Session {
	s = s.Locating()
	fix, err := location.Locate(ctx, p.Provider, p.request())
	if err != nil {
		if p.Debug {
			log.Printf("location: %v", err)
		}
		return s.LocationFailed(err)
	}
	return s.Located(fix)
}

// Capture runs a full capture against src: a fresh fix, one frame, the
// overlay and the export. The returned session reflects where it ended.
// A nil source aborts right away, before any position is requested.
func (p *Processor) Capture(ctx context.Context, src camera.Source) (Session, error) {
	if src == nil {
		return NewSession().CaptureFailed(camera.ErrNotReady), camera.ErrNotReady
	}
	return p.Shoot(ctx, p.Locate(ctx, NewSession()), src)
}

// Shoot captures a frame from src using the fix already held by s.
func (p *Processor) Shoot(ctx context.Context, s Session, src camera.Source) (Session, error) {
	s = s.Capturing()
	if src == nil {
		return s.CaptureFailed(camera.ErrNotReady), camera.ErrNotReady
	}

	frame, err := src.Frame(ctx)
	if err != nil {
		return s.CaptureFailed(err), err
	}

	s = s.Geocoded(p.address(ctx, s.Fix))
	img, err := p.Stamp(frame, s.Fix, s.Address)
	if err != nil {
		return s.CaptureFailed(err), err
	}

	if p.Sink == nil {
		err := errors.New("no export sink configured")
		return s.CaptureFailed(err), err
	}
	name := p.namer().Next()
	data, err := export.EncodeFile(name, img)
	if err != nil {
		return s.CaptureFailed(err), err
	}
	art, err := p.Sink.Save(ctx, name, data)
	if err != nil {
		return s.CaptureFailed(err), err
	}
	return s.Exported(art), nil
}

// Stamp renders the overlay for fix and address onto a copy of frame.
func (p *Processor) Stamp(frame image.Image, fix *location.Fix, address string) (*image.NRGBA, error) {
	if frame == nil {
		return nil, camera.ErrNotReady
	}
	frame = Resize(p, frame)

	c := p.Compositor
	if c == nil {
		c = overlay.NewCompositor()
	}
	img, err := c.Compose(frame, overlay.BuildSpec(fix, address, p.now()))
	if err != nil {
		return nil, fmt.Errorf("compose overlay: %w", err)
	}
	return img, nil
}

// Process stamps the image read from r and writes it as JPEG to w.
// A fresh fix is requested for every call.
func (p *Processor) Process(r io.Reader, w io.Writer) error {
	ctx := context.Background()
	s := p.Locate(ctx, NewSession())

	frame, err := camera.ReaderSource{R: r}.Frame(ctx)
	if err != nil {
		return err
	}
	img, err := p.Stamp(frame, s.Fix, p.address(ctx, s.Fix))
	if err != nil {
		return err
	}
	return encodeImg(w, img)
}

// address resolves the display address of fix, falling back to the
// placeholder strings on any failure.
func (p *Processor) address(ctx context.Context, fix *location.Fix) string {
	if fix == nil {
		return geocode.Unavailable
	}
	if p.GeocodeTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.GeocodeTimeout)
		defer cancel()
	}
	return geocode.Address(ctx, p.Geocoder, fix.Coordinate)
}

// namer returns p.Namer, creating the default one on first use.
// It is safe for concurrent captures.
func (p *Processor) namer() *export.Namer {
	p.namerOnce.Do(func() {
		if p.Namer == nil {
			p.Namer = export.NewNamer(export.DefaultPrefix)
		}
	})
	return p.Namer
}
